package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	qr "github.com/Badsnus/qrlabels/pkg/qrcode"
	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid QR code id")

// QRCode regenerates QR images into the local asset directory. Files are
// named <uuid>.png so label entries can reference them by file name.
type QRCode struct {
	Cfg       qr.Config
	OutputDir string
}

func NewQrCode(cfg qr.Config, outputDir string) *QRCode {
	if !filepath.IsAbs(outputDir) {
		wd, _ := os.Getwd()
		outputDir = filepath.Join(wd, outputDir)
	}

	return &QRCode{
		Cfg:       cfg,
		OutputDir: outputDir,
	}
}

// Generate renders content and stores it. It returns the file id and the
// image reference usable as a label entry image.
func (q *QRCode) Generate(content string) (string, string, error) {
	cfg := q.Cfg
	cfg.Content = content
	data, err := cfg.Generate()
	if err != nil {
		return "", "", err
	}

	if err = q.ensureOutputDir(); err != nil {
		return "", "", err
	}

	id := uuid.New().String()
	ref := id + ".png"
	if err = os.WriteFile(filepath.Join(q.OutputDir, ref), data, 0644); err != nil {
		return "", "", err
	}

	return id, ref, nil
}

func (q *QRCode) ensureOutputDir() error {
	if _, err := os.Stat(q.OutputDir); os.IsNotExist(err) {
		err = os.MkdirAll(q.OutputDir, os.ModePerm)
		if err != nil {
			return fmt.Errorf("failed to create output directory: %v", err)
		}
	}
	return nil
}

// Delete removes a generated file by id.
func (q *QRCode) Delete(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	err := os.Remove(filepath.Join(q.OutputDir, id+".png"))
	if err != nil {
		return fmt.Errorf("failed to delete QR code file: %w", err)
	}
	return nil
}
