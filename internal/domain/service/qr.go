package service

import (
	"context"
	"strings"

	"github.com/Badsnus/qrlabels/pkg/logger/types"
	qr "github.com/Badsnus/qrlabels/pkg/qrcode"
)

type qrGenerator interface {
	Generate(content string) (string, string, error)
	Delete(id string) error
}

// QRFile is a regenerated QR image in the asset directory. Image can be used
// as a label entry image reference.
type QRFile struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

type QrService struct {
	generator qrGenerator
	log       *types.Logger
}

func NewQrService(generator qrGenerator, log *types.Logger) *QrService {
	return &QrService{
		generator: generator,
		log:       log,
	}
}

// Regenerate renders content into a new file in the asset directory.
func (s *QrService) Regenerate(_ context.Context, content string) (QRFile, error) {
	if strings.TrimSpace(content) == "" {
		return QRFile{}, qr.ErrEmptyContent
	}
	id, ref, err := s.generator.Generate(content)
	if err != nil {
		return QRFile{}, err
	}
	s.log.Infof("regenerated qr %s", id)
	return QRFile{ID: id, Image: ref}, nil
}

func (s *QrService) Delete(_ context.Context, id string) error {
	if err := s.generator.Delete(id); err != nil {
		return err
	}
	s.log.Infof("deleted qr %s", id)
	return nil
}
