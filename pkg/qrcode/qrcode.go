package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/skip2/go-qrcode"
)

// Style selects how modules are drawn.
type Style string

const (
	StyleSquare  Style = "square"
	StyleRounded Style = "rounded"
	StyleCircle  Style = "circle"
)

var ErrEmptyContent = errors.New("qr content is empty")

type Config struct {
	Content         string
	LogoPath        string
	Size            int // Output side length in pixels
	Style           Style
	LogoScale       float64 // Logo side relative to Size
	LogoBorder      float64 // Background ring around the logo, in pixels
	Background      color.Color
	Foreground      color.Color
	ModuleRoundness float64 // Corner radius relative to one module, 0..0.5
	RecoveryLevel   qrcode.RecoveryLevel
	QuietZone       int // Size of quiet zone around QR code, in modules
}

// Generate creates a QR code with the given configuration and returns it as PNG bytes
func (c *Config) Generate() ([]byte, error) {
	if c.Style == StyleCircle {
		return c.GenerateStyled()
	}
	img, err := c.Image()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Image draws the QR code into a Size x Size image.
func (c *Config) Image() (image.Image, error) {
	if c.Content == "" {
		return nil, ErrEmptyContent
	}
	if c.Size <= 0 {
		return nil, fmt.Errorf("qr size must be positive, got %d", c.Size)
	}

	qr, err := qrcode.New(c.Content, c.RecoveryLevel)
	if err != nil {
		return nil, err
	}
	// The quiet zone is drawn here so its width follows the config.
	qr.DisableBorder = true
	bitmap := qr.Bitmap()

	modules := len(bitmap) + 2*c.QuietZone
	moduleSize := float64(c.Size) / float64(modules)
	offset := float64(c.QuietZone) * moduleSize

	dc := gg.NewContext(c.Size, c.Size)
	dc.SetColor(c.Background)
	dc.Clear()
	dc.SetColor(c.Foreground)

	radius := 0.0
	if c.Style == StyleRounded {
		radius = moduleSize * math.Min(math.Max(c.ModuleRoundness, 0), 0.5)
	}

	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			px := offset + float64(x)*moduleSize
			py := offset + float64(y)*moduleSize
			if radius > 0 {
				dc.DrawRoundedRectangle(px, py, moduleSize, moduleSize, radius)
			} else {
				// Slight overdraw closes hairline gaps between neighbours.
				dc.DrawRectangle(px, py, moduleSize+0.5, moduleSize+0.5)
			}
		}
	}
	dc.Fill()

	if c.LogoPath != "" {
		if err = c.drawLogo(dc); err != nil {
			return nil, err
		}
	}

	return dc.Image(), nil
}

// drawLogo places the logo on a background disc at the centre.
func (c *Config) drawLogo(dc *gg.Context) error {
	logo, err := gg.LoadImage(c.LogoPath)
	if err != nil {
		return err
	}
	logoSize := int(float64(c.Size) * c.LogoScale)
	if logoSize <= 0 {
		return nil
	}

	center := float64(c.Size) / 2
	dc.SetColor(c.Background)
	dc.DrawCircle(center, center, float64(logoSize)/2+c.LogoBorder)
	dc.Fill()

	resized := resize.Resize(uint(logoSize), uint(logoSize), logo, resize.Lanczos3)

	// Clip the logo to a circle
	logoCtx := gg.NewContext(logoSize, logoSize)
	logoCtx.DrawCircle(float64(logoSize)/2, float64(logoSize)/2, float64(logoSize)/2)
	logoCtx.Clip()
	logoCtx.DrawImage(resized, 0, 0)

	dc.DrawImageAnchored(logoCtx.Image(), c.Size/2, c.Size/2, 0.5, 0.5)
	return nil
}
