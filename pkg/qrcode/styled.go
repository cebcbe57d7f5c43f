package qr

import (
	"bytes"

	"github.com/skip2/go-qrcode"
	yqr "github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

type bufferCloser struct {
	*bytes.Buffer
}

func (bufferCloser) Close() error { return nil }

var correctionLevels = map[qrcode.RecoveryLevel]yqr.EncodeOption{
	qrcode.Low:     yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionLow),
	qrcode.Medium:  yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionMedium),
	qrcode.High:    yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionQuart),
	qrcode.Highest: yqr.WithErrorCorrectionLevel(yqr.ErrorCorrectionHighest),
}

// GenerateStyled renders circle modules through the yeqown standard writer
// and returns PNG bytes. The output side is close to Size; callers scale it
// into the label box anyway.
func (c *Config) GenerateStyled() ([]byte, error) {
	if c.Content == "" {
		return nil, ErrEmptyContent
	}

	level, ok := correctionLevels[c.RecoveryLevel]
	if !ok {
		level = correctionLevels[qrcode.Medium]
	}
	qrc, err := yqr.NewWith(c.Content, level)
	if err != nil {
		return nil, err
	}

	modules := qrc.Dimension() + 2*c.QuietZone
	width := c.Size / modules
	if width < 1 {
		width = 1
	}
	if width > 255 {
		width = 255
	}

	var buf bytes.Buffer
	w := standard.NewWithWriter(bufferCloser{&buf},
		standard.WithQRWidth(uint8(width)),
		standard.WithBorderWidth(c.QuietZone*width),
		standard.WithCircleShape(),
		standard.WithBgColor(c.Background),
		standard.WithFgColor(c.Foreground),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err = qrc.Save(w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
