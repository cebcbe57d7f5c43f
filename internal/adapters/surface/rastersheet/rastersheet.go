// Package rastersheet draws label sheets into in-memory images for previews.
package rastersheet

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/Badsnus/qrlabels/internal/adapters/surface/fonts"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const mmPerInch = 25.4

// maxPagePixels bounds the RGBA canvas of one page.
const maxPagePixels = 40 << 20

var errNoPage = errors.New("rastersheet: draw before BeginPage")

// Sheet is a labels.Surface that draws every page into an RGBA image at a
// fixed resolution.
type Sheet struct {
	template labels.Template
	dpi      float64
	dc       *gg.Context
	pages    []image.Image
	faces    map[float64]font.Face
}

var _ labels.Surface = (*Sheet)(nil)

func New(t labels.Template, dpi float64) *Sheet {
	return &Sheet{
		template: t,
		dpi:      dpi,
		faces:    make(map[float64]font.Face),
	}
}

func (s *Sheet) px(mm float64) float64 {
	return mm * s.dpi / mmPerInch
}

func (s *Sheet) BeginPage() error {
	s.finishPage()
	w := int(math.Round(s.px(s.template.PageWidth)))
	h := int(math.Round(s.px(s.template.PageHeight)))
	if w <= 0 || h <= 0 || w*h > maxPagePixels {
		return fmt.Errorf("rastersheet: page of %dx%d px", w, h)
	}
	s.dc = gg.NewContext(w, h)
	s.dc.SetRGB(1, 1, 1)
	s.dc.Clear()
	return nil
}

func (s *Sheet) DrawImage(img image.Image, r labels.Rect) error {
	if s.dc == nil {
		return errNoPage
	}
	w := uint(math.Round(s.px(r.W)))
	h := uint(math.Round(s.px(r.H)))
	if w == 0 || h == 0 {
		return fmt.Errorf("rastersheet: qr box of %dx%d px", w, h)
	}
	// Nearest neighbour keeps module edges sharp.
	scaled := resize.Resize(w, h, img, resize.NearestNeighbor)
	s.dc.DrawImage(scaled, int(math.Round(s.px(r.X))), int(math.Round(s.px(r.Y))))
	return nil
}

func (s *Sheet) DrawText(text string, r labels.Rect, size float64, c labels.Color) error {
	if s.dc == nil {
		return errNoPage
	}
	if err := fonts.Covers(text); err != nil {
		return err
	}
	face, err := s.face(size)
	if err != nil {
		return err
	}
	center := r.Center()
	s.dc.SetFontFace(face)
	s.dc.SetRGB255(int(c.R), int(c.G), int(c.B))
	s.dc.DrawStringAnchored(text, s.px(center.X), s.px(center.Y), 0.5, 0.35)
	return nil
}

func (s *Sheet) TextWidth(text string, size float64) float64 {
	face, err := s.face(size)
	if err != nil {
		return math.Inf(1)
	}
	adv := font.MeasureString(face, text)
	return float64(adv) / 64 * mmPerInch / s.dpi
}

func (s *Sheet) StrokeRect(r labels.Rect, radius float64, st labels.Stroke) {
	if s.dc == nil {
		return
	}
	s.setStroke(st)
	if radius > 0 {
		s.dc.DrawRoundedRectangle(s.px(r.X), s.px(r.Y), s.px(r.W), s.px(r.H), s.px(radius))
	} else {
		s.dc.DrawRectangle(s.px(r.X), s.px(r.Y), s.px(r.W), s.px(r.H))
	}
	s.dc.Stroke()
}

func (s *Sheet) StrokeCircle(center labels.Point, radius float64, st labels.Stroke) {
	if s.dc == nil {
		return
	}
	s.setStroke(st)
	s.dc.DrawCircle(s.px(center.X), s.px(center.Y), s.px(radius))
	s.dc.Stroke()
}

func (s *Sheet) StrokeLine(from, to labels.Point, st labels.Stroke) {
	if s.dc == nil {
		return
	}
	s.setStroke(st)
	s.dc.DrawLine(s.px(from.X), s.px(from.Y), s.px(to.X), s.px(to.Y))
	s.dc.Stroke()
}

// Close finishes the current page. Drawing after Close starts nothing.
func (s *Sheet) Close() error {
	s.finishPage()
	return nil
}

// Pages returns the finished page images.
func (s *Sheet) Pages() []image.Image {
	return s.pages
}

// EncodePNG writes the 0-based page i as PNG.
func (s *Sheet) EncodePNG(i int, w io.Writer) error {
	if i < 0 || i >= len(s.pages) {
		return fmt.Errorf("%w: raster page %d of %d", labels.ErrPageOutOfRange, i, len(s.pages))
	}
	return png.Encode(w, s.pages[i])
}

func (s *Sheet) finishPage() {
	if s.dc != nil {
		s.pages = append(s.pages, s.dc.Image())
		s.dc = nil
	}
}

func (s *Sheet) setStroke(st labels.Stroke) {
	s.dc.SetRGB255(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	s.dc.SetLineWidth(math.Max(s.px(st.Width), 1))
	if st.Dashed {
		s.dc.SetDash(s.px(1), s.px(0.7))
	} else {
		s.dc.SetDash()
	}
}

// face returns a Go Regular face whose em size is size millimetres.
func (s *Sheet) face(size float64) (font.Face, error) {
	sizePx := s.px(size)
	if f, ok := s.faces[sizePx]; ok {
		return f, nil
	}
	fnt, err := fonts.Regular()
	if err != nil {
		return nil, fmt.Errorf("parse goregular: %w", err)
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("goregular face (size=%.1f): %w", sizePx, err)
	}
	s.faces[sizePx] = f
	return f, nil
}
