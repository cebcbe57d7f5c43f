// Package pdfsheet draws label sheets into a PDF document sized to the
// template page, in millimetres.
package pdfsheet

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/Badsnus/qrlabels/internal/adapters/surface/fonts"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/go-pdf/fpdf"
)

// ptPerMM converts millimetre font sizes to points.
const ptPerMM = 72 / 25.4

const fontFamily = "goregular"

var errNoPage = errors.New("pdfsheet: draw before BeginPage")

// Document is a labels.Surface backed by fpdf. The PDF is written to the
// destination writer on Close.
type Document struct {
	pdf    *fpdf.Fpdf
	dst    io.Writer
	images int
	closed bool
}

var _ labels.Surface = (*Document)(nil)

// New opens a document whose pages match t's page size.
func New(dst io.Writer, t labels.Template, title string) *Document {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: t.PageWidth, Ht: t.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("qrlabels", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", fonts.RegularTTF)
	pdf.SetFont(fontFamily, "", 10)

	return &Document{
		pdf: pdf,
		dst: dst,
	}
}

func (d *Document) BeginPage() error {
	d.pdf.AddPage()
	return d.takeError()
}

// PageCount returns the number of pages started so far.
func (d *Document) PageCount() int {
	return d.pdf.PageCount()
}

func (d *Document) DrawImage(img image.Image, r labels.Rect) error {
	if d.pdf.PageNo() == 0 {
		return errNoPage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, flatten(img)); err != nil {
		return fmt.Errorf("encode qr image: %w", err)
	}

	name := fmt.Sprintf("qr-%d", d.images)
	d.images++
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, &buf)
	if err := d.takeError(); err != nil {
		return err
	}
	d.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	return d.takeError()
}

func (d *Document) DrawText(text string, r labels.Rect, size float64, c labels.Color) error {
	if d.pdf.PageNo() == 0 {
		return errNoPage
	}
	if err := fonts.Covers(text); err != nil {
		return err
	}
	d.pdf.SetFontSize(size * ptPerMM)
	d.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	d.pdf.SetXY(r.X, r.Y)
	d.pdf.CellFormat(r.W, r.H, text, "", 0, "CM", false, 0, "")
	return d.takeError()
}

func (d *Document) TextWidth(text string, size float64) float64 {
	d.pdf.SetFontSize(size * ptPerMM)
	return d.pdf.GetStringWidth(text)
}

func (d *Document) StrokeRect(r labels.Rect, radius float64, s labels.Stroke) {
	d.setStroke(s)
	if radius > 0 {
		d.pdf.RoundedRect(r.X, r.Y, r.W, r.H, radius, "1234", "D")
	} else {
		d.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
	}
	d.resetDash(s)
}

func (d *Document) StrokeCircle(center labels.Point, radius float64, s labels.Stroke) {
	d.setStroke(s)
	d.pdf.Circle(center.X, center.Y, radius, "D")
	d.resetDash(s)
}

func (d *Document) StrokeLine(from, to labels.Point, s labels.Stroke) {
	d.setStroke(s)
	d.pdf.Line(from.X, from.Y, to.X, to.Y)
	d.resetDash(s)
}

// Close writes the document to the destination. Later calls are no-ops.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return d.pdf.Output(d.dst)
}

func (d *Document) setStroke(s labels.Stroke) {
	d.pdf.SetDrawColor(int(s.Color.R), int(s.Color.G), int(s.Color.B))
	d.pdf.SetLineWidth(s.Width)
	if s.Dashed {
		d.pdf.SetDashPattern([]float64{1, 0.7}, 0)
	}
}

func (d *Document) resetDash(s labels.Stroke) {
	if s.Dashed {
		d.pdf.SetDashPattern([]float64{}, 0)
	}
}

// takeError returns and clears fpdf's sticky error so one bad label does not
// poison the rest of the document.
func (d *Document) takeError() error {
	err := d.pdf.Error()
	if err != nil {
		d.pdf.ClearError()
	}
	return err
}

// flatten renders img onto an opaque white 8-bit canvas; fpdf does not read
// 16-bit PNGs.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
