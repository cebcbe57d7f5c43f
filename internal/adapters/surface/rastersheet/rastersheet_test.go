package rastersheet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Badsnus/qrlabels/internal/adapters/surface/fonts"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/pkg/logger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPage(t *testing.T) labels.Template {
	t.Helper()
	return labels.NewRegistry(labels.FullPage).Default()
}

func TestSheetPageSize(t *testing.T) {
	s := New(fullPage(t), 72)
	require.NoError(t, s.BeginPage())
	require.NoError(t, s.BeginPage())
	require.NoError(t, s.Close())

	require.Len(t, s.Pages(), 2)
	// Letter at 72 dpi.
	assert.Equal(t, image.Rect(0, 0, 612, 792), s.Pages()[0].Bounds())
}

func TestSheetRejectsHugeCanvas(t *testing.T) {
	tmpl := fullPage(t)
	tmpl.PageWidth, tmpl.PageHeight = labels.MaxPageSide, labels.MaxPageSide

	s := New(tmpl, 600)
	assert.Error(t, s.BeginPage())
	require.NoError(t, s.Close())
	assert.Empty(t, s.Pages())
}

func TestSheetDrawsImage(t *testing.T) {
	s := New(fullPage(t), 25.4) // one pixel per millimetre
	require.NoError(t, s.BeginPage())

	black := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			black.Set(x, y, color.Black)
		}
	}
	require.NoError(t, s.DrawImage(black, labels.Rect{X: 10, Y: 20, W: 8, H: 8}))
	require.NoError(t, s.Close())

	page := s.Pages()[0]
	r, g, b, _ := page.At(12, 22).RGBA()
	assert.Zero(t, r+g+b)
	r, g, b, _ = page.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff*3), r+g+b)
}

func TestSheetDrawBeforeBeginPage(t *testing.T) {
	s := New(fullPage(t), 72)
	assert.ErrorIs(t, s.DrawImage(image.NewRGBA(image.Rect(0, 0, 1, 1)), labels.Rect{W: 1, H: 1}), errNoPage)
	assert.ErrorIs(t, s.DrawText("x", labels.Rect{W: 10, H: 10}, 3, labels.Black), errNoPage)
}

func TestSheetDrawTextCoverage(t *testing.T) {
	s := New(fullPage(t), 72)
	require.NoError(t, s.BeginPage())
	box := labels.Rect{X: 10, Y: 10, W: 120, H: 8}

	assert.NoError(t, s.DrawText("Кофейный автомат", box, 4, labels.Black))
	assert.ErrorIs(t, s.DrawText("咖啡机", box, 4, labels.Black), fonts.ErrMissingGlyph)
}

func TestSheetTextWidth(t *testing.T) {
	s := New(fullPage(t), 150)
	narrow := s.TextWidth("ii", 4)
	wide := s.TextWidth("WWWW", 4)
	assert.Greater(t, narrow, 0.0)
	assert.Greater(t, wide, narrow)
}

func TestEncodePNG(t *testing.T) {
	tmpl := labels.NewRegistry("").Lookup(labels.Avery5908, nil)
	entries := []labels.Entry{{Content: "a", Name: "Bar"}, {Content: "b", Name: "Kitchen"}}
	job, err := labels.NewJob(entries, tmpl, labels.Options{Debug: true})
	require.NoError(t, err)

	s := New(job.Template, 50)
	_, err = labels.NewRenderer(types.Nop()).Render(job, []labels.Asset{{Image: image.NewGray(image.Rect(0, 0, 21, 21))}, {}}, s)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(0, &buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, s.Pages()[0].Bounds(), img.Bounds())

	assert.ErrorIs(t, s.EncodePNG(1, &buf), labels.ErrPageOutOfRange)
}
