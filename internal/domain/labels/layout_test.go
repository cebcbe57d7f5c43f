package labels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestQRSizeWithText(t *testing.T) {
	// min(50.8, 50.8-6) * 0.95
	assert.InDelta(t, 42.56, QRSize(square508()), 1e-9)
}

func TestQRSizeWithoutText(t *testing.T) {
	tmpl := square508()
	tmpl.IncludeText = false
	assert.InDelta(t, 50.8*0.95, QRSize(tmpl), eps)
}

func TestQRSizeFitToCut(t *testing.T) {
	for _, tmpl := range Builtins() {
		fit := tmpl.FitToCut()
		assert.Equal(t, math.Min(tmpl.LabelWidth, tmpl.LabelHeight), QRSize(fit), tmpl.Name)
	}
}

func TestPosition(t *testing.T) {
	tmpl := square508()

	assert.Equal(t, Point{X: 19.05, Y: 25.4}, Position(tmpl, 0, 0))

	p := Position(tmpl, 2, 1)
	assert.InDelta(t, 19.05+50.8+15.875, p.X, eps)
	assert.InDelta(t, 25.4+2*(50.8+6.35), p.Y, eps)
}

func TestPositionsIncreaseAndNeverOverlap(t *testing.T) {
	for _, tmpl := range Builtins() {
		t.Run(tmpl.Name, func(t *testing.T) {
			var boxes []Rect
			for row := 0; row < tmpl.Rows; row++ {
				for col := 0; col < tmpl.Cols; col++ {
					pos := Position(tmpl, row, col)
					if col > 0 {
						assert.Greater(t, pos.X, Position(tmpl, row, col-1).X)
					}
					if row > 0 {
						assert.Greater(t, pos.Y, Position(tmpl, row-1, col).Y)
					}
					// Shrink by a hair so float rounding on shared edges is ignored.
					boxes = append(boxes, inset(Place(tmpl, row, col).Label, 1e-6))
				}
			}
			for i := range boxes {
				for j := i + 1; j < len(boxes); j++ {
					assert.False(t, boxes[i].Overlaps(boxes[j]), "cells %d and %d overlap", i, j)
				}
			}
		})
	}
}

func TestPlaceKeepsQRInsideLabel(t *testing.T) {
	for _, tmpl := range append(Builtins(), square508()) {
		for _, variant := range []Template{tmpl, tmpl.FitToCut()} {
			p := Place(variant, variant.Rows-1, variant.Cols-1)
			assert.GreaterOrEqual(t, p.QR.X, p.Label.X-eps, variant.Name)
			assert.GreaterOrEqual(t, p.QR.Y, p.Label.Y-eps, variant.Name)
			assert.LessOrEqual(t, p.QR.Right(), p.Label.Right()+eps, variant.Name)
			assert.LessOrEqual(t, p.QR.Bottom(), p.Label.Bottom()+eps, variant.Name)
		}
	}
}

func TestPlaceCentresHorizontally(t *testing.T) {
	p := Place(square508(), 1, 1)
	assert.InDelta(t, p.Label.Center().X, p.QR.Center().X, eps)
}

func TestPlaceFitToCutCentresBothWays(t *testing.T) {
	tmpl := square508()
	tmpl.LabelHeight = 40
	fit := tmpl.FitToCut()

	p := Place(fit, 0, 0)
	assert.InDelta(t, p.Label.Center().X, p.QR.Center().X, eps)
	assert.InDelta(t, p.Label.Center().Y, p.QR.Center().Y, eps)
	assert.True(t, p.Primary.Empty())
	assert.True(t, p.Secondary.Empty())
}

func TestPlaceTextBands(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		p := Place(square508(), 0, 0)
		require.False(t, p.Primary.Empty())
		assert.True(t, p.Secondary.Empty())
		assert.InDelta(t, p.QR.Bottom(), p.Primary.Y, eps)
		assert.InDelta(t, p.Label.Bottom(), p.Primary.Bottom(), eps)
		assert.False(t, p.QR.Overlaps(p.Primary))
	})

	t.Run("two lines", func(t *testing.T) {
		tmpl := square508()
		tmpl.TextHeight = SecondaryTextMinBand
		p := Place(tmpl, 0, 0)
		require.False(t, p.Secondary.Empty())
		assert.InDelta(t, p.Primary.Bottom(), p.Secondary.Y, eps)
		assert.InDelta(t, p.Label.Bottom(), p.Secondary.Bottom(), eps)
		assert.Greater(t, p.Primary.H, p.Secondary.H)
	})

	t.Run("no text", func(t *testing.T) {
		tmpl := square508()
		tmpl.IncludeText = false
		tmpl.QRFillPercentage = 80
		p := Place(tmpl, 0, 0)
		assert.True(t, p.Primary.Empty())
		assert.InDelta(t, p.Label.Y+qrTopOffset, p.QR.Y, eps)
	})
}

func TestRectOverlapsSharedEdge(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	assert.False(t, a.Overlaps(Rect{X: 10, Y: 0, W: 10, H: 10}))
	assert.True(t, a.Overlaps(Rect{X: 9.9, Y: 9.9, W: 1, H: 1}))
}

func inset(r Rect, d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}
