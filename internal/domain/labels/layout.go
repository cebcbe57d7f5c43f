package labels

import "math"

const (
	// qrTopOffset is the gap between the label top edge and the QR glyph.
	qrTopOffset = 2.0
	// qrTopOffsetWithText is used when a text band sits under the glyph.
	qrTopOffsetWithText = 1.0

	// SecondaryTextMinBand is the smallest reserved text band that fits a
	// second line of text (the category) under the display name.
	SecondaryTextMinBand = 8.0
	// primaryTextShare is the part of a two-line band given to the name.
	primaryTextShare = 0.6
)

// Point is an absolute page position in millimetres, origin top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box in millimetres.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Empty reports whether the box has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Overlaps reports whether the interiors of r and o intersect. Boxes that
// only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Placement is the computed geometry of one label cell.
type Placement struct {
	Row       int  `json:"row"`
	Col       int  `json:"col"`
	Label     Rect `json:"label"`
	QR        Rect `json:"qr"`
	Primary   Rect `json:"primary_text"`
	Secondary Rect `json:"secondary_text"`
}

// Position returns the top-left corner of the label at (row, col).
func Position(t Template, row, col int) Point {
	return Point{
		X: t.MarginLeft + float64(col)*(t.LabelWidth+t.SpacingX),
		Y: t.MarginTop + float64(row)*(t.LabelHeight+t.SpacingY),
	}
}

// AvailableHeight is the label height left for the glyph after the text band.
func AvailableHeight(t Template) float64 {
	if t.ShowsText() {
		return t.LabelHeight - t.TextHeight
	}
	return t.LabelHeight
}

// QRSize returns the side length of the QR glyph. It may be zero or negative
// for degenerate templates; Template.Validate rejects those.
func QRSize(t Template) float64 {
	if t.FitToCutOut {
		return math.Min(t.LabelWidth, t.LabelHeight)
	}
	return math.Min(t.LabelWidth, AvailableHeight(t)) * (t.QRFillPercentage / 100)
}

// Place computes the full geometry of the label at (row, col).
func Place(t Template, row, col int) Placement {
	pos := Position(t, row, col)
	size := QRSize(t)

	p := Placement{
		Row:   row,
		Col:   col,
		Label: Rect{X: pos.X, Y: pos.Y, W: t.LabelWidth, H: t.LabelHeight},
	}

	qrX := pos.X + (t.LabelWidth-size)/2
	var qrY float64
	if t.FitToCutOut {
		qrY = pos.Y + (t.LabelHeight-size)/2
	} else {
		offset := qrTopOffset
		if t.ShowsText() {
			offset = qrTopOffsetWithText
		}
		slack := math.Max((AvailableHeight(t)-size)/2, 0)
		qrY = pos.Y + math.Min(offset, slack)
	}
	p.QR = Rect{X: qrX, Y: qrY, W: size, H: size}

	if !t.ShowsText() {
		return p
	}

	band := Rect{X: pos.X, Y: p.QR.Bottom(), W: t.LabelWidth, H: p.Label.Bottom() - p.QR.Bottom()}
	if t.TextHeight < SecondaryTextMinBand {
		p.Primary = band
		return p
	}

	primaryH := band.H * primaryTextShare
	p.Primary = Rect{X: band.X, Y: band.Y, W: band.W, H: primaryH}
	p.Secondary = Rect{X: band.X, Y: band.Y + primaryH, W: band.W, H: band.H - primaryH}
	return p
}
