package labels

import "image"

// Color is an opaque RGB colour.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	Grey  = Color{R: 90, G: 90, B: 90}
	Red   = Color{R: 220, G: 40, B: 40}
)

// Stroke describes an outline. Width is in millimetres.
type Stroke struct {
	Color  Color
	Width  float64
	Dashed bool
}

// Surface is a paged drawing target with a millimetre coordinate system whose
// origin is the page's top-left corner. A Surface is owned by a single job:
// BeginPage starts a new page, Close finalises the output and must be called
// exactly once, even when drawing failed.
type Surface interface {
	BeginPage() error
	// DrawImage scales img into r.
	DrawImage(img image.Image, r Rect) error
	// DrawText draws one line centred horizontally and vertically in r.
	// size is the font size in millimetres.
	DrawText(text string, r Rect, size float64, c Color) error
	// TextWidth measures text at the given font size in millimetres.
	TextWidth(text string, size float64) float64
	// StrokeRect outlines r, rounding the corners when radius > 0.
	StrokeRect(r Rect, radius float64, s Stroke)
	StrokeCircle(center Point, radius float64, s Stroke)
	StrokeLine(from, to Point, s Stroke)
	Close() error
}

// Asset is the resolved QR image of one entry. A nil Image means the label is
// drawn as a placeholder; Err says why.
type Asset struct {
	Image image.Image
	Err   error
}
