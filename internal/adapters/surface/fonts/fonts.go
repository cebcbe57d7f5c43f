// Package fonts holds the face shared by the page surfaces so PDF and raster
// output print the same glyphs.
package fonts

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ErrMissingGlyph is returned for text the face cannot print.
var ErrMissingGlyph = errors.New("font has no glyph")

// RegularTTF is the Go Regular TrueType file.
var RegularTTF = goregular.TTF

var (
	parseOnce sync.Once
	regular   *opentype.Font
	parseErr  error
)

// Regular returns the parsed Go Regular font.
func Regular() (*opentype.Font, error) {
	parseOnce.Do(func() {
		regular, parseErr = opentype.Parse(RegularTTF)
	})
	return regular, parseErr
}

// Covers returns ErrMissingGlyph naming the first rune of text that Go
// Regular cannot draw. Spaces and control runes are skipped.
func Covers(text string) error {
	f, err := Regular()
	if err != nil {
		return fmt.Errorf("parse goregular: %w", err)
	}
	var buf sfnt.Buffer
	for _, r := range text {
		if r <= ' ' {
			continue
		}
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return fmt.Errorf("glyph %U: %w", r, err)
		}
		if idx == 0 {
			return fmt.Errorf("%w for %q (%U)", ErrMissingGlyph, r, r)
		}
	}
	return nil
}
