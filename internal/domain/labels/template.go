package labels

import (
	"fmt"
	"math"
)

// inch is the millimetre length of one inch. Label stock is specified in
// inch fractions, so the built-in templates are written in terms of it.
const inch = 25.4

// Letter page size in millimetres.
const (
	letterWidth  = 8.5 * inch
	letterHeight = 11 * inch
)

// gridTolerance absorbs rounding in inch-to-mm conversions when checking that
// the label grid stays on the page.
const gridTolerance = 0.01

// Limits on accepted templates. MaxPageSide covers A0, the largest sheet a
// wide-format printer takes.
const (
	MaxPageSide      = 1200.0
	MinLabelSide     = 5.0
	MaxLabelsPerPage = 1000
)

// Template describes one physical label sheet. All lengths are millimetres.
type Template struct {
	Name             string  `json:"name"`
	PageWidth        float64 `json:"page_width_mm"`
	PageHeight       float64 `json:"page_height_mm"`
	LabelWidth       float64 `json:"label_width_mm"`
	LabelHeight      float64 `json:"label_height_mm"`
	Cols             int     `json:"cols"`
	Rows             int     `json:"rows"`
	MarginTop        float64 `json:"margin_top_mm"`
	MarginLeft       float64 `json:"margin_left_mm"`
	SpacingX         float64 `json:"spacing_x_mm"`
	SpacingY         float64 `json:"spacing_y_mm"`
	QRFillPercentage float64 `json:"qr_fill_percentage"`
	CornerRadius     float64 `json:"corner_radius_mm"`
	IncludeText      bool    `json:"include_text"`
	TextHeight       float64 `json:"text_height_mm"`
	FitToCutOut      bool    `json:"fit_to_cut_out"`
}

// LabelsPerPage is the number of grid cells on one sheet.
func (t Template) LabelsPerPage() int {
	return t.Cols * t.Rows
}

// ShowsText reports whether labels carry printed text under the QR glyph.
func (t Template) ShowsText() bool {
	return t.IncludeText && !t.FitToCutOut
}

// FitToCut returns a copy of t in fit-to-cut-line mode: the glyph fills the
// whole label, text is off and the fill percentage is forced to 100.
func (t Template) FitToCut() Template {
	t.FitToCutOut = true
	t.IncludeText = false
	t.QRFillPercentage = 100
	return t
}

// LabelSize is the human readable label size, e.g. "50.8mm × 50.8mm".
func (t Template) LabelSize() string {
	return FormatSize(t.LabelWidth, t.LabelHeight)
}

// PageSize is the human readable page size.
func (t Template) PageSize() string {
	return FormatSize(t.PageWidth, t.PageHeight)
}

// Validate rejects templates that cannot produce a usable sheet.
func (t Template) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"page_width_mm", t.PageWidth},
		{"page_height_mm", t.PageHeight},
		{"label_width_mm", t.LabelWidth},
		{"label_height_mm", t.LabelHeight},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidTemplate, p.name, p.value)
		}
	}
	if t.PageWidth > MaxPageSide || t.PageHeight > MaxPageSide {
		return fmt.Errorf("%w: page sides must not exceed %vmm, got %s", ErrInvalidTemplate, MaxPageSide, t.PageSize())
	}
	if t.LabelWidth < MinLabelSide || t.LabelHeight < MinLabelSide {
		return fmt.Errorf("%w: label sides must be at least %vmm, got %s", ErrInvalidTemplate, MinLabelSide, t.LabelSize())
	}

	if t.Cols <= 0 || t.Rows <= 0 {
		return fmt.Errorf("%w: grid must have at least one column and row, got %dx%d", ErrInvalidTemplate, t.Cols, t.Rows)
	}
	// Each side is checked first so the product cannot overflow.
	if t.Cols > MaxLabelsPerPage || t.Rows > MaxLabelsPerPage || t.Cols*t.Rows > MaxLabelsPerPage {
		return fmt.Errorf("%w: at most %d labels per page, got %dx%d", ErrInvalidTemplate, MaxLabelsPerPage, t.Cols, t.Rows)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"margin_top_mm", t.MarginTop},
		{"margin_left_mm", t.MarginLeft},
		{"spacing_x_mm", t.SpacingX},
		{"spacing_y_mm", t.SpacingY},
		{"corner_radius_mm", t.CornerRadius},
		{"text_height_mm", t.TextHeight},
	}
	for _, p := range nonNegative {
		if p.value < 0 || math.IsNaN(p.value) {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidTemplate, p.name, p.value)
		}
	}

	if !(t.QRFillPercentage > 0) || t.QRFillPercentage > 100 {
		return fmt.Errorf("%w: qr_fill_percentage must be in (0,100], got %v", ErrInvalidTemplate, t.QRFillPercentage)
	}

	gridWidth := t.MarginLeft + float64(t.Cols)*t.LabelWidth + float64(t.Cols-1)*t.SpacingX
	if gridWidth > t.PageWidth+gridTolerance {
		return fmt.Errorf("%w: %d columns need %.3fmm but the page is %.3fmm wide", ErrInvalidTemplate, t.Cols, gridWidth, t.PageWidth)
	}
	gridHeight := t.MarginTop + float64(t.Rows)*t.LabelHeight + float64(t.Rows-1)*t.SpacingY
	if gridHeight > t.PageHeight+gridTolerance {
		return fmt.Errorf("%w: %d rows need %.3fmm but the page is %.3fmm high", ErrInvalidTemplate, t.Rows, gridHeight, t.PageHeight)
	}

	if size := QRSize(t); !(size > 0) {
		return fmt.Errorf("%w: qr glyph size is %.3fmm (text band %.3fmm leaves no room on a %.3fmm label)",
			ErrInvalidTemplate, size, t.TextHeight, t.LabelHeight)
	}

	return nil
}

// FormatSize renders a width × height pair in millimetres.
func FormatSize(w, h float64) string {
	return fmt.Sprintf("%smm × %smm", formatMM(w), formatMM(h))
}

func formatMM(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}

// Built-in template names.
const (
	Avery5160    = "avery_5160"
	Avery5658    = "avery_5658"
	Avery5908    = "avery_5908"
	Avery94102   = "avery_94102"
	BusinessCard = "business_card"
	FullPage     = "full_page"

	// CustomName selects the caller supplied template in Registry.Lookup.
	CustomName = "custom"

	DefaultTemplate = Avery5160
)

// The values below match pre-printed label stock. Do not round them.
var builtins = []Template{
	{
		// 1" x 2-5/8" address labels, 30 per sheet
		Name:             Avery5160,
		PageWidth:        letterWidth,
		PageHeight:       letterHeight,
		LabelWidth:       66.675,
		LabelHeight:      25.4,
		Cols:             3,
		Rows:             10,
		MarginTop:        12.7,
		MarginLeft:       4.7625,
		SpacingX:         3.175,
		SpacingY:         0,
		QRFillPercentage: 95,
		IncludeText:      true,
		TextHeight:       6,
	},
	{
		// 2" square, 12 per sheet
		Name:             Avery5658,
		PageWidth:        letterWidth,
		PageHeight:       letterHeight,
		LabelWidth:       50.8,
		LabelHeight:      50.8,
		Cols:             3,
		Rows:             4,
		MarginTop:        25.4,
		MarginLeft:       19.05,
		SpacingX:         15.875,
		SpacingY:         6.35,
		QRFillPercentage: 95,
		IncludeText:      true,
		TextHeight:       6,
	},
	{
		// 1-1/2" square, 24 per sheet
		Name:             Avery5908,
		PageWidth:        letterWidth,
		PageHeight:       letterHeight,
		LabelWidth:       38.1,
		LabelHeight:      38.1,
		Cols:             4,
		Rows:             6,
		MarginTop:        12.7,
		MarginLeft:       19.05,
		SpacingX:         6.35,
		SpacingY:         4.233,
		QRFillPercentage: 90,
		IncludeText:      true,
		TextHeight:       5,
	},
	{
		// 2" round, 12 per sheet
		Name:             Avery94102,
		PageWidth:        letterWidth,
		PageHeight:       letterHeight,
		LabelWidth:       50.8,
		LabelHeight:      50.8,
		Cols:             3,
		Rows:             4,
		MarginTop:        25.4,
		MarginLeft:       19.05,
		SpacingX:         12.7,
		SpacingY:         4.233,
		QRFillPercentage: 70,
		CornerRadius:     25.4,
		IncludeText:      false,
	},
	{
		// 3-1/2" x 2", 10 per sheet
		Name:             BusinessCard,
		PageWidth:        letterWidth,
		PageHeight:       letterHeight,
		LabelWidth:       88.9,
		LabelHeight:      50.8,
		Cols:             2,
		Rows:             5,
		MarginTop:        12.7,
		MarginLeft:       19.05,
		QRFillPercentage: 85,
		IncludeText:      true,
		TextHeight:       10,
	},
	{
		Name:             FullPage,
		PageWidth:        letterWidth,
		PageHeight:       letterHeight,
		LabelWidth:       190.5,
		LabelHeight:      254,
		Cols:             1,
		Rows:             1,
		MarginTop:        12.7,
		MarginLeft:       12.7,
		QRFillPercentage: 80,
		IncludeText:      true,
		TextHeight:       20,
	},
}

// Builtins returns a copy of the built-in template catalog.
func Builtins() []Template {
	out := make([]Template, len(builtins))
	copy(out, builtins)
	return out
}
