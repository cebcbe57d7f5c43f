package labels

// Defaults applied to a CustomTemplate when the option is omitted.
const (
	DefaultFillPercentage = 95
	DefaultTextHeight     = 6
)

// CustomTemplate is the option set a caller may supply instead of a named
// template. Pointer fields have defaults when left nil.
type CustomTemplate struct {
	Name             string   `json:"name,omitempty" yaml:"name"`
	PageWidthMM      float64  `json:"page_width_mm" yaml:"page_width_mm"`
	PageHeightMM     float64  `json:"page_height_mm" yaml:"page_height_mm"`
	LabelWidthMM     float64  `json:"label_width_mm" yaml:"label_width_mm"`
	LabelHeightMM    float64  `json:"label_height_mm" yaml:"label_height_mm"`
	Cols             int      `json:"cols" yaml:"cols"`
	Rows             int      `json:"rows" yaml:"rows"`
	MarginTopMM      float64  `json:"margin_top_mm" yaml:"margin_top_mm"`
	MarginLeftMM     float64  `json:"margin_left_mm" yaml:"margin_left_mm"`
	SpacingXMM       float64  `json:"spacing_x_mm" yaml:"spacing_x_mm"`
	SpacingYMM       float64  `json:"spacing_y_mm" yaml:"spacing_y_mm"`
	QRFillPercentage *float64 `json:"qr_fill_percentage,omitempty" yaml:"qr_fill_percentage"`
	CornerRadiusMM   *float64 `json:"corner_radius_mm,omitempty" yaml:"corner_radius_mm"`
	IncludeText      *bool    `json:"include_text,omitempty" yaml:"include_text"`
	TextHeightMM     *float64 `json:"text_height_mm,omitempty" yaml:"text_height_mm"`
	FitToCutOut      bool     `json:"fit_to_cut_out" yaml:"fit_to_cut_out"`
}

// Template applies defaults and validates the result.
func (c CustomTemplate) Template() (Template, error) {
	t := Template{
		Name:             c.Name,
		PageWidth:        c.PageWidthMM,
		PageHeight:       c.PageHeightMM,
		LabelWidth:       c.LabelWidthMM,
		LabelHeight:      c.LabelHeightMM,
		Cols:             c.Cols,
		Rows:             c.Rows,
		MarginTop:        c.MarginTopMM,
		MarginLeft:       c.MarginLeftMM,
		SpacingX:         c.SpacingXMM,
		SpacingY:         c.SpacingYMM,
		QRFillPercentage: DefaultFillPercentage,
		IncludeText:      true,
		TextHeight:       DefaultTextHeight,
		FitToCutOut:      c.FitToCutOut,
	}
	if t.Name == "" {
		t.Name = CustomName
	}
	if c.QRFillPercentage != nil {
		t.QRFillPercentage = *c.QRFillPercentage
	}
	if c.CornerRadiusMM != nil {
		t.CornerRadius = *c.CornerRadiusMM
	}
	if c.IncludeText != nil {
		t.IncludeText = *c.IncludeText
	}
	if c.TextHeightMM != nil {
		t.TextHeight = *c.TextHeightMM
	}
	if t.FitToCutOut {
		t = t.FitToCut()
	}

	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}
