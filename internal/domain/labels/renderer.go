package labels

import (
	"errors"
	"math"
	"strings"

	"github.com/Badsnus/qrlabels/pkg/logger/types"
)

const (
	// textSizeShare is the font size relative to its text band height.
	textSizeShare   = 0.6
	maxPrimarySize  = 5.0
	maxSecondary    = 3.5
	minTextSize     = 1.5
	textShrinkStep  = 0.9
	textPadding     = 1.0
	placeholderText = "QR unavailable"
	ellipsis        = "..."
)

var (
	debugStroke       = Stroke{Color: Red, Width: 0.2, Dashed: true}
	outlineStroke     = Stroke{Color: Grey, Width: 0.3}
	placeholderStroke = Stroke{Color: Grey, Width: 0.3, Dashed: true}
)

var errNoAsset = errors.New("no image resolved")

// Renderer draws jobs onto surfaces.
type Renderer struct {
	log *types.Logger
}

func NewRenderer(log *types.Logger) *Renderer {
	return &Renderer{log: log}
}

// Render draws every page of job onto s. assets is indexed like job.Entries.
// A label whose asset is missing or fails to draw becomes a placeholder and
// is reported in Result.Placeholders; only surface page errors abort.
func (r *Renderer) Render(job *Job, assets []Asset, s Surface) (*Result, error) {
	return r.RenderPages(job, job.Pages(), assets, s)
}

// RenderPages draws the given subset of job's pages onto s.
func (r *Renderer) RenderPages(job *Job, pages []Page, assets []Asset, s Surface) (*Result, error) {
	res := newResult(job)

	for _, page := range pages {
		if err := s.BeginPage(); err != nil {
			return nil, err
		}
		for _, cell := range page.Cells {
			if cell.Blank() {
				continue
			}
			asset := Asset{Err: errNoAsset}
			if cell.EntryIndex < len(assets) {
				asset = assets[cell.EntryIndex]
			}
			if !r.drawLabel(job, cell, asset, s) {
				res.Placeholders = append(res.Placeholders, cell.EntryIndex)
			}
		}
		r.log.Debugf("job %s: page %d/%d drawn (%d labels)", job.ID, page.Number, res.TotalPages, page.Filled())
	}

	return res, nil
}

// drawLabel reports whether the QR image was drawn.
func (r *Renderer) drawLabel(job *Job, cell Cell, asset Asset, s Surface) bool {
	t := job.Template
	p := Place(t, cell.Row, cell.Col)

	if job.Debug {
		s.StrokeRect(p.Label, 0, debugStroke)
	}

	drawn := false
	if asset.Image != nil {
		if err := s.DrawImage(asset.Image, p.QR); err != nil {
			asset.Err = err
		} else {
			drawn = true
		}
	} else if asset.Err == nil {
		asset.Err = errNoAsset
	}
	if !drawn {
		r.log.Warnf("job %s: entry %d (%q) drawn as placeholder: %v", job.ID, cell.EntryIndex, cell.Entry.Name, asset.Err)
		r.drawPlaceholder(p.QR, s)
	}

	if t.ShowsText() {
		if err := r.drawText(s, cell.Entry.Name, p.Primary, maxPrimarySize, Black); err != nil {
			r.log.Warnf("job %s: entry %d name not drawn: %v", job.ID, cell.EntryIndex, err)
		}
		if !p.Secondary.Empty() && cell.Entry.Category != "" {
			if err := r.drawText(s, cell.Entry.Category, p.Secondary, maxSecondary, Grey); err != nil {
				r.log.Warnf("job %s: entry %d category not drawn: %v", job.ID, cell.EntryIndex, err)
			}
		}
	}

	if t.CornerRadius > 0 {
		drawCornerOutline(p.Label, t.CornerRadius, s)
	}

	return drawn
}

func (r *Renderer) drawPlaceholder(box Rect, s Surface) {
	s.StrokeRect(box, 0, placeholderStroke)
	s.StrokeLine(Point{X: box.X, Y: box.Y}, Point{X: box.Right(), Y: box.Bottom()}, placeholderStroke)
	s.StrokeLine(Point{X: box.Right(), Y: box.Y}, Point{X: box.X, Y: box.Bottom()}, placeholderStroke)

	band := Rect{X: box.X, Y: box.Center().Y - box.H*0.1, W: box.W, H: box.H * 0.2}
	if err := r.drawText(s, placeholderText, band, maxSecondary, Grey); err != nil {
		r.log.Warnf("placeholder caption not drawn: %v", err)
	}
}

func (r *Renderer) drawText(s Surface, text string, box Rect, maxSize float64, c Color) error {
	text = strings.TrimSpace(text)
	if text == "" || box.Empty() {
		return nil
	}
	size := math.Min(box.H*textSizeShare, maxSize)
	fitted, size := fitText(s, text, box.W-2*textPadding, size)
	if fitted == "" {
		return nil
	}
	return s.DrawText(fitted, box, size, c)
}

// fitText shrinks the font down to minTextSize and then truncates with an
// ellipsis until text fits maxW.
func fitText(s Surface, text string, maxW, size float64) (string, float64) {
	for size > minTextSize && s.TextWidth(text, size) > maxW {
		size = math.Max(size*textShrinkStep, minTextSize)
	}
	if s.TextWidth(text, size) <= maxW {
		return text, size
	}

	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + ellipsis
		if s.TextWidth(candidate, size) <= maxW {
			return candidate, size
		}
	}
	return "", size
}

// drawCornerOutline marks a round or rounded label. A radius reaching half
// the side of a square label is drawn as a circle.
func drawCornerOutline(label Rect, radius float64, s Surface) {
	short := math.Min(label.W, label.H)
	if radius*2 >= short && math.Abs(label.W-label.H) < 0.01 {
		s.StrokeCircle(label.Center(), short/2, outlineStroke)
		return
	}
	s.StrokeRect(label, math.Min(radius, short/2), outlineStroke)
}
