package labels

import (
	"fmt"

	"github.com/google/uuid"
)

// Options are the per-job flags.
type Options struct {
	// FitToCutLine forces fit-to-cut mode regardless of the template.
	FitToCutLine bool
	// Debug draws the label outlines so alignment can be checked against stock.
	Debug bool
}

// Job is one request to lay out and draw a set of entries. It is not
// modified after NewJob returns.
type Job struct {
	ID       uuid.UUID
	Entries  []Entry
	Template Template
	Debug    bool
}

// NewJob validates the input and fixes the effective template. Empty input
// and invalid templates are rejected before anything is drawn.
func NewJob(entries []Entry, t Template, opts Options) (*Job, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	if opts.FitToCutLine || t.FitToCutOut {
		t = t.FitToCut()
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	own := make([]Entry, len(entries))
	copy(own, entries)

	return &Job{
		ID:       uuid.New(),
		Entries:  own,
		Template: t,
		Debug:    opts.Debug,
	}, nil
}

func (j *Job) LabelsPerPage() int {
	return j.Template.LabelsPerPage()
}

func (j *Job) TotalPages() int {
	return TotalPages(len(j.Entries), j.LabelsPerPage())
}

func (j *Job) Pages() []Page {
	return Paginate(j.Entries, j.Template)
}

// CellLayout is the geometry of one cell as reported by Layout.
type CellLayout struct {
	Placement
	Entry int    `json:"entry"`
	Name  string `json:"name,omitempty"`
}

// PageLayout is the geometry of one page as reported by Layout.
type PageLayout struct {
	Number int          `json:"number"`
	Filled int          `json:"filled"`
	Cells  []CellLayout `json:"cells"`
}

// Layout computes the geometry of every page without drawing anything.
func (j *Job) Layout() []PageLayout {
	pages := j.Pages()
	out := make([]PageLayout, 0, len(pages))
	for _, page := range pages {
		pl := PageLayout{Number: page.Number, Filled: page.Filled(), Cells: make([]CellLayout, 0, len(page.Cells))}
		for _, c := range page.Cells {
			cl := CellLayout{Placement: Place(j.Template, c.Row, c.Col), Entry: c.EntryIndex}
			if !c.Blank() {
				cl.Name = c.Entry.Name
			}
			pl.Cells = append(pl.Cells, cl)
		}
		out = append(out, pl)
	}
	return out
}

// Page returns the 1-based page n.
func (j *Job) Page(n int) (Page, error) {
	if n < 1 || n > j.TotalPages() {
		return Page{}, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, n, j.TotalPages())
	}
	return j.Pages()[n-1], nil
}

// Result is the metadata of a rendered job.
type Result struct {
	JobID         uuid.UUID `json:"job_id"`
	Template      string    `json:"template"`
	Labels        int       `json:"labels"`
	TotalPages    int       `json:"total_pages"`
	LabelsPerPage int       `json:"labels_per_page"`
	LabelSize     string    `json:"label_size"`
	PageSize      string    `json:"page_size"`
	// Placeholders lists the entry indexes drawn without a QR image.
	Placeholders []int `json:"placeholders"`
}

func newResult(j *Job) *Result {
	return &Result{
		JobID:         j.ID,
		Template:      j.Template.Name,
		Labels:        len(j.Entries),
		TotalPages:    j.TotalPages(),
		LabelsPerPage: j.LabelsPerPage(),
		LabelSize:     j.Template.LabelSize(),
		PageSize:      j.Template.PageSize(),
		Placeholders:  []int{},
	}
}
