package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/Badsnus/qrlabels/internal/adapters/surface/pdfsheet"
	"github.com/Badsnus/qrlabels/internal/adapters/surface/rastersheet"
	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/Badsnus/qrlabels/internal/domain/entity"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/internal/domain/utils/validator"
	"github.com/Badsnus/qrlabels/pkg/logger/types"
	"github.com/lib/pq"
)

const (
	defaultJobsLimit = 20
	maxJobsLimit     = 100
	minQRPixels      = 128
)

type RenderJobStorage interface {
	Create(ctx context.Context, job *entity.RenderJob) (*entity.RenderJob, error)
	Get(ctx context.Context, id string) (*entity.RenderJob, error)
	GetLatest(ctx context.Context, limit int) ([]entity.RenderJob, error)
	Count(ctx context.Context) (int64, error)
}

type AssetResolver interface {
	Resolve(ctx context.Context, entries []labels.Entry, pixelSize int) []labels.Asset
}

// SheetRequest is one print or preview request.
type SheetRequest struct {
	Template     string                 `json:"template"`
	Custom       *labels.CustomTemplate `json:"custom_template,omitempty"`
	Entries      []labels.Entry         `json:"entries"`
	FitToCutLine bool                   `json:"fit_to_cut_line"`
	Debug        bool                   `json:"debug"`
}

type SheetOptions struct {
	// StrictTemplates rejects unknown template names instead of falling back
	// to the registry default.
	StrictTemplates bool
	// PrintDPI sizes produced QR images for the PDF path.
	PrintDPI float64
	// PreviewDPI is the resolution of PNG previews.
	PreviewDPI float64
}

// SheetLayout is the geometry of a job without any drawing.
type SheetLayout struct {
	Template      labels.Template     `json:"template"`
	TotalPages    int                 `json:"total_pages"`
	LabelsPerPage int                 `json:"labels_per_page"`
	QRSize        float64             `json:"qr_size_mm"`
	Pages         []labels.PageLayout `json:"pages"`
}

// JobList is a page of render records plus the number of records kept.
type JobList struct {
	Jobs  []entity.RenderJob `json:"jobs"`
	Total int64              `json:"total"`
}

type SheetService struct {
	registry *labels.Registry
	renderer *labels.Renderer
	assets   AssetResolver
	jobs     RenderJobStorage
	opts     SheetOptions
	log      *types.Logger
}

// NewSheetService wires the sheet pipeline. jobs may be nil, in which case
// render records are not kept.
func NewSheetService(registry *labels.Registry, assets AssetResolver, jobs RenderJobStorage, opts SheetOptions, log *types.Logger) *SheetService {
	if opts.PrintDPI <= 0 {
		opts.PrintDPI = 300
	}
	if opts.PreviewDPI <= 0 {
		opts.PreviewDPI = 96
	}
	return &SheetService{
		registry: registry,
		renderer: labels.NewRenderer(log),
		assets:   assets,
		jobs:     jobs,
		opts:     opts,
		log:      log,
	}
}

func (s *SheetService) Templates() []labels.Template {
	return s.registry.All()
}

// Render draws the request as a PDF into w. The document is always closed,
// also when drawing fails part way.
func (s *SheetService) Render(ctx context.Context, req SheetRequest, w io.Writer) (*labels.Result, error) {
	start := time.Now()
	job, err := s.job(req)
	if err != nil {
		return nil, err
	}

	assets := s.assets.Resolve(ctx, job.Entries, s.pixelSize(job.Template))
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	doc := pdfsheet.New(w, job.Template, fmt.Sprintf("%s labels", job.Template.Name))
	res, err := s.renderer.Render(job, assets, doc)
	if closeErr := doc.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("write pdf: %w", closeErr)
	}
	if err != nil {
		return nil, err
	}

	rec := newRecord(req, res, time.Since(start))
	s.log.Infof("job %s: %d labels on %d pages (%s), %d placeholders in %dms",
		rec.ID, rec.Labels, rec.TotalPages, rec.Template, rec.PlaceholderCount(), rec.DurationMs)
	s.record(ctx, rec)
	return res, nil
}

// Preview draws the 1-based page of the request as PNG.
func (s *SheetService) Preview(ctx context.Context, req SheetRequest, page int) ([]byte, *labels.Result, error) {
	job, err := s.job(req)
	if err != nil {
		return nil, nil, err
	}
	p, err := job.Page(page)
	if err != nil {
		return nil, nil, err
	}

	// Only the entries on the requested page are resolved.
	var (
		indexes []int
		entries []labels.Entry
	)
	for _, c := range p.Cells {
		if !c.Blank() {
			indexes = append(indexes, c.EntryIndex)
			entries = append(entries, *c.Entry)
		}
	}
	resolved := s.assets.Resolve(ctx, entries, s.pixelSize(job.Template))
	assets := make([]labels.Asset, len(job.Entries))
	for i, idx := range indexes {
		assets[idx] = resolved[i]
	}

	sheet := rastersheet.New(job.Template, s.opts.PreviewDPI)
	res, err := s.renderer.RenderPages(job, []labels.Page{p}, assets, sheet)
	if closeErr := sheet.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("finish preview: %w", closeErr)
	}
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err = sheet.EncodePNG(0, &buf); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), res, nil
}

// Layout computes the per-page geometry of the request.
func (s *SheetService) Layout(_ context.Context, req SheetRequest) (*SheetLayout, error) {
	job, err := s.job(req)
	if err != nil {
		return nil, err
	}
	return &SheetLayout{
		Template:      job.Template,
		TotalPages:    job.TotalPages(),
		LabelsPerPage: job.LabelsPerPage(),
		QRSize:        labels.QRSize(job.Template),
		Pages:         job.Layout(),
	}, nil
}

func (s *SheetService) Job(ctx context.Context, id string) (*entity.RenderJob, error) {
	if s.jobs == nil {
		return nil, errorz.ErrJobNotFound
	}
	return s.jobs.Get(ctx, id)
}

// Jobs returns the most recent render records, newest first, and the total
// number of records kept.
func (s *SheetService) Jobs(ctx context.Context, limit int) (*JobList, error) {
	if s.jobs == nil {
		return &JobList{Jobs: []entity.RenderJob{}}, nil
	}
	if limit <= 0 {
		limit = defaultJobsLimit
	}
	jobs, err := s.jobs.GetLatest(ctx, min(limit, maxJobsLimit))
	if err != nil {
		return nil, err
	}
	total, err := s.jobs.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &JobList{Jobs: jobs, Total: total}, nil
}

// template picks the effective template of req.
func (s *SheetService) template(req SheetRequest) (labels.Template, error) {
	var custom *labels.Template
	if req.Custom != nil {
		t, err := req.Custom.Template()
		if err != nil {
			return labels.Template{}, err
		}
		custom = &t
	}

	name := req.Template
	if name == "" && custom != nil {
		name = labels.CustomName
	}
	known := s.registry.Has(name) || (name == labels.CustomName && custom != nil)
	if !known && name != "" {
		if s.opts.StrictTemplates {
			return labels.Template{}, fmt.Errorf("%w: %q", labels.ErrUnknownTemplate, name)
		}
		s.log.Warnf("unknown template %q, using %s", name, s.registry.Default().Name)
	}
	return s.registry.Lookup(name, custom), nil
}

func (s *SheetService) job(req SheetRequest) (*labels.Job, error) {
	if len(req.Entries) == 0 {
		return nil, labels.ErrNoEntries
	}
	if err := validateEntries(req.Entries); err != nil {
		return nil, err
	}
	t, err := s.template(req)
	if err != nil {
		return nil, err
	}
	return labels.NewJob(req.Entries, t, labels.Options{
		FitToCutLine: req.FitToCutLine,
		Debug:        req.Debug,
	})
}

func validateEntries(entries []labels.Entry) error {
	if !validator.EntryCount(len(entries)) {
		return fmt.Errorf("%w: too many entries (%d)", errorz.ErrInvalidRequest, len(entries))
	}
	for i, e := range entries {
		switch {
		case !validator.EntryText(e.Name):
			return fmt.Errorf("%w: entry %d: invalid name", errorz.ErrInvalidRequest, i)
		case !validator.EntryText(e.Category):
			return fmt.Errorf("%w: entry %d: invalid category", errorz.ErrInvalidRequest, i)
		case !validator.EntryImage(e.Image):
			return fmt.Errorf("%w: entry %d: image must be a relative asset path", errorz.ErrInvalidRequest, i)
		}
	}
	return nil
}

// pixelSize is the QR glyph side in pixels at print resolution.
func (s *SheetService) pixelSize(t labels.Template) int {
	px := int(math.Round(labels.QRSize(t) * s.opts.PrintDPI / 25.4))
	return max(px, minQRPixels)
}

func newRecord(req SheetRequest, res *labels.Result, took time.Duration) *entity.RenderJob {
	placeholders := make(pq.Int64Array, len(res.Placeholders))
	for i, p := range res.Placeholders {
		placeholders[i] = int64(p)
	}
	return &entity.RenderJob{
		ID:            res.JobID.String(),
		Template:      res.Template,
		LabelSize:     res.LabelSize,
		PageSize:      res.PageSize,
		Labels:        res.Labels,
		TotalPages:    res.TotalPages,
		LabelsPerPage: res.LabelsPerPage,
		FitToCutLine:  req.FitToCutLine,
		Debug:         req.Debug,
		Placeholders:  placeholders,
		DurationMs:    took.Milliseconds(),
	}
}

func (s *SheetService) record(ctx context.Context, rec *entity.RenderJob) {
	if s.jobs == nil {
		return
	}
	if _, err := s.jobs.Create(ctx, rec); err != nil {
		s.log.Errorf("job %s: failed to store render record: %v", rec.ID, err)
	}
}
