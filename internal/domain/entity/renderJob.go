package entity

import (
	"time"

	"github.com/lib/pq"
)

type RenderJob struct {
	ID            string        `gorm:"primaryKey;type:uuid" json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	Template      string        `gorm:"not null" json:"template"`
	LabelSize     string        `json:"label_size"`
	PageSize      string        `json:"page_size"`
	Labels        int           `gorm:"not null" json:"labels"`
	TotalPages    int           `gorm:"not null" json:"total_pages"`
	LabelsPerPage int           `gorm:"not null" json:"labels_per_page"`
	FitToCutLine  bool          `json:"fit_to_cut_line"`
	Debug         bool          `json:"debug"`
	Placeholders  pq.Int64Array `gorm:"type:bigint[]" json:"placeholders"`
	DurationMs    int64         `json:"duration_ms"`
}

// PlaceholderCount is the number of labels drawn without a QR image.
func (j *RenderJob) PlaceholderCount() int {
	return len(j.Placeholders)
}
