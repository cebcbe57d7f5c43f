package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobRejectsEmpty(t *testing.T) {
	_, err := NewJob(nil, square508(), Options{})
	assert.ErrorIs(t, err, ErrNoEntries)

	_, err = NewJob([]Entry{}, square508(), Options{})
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestNewJobRejectsInvalidTemplate(t *testing.T) {
	tmpl := square508()
	tmpl.QRFillPercentage = 0

	_, err := NewJob(makeEntries(3), tmpl, Options{})
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestNewJobRejectsOversizedGrid(t *testing.T) {
	c := CustomTemplate{
		PageWidthMM: 210, PageHeightMM: 297,
		LabelWidthMM: 1e-12, LabelHeightMM: 1e-12,
		Cols: 1 << 32, Rows: 1 << 32,
	}
	noText := false
	c.IncludeText = &noText

	tmpl := Template{
		PageWidth: c.PageWidthMM, PageHeight: c.PageHeightMM,
		LabelWidth: c.LabelWidthMM, LabelHeight: c.LabelHeightMM,
		Cols: c.Cols, Rows: c.Rows, QRFillPercentage: 100,
	}
	_, err := NewJob(makeEntries(5), tmpl, Options{})
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = c.Template()
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestNewJobFitToCutLine(t *testing.T) {
	job, err := NewJob(makeEntries(3), square508(), Options{FitToCutLine: true})
	require.NoError(t, err)

	assert.True(t, job.Template.FitToCutOut)
	assert.False(t, job.Template.ShowsText())
	assert.Equal(t, 50.8, QRSize(job.Template))
}

func TestNewJobCopiesEntries(t *testing.T) {
	entries := makeEntries(2)
	job, err := NewJob(entries, square508(), Options{})
	require.NoError(t, err)

	entries[0].Name = "changed"
	assert.Equal(t, "Table 1", job.Entries[0].Name)
}

func TestJobPage(t *testing.T) {
	job, err := NewJob(makeEntries(23), tenPerPage(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, job.TotalPages())
	p, err := job.Page(3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Filled())

	_, err = job.Page(0)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	_, err = job.Page(4)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestJobLayoutIsDeterministic(t *testing.T) {
	entries := makeEntries(17)
	a, err := NewJob(entries, square508(), Options{})
	require.NoError(t, err)
	b, err := NewJob(entries, square508(), Options{})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Layout(), b.Layout())
}

func TestJobLayout(t *testing.T) {
	job, err := NewJob(makeEntries(13), square508(), Options{})
	require.NoError(t, err)

	layout := job.Layout()
	require.Len(t, layout, 2)
	assert.Equal(t, 12, layout[0].Filled)
	assert.Equal(t, 1, layout[1].Filled)
	assert.Equal(t, "Table 13", layout[1].Cells[0].Name)
	assert.Equal(t, -1, layout[1].Cells[1].Entry)
	assert.Equal(t, Place(job.Template, 0, 1), layout[1].Cells[1].Placement)
}
