package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry("")
	custom := square508()
	custom.Name = CustomName

	tests := []struct {
		name   string
		lookup string
		custom *Template
		want   string
	}{
		{"builtin", Avery5658, nil, Avery5658},
		{"custom supplied", CustomName, &custom, CustomName},
		{"custom without options", CustomName, nil, DefaultTemplate},
		{"unknown", "avery_0000", nil, DefaultTemplate},
		{"empty", "", nil, DefaultTemplate},
		{"custom ignored for named", Avery5908, &custom, Avery5908},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Lookup(tt.lookup, tt.custom).Name)
		})
	}
}

func TestRegistryDefault(t *testing.T) {
	assert.Equal(t, FullPage, NewRegistry(FullPage).Default().Name)
	assert.Equal(t, DefaultTemplate, NewRegistry("nope").Default().Name)
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry("")

	tmpl := square508()
	tmpl.Name = "coasters"
	require.NoError(t, r.Register(tmpl))
	assert.True(t, r.Has("coasters"))
	assert.Contains(t, r.Names(), "coasters")

	reserved := square508()
	reserved.Name = CustomName
	assert.ErrorIs(t, r.Register(reserved), ErrInvalidTemplate)

	broken := square508()
	broken.Name = "broken"
	broken.Rows = 0
	assert.ErrorIs(t, r.Register(broken), ErrInvalidTemplate)
	assert.False(t, r.Has("broken"))
}

func TestRegistryNamesSorted(t *testing.T) {
	names := NewRegistry("").Names()
	assert.IsIncreasing(t, names)
	assert.Len(t, names, len(Builtins()))
}

func TestRegistryLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	catalog := `
avery_22806:
  page_width_mm: 215.9
  page_height_mm: 279.4
  label_width_mm: 50.8
  label_height_mm: 50.8
  cols: 3
  rows: 4
  margin_top_mm: 15.875
  margin_left_mm: 15.875
  spacing_x_mm: 15.875
  spacing_y_mm: 15.875
  corner_radius_mm: 3.175
  text_height_mm: 8
round_40:
  page_width_mm: 210
  page_height_mm: 297
  label_width_mm: 40
  label_height_mm: 40
  cols: 4
  rows: 6
  include_text: false
  corner_radius_mm: 20
`
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o644))

	r := NewRegistry("")
	n, err := r.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sq := r.Lookup("avery_22806", nil)
	assert.Equal(t, "avery_22806", sq.Name)
	assert.Equal(t, float64(DefaultFillPercentage), sq.QRFillPercentage)
	assert.True(t, sq.IncludeText)
	assert.Equal(t, 8.0, sq.TextHeight)

	round := r.Lookup("round_40", nil)
	assert.False(t, round.IncludeText)
	assert.Equal(t, 20.0, round.CornerRadius)
}

func TestRegistryLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bad:\n  cols: 3\n"), 0o644))

	_, err := NewRegistry("").LoadFile(path)
	assert.ErrorIs(t, err, ErrInvalidTemplate)

	_, err = NewRegistry("").LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
