package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/pkg/logger/types"
	qr "github.com/Badsnus/qrlabels/pkg/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu   sync.Mutex
	data    map[string][]byte
	gets    int
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	if !ok {
		return nil, errorz.ErrCacheMiss
	}
	return d, nil
}

func (c *memCache) Set(_ context.Context, key string, png []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = png
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.data, key)
	return nil
}

func writePNG(t *testing.T, path string, side int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	img.Set(0, 0, color.Black)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newResolver(t *testing.T, cache Cache) (*Resolver, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := qr.Print
	cfg.Size = 120
	return NewResolver(dir, cfg, cache, 2, types.Nop()), dir
}

func TestResolveKeepsEntryOrder(t *testing.T) {
	r, dir := newResolver(t, nil)
	writePNG(t, filepath.Join(dir, "first.png"), 10)
	writePNG(t, filepath.Join(dir, "second.png"), 20)

	entries := []labels.Entry{
		{Image: "first.png", Name: "A"},
		{Content: "https://example.com/b", Name: "B"},
		{Image: "second.png", Name: "C"},
	}
	got := r.Resolve(context.Background(), entries, 0)

	require.Len(t, got, 3)
	for i, a := range got {
		require.NoError(t, a.Err, "entry %d", i)
		require.NotNil(t, a.Image, "entry %d", i)
	}
	assert.Equal(t, 10, got[0].Image.Bounds().Dx())
	assert.Equal(t, 120, got[1].Image.Bounds().Dx())
	assert.Equal(t, 20, got[2].Image.Bounds().Dx())
}

func TestResolveMissingImageIsPerEntry(t *testing.T) {
	r, _ := newResolver(t, nil)

	got := r.Resolve(context.Background(), []labels.Entry{
		{Image: "nope.png", Name: "missing"},
		{Content: "ok", Name: "present"},
		{Name: "empty"},
	}, 0)

	assert.Nil(t, got[0].Image)
	assert.ErrorIs(t, got[0].Err, errorz.ErrAssetNotFound)
	assert.NoError(t, got[1].Err)
	assert.NotNil(t, got[1].Image)
	assert.ErrorIs(t, got[2].Err, qr.ErrEmptyContent)
}

func TestResolveStaysInsideAssetDir(t *testing.T) {
	r, dir := newResolver(t, nil)
	writePNG(t, filepath.Join(dir, "inside.png"), 8)

	got := r.Resolve(context.Background(), []labels.Entry{{Image: "../../inside.png"}}, 0)

	require.NoError(t, got[0].Err)
	assert.Equal(t, 8, got[0].Image.Bounds().Dx())
}

func TestResolveSVG(t *testing.T) {
	r, dir := newResolver(t, nil)
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10">` +
		`<rect x="0" y="0" width="5" height="5" fill="#000000"/></svg>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "code.svg"), []byte(svg), 0o644))

	got := r.Resolve(context.Background(), []labels.Entry{{Image: "code.svg"}}, 64)

	require.NoError(t, got[0].Err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), got[0].Image.Bounds())
}

func TestResolveUsesCache(t *testing.T) {
	cache := newMemCache()
	r, _ := newResolver(t, cache)
	entries := []labels.Entry{{Content: "cached"}}

	first := r.Resolve(context.Background(), entries, 0)
	require.NoError(t, first[0].Err)
	assert.Len(t, cache.data, 1)

	second := r.Resolve(context.Background(), entries, 0)
	require.NoError(t, second[0].Err)
	assert.Len(t, cache.data, 1)
	assert.Equal(t, 2, cache.gets)
	assert.Equal(t, first[0].Image.Bounds(), second[0].Image.Bounds())
}

func TestResolveReplacesCorruptCacheEntry(t *testing.T) {
	cache := newMemCache()
	r, _ := newResolver(t, cache)
	entries := []labels.Entry{{Content: "corrupt"}}

	first := r.Resolve(context.Background(), entries, 0)
	require.NoError(t, first[0].Err)
	require.Len(t, cache.data, 1)
	for k := range cache.data {
		cache.data[k] = []byte("not a png")
	}

	got := r.Resolve(context.Background(), entries, 0)
	require.NoError(t, got[0].Err)
	assert.Equal(t, 1, cache.deletes)
	for _, d := range cache.data {
		_, err := png.Decode(bytes.NewReader(d))
		assert.NoError(t, err)
	}
}

func TestResolveCancelled(t *testing.T) {
	r, _ := newResolver(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := r.Resolve(ctx, []labels.Entry{{Content: "x"}}, 0)
	assert.ErrorIs(t, got[0].Err, context.Canceled)
}
