// Package assets turns label entries into QR images: pre-rendered files from
// the asset directory first, then the image cache, then the QR producer.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/Badsnus/qrlabels/internal/adapters/database/redis/images"
	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/Badsnus/qrlabels/internal/domain/labels"
	"github.com/Badsnus/qrlabels/pkg/logger/types"
	qr "github.com/Badsnus/qrlabels/pkg/qrcode"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Cache stores produced QR PNGs. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, png []byte) error
	Delete(ctx context.Context, key string) error
}

type Resolver struct {
	dir     string
	qrCfg   qr.Config
	cache   Cache
	workers int
	log     *types.Logger
}

func NewResolver(dir string, qrCfg qr.Config, cache Cache, workers int, log *types.Logger) *Resolver {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Resolver{
		dir:     dir,
		qrCfg:   qrCfg,
		cache:   cache,
		workers: workers,
		log:     log,
	}
}

// Resolve returns one asset per entry, in entry order. Failures are reported
// per asset and never abort the batch. pixelSize overrides the producer's
// output size when positive.
func (r *Resolver) Resolve(ctx context.Context, entries []labels.Entry, pixelSize int) []labels.Asset {
	out := make([]labels.Asset, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := range entries {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i] = labels.Asset{Err: err}
				return nil
			}
			img, err := r.resolve(ctx, entries[i], pixelSize)
			out[i] = labels.Asset{Image: img, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func (r *Resolver) resolve(ctx context.Context, e labels.Entry, pixelSize int) (image.Image, error) {
	if e.Image != "" {
		return r.load(e.Image, pixelSize)
	}
	if strings.TrimSpace(e.Content) == "" {
		return nil, qr.ErrEmptyContent
	}
	return r.produce(ctx, e.Content, pixelSize)
}

// load reads a pre-rendered image from the asset directory.
func (r *Resolver) load(ref string, pixelSize int) (image.Image, error) {
	path, err := r.path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errorz.ErrAssetNotFound, ref)
		}
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return rasterizeSVG(f, pixelSize, r.qrCfg.Size)
	}
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

// path resolves ref inside the asset directory; references never leave it.
func (r *Resolver) path(ref string) (string, error) {
	if r.dir == "" {
		return "", fmt.Errorf("%w: no asset directory configured", errorz.ErrAssetNotFound)
	}
	clean := filepath.Clean(string(filepath.Separator) + ref)
	full := filepath.Join(r.dir, clean)
	rel, err := filepath.Rel(r.dir, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", errorz.ErrAssetOutsideDir, ref)
	}
	return full, nil
}

func (r *Resolver) produce(ctx context.Context, content string, pixelSize int) (image.Image, error) {
	cfg := r.qrCfg
	cfg.Content = content
	if pixelSize > 0 {
		cfg.Size = pixelSize
	}
	key := images.Key(content, variant(cfg))

	if r.cache != nil {
		data, err := r.cache.Get(ctx, key)
		switch {
		case err == nil:
			img, decErr := png.Decode(bytes.NewReader(data))
			if decErr == nil {
				return img, nil
			}
			r.log.Warnf("cached qr %s is not a png, regenerating: %v", key, decErr)
			if err = r.cache.Delete(ctx, key); err != nil {
				r.log.Warnf("qr cache delete: %v", err)
			}
		case !errors.Is(err, errorz.ErrCacheMiss):
			r.log.Warnf("qr cache get: %v", err)
		}
	}

	data, err := cfg.Generate()
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err = r.cache.Set(ctx, key, data); err != nil {
			r.log.Warnf("qr cache set: %v", err)
		}
	}
	return png.Decode(bytes.NewReader(data))
}

func variant(cfg qr.Config) string {
	return fmt.Sprintf("%s/%d/%d/%d/%t", cfg.Style, cfg.Size, cfg.QuietZone, cfg.RecoveryLevel, cfg.LogoPath != "")
}

func rasterizeSVG(f *os.File, pixelSize, fallback int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(f)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	side := pixelSize
	if side <= 0 {
		side = fallback
	}
	if side <= 0 {
		return nil, fmt.Errorf("svg raster size must be positive, got %d", side)
	}

	icon.SetTarget(0, 0, float64(side), float64(side))
	rgba := image.NewRGBA(image.Rect(0, 0, side, side))
	scanner := rasterx.NewScannerGV(side, side, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(side, side, scanner), 1)
	return rgba, nil
}
