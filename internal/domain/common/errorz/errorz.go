package errorz

import "errors"

var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrJobNotFound     = errors.New("render job not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrAssetOutsideDir = errors.New("asset path escapes asset directory")
)
