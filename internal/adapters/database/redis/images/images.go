package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Badsnus/qrlabels/internal/domain/common/errorz"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "qrlabels:qr:"

// Storage caches produced QR PNGs keyed by content and render parameters.
type Storage struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStorage(client *redis.Client, ttl time.Duration) *Storage {
	return &Storage{
		redis: client,
		ttl:   ttl,
	}
}

// Key derives the cache key for content drawn with the given variant, e.g.
// "square/600".
func Key(content, variant string) string {
	sum := sha256.Sum256([]byte(variant + "\x00" + content))
	return keyPrefix + hex.EncodeToString(sum[:])
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorz.ErrCacheMiss
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

func (s *Storage) Set(ctx context.Context, key string, png []byte) error {
	return s.redis.Set(ctx, key, png, s.ttl).Err()
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	return s.redis.Del(ctx, key).Err()
}
