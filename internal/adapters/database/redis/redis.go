package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Badsnus/qrlabels/internal/adapters/database/redis/images"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Images *images.Storage
}

type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func New(opts Options) (*Client, error) {
	imageStorage := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := imageStorage.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping image storage: %w", err)
	}

	return &Client{
		Images: images.NewStorage(imageStorage, opts.TTL),
	}, nil
}
