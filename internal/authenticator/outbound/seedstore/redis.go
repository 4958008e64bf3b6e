package seedstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "seedauth:seed"

// Redis keeps the seed under a single key with no expiry.
type Redis struct {
	client redis.UniversalClient
	key    string
}

func NewRedis(client redis.UniversalClient, key string) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	return &Redis{client: client, key: key}
}

func (r *Redis) Name() string { return DriverRedis }

func (r *Redis) Read(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *Redis) Write(ctx context.Context, value string) error {
	return withRetry(ctx, func(ctx context.Context) error {
		return r.client.Set(ctx, r.key, value, 0).Err()
	})
}

func (r *Redis) Close() error {
	return r.client.Close()
}
