package seedstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedauth/internal/pkg/storage"
)

const (
	// DriverFile selects the local file backend.
	DriverFile = "file"
	// DriverRedis selects the Redis backend.
	DriverRedis = "redis"
)

var ErrUnknownDriver = errors.New("seedstore: unknown driver")

// Options carries the settings for every backend; only the part matching
// Driver is read.
type Options struct {
	Driver string

	FilePath string

	RedisURL string
	RedisKey string

	Bucket  string
	Key     string
	Storage storage.FactoryOptions
}

// NewBackend builds the backend named by opts.Driver. Remote backends are
// pinged or opened here so a bad configuration fails at startup.
func NewBackend(ctx context.Context, opts Options) (Backend, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	switch {
	case driver == "" || driver == DriverFile:
		return NewFile(opts.FilePath), nil

	case driver == DriverRedis:
		ropts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("seedstore: parse redis url: %w", err)
		}
		client := redis.NewClient(ropts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("seedstore: ping redis: %w", err)
		}
		return NewRedis(client, opts.RedisKey), nil

	case storage.IsDriver(driver):
		if opts.Bucket == "" {
			return nil, fmt.Errorf("seedstore: bucket is required for driver %s", driver)
		}
		client, err := storage.NewFromDriver(ctx, driver, opts.Storage)
		if err != nil {
			return nil, err
		}
		return NewObject(driver, client, opts.Bucket, opts.Key), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, opts.Driver)
	}
}
