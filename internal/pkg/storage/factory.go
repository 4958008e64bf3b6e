package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Object storage drivers accepted by seed.driver.
const (
	DriverS3    = "s3"
	DriverGCS   = "gcs"
	DriverMinIO = "minio"
)

var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryOptions carries the settings of every driver; only the selected
// one is read.
type FactoryOptions struct {
	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

type constructor func(ctx context.Context, opts FactoryOptions) (Storage, error)

var constructors = map[string]constructor{
	DriverS3: func(ctx context.Context, opts FactoryOptions) (Storage, error) {
		return NewS3(ctx, opts.S3)
	},
	DriverGCS: func(ctx context.Context, opts FactoryOptions) (Storage, error) {
		return NewGCS(ctx, opts.GCS)
	},
	DriverMinIO: func(_ context.Context, opts FactoryOptions) (Storage, error) {
		return NewMinIO(opts.MinIO)
	},
}

func normalizeDriver(driver string) string {
	return strings.ToLower(strings.TrimSpace(driver))
}

// IsDriver reports whether driver names an object storage backend.
func IsDriver(driver string) bool {
	_, ok := constructors[normalizeDriver(driver)]
	return ok
}

// Drivers lists the supported driver names in sorted order.
func Drivers() []string {
	names := lo.Keys(constructors)
	slices.Sort(names)
	return names
}

func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	newStorage, ok := constructors[normalizeDriver(driver)]
	if !ok {
		return nil, fmt.Errorf("%w %q, want one of %s", ErrUnknownDriver, driver, strings.Join(Drivers(), ", "))
	}
	return newStorage(ctx, opts)
}
