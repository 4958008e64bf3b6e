package seedstore

import (
	"context"
	"errors"

	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
	"github.com/shandysiswandi/seedauth/internal/pkg/storage"
)

// DefaultObjectKey is the object name used when none is configured.
const DefaultObjectKey = "seedauth/seed.txt"

// the stored value is one line, anything bigger is not a seed.
const maxObjectSize = 4 << 10

// Object keeps the seed in a bucket of any storage.Storage provider.
type Object struct {
	driver string
	client storage.Storage
	bucket string
	key    string
}

func NewObject(driver string, client storage.Storage, bucket, key string) *Object {
	if key == "" {
		key = DefaultObjectKey
	}
	return &Object{driver: driver, client: client, bucket: bucket, key: key}
}

func (o *Object) Name() string { return o.driver }

func (o *Object) Read(ctx context.Context) (string, error) {
	data, err := o.client.Get(ctx, o.bucket, o.key, maxObjectSize)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (o *Object) Write(ctx context.Context, value string) error {
	body := []byte(value)
	return withRetry(ctx, func(ctx context.Context) error {
		return o.client.Put(ctx, o.bucket, o.key, body, "text/plain")
	})
}

func (o *Object) Close() error {
	return o.client.Close()
}
