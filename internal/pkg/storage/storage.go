package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrObjectNotFound is returned by every adapter for a missing key,
	// whatever the provider reports.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrObjectTooLarge is returned by Get when the object exceeds the limit.
	ErrObjectTooLarge = errors.New("storage: object too large")
)

// Storage reads and writes small whole objects.
type Storage interface {
	io.Closer

	// Put replaces the object at bucket/key with data.
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	// Get returns at most limit bytes of the object at bucket/key.
	Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error)
}

// readLimited reads r fully, failing once more than limit bytes arrive.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrObjectTooLarge, limit)
	}
	return data, nil
}
