package storage

import (
	"context"
	"errors"

	gcs "cloud.google.com/go/storage"
)

// GCS keeps objects in Google Cloud Storage.
type GCS struct {
	client *gcs.Client
}

type GCSOptions struct {
	// Client is used as is when set; otherwise one is built from
	// application default credentials.
	Client *gcs.Client
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	if opts.Client != nil {
		return &GCS{client: opts.Client}, nil
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCS{client: client}, nil
}

func (g *GCS) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	// one request, no resumable session
	w.ChunkSize = 0

	if _, err := w.Write(data); err != nil {
		return errors.Join(err, w.Close())
	}
	return w.Close()
}

func (g *GCS) Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	r, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil, ErrObjectNotFound
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return readLimited(r, limit)
}

func (g *GCS) Close() error { return g.client.Close() }
