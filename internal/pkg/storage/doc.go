// Package storage is a minimal object storage abstraction over S3, Google
// Cloud Storage and MinIO. It exposes only what the seed store needs and
// normalizes "no such key" into ErrObjectNotFound.
package storage
