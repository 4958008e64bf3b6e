package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsDriver(t *testing.T) {
	assert.True(t, IsDriver("s3"))
	assert.True(t, IsDriver(" GCS "))
	assert.True(t, IsDriver("minio"))
	assert.False(t, IsDriver("file"))
	assert.False(t, IsDriver("redis"))
}

func TestNewFromDriver_Unknown(t *testing.T) {
	_, err := NewFromDriver(context.Background(), "ftp", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)
	assert.ErrorContains(t, err, "gcs, minio, s3")
}

func TestS3MapError(t *testing.T) {
	assert.ErrorIs(t, s3MapError(&types.NoSuchKey{}), ErrObjectNotFound)
	assert.ErrorIs(t, s3MapError(&smithy.GenericAPIError{Code: "NotFound"}), ErrObjectNotFound)

	other := &smithy.GenericAPIError{Code: "AccessDenied"}
	assert.Equal(t, error(other), s3MapError(other))
}

func TestMinIOMapError(t *testing.T) {
	assert.ErrorIs(t, minioMapError(minio.ErrorResponse{StatusCode: 404}), ErrObjectNotFound)

	boom := errors.New("connection refused")
	assert.Equal(t, boom, minioMapError(boom))
}

func TestNewMinIO_Offline(t *testing.T) {
	adapter, err := NewMinIO(MinIOOptions{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	assert.NoError(t, err)
	assert.NoError(t, adapter.Close())
}

func TestReadLimited(t *testing.T) {
	data, err := readLimited(strings.NewReader("abcd"), 4)
	assert.NoError(t, err)
	assert.Equal(t, []byte("abcd"), data)

	_, err = readLimited(strings.NewReader("abcde"), 4)
	assert.ErrorIs(t, err, ErrObjectTooLarge)
}
