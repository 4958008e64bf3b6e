//go:build integration

package seedstore

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedis_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	backend, err := NewBackend(ctx, Options{Driver: DriverRedis, RedisURL: url, RedisKey: "test:seed"})
	require.NoError(t, err)
	store := New(backend, instrument.NewNoop())
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, entity.ErrNotProvisioned)

	require.NoError(t, store.Put(ctx, mustSeed(t, seedA)))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, seedA, got.String())

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	raw := redis.NewClient(opts)
	t.Cleanup(func() { _ = raw.Close() })

	ttl, err := raw.TTL(ctx, "test:seed").Result()
	require.NoError(t, err)
	assert.True(t, ttl < 0, "seed must not expire")

	require.NoError(t, raw.Set(ctx, "test:seed", "garbage", 0).Err())
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, entity.ErrCorruptStoredSeed)
}
