package inbound

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/seedauth/internal/authenticator/entity"
	"github.com/shandysiswandi/seedauth/internal/authenticator/usecase"
	"github.com/shandysiswandi/seedauth/internal/pkg/clock"
	"github.com/shandysiswandi/seedauth/internal/pkg/config"
	"github.com/shandysiswandi/seedauth/internal/pkg/goerror"
	"github.com/shandysiswandi/seedauth/internal/pkg/goroutine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	mu    sync.Mutex
	code  string
	err   error
	block chan struct{}
	calls int
}

func (f *fakeGenerator) GenerateCode(context.Context) (*usecase.GenerateCodeOutput, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.GenerateCodeOutput{Code: f.code, ValidFor: 10}, nil
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var cronNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func readLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestCronJob_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("writes code line", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "cron", "last_code.txt")
		job := NewCronJob(&fakeGenerator{code: "012345"}, clock.Fixed(cronNow), out)

		require.NoError(t, job.Run(ctx))
		require.NoError(t, job.Run(ctx))

		assert.Equal(t, []string{
			"2025-03-04 05:06:07 2FA Code: 012345",
			"2025-03-04 05:06:07 2FA Code: 012345",
		}, readLines(t, out))
		assert.Equal(t, uint64(2), job.Runs())
	})

	t.Run("not provisioned", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "last_code.txt")
		err := goerror.WrapBusiness(entity.ErrNotProvisioned, "Seed not decrypted yet", goerror.CodeUnavailable)
		job := NewCronJob(&fakeGenerator{err: err}, clock.Fixed(cronNow), out)

		require.NoError(t, job.Run(ctx))
		assert.Equal(t, []string{"2025-03-04 05:06:07 Seed not found"}, readLines(t, out))
	})

	t.Run("other errors are returned", func(t *testing.T) {
		boom := errors.New("corrupt")
		job := NewCronJob(&fakeGenerator{err: boom}, clock.Fixed(cronNow), "")

		assert.ErrorIs(t, job.Run(ctx), boom)
	})

	t.Run("non utc clock is normalized", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "last_code.txt")
		loc := time.FixedZone("WIB", 7*3600)
		job := NewCronJob(&fakeGenerator{code: "999999"}, clock.Fixed(cronNow.In(loc)), out)

		require.NoError(t, job.Run(ctx))
		assert.Equal(t, []string{"2025-03-04 05:06:07 2FA Code: 999999"}, readLines(t, out))
	})
}

func TestCronJob_SkipsOverlap(t *testing.T) {
	gen := &fakeGenerator{code: "123456", block: make(chan struct{})}
	job := NewCronJob(gen, clock.Fixed(cronNow), "")
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- job.Run(ctx) }()

	require.Eventually(t, func() bool { return job.running.Load() }, time.Second, 5*time.Millisecond)
	assert.NoError(t, job.Run(ctx))

	close(gen.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gen.Calls())
	assert.Equal(t, uint64(1), job.Runs())
}

func TestRegisterCronJob(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  authenticator:\n    cron:\n      enabled: false\n"))
		require.NoError(t, err)

		job := RegisterCronJob(context.Background(), cfg, goroutine.NewManager(1), clock.Fixed(cronNow), &fakeGenerator{})
		assert.Nil(t, job)
	})

	t.Run("enabled runs immediately", func(t *testing.T) {
		cfg, err := config.NewViperFromBytes("yaml", []byte("modules:\n  authenticator:\n    cron:\n      enabled: true\n      interval_seconds: 3600\n"))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		routine := goroutine.NewManager(2)
		gen := &fakeGenerator{code: "123456"}

		job := RegisterCronJob(ctx, cfg, routine, clock.Fixed(cronNow), gen)
		require.NotNil(t, job)
		require.Eventually(t, func() bool { return gen.Calls() == 1 }, time.Second, 5*time.Millisecond)

		cancel()
		assert.NoError(t, routine.Wait())
	})
}
