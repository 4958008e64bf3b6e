// Package goroutine runs the service's background work (the TOTP log job)
// under a concurrency cap, and lets shutdown wait for it.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/seedauth/internal/pkg/stacktrace"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxGoroutine is multiplied by NumCPU when NewManager gets a
// non-positive limit.
const DefaultMaxGoroutine int = 100

// Manager starts tasks while capacity allows and collects their errors.
// After Wait it refuses new tasks.
type Manager struct {
	sema *semaphore.Weighted
	wg   sync.WaitGroup

	mu     sync.Mutex
	errs   []error
	closed bool
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{sema: semaphore.NewWeighted(int64(maxGoroutine))}
}

// Go runs f in a new goroutine. It drops f with a warning when the manager
// is closed, at capacity, or ctx is already done. Panics are logged.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	if g == nil {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	switch {
	case g.closed:
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return
	case ctx.Err() != nil:
		slog.WarnContext(ctx, "goroutine canceled", "because", ctx.Err())
		return
	case !g.sema.TryAcquire(1):
		slog.WarnContext(ctx, "Maximum goroutine limit reached, failed to start new goroutine")
		return
	}

	g.wg.Go(func() {
		defer g.sema.Release(1)
		defer recoverPanic(ctx)

		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})
}

func recoverPanic(ctx context.Context) {
	rvr := recover()
	if rvr == nil {
		return
	}

	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
}

// Wait closes the manager, blocks until running tasks return and joins
// their errors.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

// Tick schedules f to run every interval until ctx is done. Runs never
// overlap: ticks that fire while f is still running are dropped. Errors from f
// are logged and do not stop the loop.
func (g *Manager) Tick(ctx context.Context, name string, interval time.Duration, f func(ctx context.Context) error) {
	if interval <= 0 {
		slog.WarnContext(ctx, "invalid tick interval, job not scheduled", "job", name, "interval", interval)
		return
	}

	g.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := f(ctx); err != nil {
				slog.ErrorContext(ctx, "scheduled job failed", "job", name, "error", err)
			}

			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "scheduled job stopped", "job", name)
				return nil
			case <-ticker.C:
			}
		}
	})
}
