package seedstore

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	retryBase     = 100 * time.Millisecond
	retryCap      = 2 * time.Second
	retryAttempts = 3
)

// withRetry retries f on remote backends. Cancellation is never retried.
func withRetry(ctx context.Context, f func(ctx context.Context) error) error {
	b := retry.NewFibonacci(retryBase)
	b = retry.WithCappedDuration(retryCap, b)
	b = retry.WithMaxRetries(retryAttempts, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := f(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return retry.RetryableError(err)
	})
}
