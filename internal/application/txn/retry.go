package txn

import (
	"context"
	"errors"
	"time"

	"github.com/retailops/backend/internal/domain/shared"
)

// RetryConfig bounds the retry loop around optimistically locked transactions
type RetryConfig struct {
	// MaxAttempts is the total number of tries, including the first
	MaxAttempts int
	// Backoff is the base delay between attempts; attempt n waits n*Backoff
	Backoff time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Backoff:     25 * time.Millisecond,
	}
}

// RetryOnConflict runs fn, retrying when it fails with a concurrency
// conflict. Any other error, success, or exhaustion ends the loop; the
// last conflict error is returned so callers can surface it as a retryable
// condition.
func RetryOnConflict(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * cfg.Backoff):
		}
	}
	return err
}
