package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed operation keys to prevent duplicate
// processing. Retried receive/cancel/void calls after a crash consult the
// store before touching the ledger.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed keys.
	// After this duration, the same key can be processed again.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
