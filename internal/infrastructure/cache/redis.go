package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailops/backend/internal/domain/shared"
)

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisIdempotencyStore stores processed keys in Redis so retried requests
// are deduplicated across server instances.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewRedisIdempotencyStore creates a new Redis-backed idempotency store and
// verifies connectivity.
func NewRedisIdempotencyStore(ctx context.Context, cfg RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "idem:"
	}
	return &RedisIdempotencyStore{client: client, prefix: prefix}, nil
}

// MarkProcessed marks a key as processed with a TTL using SETNX semantics.
// Returns true if the key was newly marked.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark processed: %w", err)
	}
	return ok, nil
}

// IsProcessed checks if a key has already been processed
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("check processed: %w", err)
	}
	return n > 0, nil
}

// Close closes the underlying Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
