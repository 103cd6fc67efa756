package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first mark wins", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		fresh, err := store.MarkProcessed(ctx, "op-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, "op-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("is processed reflects marks", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		processed, err := store.IsProcessed(ctx, "op-2")
		require.NoError(t, err)
		assert.False(t, processed)

		_, err = store.MarkProcessed(ctx, "op-2", time.Minute)
		require.NoError(t, err)

		processed, err = store.IsProcessed(ctx, "op-2")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired keys can be reused", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, err := store.MarkProcessed(ctx, "op-3", time.Millisecond)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "op-3")
		require.NoError(t, err)
		assert.False(t, processed)

		fresh, err := store.MarkProcessed(ctx, "op-3", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)
	})
}
