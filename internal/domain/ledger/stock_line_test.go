package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLine(t *testing.T, quantity int64) *StockLine {
	t.Helper()
	line, err := NewStockLine(uuid.New(), uuid.New())
	require.NoError(t, err)
	if quantity > 0 {
		_, err = line.Adjust(decimal.NewFromInt(quantity), ReasonManualCorrection, "seed", nil)
		require.NoError(t, err)
	}
	return line
}

func TestNewStockLine(t *testing.T) {
	t.Run("starts empty with default reorder level", func(t *testing.T) {
		line, err := NewStockLine(uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.True(t, line.Quantity.IsZero())
		assert.True(t, line.ReservedQuantity.IsZero())
		assert.True(t, line.ReorderLevel.Equal(DefaultReorderLevel))
	})

	t.Run("rejects empty identifiers", func(t *testing.T) {
		_, err := NewStockLine(uuid.Nil, uuid.New())
		require.Error(t, err)
		_, err = NewStockLine(uuid.New(), uuid.Nil)
		require.Error(t, err)
	})
}

func TestStockLineAdjust(t *testing.T) {
	t.Run("credit increases quantity and records movement", func(t *testing.T) {
		line := newTestLine(t, 0)
		movement, err := line.Adjust(decimal.NewFromInt(10), ReasonManualCorrection, "count", nil)
		require.NoError(t, err)

		assert.True(t, line.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, movement.BalanceBefore.IsZero())
		assert.True(t, movement.BalanceAfter.Equal(decimal.NewFromInt(10)))
		assert.True(t, movement.IsCredit())
		assert.Equal(t, "count", movement.Reference)
	})

	t.Run("debit below zero fails and leaves line untouched", func(t *testing.T) {
		line := newTestLine(t, 5)
		versionBefore := line.Version

		_, err := line.Adjust(decimal.NewFromInt(-6), ReasonSaleDeduction, "sale:x", nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(6)))
		assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(5)))

		assert.True(t, line.Quantity.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, versionBefore, line.Version)
	})

	t.Run("debit below reserved quantity fails", func(t *testing.T) {
		line := newTestLine(t, 10)
		require.NoError(t, line.Reserve(decimal.NewFromInt(4)))

		_, err := line.Adjust(decimal.NewFromInt(-7), ReasonSaleDeduction, "sale:y", nil)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
		assert.True(t, line.Quantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("debit to exactly zero succeeds", func(t *testing.T) {
		line := newTestLine(t, 5)
		movement, err := line.Adjust(decimal.NewFromInt(-5), ReasonTransferOut, "transfer:z", nil)
		require.NoError(t, err)
		assert.True(t, line.Quantity.IsZero())
		assert.False(t, movement.IsCredit())
	})

	t.Run("rejects zero delta and unknown reason", func(t *testing.T) {
		line := newTestLine(t, 5)
		_, err := line.Adjust(decimal.Zero, ReasonManualCorrection, "", nil)
		require.Error(t, err)
		_, err = line.Adjust(decimal.NewFromInt(1), MovementReason("GUESS"), "", nil)
		require.Error(t, err)
	})

	t.Run("low stock event fires on debit at the boundary", func(t *testing.T) {
		line := newTestLine(t, 11)
		line.ClearDomainEvents()

		_, err := line.Adjust(decimal.NewFromInt(-1), ReasonSaleDeduction, "sale:b", nil)
		require.NoError(t, err)

		events := line.GetDomainEvents()
		require.Len(t, events, 2)
		assert.Equal(t, EventTypeStockAdjusted, events[0].EventType())
		assert.Equal(t, EventTypeStockBelowReorderLevel, events[1].EventType())
	})

	t.Run("no low stock event on credit", func(t *testing.T) {
		line := newTestLine(t, 0)
		line.ClearDomainEvents()

		_, err := line.Adjust(decimal.NewFromInt(1), ReasonManualCorrection, "count", nil)
		require.NoError(t, err)

		events := line.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeStockAdjusted, events[0].EventType())
	})
}

func TestStockLineReserveRelease(t *testing.T) {
	t.Run("reserve reduces availability", func(t *testing.T) {
		line := newTestLine(t, 10)
		require.NoError(t, line.Reserve(decimal.NewFromInt(4)))
		assert.True(t, line.AvailableQuantity().Equal(decimal.NewFromInt(6)))
	})

	t.Run("reserve beyond availability fails", func(t *testing.T) {
		line := newTestLine(t, 10)
		require.NoError(t, line.Reserve(decimal.NewFromInt(8)))
		err := line.Reserve(decimal.NewFromInt(3))
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("release floors at zero", func(t *testing.T) {
		line := newTestLine(t, 10)
		require.NoError(t, line.Reserve(decimal.NewFromInt(2)))
		require.NoError(t, line.Release(decimal.NewFromInt(5)))
		assert.True(t, line.ReservedQuantity.IsZero())
	})
}

func TestIsLowStock(t *testing.T) {
	cases := []struct {
		name     string
		quantity int64
		level    int64
		want     bool
	}{
		{"below level", 5, 10, true},
		{"exactly at level", 10, 10, true},
		{"just above level", 11, 10, false},
		{"zero quantity zero level", 0, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			line := newTestLine(t, tc.quantity)
			line.SetReorderLevel(decimal.NewFromInt(tc.level))
			assert.Equal(t, tc.want, line.IsLowStock())
		})
	}
}

func TestSetReorderLevel(t *testing.T) {
	line := newTestLine(t, 5)
	line.SetReorderLevel(decimal.NewFromInt(-3))
	assert.True(t, line.ReorderLevel.IsZero())
}

func TestEvaluateLowStock(t *testing.T) {
	low := newTestLine(t, 5)
	ok := newTestLine(t, 50)
	boundary := newTestLine(t, 10)

	result := EvaluateLowStock([]StockLine{*low, *ok, *boundary})
	require.Len(t, result, 2)
	assert.Equal(t, low.ID, result[0].ID)
	assert.Equal(t, boundary.ID, result[1].ID)
}
