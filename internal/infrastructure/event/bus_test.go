package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	types    []string
	received []shared.DomainEvent
	fail     bool
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.fail {
		return errors.New("boom")
	}
	h.received = append(h.received, event)
	return nil
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func newAdjustedEvent(t *testing.T) *ledger.StockAdjustedEvent {
	t.Helper()
	line, err := ledger.NewStockLine(uuid.New(), uuid.New())
	require.NoError(t, err)
	return ledger.NewStockAdjustedEvent(line, decimal.NewFromInt(1), ledger.ReasonManualCorrection, "test")
}

func TestInMemoryEventBus(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to subscribed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{ledger.EventTypeStockAdjusted}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newAdjustedEvent(t)))
		assert.Len(t, handler.received, 1)
	})

	t.Run("does not deliver unrelated event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{ledger.EventTypeStockBelowReorderLevel}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newAdjustedEvent(t)))
		assert.Empty(t, handler.received)
	})

	t.Run("failing handler does not block others", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{ledger.EventTypeStockAdjusted}, fail: true}
		working := &recordingHandler{types: []string{ledger.EventTypeStockAdjusted}}
		bus.Subscribe(failing)
		bus.Subscribe(working)

		require.NoError(t, bus.Publish(ctx, newAdjustedEvent(t)))
		assert.Len(t, working.received, 1)
	})

	t.Run("unsubscribed handler stops receiving", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{ledger.EventTypeStockAdjusted}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(ctx, newAdjustedEvent(t)))
		assert.Empty(t, handler.received)
	})
}
