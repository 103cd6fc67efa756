package event

import (
	"context"

	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LowStockAlertHandler logs an alert whenever a stock line drops to or below
// its reorder level. It is the default subscriber for reorder signals; richer
// notification channels can subscribe alongside it.
type LowStockAlertHandler struct {
	logger *zap.Logger
}

// NewLowStockAlertHandler creates a new low stock alert handler
func NewLowStockAlertHandler(logger *zap.Logger) *LowStockAlertHandler {
	return &LowStockAlertHandler{logger: logger}
}

// Handle processes a low stock event
func (h *LowStockAlertHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*ledger.StockBelowReorderLevelEvent)
	if !ok {
		return nil
	}
	h.logger.Warn("stock at or below reorder level",
		zap.String("store_id", alert.StoreID.String()),
		zap.String("product_id", alert.ProductID.String()),
		zap.String("quantity", alert.Quantity.String()),
		zap.String("reorder_level", alert.ReorderLevel.String()),
	)
	return nil
}

// EventTypes returns the event types this handler is interested in
func (h *LowStockAlertHandler) EventTypes() []string {
	return []string{ledger.EventTypeStockBelowReorderLevel}
}

var _ shared.EventHandler = (*LowStockAlertHandler)(nil)
