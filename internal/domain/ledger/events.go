package ledger

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for the stock ledger
const (
	EventTypeStockAdjusted          = "ledger.stock_adjusted"
	EventTypeStockBelowReorderLevel = "ledger.stock_below_reorder_level"
)

// StockAdjustedEvent is emitted on every ledger mutation
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	StoreID      uuid.UUID       `json:"store_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Delta        decimal.Decimal `json:"delta"`
	Reason       MovementReason  `json:"reason"`
	Reference    string          `json:"reference"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(line *StockLine, delta decimal.Decimal, reason MovementReason, reference string) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "StockLine", line.ID),
		StoreID:         line.StoreID,
		ProductID:       line.ProductID,
		Delta:           delta,
		Reason:          reason,
		Reference:       reference,
		BalanceAfter:    line.Quantity,
	}
}

// StockBelowReorderLevelEvent is emitted when a decrease lands the on-hand
// quantity at or below the reorder level
type StockBelowReorderLevelEvent struct {
	shared.BaseDomainEvent
	StoreID      uuid.UUID       `json:"store_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}

// NewStockBelowReorderLevelEvent creates a new StockBelowReorderLevelEvent
func NewStockBelowReorderLevelEvent(line *StockLine) *StockBelowReorderLevelEvent {
	return &StockBelowReorderLevelEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowReorderLevel, "StockLine", line.ID),
		StoreID:         line.StoreID,
		ProductID:       line.ProductID,
		Quantity:        line.Quantity,
		ReorderLevel:    line.ReorderLevel,
	}
}
