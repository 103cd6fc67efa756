package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest is a manual correction to one stock line
type AdjustStockRequest struct {
	StoreID    uuid.UUID       `json:"store_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Delta      decimal.Decimal `json:"delta"`
	Reference  string          `json:"reference"`
	OperatorID *uuid.UUID      `json:"operator_id"`
}

// StockResponse is the response representation of a stock line. An absent
// line reads as a zero-quantity one.
type StockResponse struct {
	StoreID           uuid.UUID       `json:"store_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	IsLowStock        bool            `json:"is_low_stock"`
}

// MovementResponse is one audit row of the movement history
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	StoreID       uuid.UUID       `json:"store_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Reason        string          `json:"reason"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reference     string          `json:"reference,omitempty"`
	OperatorID    *uuid.UUID      `json:"operator_id,omitempty"`
	MovedAt       time.Time       `json:"moved_at"`
}

// ToStockResponse converts a stock line to its response representation
func ToStockResponse(line *ledger.StockLine) StockResponse {
	return StockResponse{
		StoreID:           line.StoreID,
		ProductID:         line.ProductID,
		Quantity:          line.Quantity,
		ReservedQuantity:  line.ReservedQuantity,
		AvailableQuantity: line.AvailableQuantity(),
		ReorderLevel:      line.ReorderLevel,
		IsLowStock:        line.IsLowStock(),
	}
}

// ToStockResponses converts stock lines to their response representations
func ToStockResponses(lines []ledger.StockLine) []StockResponse {
	out := make([]StockResponse, 0, len(lines))
	for i := range lines {
		out = append(out, ToStockResponse(&lines[i]))
	}
	return out
}

// ToMovementResponse converts a movement to its response representation
func ToMovementResponse(m *ledger.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		StoreID:       m.StoreID,
		ProductID:     m.ProductID,
		Reason:        m.Reason.String(),
		Quantity:      m.Quantity,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Reference:     m.Reference,
		OperatorID:    m.OperatorID,
		MovedAt:       m.MovedAt,
	}
}
