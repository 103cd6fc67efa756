package sales

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for sales
const (
	EventTypeSaleCompleted = "sales.sale_completed"
	EventTypeSaleVoided    = "sales.sale_voided"
)

// SaleCompletedEvent is emitted when a checkout commits
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	StoreID       uuid.UUID       `json:"store_id"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	LineCount     int             `json:"line_count"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, "Sale", sale.ID),
		StoreID:         sale.StoreID,
		PaymentMethod:   sale.PaymentMethod,
		TotalAmount:     sale.TotalAmount,
		LineCount:       len(sale.Lines),
	}
}

// SaleVoidedEvent is emitted when a sale is voided
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	StoreID     uuid.UUID       `json:"store_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewSaleVoidedEvent creates a new SaleVoidedEvent
func NewSaleVoidedEvent(sale *Sale) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, "Sale", sale.ID),
		StoreID:         sale.StoreID,
		TotalAmount:     sale.TotalAmount,
	}
}
