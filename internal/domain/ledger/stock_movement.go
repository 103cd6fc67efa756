package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockMovement is an immutable audit record of a single ledger adjustment.
// Once written, movements are never modified; corrections produce new
// movements. Report figures for per-product movement derive from these rows.
type StockMovement struct {
	shared.BaseEntity
	StockLineID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_store_time,priority:1"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Reason        MovementReason  `gorm:"type:varchar(30);not null;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed: positive credit, negative debit
	BalanceBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference     string          `gorm:"type:varchar(100);index"` // Source document (sale/transfer/adjustment id)
	OperatorID    *uuid.UUID      `gorm:"type:uuid"`
	MovedAt       time.Time       `gorm:"not null;index:idx_stock_movement_store_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records the adjustment just applied to a stock line
func NewStockMovement(line *StockLine, delta decimal.Decimal, reason MovementReason, reference string, operatorID *uuid.UUID, balanceBefore decimal.Decimal) *StockMovement {
	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		StockLineID:   line.ID,
		StoreID:       line.StoreID,
		ProductID:     line.ProductID,
		Reason:        reason,
		Quantity:      delta,
		BalanceBefore: balanceBefore,
		BalanceAfter:  line.Quantity,
		Reference:     reference,
		OperatorID:    operatorID,
		MovedAt:       time.Now(),
	}
}

// IsCredit returns true if the movement increased on-hand quantity
func (m *StockMovement) IsCredit() bool {
	return m.Quantity.IsPositive()
}
