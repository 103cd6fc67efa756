package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultReorderLevel is the threshold applied when a stock line is created
// without an explicit one.
var DefaultReorderLevel = decimal.NewFromInt(10)

// MovementReason identifies the single source a stock adjustment is
// attributable to. Every ledger mutation carries exactly one reason.
type MovementReason string

const (
	ReasonSaleDeduction        MovementReason = "SALE_DEDUCTION"
	ReasonSaleVoidCredit       MovementReason = "SALE_VOID_CREDIT"
	ReasonTransferOut          MovementReason = "TRANSFER_OUT"
	ReasonTransferIn           MovementReason = "TRANSFER_IN"
	ReasonTransferCancelCredit MovementReason = "TRANSFER_CANCEL_CREDIT"
	ReasonManualCorrection     MovementReason = "MANUAL_CORRECTION"
)

// String returns the string representation of MovementReason
func (r MovementReason) String() string {
	return string(r)
}

// IsValid returns true if the movement reason is valid
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonSaleDeduction,
		ReasonSaleVoidCredit,
		ReasonTransferOut,
		ReasonTransferIn,
		ReasonTransferCancelCredit,
		ReasonManualCorrection:
		return true
	}
	return false
}

// InsufficientStockError reports a rejected decrease with the requested and
// available amounts so callers can adjust the cart or transfer.
type InsufficientStockError struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
	Requested decimal.Decimal
	Available decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s at store %s: requested %s, available %s",
		e.ProductID, e.StoreID, e.Requested, e.Available)
}

// Is makes the error match shared.ErrInsufficientStock under errors.Is
func (e *InsufficientStockError) Is(target error) bool {
	return target == shared.ErrInsufficientStock
}

// StockLine is the ledger record of on-hand and reserved quantity for one
// product at one store. It is the aggregate root for all stock mutation;
// the composite identifier is StoreID + ProductID.
//
// Invariants, held after every operation including under concurrent callers:
// Quantity >= 0 and 0 <= ReservedQuantity <= Quantity.
type StockLine struct {
	shared.BaseAggregateRoot
	StoreID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_line_store_product,priority:1"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_line_store_product,priority:2"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderLevel     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:10"`
	LastUpdatedBy    *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockLine) TableName() string {
	return "stock_lines"
}

// NewStockLine creates an empty stock line for a store-product pair.
// Lines are created lazily on the first stock event and never deleted;
// zero quantity is a valid terminal state.
func NewStockLine(storeID, productID uuid.UUID) (*StockLine, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &StockLine{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		ProductID:         productID,
		Quantity:          decimal.Zero,
		ReservedQuantity:  decimal.Zero,
		ReorderLevel:      DefaultReorderLevel,
	}, nil
}

// AvailableQuantity returns the quantity not held by reservations
func (l *StockLine) AvailableQuantity() decimal.Decimal {
	return l.Quantity.Sub(l.ReservedQuantity)
}

// Adjust applies a signed delta to the on-hand quantity and returns the
// resulting movement record. A decrease that would drive the quantity
// negative, or below the reserved quantity, fails with
// InsufficientStockError and leaves the line untouched.
func (l *StockLine) Adjust(delta decimal.Decimal, reason MovementReason, reference string, operatorID *uuid.UUID) (*StockMovement, error) {
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown movement reason")
	}

	newQuantity := l.Quantity.Add(delta)
	if delta.IsNegative() && newQuantity.LessThan(l.ReservedQuantity) {
		return nil, &InsufficientStockError{
			StoreID:   l.StoreID,
			ProductID: l.ProductID,
			Requested: delta.Neg(),
			Available: l.AvailableQuantity(),
		}
	}

	before := l.Quantity
	l.Quantity = newQuantity
	l.LastUpdatedBy = operatorID
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	movement := NewStockMovement(l, delta, reason, reference, operatorID, before)

	l.AddDomainEvent(NewStockAdjustedEvent(l, delta, reason, reference))
	if delta.IsNegative() && l.IsLowStock() {
		l.AddDomainEvent(NewStockBelowReorderLevelEvent(l))
	}

	return movement, nil
}

// Reserve holds quantity for an in-flight operation without deducting it.
// Fails when the unreserved quantity cannot cover the requested amount.
func (l *StockLine) Reserve(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve amount must be positive")
	}
	if l.AvailableQuantity().LessThan(amount) {
		return &InsufficientStockError{
			StoreID:   l.StoreID,
			ProductID: l.ProductID,
			Requested: amount,
			Available: l.AvailableQuantity(),
		}
	}

	l.ReservedQuantity = l.ReservedQuantity.Add(amount)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Release returns reserved quantity to the available pool, flooring at zero
func (l *StockLine) Release(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Release amount must be positive")
	}

	l.ReservedQuantity = l.ReservedQuantity.Sub(amount)
	if l.ReservedQuantity.IsNegative() {
		l.ReservedQuantity = decimal.Zero
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetReorderLevel sets the low-stock threshold. Negative input is treated
// as zero.
func (l *StockLine) SetReorderLevel(level decimal.Decimal) {
	if level.IsNegative() {
		level = decimal.Zero
	}
	l.ReorderLevel = level
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsLowStock reports whether the on-hand quantity is at or below the
// reorder level. The boundary is inclusive: quantity 10 with level 10 is low.
func (l *StockLine) IsLowStock() bool {
	level := l.ReorderLevel
	if level.IsNegative() {
		level = decimal.Zero
	}
	return l.Quantity.LessThanOrEqual(level)
}
