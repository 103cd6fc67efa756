package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusVoided    SaleStatus = "VOIDED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusCompleted, SaleStatusVoided:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// PaymentMethod represents how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodDigital PaymentMethod = "digital"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodDigital:
		return true
	}
	return false
}

// SaleLine is one cart line captured at checkout time. The unit price is
// copied from the catalog, not referenced live, so later price changes
// never retroactively alter historical sales.
type SaleLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// Sale is a committed checkout. It is created atomically with its lines and
// the matching ledger deductions; after creation it is immutable except for
// the void transition.
type Sale struct {
	shared.BaseAggregateRoot
	StoreID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_store_time,priority:1"`
	CashierID      *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	Status         SaleStatus      `gorm:"type:varchar(20);not null;default:'COMPLETED';index"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(20);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes          string          `gorm:"type:text"`
	SoldAt         time.Time       `gorm:"not null;index:idx_sales_store_time,priority:2"`
	VoidedAt       *time.Time

	Lines []SaleLine `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// LineInput describes one priced cart line for sale construction
type LineInput struct {
	ProductID      uuid.UUID
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	DiscountAmount decimal.Decimal
}

// NewSale creates a completed sale from priced lines. Totals are computed
// here and stored; they are never rederived from live catalog prices.
func NewSale(storeID uuid.UUID, cashierID *uuid.UUID, method PaymentMethod, taxRate decimal.Decimal, lines []LineInput) (*Sale, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("NO_STORE_CONTEXT", "No store resolvable for the transaction")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart cannot be empty")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		CashierID:         cashierID,
		Status:            SaleStatusCompleted,
		PaymentMethod:     method,
		SoldAt:            time.Now(),
		Lines:             make([]SaleLine, 0, len(lines)),
	}

	subtotal := decimal.Zero
	discount := decimal.Zero
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("UNKNOWN_PRODUCT", "Product ID cannot be empty")
		}
		if seen[in.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Cart contains the same product twice")
		}
		seen[in.ProductID] = true
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		if in.DiscountAmount.IsNegative() {
			return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
		}

		lineTotal := in.Quantity.Mul(in.UnitPrice).Sub(in.DiscountAmount)
		sale.Lines = append(sale.Lines, SaleLine{
			ID:             uuid.New(),
			SaleID:         sale.ID,
			ProductID:      in.ProductID,
			Quantity:       in.Quantity,
			UnitPrice:      in.UnitPrice,
			DiscountAmount: in.DiscountAmount,
			TotalPrice:     lineTotal,
		})
		subtotal = subtotal.Add(in.Quantity.Mul(in.UnitPrice))
		discount = discount.Add(in.DiscountAmount)
	}

	sale.Subtotal = subtotal
	sale.DiscountAmount = discount
	sale.TaxAmount = subtotal.Mul(taxRate).Round(4)
	sale.TotalAmount = subtotal.Add(sale.TaxAmount).Sub(discount)

	sale.AddDomainEvent(NewSaleCompletedEvent(sale))

	return sale, nil
}

// IsVoided returns true if the sale has been voided
func (s *Sale) IsVoided() bool {
	return s.Status == SaleStatusVoided
}

// Void marks the sale voided. Voiding an already-voided sale is a no-op
// success; the caller re-credits the ledger only when this returns a
// fresh transition.
func (s *Sale) Void() (changed bool) {
	if s.IsVoided() {
		return false
	}
	now := time.Now()
	s.Status = SaleStatusVoided
	s.VoidedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleVoidedEvent(s))

	return true
}
