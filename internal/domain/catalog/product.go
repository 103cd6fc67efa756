package catalog

import (
	"strings"
	"time"

	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item in the catalog.
// The ledger core references products by ID and reads their current price;
// it never mutates them. Catalog management lives outside this service.
type Product struct {
	shared.BaseAggregateRoot
	SKU         string          `gorm:"type:varchar(50);uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Brand       string          `gorm:"type:varchar(100)"`
	Category    string          `gorm:"type:varchar(100);index"`
	Description string          `gorm:"type:text"`
	Price       *decimal.Decimal `gorm:"type:decimal(18,4)"` // nil means not yet priced, unsellable
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	THCPercent  *decimal.Decimal `gorm:"type:decimal(6,3)"`
	CBDPercent  *decimal.Decimal `gorm:"type:decimal(6,3)"`
	WeightGrams *decimal.Decimal `gorm:"type:decimal(10,3)"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name, category string) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Name:              name,
		Category:          category,
		Cost:              decimal.Zero,
		IsActive:          true,
	}, nil
}

// SetPrice sets the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = &price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// HasPrice reports whether the product carries a sellable price
func (p *Product) HasPrice() bool {
	return p.Price != nil
}

// CurrentPrice returns the selling price, zero when unpriced
func (p *Product) CurrentPrice() decimal.Decimal {
	if p.Price == nil {
		return decimal.Zero
	}
	return *p.Price
}

// Deactivate removes the product from sale without deleting history
func (p *Product) Deactivate() {
	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}
