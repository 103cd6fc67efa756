package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CheckoutLineRequest is one cart line
type CheckoutLineRequest struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

// CheckoutRequest is the request to commit a cart. TaxRate, when set,
// overrides the configured default for this sale only.
type CheckoutRequest struct {
	StoreID       uuid.UUID             `json:"store_id"`
	CashierID     *uuid.UUID            `json:"cashier_id"`
	PaymentMethod string                `json:"payment_method"`
	TaxRate       *decimal.Decimal      `json:"tax_rate,omitempty"`
	Notes         string                `json:"notes"`
	Lines         []CheckoutLineRequest `json:"lines"`
}

// SaleLineResponse is one line of a committed sale
type SaleLineResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalPrice     decimal.Decimal `json:"total_price"`
}

// SaleResponse is the response representation of a sale
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	StoreID        uuid.UUID          `json:"store_id"`
	CashierID      *uuid.UUID         `json:"cashier_id,omitempty"`
	Status         string             `json:"status"`
	PaymentMethod  string             `json:"payment_method"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	Notes          string             `json:"notes,omitempty"`
	SoldAt         time.Time          `json:"sold_at"`
	VoidedAt       *time.Time         `json:"voided_at,omitempty"`
	Lines          []SaleLineResponse `json:"lines"`
}

// ToSaleResponse converts a sale to its response representation
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	lines := make([]SaleLineResponse, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		lines = append(lines, SaleLineResponse{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      line.UnitPrice,
			DiscountAmount: line.DiscountAmount,
			TotalPrice:     line.TotalPrice,
		})
	}

	return SaleResponse{
		ID:             sale.ID,
		StoreID:        sale.StoreID,
		CashierID:      sale.CashierID,
		Status:         sale.Status.String(),
		PaymentMethod:  string(sale.PaymentMethod),
		Subtotal:       sale.Subtotal,
		TaxAmount:      sale.TaxAmount,
		DiscountAmount: sale.DiscountAmount,
		TotalAmount:    sale.TotalAmount,
		Notes:          sale.Notes,
		SoldAt:         sale.SoldAt,
		VoidedAt:       sale.VoidedAt,
		Lines:          lines,
	}
}
