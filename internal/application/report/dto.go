package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySummaryResponse aggregates one day of activity, optionally scoped to
// one store. All figures are derived from stored sales, movements, and
// transfers; nothing here mutates state.
type DailySummaryResponse struct {
	Date           string                     `json:"date"`
	StoreID        *uuid.UUID                 `json:"store_id,omitempty"`
	Revenue        decimal.Decimal            `json:"revenue"`
	CompletedSales int64                      `json:"completed_sales"`
	VoidedSales    int64                      `json:"voided_sales"`
	RevenueByPaymentMethod map[string]decimal.Decimal `json:"revenue_by_payment_method"`
	MovementByReason       map[string]decimal.Decimal `json:"movement_by_reason"`
	TransfersByStatus      map[string]int64           `json:"transfers_by_status"`
	LowStockCount          int64                      `json:"low_stock_count"`
}

// MovementRow is one audit row in a product movement report
type MovementRow struct {
	Reason        string          `json:"reason"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Reference     string          `json:"reference,omitempty"`
	MovedAt       time.Time       `json:"moved_at"`
}

// ProductMovementResponse summarizes the movement history of one product at
// one store within a time range
type ProductMovementResponse struct {
	StoreID   uuid.UUID       `json:"store_id"`
	ProductID uuid.UUID       `json:"product_id"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	TotalIn   decimal.Decimal `json:"total_in"`
	TotalOut  decimal.Decimal `json:"total_out"`
	NetChange decimal.Decimal `json:"net_change"`
	Rows      []MovementRow   `json:"rows"`
}
