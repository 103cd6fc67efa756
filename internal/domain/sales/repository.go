package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll finds sales matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// FindByStoreAndRange finds sales for a store within a time range
	FindByStoreAndRange(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]Sale, error)

	// Save creates or updates a sale together with its lines
	Save(ctx context.Context, sale *Sale) error

	// SumTotalsByRange sums completed-sale revenue within a time range,
	// optionally scoped to one store (nil means all stores)
	SumTotalsByRange(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)

	// CountByRange counts sales per status within a time range
	CountByRange(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[SaleStatus]int64, error)

	// SumByPaymentMethod sums completed-sale revenue per payment method
	SumByPaymentMethod(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[PaymentMethod]decimal.Decimal, error)
}
