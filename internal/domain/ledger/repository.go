package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StockLineRepository defines the interface for stock line persistence.
// The lookup is keyed and total: an absent (store, product) pair means
// quantity zero, never "which row is the real one".
type StockLineRepository interface {
	// FindByID finds a stock line by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockLine, error)

	// FindByStoreAndProduct finds the line for a store-product pair
	FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*StockLine, error)

	// FindByStore finds all stock lines in a store
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]StockLine, error)

	// FindAll finds stock lines matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockLine, error)

	// FindLowStock finds lines at or below their reorder level,
	// optionally scoped to one store (nil means all stores)
	FindLowStock(ctx context.Context, storeID *uuid.UUID, filter shared.Filter) ([]StockLine, error)

	// CountLowStock counts lines at or below their reorder level
	CountLowStock(ctx context.Context, storeID *uuid.UUID) (int64, error)

	// Save creates or updates a stock line
	Save(ctx context.Context, line *StockLine) error

	// SaveWithLock saves with optimistic locking (checks version).
	// Returns shared.ErrConcurrencyConflict when the row was modified by
	// another transaction since it was read.
	SaveWithLock(ctx context.Context, line *StockLine) error

	// GetOrCreate returns the existing line or lazily creates an empty one
	GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*StockLine, error)

	// SumQuantityByProduct sums on-hand quantity for a product across stores
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

// StockMovementRepository defines the interface for movement audit rows
type StockMovementRepository interface {
	// Save persists a movement record
	Save(ctx context.Context, movement *StockMovement) error

	// FindByReference finds all movements for a source document
	FindByReference(ctx context.Context, reference string) ([]StockMovement, error)

	// FindByStoreAndProduct finds movements for a store-product pair within a time range
	FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID, from, to time.Time) ([]StockMovement, error)

	// SumByReason sums signed movement quantity per reason within a time range
	SumByReason(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[MovementReason]decimal.Decimal, error)
}
