package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// ProductRepository defines the catalog lookup the ledger core consumes
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// StoreRepository defines the store registry lookup
type StoreRepository interface {
	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindAll finds all stores
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)

	// Save creates or updates a store
	Save(ctx context.Context, store *Store) error

	// Exists checks whether a store exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
