package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
)

// TransferRepository defines the interface for transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)

	// FindAll finds transfers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Transfer, error)

	// FindByStore finds transfers where the store is source or destination
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Transfer, error)

	// Save creates or updates a transfer together with its lines
	Save(ctx context.Context, t *Transfer) error

	// SaveWithLock saves with optimistic locking (checks version).
	// Returns shared.ErrConcurrencyConflict when the row was modified by
	// another transaction since it was read.
	SaveWithLock(ctx context.Context, t *Transfer) error

	// CountByStatus counts transfers per status within a time range
	CountByStatus(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[TransferStatus]int64, error)
}
