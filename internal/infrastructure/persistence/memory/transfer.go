package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/transfer"
)

type transferRepository struct {
	*views
}

func cloneTransfer(t transfer.Transfer) *transfer.Transfer {
	copied := t
	copied.ClearDomainEvents()
	copied.Lines = make([]transfer.TransferLine, len(t.Lines))
	for i, line := range t.Lines {
		copied.Lines[i] = line
		if line.QuantityReceived != nil {
			qty := *line.QuantityReceived
			copied.Lines[i].QuantityReceived = &qty
		}
	}
	return &copied
}

func (r *transferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var out *transfer.Transfer
	r.run(func() {
		if t, ok := r.store.transfers[id]; ok {
			out = cloneTransfer(t)
		}
	})
	if out == nil {
		return nil, shared.ErrNotFound
	}
	return out, nil
}

func (r *transferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.Transfer, error) {
	var out []transfer.Transfer
	r.run(func() {
		for _, t := range r.store.transfers {
			out = append(out, *cloneTransfer(t))
		}
	})
	return out, nil
}

func (r *transferRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]transfer.Transfer, error) {
	var out []transfer.Transfer
	r.run(func() {
		for _, t := range r.store.transfers {
			if t.SourceStoreID == storeID || t.DestinationStoreID == storeID {
				out = append(out, *cloneTransfer(t))
			}
		}
	})
	return out, nil
}

func (r *transferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	r.run(func() {
		r.store.transfers[t.ID] = *cloneTransfer(*t)
	})
	return nil
}

func (r *transferRepository) SaveWithLock(ctx context.Context, t *transfer.Transfer) error {
	var err error
	r.run(func() {
		current, exists := r.store.transfers[t.ID]
		if exists && current.Version != t.Version-1 {
			err = shared.ErrConcurrencyConflict
			return
		}
		r.store.transfers[t.ID] = *cloneTransfer(*t)
	})
	return err
}

func (r *transferRepository) CountByStatus(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[transfer.TransferStatus]int64, error) {
	out := make(map[transfer.TransferStatus]int64)
	r.run(func() {
		for _, t := range r.store.transfers {
			if storeID != nil && t.SourceStoreID != *storeID && t.DestinationStoreID != *storeID {
				continue
			}
			if t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
				continue
			}
			out[t.Status]++
		}
	})
	return out, nil
}
