package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

type stockLineRepository struct {
	*views
}

func cloneStockLine(line ledger.StockLine) *ledger.StockLine {
	copied := line
	copied.ClearDomainEvents()
	return &copied
}

func (r *stockLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockLine, error) {
	var out *ledger.StockLine
	r.run(func() {
		if line, ok := r.store.stockLines[id]; ok {
			out = cloneStockLine(line)
		}
	})
	if out == nil {
		return nil, shared.ErrNotFound
	}
	return out, nil
}

func (r *stockLineRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*ledger.StockLine, error) {
	var out *ledger.StockLine
	r.run(func() {
		if id, ok := r.store.stockLineIndex[stockKey{storeID, productID}]; ok {
			line := r.store.stockLines[id]
			out = cloneStockLine(line)
		}
	})
	if out == nil {
		return nil, shared.ErrNotFound
	}
	return out, nil
}

func (r *stockLineRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]ledger.StockLine, error) {
	var out []ledger.StockLine
	r.run(func() {
		for _, line := range r.store.stockLines {
			if line.StoreID == storeID {
				out = append(out, *cloneStockLine(line))
			}
		}
	})
	return out, nil
}

func (r *stockLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.StockLine, error) {
	var out []ledger.StockLine
	r.run(func() {
		for _, line := range r.store.stockLines {
			out = append(out, *cloneStockLine(line))
		}
	})
	return out, nil
}

func (r *stockLineRepository) FindLowStock(ctx context.Context, storeID *uuid.UUID, filter shared.Filter) ([]ledger.StockLine, error) {
	var out []ledger.StockLine
	r.run(func() {
		for _, line := range r.store.stockLines {
			if storeID != nil && line.StoreID != *storeID {
				continue
			}
			if line.IsLowStock() {
				out = append(out, *cloneStockLine(line))
			}
		}
	})
	return out, nil
}

func (r *stockLineRepository) CountLowStock(ctx context.Context, storeID *uuid.UUID) (int64, error) {
	var count int64
	r.run(func() {
		for _, line := range r.store.stockLines {
			if storeID != nil && line.StoreID != *storeID {
				continue
			}
			if line.IsLowStock() {
				count++
			}
		}
	})
	return count, nil
}

func (r *stockLineRepository) Save(ctx context.Context, line *ledger.StockLine) error {
	r.run(func() {
		r.store.stockLines[line.ID] = *cloneStockLine(*line)
		r.store.stockLineIndex[stockKey{line.StoreID, line.ProductID}] = line.ID
	})
	return nil
}

func (r *stockLineRepository) SaveWithLock(ctx context.Context, line *ledger.StockLine) error {
	var err error
	r.run(func() {
		current, exists := r.store.stockLines[line.ID]
		if exists && current.Version != line.Version-1 {
			err = shared.ErrConcurrencyConflict
			return
		}
		r.store.stockLines[line.ID] = *cloneStockLine(*line)
		r.store.stockLineIndex[stockKey{line.StoreID, line.ProductID}] = line.ID
	})
	return err
}

func (r *stockLineRepository) GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*ledger.StockLine, error) {
	var out *ledger.StockLine
	var err error
	r.run(func() {
		if id, ok := r.store.stockLineIndex[stockKey{storeID, productID}]; ok {
			line := r.store.stockLines[id]
			out = cloneStockLine(line)
			return
		}
		var line *ledger.StockLine
		line, err = ledger.NewStockLine(storeID, productID)
		if err != nil {
			return
		}
		r.store.stockLines[line.ID] = *cloneStockLine(*line)
		r.store.stockLineIndex[stockKey{storeID, productID}] = line.ID
		out = line
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stockLineRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	r.run(func() {
		for _, line := range r.store.stockLines {
			if line.ProductID == productID {
				total = total.Add(line.Quantity)
			}
		}
	})
	return total, nil
}

type stockMovementRepository struct {
	*views
}

func (r *stockMovementRepository) Save(ctx context.Context, movement *ledger.StockMovement) error {
	r.run(func() {
		r.store.movements = append(r.store.movements, *movement)
	})
	return nil
}

func (r *stockMovementRepository) FindByReference(ctx context.Context, reference string) ([]ledger.StockMovement, error) {
	var out []ledger.StockMovement
	r.run(func() {
		for _, m := range r.store.movements {
			if m.Reference == reference {
				out = append(out, m)
			}
		}
	})
	return out, nil
}

func (r *stockMovementRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID, from, to time.Time) ([]ledger.StockMovement, error) {
	var out []ledger.StockMovement
	r.run(func() {
		for _, m := range r.store.movements {
			if m.StoreID != storeID || m.ProductID != productID {
				continue
			}
			if m.MovedAt.Before(from) || !m.MovedAt.Before(to) {
				continue
			}
			out = append(out, m)
		}
	})
	return out, nil
}

func (r *stockMovementRepository) SumByReason(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[ledger.MovementReason]decimal.Decimal, error) {
	out := make(map[ledger.MovementReason]decimal.Decimal)
	r.run(func() {
		for _, m := range r.store.movements {
			if storeID != nil && m.StoreID != *storeID {
				continue
			}
			if m.MovedAt.Before(from) || !m.MovedAt.Before(to) {
				continue
			}
			out[m.Reason] = out[m.Reason].Add(m.Quantity)
		}
	})
	return out, nil
}
