package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

type saleRepository struct {
	*views
}

func cloneSale(s sales.Sale) *sales.Sale {
	copied := s
	copied.ClearDomainEvents()
	copied.Lines = make([]sales.SaleLine, len(s.Lines))
	copy(copied.Lines, s.Lines)
	return &copied
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var out *sales.Sale
	r.run(func() {
		if s, ok := r.store.sales[id]; ok {
			out = cloneSale(s)
		}
	})
	if out == nil {
		return nil, shared.ErrNotFound
	}
	return out, nil
}

func (r *saleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var out []sales.Sale
	r.run(func() {
		for _, s := range r.store.sales {
			out = append(out, *cloneSale(s))
		}
	})
	return out, nil
}

func (r *saleRepository) FindByStoreAndRange(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]sales.Sale, error) {
	var out []sales.Sale
	r.run(func() {
		for _, s := range r.store.sales {
			if s.StoreID != storeID {
				continue
			}
			if s.SoldAt.Before(from) || !s.SoldAt.Before(to) {
				continue
			}
			out = append(out, *cloneSale(s))
		}
	})
	return out, nil
}

func (r *saleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	r.run(func() {
		r.store.sales[sale.ID] = *cloneSale(*sale)
	})
	return nil
}

func (r *saleRepository) SumTotalsByRange(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	r.run(func() {
		for _, s := range r.store.sales {
			if !saleInScope(s, storeID, from, to) || s.Status != sales.SaleStatusCompleted {
				continue
			}
			total = total.Add(s.TotalAmount)
		}
	})
	return total, nil
}

func (r *saleRepository) CountByRange(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[sales.SaleStatus]int64, error) {
	out := make(map[sales.SaleStatus]int64)
	r.run(func() {
		for _, s := range r.store.sales {
			if !saleInScope(s, storeID, from, to) {
				continue
			}
			out[s.Status]++
		}
	})
	return out, nil
}

func (r *saleRepository) SumByPaymentMethod(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[sales.PaymentMethod]decimal.Decimal, error) {
	out := make(map[sales.PaymentMethod]decimal.Decimal)
	r.run(func() {
		for _, s := range r.store.sales {
			if !saleInScope(s, storeID, from, to) || s.Status != sales.SaleStatusCompleted {
				continue
			}
			out[s.PaymentMethod] = out[s.PaymentMethod].Add(s.TotalAmount)
		}
	})
	return out, nil
}

func saleInScope(s sales.Sale, storeID *uuid.UUID, from, to time.Time) bool {
	if storeID != nil && s.StoreID != *storeID {
		return false
	}
	return !s.SoldAt.Before(from) && s.SoldAt.Before(to)
}
