package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
)

type productRepository struct {
	*views
}

func cloneProduct(p catalog.Product) *catalog.Product {
	copied := p
	copied.ClearDomainEvents()
	return &copied
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var out *catalog.Product
	r.run(func() {
		if p, ok := r.store.products[id]; ok {
			out = cloneProduct(p)
		}
	})
	if out == nil {
		return nil, shared.ErrNotFound
	}
	return out, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	r.run(func() {
		for _, id := range ids {
			if p, ok := r.store.products[id]; ok {
				out = append(out, *cloneProduct(p))
			}
		}
	})
	return out, nil
}

func (r *productRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	r.run(func() {
		for _, p := range r.store.products {
			out = append(out, *cloneProduct(p))
		}
	})
	return out, nil
}

func (r *productRepository) Save(ctx context.Context, product *catalog.Product) error {
	r.run(func() {
		r.store.products[product.ID] = *cloneProduct(*product)
	})
	return nil
}

type storeRepository struct {
	*views
}

func cloneStore(s catalog.Store) *catalog.Store {
	copied := s
	copied.ClearDomainEvents()
	return &copied
}

func (r *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var out *catalog.Store
	r.run(func() {
		if s, ok := r.store.stores[id]; ok {
			out = cloneStore(s)
		}
	})
	if out == nil {
		return nil, shared.ErrNotFound
	}
	return out, nil
}

func (r *storeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Store, error) {
	var out []catalog.Store
	r.run(func() {
		for _, s := range r.store.stores {
			out = append(out, *cloneStore(s))
		}
	})
	return out, nil
}

func (r *storeRepository) Save(ctx context.Context, store *catalog.Store) error {
	r.run(func() {
		r.store.stores[store.ID] = *cloneStore(*store)
	})
	return nil
}

func (r *storeRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	r.run(func() {
		_, exists = r.store.stores[id]
	})
	return exists, nil
}
