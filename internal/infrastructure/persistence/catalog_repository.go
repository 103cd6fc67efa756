package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.db.WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if err := applyFilter(query, filter).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// GormStoreRepository implements StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Store, error) {
	var store catalog.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindAll finds all stores
func (r *GormStoreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Store, error) {
	var stores []catalog.Store
	if err := applyFilter(r.db.WithContext(ctx).Model(&catalog.Store{}), filter).Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, store *catalog.Store) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// Exists checks whether a store exists
func (r *GormStoreRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Store{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
var _ catalog.StoreRepository = (*GormStoreRepository)(nil)
