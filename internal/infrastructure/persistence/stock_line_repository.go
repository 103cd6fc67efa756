package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockLineRepository implements StockLineRepository using GORM
type GormStockLineRepository struct {
	db *gorm.DB
}

// NewGormStockLineRepository creates a new GormStockLineRepository
func NewGormStockLineRepository(db *gorm.DB) *GormStockLineRepository {
	return &GormStockLineRepository{db: db}
}

// FindByID finds a stock line by its ID
func (r *GormStockLineRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.StockLine, error) {
	var line ledger.StockLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindByStoreAndProduct finds the line for a store-product pair
func (r *GormStockLineRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*ledger.StockLine, error) {
	var line ledger.StockLine
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// FindByStore finds all stock lines in a store
func (r *GormStockLineRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]ledger.StockLine, error) {
	var lines []ledger.StockLine
	query := applyFilter(
		r.db.WithContext(ctx).Model(&ledger.StockLine{}).Where("store_id = ?", storeID),
		filter,
	)
	if err := query.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindAll finds stock lines matching the filter
func (r *GormStockLineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.StockLine, error) {
	var lines []ledger.StockLine
	query := applyFilter(r.db.WithContext(ctx).Model(&ledger.StockLine{}), filter)
	if err := query.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindLowStock finds lines at or below their reorder level.
// The boundary is inclusive.
func (r *GormStockLineRepository) FindLowStock(ctx context.Context, storeID *uuid.UUID, filter shared.Filter) ([]ledger.StockLine, error) {
	var lines []ledger.StockLine
	query := r.db.WithContext(ctx).Model(&ledger.StockLine{}).
		Where("quantity <= reorder_level")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := applyFilter(query, filter).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// CountLowStock counts lines at or below their reorder level
func (r *GormStockLineRepository) CountLowStock(ctx context.Context, storeID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ledger.StockLine{}).
		Where("quantity <= reorder_level")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a stock line
func (r *GormStockLineRepository) Save(ctx context.Context, line *ledger.StockLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// SaveWithLock saves with optimistic locking. The update only lands when the
// stored version still matches the version the aggregate was loaded at; a
// zero-row update means another writer got there first.
func (r *GormStockLineRepository) SaveWithLock(ctx context.Context, line *ledger.StockLine) error {
	result := r.db.WithContext(ctx).
		Model(line).
		Where("id = ? AND version = ?", line.ID, line.Version-1).
		Updates(map[string]interface{}{
			"quantity":          line.Quantity,
			"reserved_quantity": line.ReservedQuantity,
			"reorder_level":     line.ReorderLevel,
			"last_updated_by":   line.LastUpdatedBy,
			"version":           line.Version,
			"updated_at":        line.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GetOrCreate returns the existing line or lazily creates an empty one
func (r *GormStockLineRepository) GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*ledger.StockLine, error) {
	line, err := r.FindByStoreAndProduct(ctx, storeID, productID)
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	line, err = ledger.NewStockLine(storeID, productID)
	if err != nil {
		return nil, err
	}

	// ON CONFLICT handles the race where two writers create the same pair
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(line)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return r.FindByStoreAndProduct(ctx, storeID, productID)
	}
	return line, nil
}

// SumQuantityByProduct sums on-hand quantity for a product across stores
func (r *GormStockLineRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&ledger.StockLine{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("product_id = ?", productID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

var _ ledger.StockLineRepository = (*GormStockLineRepository)(nil)
