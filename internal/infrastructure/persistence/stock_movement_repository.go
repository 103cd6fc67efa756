package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Movements are append-only; there is no update or delete path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Save persists a movement record
func (r *GormStockMovementRepository) Save(ctx context.Context, movement *ledger.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByReference finds all movements for a source document
func (r *GormStockMovementRepository) FindByReference(ctx context.Context, reference string) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		Order("moved_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByStoreAndProduct finds movements for a store-product pair within a time range
func (r *GormStockMovementRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID, from, to time.Time) ([]ledger.StockMovement, error) {
	var movements []ledger.StockMovement
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ? AND moved_at >= ? AND moved_at < ?", storeID, productID, from, to).
		Order("moved_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumByReason sums signed movement quantity per reason within a time range
func (r *GormStockMovementRepository) SumByReason(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[ledger.MovementReason]decimal.Decimal, error) {
	var rows []struct {
		Reason ledger.MovementReason
		Total  decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&ledger.StockMovement{}).
		Select("reason, COALESCE(SUM(quantity), 0) as total").
		Where("moved_at >= ? AND moved_at < ?", from, to).
		Group("reason")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[ledger.MovementReason]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.Reason] = row.Total
	}
	return out, nil
}

var _ ledger.StockMovementRepository = (*GormStockMovementRepository)(nil)
