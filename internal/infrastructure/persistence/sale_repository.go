package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its lines
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).Preload("Lines").First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var result []sales.Sale
	query := r.db.WithContext(ctx).Model(&sales.Sale{}).Preload("Lines")
	if err := applyFilter(query, filter).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByStoreAndRange finds sales for a store within a time range
func (r *GormSaleRepository) FindByStoreAndRange(ctx context.Context, storeID uuid.UUID, from, to time.Time) ([]sales.Sale, error) {
	var result []sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("store_id = ? AND sold_at >= ? AND sold_at < ?", storeID, from, to).
		Order("sold_at ASC").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save creates or updates a sale together with its lines
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(sale).Error
}

// SumTotalsByRange sums completed-sale revenue within a time range
func (r *GormSaleRepository) SumTotalsByRange(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("status = ? AND sold_at >= ? AND sold_at < ?", sales.SaleStatusCompleted, from, to)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountByRange counts sales per status within a time range
func (r *GormSaleRepository) CountByRange(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[sales.SaleStatus]int64, error) {
	var rows []struct {
		Status sales.SaleStatus
		Count  int64
	}
	query := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Select("status, COUNT(*) as count").
		Where("sold_at >= ? AND sold_at < ?", from, to).
		Group("status")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[sales.SaleStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// SumByPaymentMethod sums completed-sale revenue per payment method
func (r *GormSaleRepository) SumByPaymentMethod(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[sales.PaymentMethod]decimal.Decimal, error) {
	var rows []struct {
		PaymentMethod sales.PaymentMethod
		Total         decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Select("payment_method, COALESCE(SUM(total_amount), 0) as total").
		Where("status = ? AND sold_at >= ? AND sold_at < ?", sales.SaleStatusCompleted, from, to).
		Group("payment_method")
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[sales.PaymentMethod]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.PaymentMethod] = row.Total
	}
	return out, nil
}

var _ sales.SaleRepository = (*GormSaleRepository)(nil)
