package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its lines
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var t transfer.Transfer
	if err := r.db.WithContext(ctx).Preload("Lines").First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds transfers matching the filter
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.Transfer, error) {
	var result []transfer.Transfer
	query := r.db.WithContext(ctx).Model(&transfer.Transfer{}).Preload("Lines")
	if err := applyFilter(query, filter).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindByStore finds transfers where the store is source or destination
func (r *GormTransferRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]transfer.Transfer, error) {
	var result []transfer.Transfer
	query := r.db.WithContext(ctx).
		Model(&transfer.Transfer{}).
		Preload("Lines").
		Where("source_store_id = ? OR destination_store_id = ?", storeID, storeID)
	if err := applyFilter(query, filter).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save creates or updates a transfer together with its lines
func (r *GormTransferRepository) Save(ctx context.Context, t *transfer.Transfer) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(t).Error
}

// SaveWithLock saves with optimistic locking. The transfer row is the lock
// carrier; lines are written only after the version check lands.
func (r *GormTransferRepository) SaveWithLock(ctx context.Context, t *transfer.Transfer) error {
	result := r.db.WithContext(ctx).
		Model(t).
		Where("id = ? AND version = ?", t.ID, t.Version-1).
		Updates(map[string]interface{}{
			"status":        t.Status,
			"notes":         t.Notes,
			"dispatched_at": t.DispatchedAt,
			"received_at":   t.ReceivedAt,
			"cancelled_at":  t.CancelledAt,
			"version":       t.Version,
			"updated_at":    t.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if len(t.Lines) > 0 {
		if err := r.db.WithContext(ctx).Save(&t.Lines).Error; err != nil {
			return err
		}
	}
	return nil
}

// CountByStatus counts transfers per status created within a time range
func (r *GormTransferRepository) CountByStatus(ctx context.Context, storeID *uuid.UUID, from, to time.Time) (map[transfer.TransferStatus]int64, error) {
	var rows []struct {
		Status transfer.TransferStatus
		Count  int64
	}
	query := r.db.WithContext(ctx).
		Model(&transfer.Transfer{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("status")
	if storeID != nil {
		query = query.Where("source_store_id = ? OR destination_store_id = ?", *storeID, *storeID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[transfer.TransferStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

var _ transfer.TransferRepository = (*GormTransferRepository)(nil)
