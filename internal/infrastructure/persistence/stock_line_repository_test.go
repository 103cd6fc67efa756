package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

func mockLine(t *testing.T) *ledger.StockLine {
	t.Helper()
	line, err := ledger.NewStockLine(uuid.New(), uuid.New())
	require.NoError(t, err)
	_, err = line.Adjust(decimal.NewFromInt(5), ledger.ReasonManualCorrection, "manual:test", nil)
	require.NoError(t, err)
	return line
}

func TestSaveWithLockSucceeds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormStockLineRepository(db)
	line := mockLine(t)

	mock.ExpectExec(`UPDATE "stock_lines" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveWithLock(context.Background(), line)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWithLockConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormStockLineRepository(db)
	line := mockLine(t)

	// Zero rows updated means the stored version no longer matches
	mock.ExpectExec(`UPDATE "stock_lines" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveWithLock(context.Background(), line)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
