package persistence

import (
	"context"

	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/retailops/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormScope implements txn.Scope using GORM transactions. It provides atomic
// execution of multiple repository operations.
type GormScope struct {
	db *gorm.DB
}

// NewGormScope creates a new GormScope
func NewGormScope(db *gorm.DB) *GormScope {
	return &GormScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormScope) Execute(ctx context.Context, fn func(repos txn.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

// Repositories returns repositories bound to the connection outside any
// transaction, for read paths that do not need atomicity.
func (s *GormScope) Repositories() txn.Repositories {
	return &gormRepositories{tx: s.db}
}

// gormRepositories provides access to all repositories within a transaction
type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) StockLines() ledger.StockLineRepository {
	return NewGormStockLineRepository(r.tx)
}

func (r *gormRepositories) StockMovements() ledger.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormRepositories) Stores() catalog.StoreRepository {
	return NewGormStoreRepository(r.tx)
}

func (r *gormRepositories) Sales() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormRepositories) Transfers() transfer.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

var _ txn.Scope = (*GormScope)(nil)
var _ txn.Repositories = (*gormRepositories)(nil)
