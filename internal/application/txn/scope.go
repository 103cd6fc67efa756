package txn

import (
	"context"

	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/retailops/backend/internal/domain/transfer"
)

// Scope provides transactional access to the repositories. When a function
// is executed within a scope, all repository operations are part of the same
// database transaction and commit or roll back atomically.
type Scope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories provides access to all repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Aggregate boundary notes:
//   - StockLines is the write path for all ledger mutation; movements are
//     append-only rows written alongside each line save.
//   - Sales and Transfers persist their lines through GORM association
//     handling when the aggregate root is saved.
type Repositories interface {
	// StockLines returns the stock line repository scoped to the current transaction
	StockLines() ledger.StockLineRepository
	// StockMovements returns the movement repository scoped to the current transaction
	StockMovements() ledger.StockMovementRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Stores returns the store repository scoped to the current transaction
	Stores() catalog.StoreRepository
	// Sales returns the sale repository scoped to the current transaction
	Sales() sales.SaleRepository
	// Transfers returns the transfer repository scoped to the current transaction
	Transfers() transfer.TransferRepository
}
