// Package memory provides an in-process implementation of the repositories
// and the transaction scope. It backs the service tests and the demo mode of
// the server; the production backend is the GORM implementation.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/retailops/backend/internal/domain/transfer"
)

// Store holds all aggregates in maps guarded by one mutex. Transactions are
// serialized: Execute takes the lock for its whole body and restores a
// snapshot when the function fails, which gives the same atomicity and
// isolation the database backend provides.
type Store struct {
	mu sync.Mutex

	stockLines     map[uuid.UUID]ledger.StockLine
	stockLineIndex map[stockKey]uuid.UUID
	movements      []ledger.StockMovement
	products       map[uuid.UUID]catalog.Product
	stores         map[uuid.UUID]catalog.Store
	sales          map[uuid.UUID]sales.Sale
	transfers      map[uuid.UUID]transfer.Transfer
}

type stockKey struct {
	storeID   uuid.UUID
	productID uuid.UUID
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		stockLines:     make(map[uuid.UUID]ledger.StockLine),
		stockLineIndex: make(map[stockKey]uuid.UUID),
		movements:      make([]ledger.StockMovement, 0),
		products:       make(map[uuid.UUID]catalog.Product),
		stores:         make(map[uuid.UUID]catalog.Store),
		sales:          make(map[uuid.UUID]sales.Sale),
		transfers:      make(map[uuid.UUID]transfer.Transfer),
	}
}

type snapshot struct {
	stockLines     map[uuid.UUID]ledger.StockLine
	stockLineIndex map[stockKey]uuid.UUID
	movementsLen   int
	products       map[uuid.UUID]catalog.Product
	stores         map[uuid.UUID]catalog.Store
	sales          map[uuid.UUID]sales.Sale
	transfers      map[uuid.UUID]transfer.Transfer
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		stockLines:     copyMap(s.stockLines),
		stockLineIndex: copyMap(s.stockLineIndex),
		movementsLen:   len(s.movements),
		products:       copyMap(s.products),
		stores:         copyMap(s.stores),
		sales:          copyMap(s.sales),
		transfers:      copyMap(s.transfers),
	}
}

func (s *Store) restore(snap snapshot) {
	s.stockLines = snap.stockLines
	s.stockLineIndex = snap.stockLineIndex
	s.movements = s.movements[:snap.movementsLen]
	s.products = snap.products
	s.stores = snap.stores
	s.sales = snap.sales
	s.transfers = snap.transfers
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Execute implements txn.Scope. The function runs under the store lock and
// partial writes are rolled back when it returns an error.
func (s *Store) Execute(ctx context.Context, fn func(repos txn.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&views{store: s, inTx: true}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Repositories returns non-transactional repository views. Each call locks
// the store for its own duration only.
func (s *Store) Repositories() txn.Repositories {
	return &views{store: s}
}

// views implements txn.Repositories over the store. When inTx is set the
// store lock is already held by Execute.
type views struct {
	store *Store
	inTx  bool
}

func (v *views) run(fn func()) {
	if !v.inTx {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	fn()
}

func (v *views) StockLines() ledger.StockLineRepository {
	return &stockLineRepository{views: v}
}

func (v *views) StockMovements() ledger.StockMovementRepository {
	return &stockMovementRepository{views: v}
}

func (v *views) Products() catalog.ProductRepository {
	return &productRepository{views: v}
}

func (v *views) Stores() catalog.StoreRepository {
	return &storeRepository{views: v}
}

func (v *views) Sales() sales.SaleRepository {
	return &saleRepository{views: v}
}

func (v *views) Transfers() transfer.TransferRepository {
	return &transferRepository{views: v}
}

var _ txn.Scope = (*Store)(nil)
var _ txn.Repositories = (*views)(nil)
