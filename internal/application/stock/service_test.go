package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	store     *memory.Store
	service   *Service
	storeID   uuid.UUID
	productID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	shop, err := catalog.NewStore("Uptown", false)
	require.NoError(t, err)
	require.NoError(t, repos.Stores().Save(ctx, shop))

	product, err := catalog.NewProduct("SKU-ST", "Stocked", "edible")
	require.NoError(t, err)
	require.NoError(t, repos.Products().Save(ctx, product))

	return &fixture{
		store:     store,
		service:   NewService(store, zap.NewNop(), txn.DefaultRetryConfig()),
		storeID:   shop.ID,
		productID: product.ID,
	}
}

func TestGetStock(t *testing.T) {
	ctx := context.Background()

	t.Run("absent pair reads as zero without creating a line", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.service.Get(ctx, f.storeID, f.productID)
		require.NoError(t, err)
		assert.True(t, resp.Quantity.IsZero())
		assert.True(t, resp.AvailableQuantity.IsZero())
		assert.True(t, resp.ReorderLevel.Equal(ledger.DefaultReorderLevel))
		assert.True(t, resp.IsLowStock)

		_, err = f.store.Repositories().StockLines().FindByStoreAndProduct(ctx, f.storeID, f.productID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("existing line is returned", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.AdjustManually(ctx, AdjustStockRequest{
			StoreID:   f.storeID,
			ProductID: f.productID,
			Delta:     decimal.NewFromInt(25),
		})
		require.NoError(t, err)

		resp, err := f.service.Get(ctx, f.storeID, f.productID)
		require.NoError(t, err)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(25)))
		assert.False(t, resp.IsLowStock)
	})
}

func TestAdjustManually(t *testing.T) {
	ctx := context.Background()

	t.Run("creates line lazily and writes a movement", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.service.AdjustManually(ctx, AdjustStockRequest{
			StoreID:   f.storeID,
			ProductID: f.productID,
			Delta:     decimal.NewFromInt(12),
			Reference: "cycle-count-7",
		})
		require.NoError(t, err)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(12)))

		movements, err := f.store.Repositories().StockMovements().FindByReference(ctx, "cycle-count-7")
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, ledger.ReasonManualCorrection, movements[0].Reason)
	})

	t.Run("decrease below zero is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.AdjustManually(ctx, AdjustStockRequest{
			StoreID:   f.storeID,
			ProductID: f.productID,
			Delta:     decimal.NewFromInt(-1),
		})
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	})

	t.Run("zero delta is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.AdjustManually(ctx, AdjustStockRequest{
			StoreID:   f.storeID,
			ProductID: f.productID,
			Delta:     decimal.Zero,
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("unknown store and product are rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.AdjustManually(ctx, AdjustStockRequest{
			StoreID:   uuid.New(),
			ProductID: f.productID,
			Delta:     decimal.NewFromInt(1),
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_STORE", domainErr.Code)

		_, err = f.service.AdjustManually(ctx, AdjustStockRequest{
			StoreID:   f.storeID,
			ProductID: uuid.New(),
			Delta:     decimal.NewFromInt(1),
		})
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_PRODUCT", domainErr.Code)
	})
}

func TestListLowStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Second product stays comfortably above its reorder level
	repos := f.store.Repositories()
	other, err := catalog.NewProduct("SKU-OK", "Plentiful", "edible")
	require.NoError(t, err)
	require.NoError(t, repos.Products().Save(ctx, other))

	_, err = f.service.AdjustManually(ctx, AdjustStockRequest{
		StoreID: f.storeID, ProductID: f.productID, Delta: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	_, err = f.service.AdjustManually(ctx, AdjustStockRequest{
		StoreID: f.storeID, ProductID: other.ID, Delta: decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	low, err := f.service.ListLowStock(ctx, &f.storeID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, f.productID, low[0].ProductID)
	assert.True(t, low[0].IsLowStock)
}

func TestSetReorderLevel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.AdjustManually(ctx, AdjustStockRequest{
		StoreID: f.storeID, ProductID: f.productID, Delta: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	resp, err := f.service.SetReorderLevel(ctx, f.storeID, f.productID, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, resp.ReorderLevel.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.IsLowStock)
}
