package checkout

import (
	"context"
	"errors"
	"sync"
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
	store   *memory.Store
	service *Service
	storeID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()

	shop, err := catalog.NewStore("Main Street", false)
	require.NoError(t, err)
	require.NoError(t, store.Repositories().Stores().Save(context.Background(), shop))

	return &fixture{
		store:   store,
		service: NewService(store, zap.NewNop(), decimal.RequireFromString("0.08"), txn.DefaultRetryConfig()),
		storeID: shop.ID,
	}
}

func (f *fixture) seedProduct(t *testing.T, price string, stock int64) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	repos := f.store.Repositories()

	product, err := catalog.NewProduct("SKU-"+uuid.NewString()[:8], "Test Product", "flower")
	require.NoError(t, err)
	require.NoError(t, product.SetPrice(decimal.RequireFromString(price)))
	require.NoError(t, repos.Products().Save(ctx, product))

	if stock > 0 {
		line, err := repos.StockLines().GetOrCreate(ctx, f.storeID, product.ID)
		require.NoError(t, err)
		_, err = line.Adjust(decimal.NewFromInt(stock), ledger.ReasonManualCorrection, "seed", nil)
		require.NoError(t, err)
		require.NoError(t, repos.StockLines().Save(ctx, line))
	}
	return product.ID
}

func (f *fixture) quantity(t *testing.T, productID uuid.UUID) decimal.Decimal {
	t.Helper()
	line, err := f.store.Repositories().StockLines().FindByStoreAndProduct(context.Background(), f.storeID, productID)
	require.NoError(t, err)
	return line.Quantity
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts stock and records the sale", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 20)

		resp, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			Lines: []CheckoutLineRequest{
				{ProductID: productID, Quantity: decimal.NewFromInt(3)},
			},
		})
		require.NoError(t, err)

		assert.Equal(t, "COMPLETED", resp.Status)
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("32.40")))
		assert.True(t, f.quantity(t, productID).Equal(decimal.NewFromInt(17)))

		movements, err := f.store.Repositories().StockMovements().FindByReference(ctx, "sale:"+resp.ID.String())
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, ledger.ReasonSaleDeduction, movements[0].Reason)
		assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-3)))
	})

	t.Run("request tax rate overrides the configured default", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 20)
		rate := decimal.RequireFromString("0.05")

		resp, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			TaxRate:       &rate,
			Lines: []CheckoutLineRequest{
				{ProductID: productID, Quantity: decimal.NewFromInt(3)},
			},
		})
		require.NoError(t, err)

		assert.True(t, resp.TaxAmount.Equal(decimal.RequireFromString("1.50")))
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("31.50")))
	})

	t.Run("zero tax rate override charges no tax", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 20)
		rate := decimal.Zero

		resp, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			TaxRate:       &rate,
			Lines:         []CheckoutLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(3)}},
		})
		require.NoError(t, err)

		assert.True(t, resp.TaxAmount.IsZero())
		assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("30.00")))
	})

	t.Run("out-of-range tax rate is rejected", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 20)

		for _, raw := range []string{"-0.01", "1", "1.5"} {
			rate := decimal.RequireFromString(raw)
			_, err := f.service.Checkout(ctx, CheckoutRequest{
				StoreID:       f.storeID,
				PaymentMethod: "cash",
				TaxRate:       &rate,
				Lines:         []CheckoutLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
			})
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr, "rate %s", raw)
			assert.Equal(t, "INVALID_TAX_RATE", domainErr.Code)
		}
		assert.True(t, f.quantity(t, productID).Equal(decimal.NewFromInt(20)))
	})

	t.Run("insufficient stock rolls back the whole cart", func(t *testing.T) {
		f := newFixture(t)
		plenty := f.seedProduct(t, "10.00", 100)
		scarce := f.seedProduct(t, "5.00", 2)

		_, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "card",
			Lines: []CheckoutLineRequest{
				{ProductID: plenty, Quantity: decimal.NewFromInt(10)},
				{ProductID: scarce, Quantity: decimal.NewFromInt(5)},
			},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		// No partial deduction survived
		assert.True(t, f.quantity(t, plenty).Equal(decimal.NewFromInt(100)))
		assert.True(t, f.quantity(t, scarce).Equal(decimal.NewFromInt(2)))
	})

	t.Run("unknown store", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 5)

		_, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       uuid.New(),
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_STORE", domainErr.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_PRODUCT", domainErr.Code)
	})

	t.Run("unpriced product", func(t *testing.T) {
		f := newFixture(t)
		repos := f.store.Repositories()
		product, err := catalog.NewProduct("SKU-NOPRICE", "Unpriced", "flower")
		require.NoError(t, err)
		require.NoError(t, repos.Products().Save(ctx, product))

		_, err = f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PRODUCT_NOT_PRICED", domainErr.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
	})

	t.Run("duplicate product in cart", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 10)

		_, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			Lines: []CheckoutLineRequest{
				{ProductID: productID, Quantity: decimal.NewFromInt(1)},
				{ProductID: productID, Quantity: decimal.NewFromInt(2)},
			},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)
	})
}

func TestVoidSale(t *testing.T) {
	ctx := context.Background()

	t.Run("re-credits every line", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 20)

		resp, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)
		require.True(t, f.quantity(t, productID).Equal(decimal.NewFromInt(15)))

		voided, err := f.service.VoidSale(ctx, resp.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, "VOIDED", voided.Status)
		assert.True(t, f.quantity(t, productID).Equal(decimal.NewFromInt(20)))
	})

	t.Run("voiding twice does not credit twice", func(t *testing.T) {
		f := newFixture(t)
		productID := f.seedProduct(t, "10.00", 20)

		resp, err := f.service.Checkout(ctx, CheckoutRequest{
			StoreID:       f.storeID,
			PaymentMethod: "cash",
			Lines:         []CheckoutLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)

		_, err = f.service.VoidSale(ctx, resp.ID, nil)
		require.NoError(t, err)
		voided, err := f.service.VoidSale(ctx, resp.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, "VOIDED", voided.Status)
		assert.True(t, f.quantity(t, productID).Equal(decimal.NewFromInt(20)))
	})

	t.Run("unknown sale", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.VoidSale(ctx, uuid.New(), nil)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestConcurrentCheckouts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	productID := f.seedProduct(t, "10.00", 50)

	const attempts = 100
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Checkout(ctx, CheckoutRequest{
				StoreID:       f.storeID,
				PaymentMethod: "cash",
				Lines:         []CheckoutLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, insufficient int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, shared.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 50, succeeded)
	assert.Equal(t, 50, insufficient)
	assert.True(t, f.quantity(t, productID).IsZero())
}
