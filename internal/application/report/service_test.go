package report

import (
	"context"
	"testing"
	"time"

	"github.com/retailops/backend/internal/application/checkout"
	apptransfer "github.com/retailops/backend/internal/application/transfer"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The fixture drives a small day of business through the real services so
// the report derives from genuinely recorded state.
func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	logger := zap.NewNop()
	retry := txn.DefaultRetryConfig()

	shop, err := catalog.NewStore("Riverside", false)
	require.NoError(t, err)
	require.NoError(t, repos.Stores().Save(ctx, shop))
	warehouse, err := catalog.NewStore("Warehouse", true)
	require.NoError(t, err)
	require.NoError(t, repos.Stores().Save(ctx, warehouse))

	product, err := catalog.NewProduct("SKU-RPT", "Reported", "flower")
	require.NoError(t, err)
	require.NoError(t, product.SetPrice(decimal.RequireFromString("10.00")))
	require.NoError(t, repos.Products().Save(ctx, product))

	line, err := repos.StockLines().GetOrCreate(ctx, warehouse.ID, product.ID)
	require.NoError(t, err)
	_, err = line.Adjust(decimal.NewFromInt(100), ledger.ReasonManualCorrection, "seed", nil)
	require.NoError(t, err)
	require.NoError(t, repos.StockLines().Save(ctx, line))

	// Move 40 units to the shop and receive them
	transferSvc := apptransfer.NewService(store, logger, retry)
	created, err := transferSvc.Create(ctx, apptransfer.CreateTransferRequest{
		SourceStoreID:      warehouse.ID,
		DestinationStoreID: shop.ID,
		Lines:              []apptransfer.TransferLineRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(40)}},
	})
	require.NoError(t, err)
	_, err = transferSvc.Dispatch(ctx, created.ID)
	require.NoError(t, err)
	_, err = transferSvc.Receive(ctx, created.ID, apptransfer.ReceiveTransferRequest{}, "")
	require.NoError(t, err)

	// Two sales, one of them voided
	checkoutSvc := checkout.NewService(store, logger, decimal.RequireFromString("0.08"), retry)
	first, err := checkoutSvc.Checkout(ctx, checkout.CheckoutRequest{
		StoreID:       shop.ID,
		PaymentMethod: "cash",
		Lines:         []checkout.CheckoutLineRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)
	second, err := checkoutSvc.Checkout(ctx, checkout.CheckoutRequest{
		StoreID:       shop.ID,
		PaymentMethod: "card",
		Lines:         []checkout.CheckoutLineRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)
	_, err = checkoutSvc.VoidSale(ctx, second.ID, nil)
	require.NoError(t, err)

	service := NewService(store, logger)
	summary, err := service.DailySummary(ctx, &shop.ID, time.Now())
	require.NoError(t, err)

	// Only the completed cash sale counts toward revenue
	assert.True(t, summary.Revenue.Equal(first.TotalAmount))
	assert.Equal(t, int64(1), summary.CompletedSales)
	assert.Equal(t, int64(1), summary.VoidedSales)
	assert.True(t, summary.RevenueByPaymentMethod["cash"].Equal(first.TotalAmount))
	assert.True(t, summary.MovementByReason[ledger.ReasonTransferIn.String()].Equal(decimal.NewFromInt(40)))
	assert.True(t, summary.MovementByReason[ledger.ReasonSaleDeduction.String()].Equal(decimal.NewFromInt(-5)))
	assert.True(t, summary.MovementByReason[ledger.ReasonSaleVoidCredit.String()].Equal(decimal.NewFromInt(2)))
	assert.Equal(t, int64(1), summary.TransfersByStatus["RECEIVED"])
}

func TestProductMovement(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	shop, err := catalog.NewStore("Corner", false)
	require.NoError(t, err)
	require.NoError(t, repos.Stores().Save(ctx, shop))
	product, err := catalog.NewProduct("SKU-MV", "Moved", "flower")
	require.NoError(t, err)
	require.NoError(t, repos.Products().Save(ctx, product))

	line, err := repos.StockLines().GetOrCreate(ctx, shop.ID, product.ID)
	require.NoError(t, err)
	for _, delta := range []int64{30, -12, 5} {
		movement, err := line.Adjust(decimal.NewFromInt(delta), ledger.ReasonManualCorrection, "audit", nil)
		require.NoError(t, err)
		require.NoError(t, repos.StockMovements().Save(ctx, movement))
	}
	require.NoError(t, repos.StockLines().Save(ctx, line))

	service := NewService(store, zap.NewNop())
	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	resp, err := service.ProductMovement(ctx, shop.ID, product.ID, from, to)
	require.NoError(t, err)

	require.Len(t, resp.Rows, 3)
	assert.True(t, resp.TotalIn.Equal(decimal.NewFromInt(35)))
	assert.True(t, resp.TotalOut.Equal(decimal.NewFromInt(12)))
	assert.True(t, resp.NetChange.Equal(decimal.NewFromInt(23)))
}

func TestTotalOnHand(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	product, err := catalog.NewProduct("SKU-TOT", "Counted", "flower")
	require.NoError(t, err)
	require.NoError(t, repos.Products().Save(ctx, product))

	for _, qty := range []int64{10, 25} {
		shop, err := catalog.NewStore("Shop", false)
		require.NoError(t, err)
		require.NoError(t, repos.Stores().Save(ctx, shop))

		line, err := repos.StockLines().GetOrCreate(ctx, shop.ID, product.ID)
		require.NoError(t, err)
		_, err = line.Adjust(decimal.NewFromInt(qty), ledger.ReasonManualCorrection, "seed", nil)
		require.NoError(t, err)
		require.NoError(t, repos.StockLines().Save(ctx, line))
	}

	service := NewService(store, zap.NewNop())
	total, err := service.TotalOnHand(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(35)))
}
