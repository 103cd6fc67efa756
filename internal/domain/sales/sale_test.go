package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priced(qty, price string) LineInput {
	return LineInput{
		ProductID: uuid.New(),
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestNewSale(t *testing.T) {
	storeID := uuid.New()
	taxRate := decimal.RequireFromString("0.08")

	t.Run("computes totals with default tax", func(t *testing.T) {
		sale, err := NewSale(storeID, nil, PaymentMethodCash, taxRate, []LineInput{
			priced("2", "10.00"),
			priced("1", "5.50"),
		})
		require.NoError(t, err)

		assert.Equal(t, SaleStatusCompleted, sale.Status)
		assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("25.50")))
		assert.True(t, sale.TaxAmount.Equal(decimal.RequireFromString("2.04")))
		assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("27.54")))
		assert.Len(t, sale.Lines, 2)
		assert.Equal(t, 1, sale.Version)
	})

	t.Run("applies line discounts", func(t *testing.T) {
		line := priced("2", "10.00")
		line.DiscountAmount = decimal.RequireFromString("3.00")

		sale, err := NewSale(storeID, nil, PaymentMethodCard, taxRate, []LineInput{line})
		require.NoError(t, err)

		// Tax is computed on the undiscounted subtotal
		assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("20.00")))
		assert.True(t, sale.DiscountAmount.Equal(decimal.RequireFromString("3.00")))
		assert.True(t, sale.TaxAmount.Equal(decimal.RequireFromString("1.60")))
		assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("18.60")))
		assert.True(t, sale.Lines[0].TotalPrice.Equal(decimal.RequireFromString("17.00")))
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		_, err := NewSale(storeID, nil, PaymentMethodCash, taxRate, nil)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_CART", domainErr.Code)
	})

	t.Run("rejects duplicate product lines", func(t *testing.T) {
		line := priced("1", "10.00")
		_, err := NewSale(storeID, nil, PaymentMethodCash, taxRate, []LineInput{line, line})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		line := priced("0", "10.00")
		_, err := NewSale(storeID, nil, PaymentMethodCash, taxRate, []LineInput{line})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewSale(storeID, nil, PaymentMethod("check"), taxRate, []LineInput{priced("1", "10.00")})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)
	})

	t.Run("zero tax rate yields zero tax", func(t *testing.T) {
		sale, err := NewSale(storeID, nil, PaymentMethodDigital, decimal.Zero, []LineInput{priced("1", "10.00")})
		require.NoError(t, err)
		assert.True(t, sale.TaxAmount.IsZero())
		assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("10.00")))
	})
}

func TestSaleVoid(t *testing.T) {
	storeID := uuid.New()
	taxRate := decimal.RequireFromString("0.08")

	t.Run("void transitions once", func(t *testing.T) {
		sale, err := NewSale(storeID, nil, PaymentMethodCash, taxRate, []LineInput{priced("1", "10.00")})
		require.NoError(t, err)
		versionBefore := sale.Version

		changed := sale.Void()
		assert.True(t, changed)
		assert.Equal(t, SaleStatusVoided, sale.Status)
		assert.NotNil(t, sale.VoidedAt)
		assert.Equal(t, versionBefore+1, sale.Version)
	})

	t.Run("voiding a voided sale is a no-op", func(t *testing.T) {
		sale, err := NewSale(storeID, nil, PaymentMethodCash, taxRate, []LineInput{priced("1", "10.00")})
		require.NoError(t, err)

		require.True(t, sale.Void())
		versionAfterFirst := sale.Version
		firstVoidedAt := *sale.VoidedAt

		changed := sale.Void()
		assert.False(t, changed)
		assert.Equal(t, versionAfterFirst, sale.Version)
		assert.Equal(t, firstVoidedAt, *sale.VoidedAt)
	})
}
