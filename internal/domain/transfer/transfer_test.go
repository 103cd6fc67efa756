package transfer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(t *testing.T, lines ...LineInput) *Transfer {
	t.Helper()
	if len(lines) == 0 {
		lines = []LineInput{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(5)}}
	}
	transfer, err := NewTransfer(uuid.New(), uuid.New(), nil, lines)
	require.NoError(t, err)
	return transfer
}

func TestNewTransfer(t *testing.T) {
	t.Run("creates pending transfer", func(t *testing.T) {
		transfer := newTestTransfer(t,
			LineInput{ProductID: uuid.New(), Quantity: decimal.NewFromInt(5)},
			LineInput{ProductID: uuid.New(), Quantity: decimal.NewFromInt(3)},
		)
		assert.Equal(t, TransferStatusPending, transfer.Status)
		assert.True(t, transfer.TotalSent().Equal(decimal.NewFromInt(8)))
		for _, line := range transfer.Lines {
			assert.Nil(t, line.QuantityReceived)
		}
	})

	t.Run("rejects same source and destination", func(t *testing.T) {
		storeID := uuid.New()
		_, err := NewTransfer(storeID, storeID, nil, []LineInput{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SAME_STORE", domainErr.Code)
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewTransfer(uuid.New(), uuid.New(), nil, nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_TRANSFER", domainErr.Code)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewTransfer(uuid.New(), uuid.New(), nil, []LineInput{{ProductID: uuid.New(), Quantity: decimal.Zero}})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})
}

func TestTransferTransitions(t *testing.T) {
	t.Run("pending to in transit", func(t *testing.T) {
		transfer := newTestTransfer(t)
		require.NoError(t, transfer.MarkInTransit())
		assert.Equal(t, TransferStatusInTransit, transfer.Status)
		assert.NotNil(t, transfer.DispatchedAt)
	})

	t.Run("dispatching twice is rejected", func(t *testing.T) {
		transfer := newTestTransfer(t)
		require.NoError(t, transfer.MarkInTransit())
		versionAfterFirst := transfer.Version

		err := transfer.MarkInTransit()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
		assert.Equal(t, versionAfterFirst, transfer.Version)
	})

	t.Run("cannot receive a pending transfer", func(t *testing.T) {
		transfer := newTestTransfer(t)
		_, err := transfer.Receive(nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})

	t.Run("cannot dispatch a received transfer", func(t *testing.T) {
		transfer := newTestTransfer(t)
		require.NoError(t, transfer.MarkInTransit())
		_, err := transfer.Receive(nil)
		require.NoError(t, err)

		err = transfer.MarkInTransit()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})

	t.Run("cannot cancel a received transfer", func(t *testing.T) {
		transfer := newTestTransfer(t)
		require.NoError(t, transfer.MarkInTransit())
		_, err := transfer.Receive(nil)
		require.NoError(t, err)

		_, err = transfer.Cancel()
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestTransferReceive(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	t.Run("full receipt without counts", func(t *testing.T) {
		transfer := newTestTransfer(t,
			LineInput{ProductID: productA, Quantity: decimal.NewFromInt(5)},
			LineInput{ProductID: productB, Quantity: decimal.NewFromInt(3)},
		)
		require.NoError(t, transfer.MarkInTransit())

		changed, err := transfer.Receive(nil)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, TransferStatusReceived, transfer.Status)
		assert.True(t, transfer.TotalShortfall().IsZero())
		for _, line := range transfer.Lines {
			require.NotNil(t, line.QuantityReceived)
			assert.True(t, line.QuantityReceived.Equal(line.QuantitySent))
		}
	})

	t.Run("partial receipt records shortfall", func(t *testing.T) {
		transfer := newTestTransfer(t,
			LineInput{ProductID: productA, Quantity: decimal.NewFromInt(5)},
			LineInput{ProductID: productB, Quantity: decimal.NewFromInt(3)},
		)
		require.NoError(t, transfer.MarkInTransit())

		changed, err := transfer.Receive([]ReceivedLine{
			{ProductID: productA, Quantity: decimal.NewFromInt(4)},
		})
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, transfer.TotalShortfall().Equal(decimal.NewFromInt(1)))
	})

	t.Run("rejects over-receipt", func(t *testing.T) {
		transfer := newTestTransfer(t, LineInput{ProductID: productA, Quantity: decimal.NewFromInt(5)})
		require.NoError(t, transfer.MarkInTransit())

		_, err := transfer.Receive([]ReceivedLine{
			{ProductID: productA, Quantity: decimal.NewFromInt(6)},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
	})

	t.Run("rejects counts for unknown products", func(t *testing.T) {
		transfer := newTestTransfer(t, LineInput{ProductID: productA, Quantity: decimal.NewFromInt(5)})
		require.NoError(t, transfer.MarkInTransit())

		_, err := transfer.Receive([]ReceivedLine{
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "UNKNOWN_PRODUCT", domainErr.Code)
	})

	t.Run("receiving twice is a no-op", func(t *testing.T) {
		transfer := newTestTransfer(t, LineInput{ProductID: productA, Quantity: decimal.NewFromInt(5)})
		require.NoError(t, transfer.MarkInTransit())

		changed, err := transfer.Receive(nil)
		require.NoError(t, err)
		require.True(t, changed)
		versionAfterFirst := transfer.Version

		changed, err = transfer.Receive([]ReceivedLine{{ProductID: productA, Quantity: decimal.NewFromInt(1)}})
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, versionAfterFirst, transfer.Version)
		assert.True(t, transfer.Lines[0].QuantityReceived.Equal(decimal.NewFromInt(5)))
	})
}

func TestTransferCancel(t *testing.T) {
	t.Run("cancel from pending", func(t *testing.T) {
		transfer := newTestTransfer(t)
		changed, err := transfer.Cancel()
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, TransferStatusCancelled, transfer.Status)
		assert.NotNil(t, transfer.CancelledAt)
	})

	t.Run("cancel from in transit", func(t *testing.T) {
		transfer := newTestTransfer(t)
		require.NoError(t, transfer.MarkInTransit())
		changed, err := transfer.Cancel()
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("cancelling twice is a no-op", func(t *testing.T) {
		transfer := newTestTransfer(t)
		changed, err := transfer.Cancel()
		require.NoError(t, err)
		require.True(t, changed)
		versionAfterFirst := transfer.Version

		changed, err = transfer.Cancel()
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, versionAfterFirst, transfer.Version)
	})
}
