package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// TransferLineRequest is one product and amount to move
type TransferLineRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest is the request to create a transfer
type CreateTransferRequest struct {
	SourceStoreID      uuid.UUID             `json:"source_store_id"`
	DestinationStoreID uuid.UUID             `json:"destination_store_id"`
	InitiatedBy        *uuid.UUID            `json:"initiated_by"`
	Notes              string                `json:"notes"`
	Lines              []TransferLineRequest `json:"lines"`
}

// ReceivedLineRequest is the counted quantity for one product at receipt
type ReceivedLineRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReceiveTransferRequest is the request to book a transfer in
type ReceiveTransferRequest struct {
	Lines []ReceivedLineRequest `json:"lines"`
}

// TransferLineResponse is one line of a transfer
type TransferLineResponse struct {
	ProductID        uuid.UUID        `json:"product_id"`
	QuantitySent     decimal.Decimal  `json:"quantity_sent"`
	QuantityReceived *decimal.Decimal `json:"quantity_received,omitempty"`
	Shortfall        decimal.Decimal  `json:"shortfall"`
}

// TransferResponse is the response representation of a transfer
type TransferResponse struct {
	ID                 uuid.UUID              `json:"id"`
	SourceStoreID      uuid.UUID              `json:"source_store_id"`
	DestinationStoreID uuid.UUID              `json:"destination_store_id"`
	Status             string                 `json:"status"`
	Notes              string                 `json:"notes,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	DispatchedAt       *time.Time             `json:"dispatched_at,omitempty"`
	ReceivedAt         *time.Time             `json:"received_at,omitempty"`
	CancelledAt        *time.Time             `json:"cancelled_at,omitempty"`
	Lines              []TransferLineResponse `json:"lines"`
}

// ToTransferResponse converts a transfer to its response representation
func ToTransferResponse(t *transfer.Transfer) TransferResponse {
	lines := make([]TransferLineResponse, 0, len(t.Lines))
	for _, line := range t.Lines {
		lines = append(lines, TransferLineResponse{
			ProductID:        line.ProductID,
			QuantitySent:     line.QuantitySent,
			QuantityReceived: line.QuantityReceived,
			Shortfall:        line.Shortfall(),
		})
	}

	return TransferResponse{
		ID:                 t.ID,
		SourceStoreID:      t.SourceStoreID,
		DestinationStoreID: t.DestinationStoreID,
		Status:             t.Status.String(),
		Notes:              t.Notes,
		CreatedAt:          t.CreatedAt,
		DispatchedAt:       t.DispatchedAt,
		ReceivedAt:         t.ReceivedAt,
		CancelledAt:        t.CancelledAt,
		Lines:              lines,
	}
}
