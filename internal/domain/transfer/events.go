package transfer

import (
	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants for transfers
const (
	EventTypeTransferCreated    = "transfer.transfer_created"
	EventTypeTransferDispatched = "transfer.transfer_dispatched"
	EventTypeTransferReceived   = "transfer.transfer_received"
	EventTypeTransferCancelled  = "transfer.transfer_cancelled"
)

// TransferCreatedEvent is emitted when a transfer is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	SourceStoreID      uuid.UUID       `json:"source_store_id"`
	DestinationStoreID uuid.UUID       `json:"destination_store_id"`
	TotalSent          decimal.Decimal `json:"total_sent"`
	LineCount          int             `json:"line_count"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeTransferCreated, "Transfer", t.ID),
		SourceStoreID:      t.SourceStoreID,
		DestinationStoreID: t.DestinationStoreID,
		TotalSent:          t.TotalSent(),
		LineCount:          len(t.Lines),
	}
}

// TransferDispatchedEvent is emitted when a transfer goes in transit
type TransferDispatchedEvent struct {
	shared.BaseDomainEvent
	SourceStoreID      uuid.UUID `json:"source_store_id"`
	DestinationStoreID uuid.UUID `json:"destination_store_id"`
}

// NewTransferDispatchedEvent creates a new TransferDispatchedEvent
func NewTransferDispatchedEvent(t *Transfer) *TransferDispatchedEvent {
	return &TransferDispatchedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeTransferDispatched, "Transfer", t.ID),
		SourceStoreID:      t.SourceStoreID,
		DestinationStoreID: t.DestinationStoreID,
	}
}

// TransferReceivedEvent is emitted when a transfer is booked in
type TransferReceivedEvent struct {
	shared.BaseDomainEvent
	DestinationStoreID uuid.UUID       `json:"destination_store_id"`
	TotalShortfall     decimal.Decimal `json:"total_shortfall"`
}

// NewTransferReceivedEvent creates a new TransferReceivedEvent
func NewTransferReceivedEvent(t *Transfer) *TransferReceivedEvent {
	return &TransferReceivedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeTransferReceived, "Transfer", t.ID),
		DestinationStoreID: t.DestinationStoreID,
		TotalShortfall:     t.TotalShortfall(),
	}
}

// TransferCancelledEvent is emitted when a transfer is cancelled
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	SourceStoreID uuid.UUID       `json:"source_store_id"`
	TotalSent     decimal.Decimal `json:"total_sent"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *Transfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCancelled, "Transfer", t.ID),
		SourceStoreID:   t.SourceStoreID,
		TotalSent:       t.TotalSent(),
	}
}
