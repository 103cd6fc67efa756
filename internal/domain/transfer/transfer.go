package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransferStatus represents the status of a stock transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusInTransit TransferStatus = "IN_TRANSIT"
	TransferStatusReceived  TransferStatus = "RECEIVED"
	TransferStatusCancelled TransferStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusReceived, TransferStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransferStatus
func (s TransferStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is possible
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusReceived || s == TransferStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return target == TransferStatusInTransit || target == TransferStatusCancelled
	case TransferStatusInTransit:
		return target == TransferStatusReceived || target == TransferStatusCancelled
	}
	return false
}

// TransferLine is one product on a transfer. QuantitySent is fixed at
// creation when the stock leaves the source; QuantityReceived is recorded at
// receipt and may be lower. The difference is not re-credited anywhere, so
// shrinkage stays visible on the line.
type TransferLine struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey"`
	TransferID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	QuantitySent     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	QuantityReceived *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (TransferLine) TableName() string {
	return "transfer_lines"
}

// Shortfall returns the sent quantity never booked in at the destination.
// Zero until the line has been received.
func (l *TransferLine) Shortfall() decimal.Decimal {
	if l.QuantityReceived == nil {
		return decimal.Zero
	}
	return l.QuantitySent.Sub(*l.QuantityReceived)
}

// Transfer moves stock between two stores. Stock leaves the source ledger
// the moment the transfer is created, so goods in transit are owned by the
// transfer itself and counted nowhere else.
type Transfer struct {
	shared.BaseAggregateRoot
	SourceStoreID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	DestinationStoreID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status             TransferStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Notes              string         `gorm:"type:text"`
	InitiatedBy        *uuid.UUID     `gorm:"type:uuid"`
	DispatchedAt       *time.Time
	ReceivedAt         *time.Time
	CancelledAt        *time.Time

	Lines []TransferLine `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (Transfer) TableName() string {
	return "transfers"
}

// LineInput describes one product and amount to transfer
type LineInput struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// NewTransfer creates a pending transfer. The caller is responsible for
// deducting the sent quantities from the source ledger in the same
// transaction.
func NewTransfer(sourceStoreID, destinationStoreID uuid.UUID, initiatedBy *uuid.UUID, lines []LineInput) (*Transfer, error) {
	if sourceStoreID == uuid.Nil || destinationStoreID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Source and destination stores are required")
	}
	if sourceStoreID == destinationStoreID {
		return nil, shared.NewDomainError("SAME_STORE", "Source and destination stores must differ")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_TRANSFER", "Transfer must contain at least one line")
	}

	transfer := &Transfer{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		SourceStoreID:      sourceStoreID,
		DestinationStoreID: destinationStoreID,
		Status:             TransferStatusPending,
		InitiatedBy:        initiatedBy,
		Lines:              make([]TransferLine, 0, len(lines)),
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	for _, in := range lines {
		if in.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("UNKNOWN_PRODUCT", "Product ID cannot be empty")
		}
		if seen[in.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Transfer contains the same product twice")
		}
		seen[in.ProductID] = true
		if in.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
		}
		transfer.Lines = append(transfer.Lines, TransferLine{
			ID:           uuid.New(),
			TransferID:   transfer.ID,
			ProductID:    in.ProductID,
			QuantitySent: in.Quantity,
		})
	}

	transfer.AddDomainEvent(NewTransferCreatedEvent(transfer))

	return transfer, nil
}

// MarkInTransit dispatches a pending transfer. The ledger is not touched;
// the sent quantities already left the source at creation. Unlike receive
// and cancel, dispatch is not idempotent: a repeat call fails.
func (t *Transfer) MarkInTransit() error {
	if !t.Status.CanTransitionTo(TransferStatusInTransit) {
		return shared.NewDomainErrorf("INVALID_TRANSITION", "Cannot dispatch transfer in status %s", t.Status)
	}
	now := time.Now()
	t.Status = TransferStatusInTransit
	t.DispatchedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferDispatchedEvent(t))

	return nil
}

// ReceivedLine carries the counted quantity for one product at receipt
type ReceivedLine struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// Receive books the transfer in at the destination. Each line records what
// was actually counted, capped by what was sent; products missing from the
// input are received in full. Receiving a received transfer is a no-op
// success and returns changed=false so the caller skips the ledger credit.
func (t *Transfer) Receive(received []ReceivedLine) (changed bool, err error) {
	if t.Status == TransferStatusReceived {
		return false, nil
	}
	if !t.Status.CanTransitionTo(TransferStatusReceived) {
		return false, shared.NewDomainErrorf("INVALID_TRANSITION", "Cannot receive transfer in status %s", t.Status)
	}

	counted := make(map[uuid.UUID]decimal.Decimal, len(received))
	for _, r := range received {
		if r.Quantity.IsNegative() {
			return false, shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
		}
		if _, ok := counted[r.ProductID]; ok {
			return false, shared.NewDomainError("DUPLICATE_PRODUCT", "Received counts contain the same product twice")
		}
		counted[r.ProductID] = r.Quantity
	}
	for productID := range counted {
		found := false
		for i := range t.Lines {
			if t.Lines[i].ProductID == productID {
				found = true
				break
			}
		}
		if !found {
			return false, shared.NewDomainError("UNKNOWN_PRODUCT", "Received counts reference a product not on the transfer")
		}
	}

	for i := range t.Lines {
		line := &t.Lines[i]
		qty := line.QuantitySent
		if c, ok := counted[line.ProductID]; ok {
			if c.GreaterThan(line.QuantitySent) {
				return false, shared.NewDomainError("INVALID_QUANTITY", "Cannot receive more than was sent")
			}
			qty = c
		}
		booked := qty
		line.QuantityReceived = &booked
	}

	now := time.Now()
	t.Status = TransferStatusReceived
	t.ReceivedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferReceivedEvent(t))

	return true, nil
}

// Cancel aborts a pending or in-transit transfer. The caller re-credits the
// full sent quantities to the source ledger when this returns a fresh
// transition; cancelling a cancelled transfer is a no-op success.
func (t *Transfer) Cancel() (changed bool, err error) {
	if t.Status == TransferStatusCancelled {
		return false, nil
	}
	if !t.Status.CanTransitionTo(TransferStatusCancelled) {
		return false, shared.NewDomainErrorf("INVALID_TRANSITION", "Cannot cancel transfer in status %s", t.Status)
	}
	now := time.Now()
	t.Status = TransferStatusCancelled
	t.CancelledAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransferCancelledEvent(t))

	return true, nil
}

// TotalSent sums the sent quantity across lines
func (t *Transfer) TotalSent() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.QuantitySent)
	}
	return total
}

// TotalShortfall sums the per-line shortfall across lines
func (t *Transfer) TotalShortfall() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		total = total.Add(line.Shortfall())
	}
	return total
}
