package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/retailops/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service moves stock between stores through the transfer state machine.
// The sent quantity leaves the source ledger when the transfer is created;
// from that point the goods belong to the transfer until they are received
// at the destination or the transfer is cancelled back to the source.
type Service struct {
	scope       txn.Scope
	publisher   shared.EventPublisher
	idempotency shared.IdempotencyStore
	idemCfg     shared.IdempotencyConfig
	logger      *zap.Logger
	retry       txn.RetryConfig
}

// NewService creates a new transfer service
func NewService(scope txn.Scope, logger *zap.Logger, retry txn.RetryConfig) *Service {
	return &Service{
		scope:   scope,
		logger:  logger,
		retry:   retry,
		idemCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetIdempotencyStore sets the store consulted for client-supplied
// idempotency keys on receive and cancel
func (s *Service) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idemCfg = cfg
}

// Create creates a pending transfer and deducts the sent quantities from the
// source store in the same transaction. A source line that cannot cover its
// quantity fails the whole transfer.
func (s *Service) Create(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	var created *transfer.Transfer
	var events []shared.DomainEvent

	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		created = nil
		events = nil
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			for _, storeID := range []uuid.UUID{req.SourceStoreID, req.DestinationStoreID} {
				exists, err := repos.Stores().Exists(ctx, storeID)
				if err != nil {
					return err
				}
				if !exists {
					return shared.NewDomainError("UNKNOWN_STORE", "Store does not exist")
				}
			}

			lines := make([]transfer.LineInput, 0, len(req.Lines))
			for _, line := range req.Lines {
				lines = append(lines, transfer.LineInput{ProductID: line.ProductID, Quantity: line.Quantity})
			}

			var err error
			created, err = transfer.NewTransfer(req.SourceStoreID, req.DestinationStoreID, req.InitiatedBy, lines)
			if err != nil {
				return err
			}
			created.Notes = req.Notes
			reference := "transfer:" + created.ID.String()

			for _, line := range created.Lines {
				if err := s.adjustStock(ctx, repos, req.SourceStoreID, line.ProductID, line.QuantitySent.Neg(), ledger.ReasonTransferOut, reference, req.InitiatedBy, &events); err != nil {
					return err
				}
			}

			if err := repos.Transfers().Save(ctx, created); err != nil {
				return err
			}
			events = append(events, created.GetDomainEvents()...)
			created.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("transfer created",
		zap.String("transfer_id", created.ID.String()),
		zap.String("source", req.SourceStoreID.String()),
		zap.String("destination", req.DestinationStoreID.String()),
	)

	response := ToTransferResponse(created)
	return &response, nil
}

// Dispatch moves a pending transfer to in transit
func (s *Service) Dispatch(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	var updated *transfer.Transfer
	var events []shared.DomainEvent

	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		updated = nil
		events = nil
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			var err error
			updated, err = repos.Transfers().FindByID(ctx, transferID)
			if err != nil {
				return err
			}
			if err := updated.MarkInTransit(); err != nil {
				return err
			}
			if err := repos.Transfers().SaveWithLock(ctx, updated); err != nil {
				return err
			}
			events = append(events, updated.GetDomainEvents()...)
			updated.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	response := ToTransferResponse(updated)
	return &response, nil
}

// Receive books an in-transit transfer in at the destination, crediting the
// counted quantities. Shortfall against the sent quantity is recorded on the
// lines and credited nowhere. The idempotencyKey, when non-empty, guards
// against duplicate delivery of the same receive request.
func (s *Service) Receive(ctx context.Context, transferID uuid.UUID, req ReceiveTransferRequest, idempotencyKey string) (*TransferResponse, error) {
	if done, resp, err := s.alreadyProcessed(ctx, transferID, "receive", idempotencyKey); done || err != nil {
		return resp, err
	}

	var updated *transfer.Transfer
	var events []shared.DomainEvent

	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		updated = nil
		events = nil
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			var err error
			updated, err = repos.Transfers().FindByID(ctx, transferID)
			if err != nil {
				return err
			}

			counted := make([]transfer.ReceivedLine, 0, len(req.Lines))
			for _, line := range req.Lines {
				counted = append(counted, transfer.ReceivedLine{ProductID: line.ProductID, Quantity: line.Quantity})
			}

			changed, err := updated.Receive(counted)
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}
			reference := "transfer:" + updated.ID.String()

			for _, line := range updated.Lines {
				if line.QuantityReceived == nil || line.QuantityReceived.IsZero() {
					continue
				}
				if err := s.adjustStock(ctx, repos, updated.DestinationStoreID, line.ProductID, *line.QuantityReceived, ledger.ReasonTransferIn, reference, nil, &events); err != nil {
					return err
				}
			}

			if err := repos.Transfers().SaveWithLock(ctx, updated); err != nil {
				return err
			}
			events = append(events, updated.GetDomainEvents()...)
			updated.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.markProcessed(ctx, transferID, "receive", idempotencyKey)
	s.publish(ctx, events)
	s.logger.Info("transfer received",
		zap.String("transfer_id", updated.ID.String()),
		zap.String("shortfall", updated.TotalShortfall().String()),
	)

	response := ToTransferResponse(updated)
	return &response, nil
}

// Cancel aborts a pending or in-transit transfer, re-crediting the full sent
// quantities to the source store. Cancelling an already-cancelled transfer
// succeeds without touching the ledger again.
func (s *Service) Cancel(ctx context.Context, transferID uuid.UUID, idempotencyKey string) (*TransferResponse, error) {
	if done, resp, err := s.alreadyProcessed(ctx, transferID, "cancel", idempotencyKey); done || err != nil {
		return resp, err
	}

	var updated *transfer.Transfer
	var events []shared.DomainEvent

	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		updated = nil
		events = nil
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			var err error
			updated, err = repos.Transfers().FindByID(ctx, transferID)
			if err != nil {
				return err
			}

			changed, err := updated.Cancel()
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}
			reference := "transfer-cancel:" + updated.ID.String()

			for _, line := range updated.Lines {
				if err := s.adjustStock(ctx, repos, updated.SourceStoreID, line.ProductID, line.QuantitySent, ledger.ReasonTransferCancelCredit, reference, nil, &events); err != nil {
					return err
				}
			}

			if err := repos.Transfers().SaveWithLock(ctx, updated); err != nil {
				return err
			}
			events = append(events, updated.GetDomainEvents()...)
			updated.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.markProcessed(ctx, transferID, "cancel", idempotencyKey)
	s.publish(ctx, events)
	s.logger.Info("transfer cancelled", zap.String("transfer_id", updated.ID.String()))

	response := ToTransferResponse(updated)
	return &response, nil
}

// Get returns a transfer by ID
func (s *Service) Get(ctx context.Context, transferID uuid.UUID) (*TransferResponse, error) {
	var found *transfer.Transfer
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		found, err = repos.Transfers().FindByID(ctx, transferID)
		return err
	})
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(found)
	return &response, nil
}

// alreadyProcessed short-circuits a repeated request carrying a known
// idempotency key by returning the transfer's current state.
func (s *Service) alreadyProcessed(ctx context.Context, transferID uuid.UUID, op, key string) (bool, *TransferResponse, error) {
	if s.idempotency == nil || !s.idemCfg.Enabled || key == "" {
		return false, nil, nil
	}
	processed, err := s.idempotency.IsProcessed(ctx, idempotencyKey(transferID, op, key))
	if err != nil {
		s.logger.Warn("idempotency lookup failed", zap.Error(err))
		return false, nil, nil
	}
	if !processed {
		return false, nil, nil
	}
	resp, err := s.Get(ctx, transferID)
	return true, resp, err
}

func (s *Service) markProcessed(ctx context.Context, transferID uuid.UUID, op, key string) {
	if s.idempotency == nil || !s.idemCfg.Enabled || key == "" {
		return
	}
	if _, err := s.idempotency.MarkProcessed(ctx, idempotencyKey(transferID, op, key), s.idemCfg.TTL); err != nil {
		s.logger.Warn("idempotency mark failed", zap.Error(err))
	}
}

func idempotencyKey(transferID uuid.UUID, op, key string) string {
	return "transfer:" + transferID.String() + ":" + op + ":" + key
}

func (s *Service) adjustStock(ctx context.Context, repos txn.Repositories, storeID, productID uuid.UUID, delta decimal.Decimal, reason ledger.MovementReason, reference string, operatorID *uuid.UUID, events *[]shared.DomainEvent) error {
	line, err := repos.StockLines().GetOrCreate(ctx, storeID, productID)
	if err != nil {
		return err
	}
	movement, err := line.Adjust(delta, reason, reference, operatorID)
	if err != nil {
		return err
	}
	if err := repos.StockLines().SaveWithLock(ctx, line); err != nil {
		return err
	}
	if err := repos.StockMovements().Save(ctx, movement); err != nil {
		return err
	}
	*events = append(*events, line.GetDomainEvents()...)
	line.ClearDomainEvents()
	return nil
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
