package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service exposes ledger reads and manual corrections
type Service struct {
	scope     txn.Scope
	publisher shared.EventPublisher
	logger    *zap.Logger
	retry     txn.RetryConfig
}

// NewService creates a new stock service
func NewService(scope txn.Scope, logger *zap.Logger, retry txn.RetryConfig) *Service {
	return &Service{
		scope:  scope,
		logger: logger,
		retry:  retry,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Get returns the stock line for a store-product pair. A pair that has never
// seen a stock event reads as a zero-quantity line; nothing is created.
func (s *Service) Get(ctx context.Context, storeID, productID uuid.UUID) (*StockResponse, error) {
	var response StockResponse
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		line, err := repos.StockLines().FindByStoreAndProduct(ctx, storeID, productID)
		if errors.Is(err, shared.ErrNotFound) {
			empty, err := ledger.NewStockLine(storeID, productID)
			if err != nil {
				return err
			}
			response = ToStockResponse(empty)
			return nil
		}
		if err != nil {
			return err
		}
		response = ToStockResponse(line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// ListByStore returns all stock lines in a store
func (s *Service) ListByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]StockResponse, error) {
	var out []StockResponse
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		lines, err := repos.StockLines().FindByStore(ctx, storeID, filter)
		if err != nil {
			return err
		}
		out = ToStockResponses(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListLowStock returns lines at or below their reorder level, optionally
// scoped to one store
func (s *Service) ListLowStock(ctx context.Context, storeID *uuid.UUID, filter shared.Filter) ([]StockResponse, error) {
	var out []StockResponse
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		lines, err := repos.StockLines().FindLowStock(ctx, storeID, filter)
		if err != nil {
			return err
		}
		out = ToStockResponses(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustManually applies a signed correction to one stock line. The
// correction respects reservations: a decrease below the reserved quantity
// is rejected like any other debit.
func (s *Service) AdjustManually(ctx context.Context, req AdjustStockRequest) (*StockResponse, error) {
	if req.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}

	var response StockResponse
	var events []shared.DomainEvent

	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		events = nil
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			exists, err := repos.Stores().Exists(ctx, req.StoreID)
			if err != nil {
				return err
			}
			if !exists {
				return shared.NewDomainError("UNKNOWN_STORE", "Store does not exist")
			}
			if _, err := repos.Products().FindByID(ctx, req.ProductID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("UNKNOWN_PRODUCT", "Product does not exist")
				}
				return err
			}

			line, err := repos.StockLines().GetOrCreate(ctx, req.StoreID, req.ProductID)
			if err != nil {
				return err
			}
			reference := req.Reference
			if reference == "" {
				reference = "manual:" + uuid.NewString()
			}
			movement, err := line.Adjust(req.Delta, ledger.ReasonManualCorrection, reference, req.OperatorID)
			if err != nil {
				return err
			}
			if err := repos.StockLines().SaveWithLock(ctx, line); err != nil {
				return err
			}
			if err := repos.StockMovements().Save(ctx, movement); err != nil {
				return err
			}
			events = append(events, line.GetDomainEvents()...)
			line.ClearDomainEvents()
			response = ToStockResponse(line)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("manual stock adjustment",
		zap.String("store_id", req.StoreID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("delta", req.Delta.String()),
	)
	return &response, nil
}

// SetReorderLevel sets the low-stock threshold for a store-product pair,
// creating the line when it does not exist yet
func (s *Service) SetReorderLevel(ctx context.Context, storeID, productID uuid.UUID, level decimal.Decimal) (*StockResponse, error) {
	var response StockResponse
	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			line, err := repos.StockLines().GetOrCreate(ctx, storeID, productID)
			if err != nil {
				return err
			}
			line.SetReorderLevel(level)
			if err := repos.StockLines().SaveWithLock(ctx, line); err != nil {
				return err
			}
			response = ToStockResponse(line)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetMovements returns the movement history for a store-product pair within
// a time range
func (s *Service) GetMovements(ctx context.Context, storeID, productID uuid.UUID, from, to time.Time) ([]MovementResponse, error) {
	var out []MovementResponse
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		movements, err := repos.StockMovements().FindByStoreAndProduct(ctx, storeID, productID, from, to)
		if err != nil {
			return err
		}
		out = make([]MovementResponse, 0, len(movements))
		for i := range movements {
			out = append(out, ToMovementResponse(&movements[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
