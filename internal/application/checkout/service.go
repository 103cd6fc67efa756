package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/catalog"
	"github.com/retailops/backend/internal/domain/ledger"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/retailops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service commits carts against the stock ledger. A checkout either deducts
// every line and records the sale, or changes nothing; the same holds for a
// void in the opposite direction.
type Service struct {
	scope     txn.Scope
	publisher shared.EventPublisher
	logger    *zap.Logger
	taxRate   decimal.Decimal
	retry     txn.RetryConfig
}

// NewService creates a new checkout service
func NewService(scope txn.Scope, logger *zap.Logger, taxRate decimal.Decimal, retry txn.RetryConfig) *Service {
	return &Service{
		scope:   scope,
		logger:  logger,
		taxRate: taxRate,
		retry:   retry,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Checkout atomically deducts every cart line from the store's ledger and
// records the sale. Concurrent checkouts against the same stock lines are
// retried on version conflicts; when the retries are exhausted the conflict
// is returned for the caller to retry.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*SaleResponse, error) {
	method := sales.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart cannot be empty")
	}
	taxRate := s.taxRate
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be in [0, 1)")
		}
		taxRate = *req.TaxRate
	}

	var sale *sales.Sale
	var events []shared.DomainEvent

	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		sale = nil
		events = nil
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			exists, err := repos.Stores().Exists(ctx, req.StoreID)
			if err != nil {
				return err
			}
			if !exists {
				return shared.NewDomainError("UNKNOWN_STORE", "Store does not exist")
			}

			lineInputs, err := s.priceLines(ctx, repos, req.Lines)
			if err != nil {
				return err
			}

			sale, err = sales.NewSale(req.StoreID, req.CashierID, method, taxRate, lineInputs)
			if err != nil {
				return err
			}
			sale.Notes = req.Notes
			reference := "sale:" + sale.ID.String()

			for _, line := range sale.Lines {
				if err := s.adjustStock(ctx, repos, req.StoreID, line.ProductID, line.Quantity.Neg(), ledger.ReasonSaleDeduction, reference, req.CashierID, &events); err != nil {
					return err
				}
			}

			if err := repos.Sales().Save(ctx, sale); err != nil {
				return err
			}
			events = append(events, sale.GetDomainEvents()...)
			sale.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("checkout committed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("store_id", req.StoreID.String()),
		zap.Int("lines", len(sale.Lines)),
		zap.String("total", sale.TotalAmount.String()),
	)

	response := ToSaleResponse(sale)
	return &response, nil
}

// VoidSale reverses a committed sale, re-crediting every line to the ledger.
// Voiding an already-voided sale succeeds without touching the ledger again.
func (s *Service) VoidSale(ctx context.Context, saleID uuid.UUID, operatorID *uuid.UUID) (*SaleResponse, error) {
	var sale *sales.Sale
	var events []shared.DomainEvent

	err := txn.RetryOnConflict(ctx, s.retry, func() error {
		sale = nil
		events = nil
		return s.scope.Execute(ctx, func(repos txn.Repositories) error {
			var err error
			sale, err = repos.Sales().FindByID(ctx, saleID)
			if err != nil {
				return err
			}

			if !sale.Void() {
				return nil
			}
			reference := "sale-void:" + sale.ID.String()

			for _, line := range sale.Lines {
				if err := s.adjustStock(ctx, repos, sale.StoreID, line.ProductID, line.Quantity, ledger.ReasonSaleVoidCredit, reference, operatorID, &events); err != nil {
					return err
				}
			}

			if err := repos.Sales().Save(ctx, sale); err != nil {
				return err
			}
			events = append(events, sale.GetDomainEvents()...)
			sale.ClearDomainEvents()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("sale voided",
		zap.String("sale_id", sale.ID.String()),
		zap.String("store_id", sale.StoreID.String()),
	)

	response := ToSaleResponse(sale)
	return &response, nil
}

// priceLines resolves products and snapshots their current prices
func (s *Service) priceLines(ctx context.Context, repos txn.Repositories, lines []CheckoutLineRequest) ([]sales.LineInput, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := repos.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	inputs := make([]sales.LineInput, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok || !product.IsActive {
			return nil, shared.NewDomainErrorf("UNKNOWN_PRODUCT", "Product %s is not sellable", line.ProductID)
		}
		if !product.HasPrice() {
			return nil, shared.NewDomainErrorf("PRODUCT_NOT_PRICED", "Product %s has no price", line.ProductID)
		}
		inputs = append(inputs, sales.LineInput{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPrice:      product.CurrentPrice(),
			DiscountAmount: line.DiscountAmount,
		})
	}
	return inputs, nil
}

// adjustStock applies one ledger adjustment inside the current transaction
// and queues the resulting domain events for post-commit publishing.
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
