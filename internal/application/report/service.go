package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailops/backend/internal/application/txn"
	"github.com/retailops/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service derives read-only reporting views from the ledger, sales, and
// transfers. It never writes.
type Service struct {
	scope  txn.Scope
	logger *zap.Logger
}

// NewService creates a new report service
func NewService(scope txn.Scope, logger *zap.Logger) *Service {
	return &Service{scope: scope, logger: logger}
}

// DailySummary aggregates revenue, sale counts, movement totals, transfer
// counts, and the low-stock count for one calendar day. The day boundary is
// taken in the supplied time's location.
func (s *Service) DailySummary(ctx context.Context, storeID *uuid.UUID, day time.Time) (*DailySummaryResponse, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24 * time.Hour)

	out := &DailySummaryResponse{
		Date:    from.Format("2006-01-02"),
		StoreID: storeID,
	}

	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		revenue, err := repos.Sales().SumTotalsByRange(ctx, storeID, from, to)
		if err != nil {
			return err
		}
		out.Revenue = revenue

		counts, err := repos.Sales().CountByRange(ctx, storeID, from, to)
		if err != nil {
			return err
		}
		out.CompletedSales = counts[sales.SaleStatusCompleted]
		out.VoidedSales = counts[sales.SaleStatusVoided]

		byMethod, err := repos.Sales().SumByPaymentMethod(ctx, storeID, from, to)
		if err != nil {
			return err
		}
		out.RevenueByPaymentMethod = make(map[string]decimal.Decimal, len(byMethod))
		for method, total := range byMethod {
			out.RevenueByPaymentMethod[string(method)] = total
		}

		byReason, err := repos.StockMovements().SumByReason(ctx, storeID, from, to)
		if err != nil {
			return err
		}
		out.MovementByReason = make(map[string]decimal.Decimal, len(byReason))
		for reason, total := range byReason {
			out.MovementByReason[reason.String()] = total
		}

		byStatus, err := repos.Transfers().CountByStatus(ctx, storeID, from, to)
		if err != nil {
			return err
		}
		out.TransfersByStatus = make(map[string]int64, len(byStatus))
		for status, count := range byStatus {
			out.TransfersByStatus[status.String()] = count
		}

		lowStock, err := repos.StockLines().CountLowStock(ctx, storeID)
		if err != nil {
			return err
		}
		out.LowStockCount = lowStock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ProductMovement summarizes the audit trail of one product at one store
// within a time range
func (s *Service) ProductMovement(ctx context.Context, storeID, productID uuid.UUID, from, to time.Time) (*ProductMovementResponse, error) {
	out := &ProductMovementResponse{
		StoreID:   storeID,
		ProductID: productID,
		From:      from,
		To:        to,
		TotalIn:   decimal.Zero,
		TotalOut:  decimal.Zero,
		NetChange: decimal.Zero,
	}

	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		movements, err := repos.StockMovements().FindByStoreAndProduct(ctx, storeID, productID, from, to)
		if err != nil {
			return err
		}
		out.Rows = make([]MovementRow, 0, len(movements))
		for _, m := range movements {
			if m.IsCredit() {
				out.TotalIn = out.TotalIn.Add(m.Quantity)
			} else {
				out.TotalOut = out.TotalOut.Add(m.Quantity.Neg())
			}
			out.NetChange = out.NetChange.Add(m.Quantity)
			out.Rows = append(out.Rows, MovementRow{
				Reason:        m.Reason.String(),
				Quantity:      m.Quantity,
				BalanceBefore: m.BalanceBefore,
				BalanceAfter:  m.BalanceAfter,
				Reference:     m.Reference,
				MovedAt:       m.MovedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TotalOnHand sums a product's on-hand quantity across all stores
func (s *Service) TotalOnHand(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.scope.Execute(ctx, func(repos txn.Repositories) error {
		var err error
		total, err = repos.StockLines().SumQuantityByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
