package service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// ReceivableService handles settlement of credit-term sales
type ReceivableService struct {
	store  repository.CollectionStore
	clock  Clock
	logger *slog.Logger
}

// NewReceivableService creates a new receivable service
func NewReceivableService(store repository.CollectionStore, clock Clock, logger *slog.Logger) *ReceivableService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceivableService{
		store:  store,
		clock:  clock,
		logger: logger.With("component", "receivable_service"),
	}
}

// MarkPaid settles a pending receivable. Settling one that is already paid
// changes nothing and reports changed as false.
func (s *ReceivableService) MarkPaid(ctx context.Context, id string) (receivable *entity.AccountReceivable, changed bool, err error) {
	err = s.store.Update(ctx, func(tx repository.CollectionTx) error {
		receivables, err := repository.LoadList[entity.AccountReceivable](ctx, tx, repository.CollectionReceivables)
		if err != nil {
			return err
		}
		idx := repository.FindByID(receivables, id)
		if idx < 0 {
			return apperror.NewNotFoundError("Receivable")
		}

		r := receivables[idx]
		receivable = &r
		if r.IsPaid() {
			return nil
		}

		paidAt := s.clock.now()
		r.Status = enum.ReceivableStatusPaid
		r.PaidDate = &paidAt
		receivables[idx] = r
		receivable = &r
		changed = true
		return repository.SaveList(ctx, tx, repository.CollectionReceivables, receivables)
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		s.logger.InfoContext(ctx, "receivable paid",
			"receivable_id", receivable.ID,
			"sale_id", receivable.SaleID,
			"amount", receivable.Amount.String())
	} else {
		s.logger.InfoContext(ctx, "receivable already paid", "receivable_id", receivable.ID)
	}
	return receivable, changed, nil
}

// GetReceivable returns a receivable by id
func (s *ReceivableService) GetReceivable(ctx context.Context, id string) (*entity.AccountReceivable, error) {
	receivables, err := repository.LoadList[entity.AccountReceivable](ctx, s.store, repository.CollectionReceivables)
	if err != nil {
		return nil, err
	}
	idx := repository.FindByID(receivables, id)
	if idx < 0 {
		return nil, apperror.NewNotFoundError("Receivable")
	}
	return &receivables[idx], nil
}

// ListReceivables returns receivables with pending ones first, each group
// ordered by due date. An empty status returns every receivable.
func (s *ReceivableService) ListReceivables(ctx context.Context, status enum.ReceivableStatus) ([]entity.AccountReceivable, error) {
	if status != "" && !status.IsValid() {
		return nil, apperror.NewFieldError("status", "must be one of: pending paid")
	}

	receivables, err := repository.LoadList[entity.AccountReceivable](ctx, s.store, repository.CollectionReceivables)
	if err != nil {
		return nil, err
	}

	out := make([]entity.AccountReceivable, 0, len(receivables))
	for _, r := range receivables {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].IsPaid(), out[j].IsPaid()
		if pi != pj {
			return !pi
		}
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out, nil
}

// PendingTotal sums the amounts still owed
func PendingTotal(receivables []entity.AccountReceivable) (total decimal.Decimal, count int) {
	for _, r := range receivables {
		if !r.IsPaid() {
			total = total.Add(r.Amount)
			count++
		}
	}
	return total, count
}
