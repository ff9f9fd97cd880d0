package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/validation"
	"github.com/shopspring/decimal"
)

// CashFlowService serves the derived cash-flow feed and manual adjustments
type CashFlowService struct {
	store  repository.CollectionStore
	clock  Clock
	logger *slog.Logger
}

// NewCashFlowService creates a new cash-flow service
func NewCashFlowService(store repository.CollectionStore, clock Clock, logger *slog.Logger) *CashFlowService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CashFlowService{
		store:  store,
		clock:  clock,
		logger: logger.With("component", "cashflow_service"),
	}
}

// AdjustmentInput records a manual cash movement
type AdjustmentInput struct {
	Type        enum.AdjustmentType `json:"type" validate:"required,oneof=add remove"`
	Amount      decimal.Decimal     `json:"amount" validate:"gt=0"`
	Description string              `json:"description" validate:"required,min=3"`
	Date        *time.Time          `json:"date"`
}

// LoadLedger reads every collection transactions are derived from
func LoadLedger(ctx context.Context, r repository.CollectionReader) (Ledger, error) {
	var (
		l   Ledger
		err error
	)
	if l.Sales, err = repository.LoadList[entity.Sale](ctx, r, repository.CollectionSales); err != nil {
		return l, err
	}
	if l.Purchases, err = repository.LoadList[entity.Purchase](ctx, r, repository.CollectionPurchases); err != nil {
		return l, err
	}
	if l.Receivables, err = repository.LoadList[entity.AccountReceivable](ctx, r, repository.CollectionReceivables); err != nil {
		return l, err
	}
	if l.Adjustments, err = repository.LoadList[entity.CashAdjustment](ctx, r, repository.CollectionCashAdjustments); err != nil {
		return l, err
	}
	if l.Clients, err = repository.LoadList[entity.Client](ctx, r, repository.CollectionClients); err != nil {
		return l, err
	}
	if l.Suppliers, err = repository.LoadList[entity.Supplier](ctx, r, repository.CollectionSuppliers); err != nil {
		return l, err
	}
	return l, nil
}

// Transactions returns the full feed, newest first
func (s *CashFlowService) Transactions(ctx context.Context) ([]entity.Transaction, error) {
	ledger, err := LoadLedger(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return ProjectTransactions(ledger, s.clock.now()), nil
}

// Summary returns the feed restricted to window with its totals
func (s *CashFlowService) Summary(ctx context.Context, window DateRange) (*CashFlowSummary, error) {
	transactions, err := s.Transactions(ctx)
	if err != nil {
		return nil, err
	}
	summary := Summarize(transactions, window)
	return &summary, nil
}

// AddAdjustment records a manual cash movement
func (s *CashFlowService) AddAdjustment(ctx context.Context, input *AdjustmentInput) (*entity.CashAdjustment, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	adj := entity.CashAdjustment{
		ID:          entity.NewID(),
		Date:        s.clock.now(),
		Type:        input.Type,
		Amount:      input.Amount,
		Description: input.Description,
	}
	if input.Date != nil {
		adj.Date = *input.Date
	}

	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		adjustments, err := repository.LoadList[entity.CashAdjustment](ctx, tx, repository.CollectionCashAdjustments)
		if err != nil {
			return err
		}
		return repository.SaveList(ctx, tx, repository.CollectionCashAdjustments, append(adjustments, adj))
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cash adjustment recorded",
		"adjustment_id", adj.ID, "type", adj.Type, "amount", adj.Amount.String())
	return &adj, nil
}

// ListAdjustments returns manual cash movements newest first
func (s *CashFlowService) ListAdjustments(ctx context.Context) ([]entity.CashAdjustment, error) {
	adjustments, err := repository.LoadList[entity.CashAdjustment](ctx, s.store, repository.CollectionCashAdjustments)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(adjustments, func(i, j int) bool {
		return adjustments[i].Date.After(adjustments[j].Date)
	})
	return adjustments, nil
}

// DeleteAdjustment removes a manual cash movement
func (s *CashFlowService) DeleteAdjustment(ctx context.Context, id string) error {
	err := s.store.Update(ctx, func(tx repository.CollectionTx) error {
		adjustments, err := repository.LoadList[entity.CashAdjustment](ctx, tx, repository.CollectionCashAdjustments)
		if err != nil {
			return err
		}
		idx := repository.FindByID(adjustments, id)
		if idx < 0 {
			return apperror.NewNotFoundError("Cash adjustment")
		}
		adjustments = append(adjustments[:idx], adjustments[idx+1:]...)
		return repository.SaveList(ctx, tx, repository.CollectionCashAdjustments, adjustments)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "cash adjustment deleted", "adjustment_id", id)
	return nil
}
