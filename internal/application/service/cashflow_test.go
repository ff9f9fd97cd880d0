package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int, hour int) time.Time {
	return time.Date(2024, time.March, d, hour, 0, 0, 0, time.UTC)
}

func sampleLedger() service.Ledger {
	paidAt := day(12, 9)
	return service.Ledger{
		Clients:   []entity.Client{{ID: "c1", Name: "Maria"}},
		Suppliers: []entity.Supplier{{ID: "s1", Name: "Atacadão"}},
		Sales: []entity.Sale{
			{ID: "a", Total: dec("100"), PaymentMethod: enum.PaymentMethodCash, Date: day(10, 10)},
			{ID: "b", Total: dec("40"), PaymentMethod: enum.PaymentMethodPix, Date: day(11, 10), ClientID: "c1"},
			{ID: "c", Total: dec("70"), PaymentMethod: enum.PaymentMethodCreditTerm, Date: day(10, 11), ClientID: "c1"},
			{ID: "d", Total: dec("5"), PaymentMethod: enum.PaymentMethodCash, Date: day(11, 12), ClientID: "gone"},
		},
		Purchases: []entity.Purchase{
			{ID: "p", Total: dec("60"), SupplierID: "s1", Date: day(11, 8)},
			{ID: "q", Total: dec("10"), SupplierID: "gone", Date: day(9, 8)},
		},
		Receivables: []entity.AccountReceivable{
			{ID: "r1", SaleID: "c", ClientID: "c1", Amount: dec("70"), Status: enum.ReceivableStatusPaid, PaidDate: &paidAt},
			{ID: "r2", SaleID: "x", ClientID: "c1", Amount: dec("30"), Status: enum.ReceivableStatusPending},
			{ID: "r3", SaleID: "y", ClientID: "c1", Amount: dec("15"), Status: enum.ReceivableStatusPaid},
		},
		Adjustments: []entity.CashAdjustment{
			{ID: "w", Type: enum.AdjustmentTypeRemove, Amount: dec("20"), Description: "Owner withdrawal", Date: day(12, 9)},
			{ID: "f", Type: enum.AdjustmentTypeAdd, Amount: dec("50"), Description: "Change fund", Date: day(9, 7)},
		},
	}
}

func TestProjectTransactions(t *testing.T) {
	txs := service.ProjectTransactions(sampleLedger(), fixedNow)

	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []string{
		"receivable-r3",
		"adj-w",
		"receivable-r1",
		"sale-d",
		"sale-b",
		"purchase-p",
		"sale-a",
		"purchase-q",
		"adj-f",
	}, ids)

	byID := make(map[string]entity.Transaction, len(txs))
	for _, tx := range txs {
		byID[tx.ID] = tx
	}
	assert.NotContains(t, byID, "sale-c", "credit-term sales only appear once paid")
	assert.NotContains(t, byID, "receivable-r2")

	assert.Equal(t, service.LabelCounterSale, byID["sale-a"].Description)
	assert.Equal(t, "Sale to Maria", byID["sale-b"].Description)
	assert.Equal(t, "Sale to "+service.LabelUnknownClient, byID["sale-d"].Description)
	assert.Equal(t, "Purchase from Atacadão", byID["purchase-p"].Description)
	assert.Equal(t, "Purchase from "+service.LabelUnknownSupplier, byID["purchase-q"].Description)
	assert.Equal(t, "Payment received from Maria", byID["receivable-r1"].Description)

	assert.True(t, dec("-60").Equal(byID["purchase-p"].Amount))
	assert.Equal(t, enum.TransactionTypeExpense, byID["purchase-p"].Type)
	assert.True(t, dec("-20").Equal(byID["adj-w"].Amount))
	assert.Equal(t, enum.TransactionTypeExpense, byID["adj-w"].Type)
	assert.Equal(t, day(12, 9), byID["receivable-r1"].Date)
	assert.Equal(t, fixedNow, byID["receivable-r3"].Date, "paid receivable without a paid date uses now")
}

func TestProjectTransactions_TiesOrderedByID(t *testing.T) {
	at := day(5, 10)
	txs := service.ProjectTransactions(service.Ledger{
		Sales: []entity.Sale{
			{ID: "z", Total: dec("1"), PaymentMethod: enum.PaymentMethodCash, Date: at},
			{ID: "m", Total: dec("1"), PaymentMethod: enum.PaymentMethodCash, Date: at},
		},
	}, fixedNow)
	require.Len(t, txs, 2)
	assert.Equal(t, "sale-m", txs[0].ID)
	assert.Equal(t, "sale-z", txs[1].ID)
}

func TestSummarize(t *testing.T) {
	txs := service.ProjectTransactions(sampleLedger(), fixedNow)

	all := service.Summarize(txs, service.DateRange{})
	assert.Len(t, all.Transactions, 9)
	// 100 + 40 + 5 + 70 + 15 + 50
	assert.True(t, dec("280").Equal(all.TotalIncome), "income was %s", all.TotalIncome)
	// 60 + 10 + 20
	assert.True(t, dec("90").Equal(all.TotalExpense), "expense was %s", all.TotalExpense)
	assert.True(t, dec("190").Equal(all.Balance))

	from := day(11, 23)
	oneDay := service.Summarize(txs, service.DateRange{From: &from})
	assert.Len(t, oneDay.Transactions, 3)
	assert.True(t, dec("45").Equal(oneDay.TotalIncome))
	assert.True(t, dec("60").Equal(oneDay.TotalExpense))
	assert.True(t, dec("-15").Equal(oneDay.Balance))

	from, to := day(9, 12), day(10, 0)
	span := service.Summarize(txs, service.DateRange{From: &from, To: &to})
	assert.Len(t, span.Transactions, 3, "both ends are whole days")

	from = day(1, 12)
	empty := service.Summarize(txs, service.DateRange{From: &from})
	assert.Empty(t, empty.Transactions)
	assert.True(t, empty.TotalIncome.IsZero())
	assert.True(t, empty.TotalExpense.IsZero())
	assert.True(t, empty.Balance.IsZero())
}

func TestCashFlowService_SummaryOfEmptyWindow(t *testing.T) {
	svc := service.NewCashFlowService(newTestStore(), fixedClock(), nil)

	from := fixedNow.AddDate(0, 0, -100)
	summary, err := svc.Summary(context.Background(), service.DateRange{From: &from})
	require.NoError(t, err)
	assert.Empty(t, summary.Transactions)
	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpense.IsZero())
	assert.True(t, summary.Balance.IsZero())
}

func TestCashFlowService_Adjustments(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	svc := service.NewCashFlowService(s, fixedClock(), nil)

	_, err := svc.AddAdjustment(ctx, &service.AdjustmentInput{Type: enum.AdjustmentTypeAdd, Amount: dec("0"), Description: "Fund"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.AddAdjustment(ctx, &service.AdjustmentInput{Type: "move", Amount: dec("10"), Description: "Fund"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = svc.AddAdjustment(ctx, &service.AdjustmentInput{Type: enum.AdjustmentTypeAdd, Amount: dec("10"), Description: "  a "})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	adj, err := svc.AddAdjustment(ctx, &service.AdjustmentInput{Type: enum.AdjustmentTypeRemove, Amount: dec("25"), Description: "Withdrawal"})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, adj.Date)

	summary, err := svc.Summary(ctx, service.DateRange{})
	require.NoError(t, err)
	require.Len(t, summary.Transactions, 1)
	assert.Equal(t, "adj-"+adj.ID, summary.Transactions[0].ID)
	assert.True(t, dec("-25").Equal(summary.Balance))

	require.NoError(t, svc.DeleteAdjustment(ctx, adj.ID))
	assert.ErrorIs(t, svc.DeleteAdjustment(ctx, adj.ID), apperror.ErrNotFound)
	assert.Empty(t, load[entity.CashAdjustment](t, s, repository.CollectionCashAdjustments))
}
