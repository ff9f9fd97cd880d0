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

func TestReceivableService_MarkPaidOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	seed(t, s, repository.CollectionReceivables, entity.AccountReceivable{
		ID: "r1", SaleID: "s1", ClientID: "c1", Amount: dec("50"),
		DueDate: fixedNow.AddDate(0, 0, 10), Status: enum.ReceivableStatusPending,
	})

	paidAt := fixedNow
	clock := func() time.Time { return paidAt }
	svc := service.NewReceivableService(s, clock, nil)

	r, changed, err := svc.MarkPaid(ctx, "r1")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, r.IsPaid())
	require.NotNil(t, r.PaidDate)
	assert.True(t, fixedNow.Equal(*r.PaidDate))

	paidAt = fixedNow.Add(48 * time.Hour)
	r, changed, err = svc.MarkPaid(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, fixedNow.Equal(*r.PaidDate), "paid date is not moved by a second settlement")

	stored := load[entity.AccountReceivable](t, s, repository.CollectionReceivables)
	assert.True(t, fixedNow.Equal(*stored[0].PaidDate))

	_, _, err = svc.MarkPaid(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestReceivableService_ListReceivables(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	paid := fixedNow.AddDate(0, 0, -1)
	seed(t, s, repository.CollectionReceivables,
		entity.AccountReceivable{ID: "paid", Amount: dec("1"), DueDate: fixedNow.AddDate(0, 0, -20), Status: enum.ReceivableStatusPaid, PaidDate: &paid},
		entity.AccountReceivable{ID: "late", Amount: dec("2"), DueDate: fixedNow.AddDate(0, 0, 5), Status: enum.ReceivableStatusPending},
		entity.AccountReceivable{ID: "soon", Amount: dec("3"), DueDate: fixedNow.AddDate(0, 0, 1), Status: enum.ReceivableStatusPending},
	)
	svc := service.NewReceivableService(s, fixedClock(), nil)

	all, err := svc.ListReceivables(ctx, "")
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"soon", "late", "paid"}, ids)

	pending, err := svc.ListReceivables(ctx, enum.ReceivableStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	total, count := service.PendingTotal(all)
	assert.True(t, dec("5").Equal(total))
	assert.Equal(t, 2, count)

	_, err = svc.ListReceivables(ctx, enum.ReceivableStatus("overdue"))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestCreditSale_EntersCashFlowWhenPaid(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	seed(t, s, repository.CollectionProducts, product("p1", "Rice", "10.00", 5))
	seed(t, s, repository.CollectionClients, entity.Client{ID: "c1", Name: "Maria"})

	current := fixedNow
	clock := func() time.Time { return current }
	sales := service.NewSaleService(s, service.NewInventoryLedger(nil), 30, clock, nil)
	receivables := service.NewReceivableService(s, clock, nil)
	cashFlow := service.NewCashFlowService(s, clock, nil)

	result, err := sales.RecordSale(ctx, service.RecordSaleInput{
		Items:         []service.SaleLineInput{{ProductID: "p1", Quantity: 2}},
		PaymentMethod: enum.PaymentMethodCreditTerm,
		ClientID:      "c1",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Receivable)

	feed, err := cashFlow.Transactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed, "an unpaid credit sale brings in no cash")

	current = fixedNow.Add(48 * time.Hour)
	paid, changed, err := receivables.MarkPaid(ctx, result.Receivable.ID)
	require.NoError(t, err)
	require.True(t, changed)

	feed, err = cashFlow.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "receivable-"+result.Receivable.ID, feed[0].ID)
	assert.Equal(t, enum.TransactionTypeIncome, feed[0].Type)
	assert.True(t, dec("20").Equal(feed[0].Amount), "amount was %s", feed[0].Amount)
	assert.True(t, current.Equal(feed[0].Date))

	current = fixedNow.Add(96 * time.Hour)
	again, changed, err := receivables.MarkPaid(ctx, result.Receivable.ID)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, paid.PaidDate.Equal(*again.PaidDate))

	after, err := cashFlow.Transactions(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, feed[0].ID, after[0].ID)
	assert.True(t, feed[0].Date.Equal(after[0].Date))
	assert.True(t, feed[0].Amount.Equal(after[0].Amount))
}
