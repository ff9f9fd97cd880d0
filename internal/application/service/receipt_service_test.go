package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/enum"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock Printer ---
type MockPrinter struct {
	mock.Mock
}

var _ printer.Printer = (*MockPrinter)(nil)

func (m *MockPrinter) Print(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockPrinter) Ready(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockPrinter) Kind() string {
	args := m.Called()
	return args.String(0)
}

func receiptStore(t *testing.T) repository.CollectionStore {
	t.Helper()
	s := newTestStore()
	seed(t, s, repository.CollectionProducts, product("p1", "Arroz Tio João", "12.50", 5))
	seed(t, s, repository.CollectionClients, entity.Client{ID: "c1", Name: "Maria"})
	seed(t, s, repository.CollectionSales, entity.Sale{
		ID: "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b",
		Items: []entity.SaleItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: dec("12.50")},
			{ProductID: "deleted", Quantity: 1, UnitPrice: dec("3")},
		},
		Discount:      dec("1"),
		Total:         dec("27"),
		PaymentMethod: enum.PaymentMethodCreditTerm,
		ClientID:      "c1",
		Date:          fixedNow,
	})
	seed(t, s, repository.CollectionReceivables, entity.AccountReceivable{
		ID: "r1", SaleID: "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b", ClientID: "c1", Amount: dec("27"),
		DueDate: fixedNow.AddDate(0, 0, 30), Status: enum.ReceivableStatusPending,
	})
	return s
}

func TestReceiptService_SaleReceipt(t *testing.T) {
	svc := service.NewReceiptService(receiptStore(t), nil, printer.Width58mm, "StockPilot", nil)

	r, err := svc.SaleReceipt(context.Background(), "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	require.NoError(t, err)

	assert.Equal(t, "StockPilot", r.StoreName)
	assert.Equal(t, "Maria", r.Client)
	assert.Equal(t, "Credit term", r.PaymentMethod)
	require.Len(t, r.Items, 2)
	assert.Equal(t, "Arroz Tio João", r.Items[0].Name)
	assert.True(t, dec("25").Equal(r.Items[0].Total))
	assert.Equal(t, service.LabelUnknownProduct, r.Items[1].Name)
	assert.True(t, dec("28").Equal(r.Subtotal))
	assert.True(t, dec("27").Equal(r.Total))
	require.NotNil(t, r.DueDate)

	_, err = svc.SaleReceipt(context.Background(), "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestFormatReceipt(t *testing.T) {
	svc := service.NewReceiptService(receiptStore(t), nil, printer.Width58mm, "StockPilot", nil)
	r, err := svc.SaleReceipt(context.Background(), "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	require.NoError(t, err)

	data := service.FormatReceipt(r, printer.Width58mm)

	assert.True(t, bytes.HasPrefix(data, []byte{0x1B, '@'}), "starts with printer init")
	assert.True(t, bytes.HasSuffix(data, []byte{0x1D, 'V', 0x01}), "ends with a partial cut")
	assert.Contains(t, string(data), "2x Arroz Tio João")
	assert.Contains(t, string(data), "3f4a5b")
	assert.Contains(t, string(data), "27.00")
	assert.Contains(t, string(data), "-1.00")
}

func TestReceiptService_PrintSaleReceipt(t *testing.T) {
	ctx := context.Background()
	p := new(MockPrinter)
	p.On("Print", ctx, mock.AnythingOfType("[]uint8")).Return(nil).Once()

	svc := service.NewReceiptService(receiptStore(t), p, printer.Width80mm, "StockPilot", nil)
	r, err := svc.PrintSaleReceipt(ctx, "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	require.NoError(t, err)
	assert.NotNil(t, r)
	p.AssertExpectations(t)
}

func TestReceiptService_PrintFailureStillReturnsReceipt(t *testing.T) {
	ctx := context.Background()
	p := new(MockPrinter)
	p.On("Print", ctx, mock.Anything).Return(errors.New("paper out"))

	svc := service.NewReceiptService(receiptStore(t), p, printer.Width58mm, "StockPilot", nil)
	r, err := svc.PrintSaleReceipt(ctx, "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	require.Error(t, err)
	assert.NotNil(t, r)
}

func TestReceiptService_NoPrinterConfigured(t *testing.T) {
	ctx := context.Background()
	svc := service.NewReceiptService(receiptStore(t), printer.NewNull(), printer.Width58mm, "StockPilot", nil)

	r, err := svc.PrintSaleReceipt(ctx, "0190a1b2-c3d4-7e5f-8a9b-0c1d2e3f4a5b")
	assert.ErrorIs(t, err, apperror.ErrPrinterUnavailable)
	assert.NotNil(t, r)

	status := svc.Status(ctx)
	assert.False(t, status.Configured)
	assert.False(t, status.Ready)
	assert.Equal(t, printer.TypeNone, status.Type)
}
