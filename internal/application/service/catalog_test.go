package service_test

import (
	"context"
	"testing"

	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/sangkips/stockpilot-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProductService(newTestStore(), 5, nil)

	created, err := svc.CreateProduct(ctx, &service.CreateProductInput{
		ProductInput: service.ProductInput{Name: " Rice 5kg ", Price: dec("25.90"), Barcode: "789"},
		Quantity:     12,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rice 5kg", created.Name)
	assert.Equal(t, 12, created.Quantity)

	_, err = svc.CreateProduct(ctx, &service.CreateProductInput{
		ProductInput: service.ProductInput{Name: "Other", Price: dec("1"), Barcode: "789"},
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	updated, err := svc.UpdateProduct(ctx, created.ID, &service.ProductInput{Name: "Rice 1kg", Price: dec("6"), Barcode: "789"})
	require.NoError(t, err)
	assert.Equal(t, "Rice 1kg", updated.Name)
	assert.Equal(t, 12, updated.Quantity, "quantity is not editable")

	byCode, err := svc.GetProductByBarcode(ctx, "789")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProductService_Validation(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProductService(newTestStore(), 5, nil)

	_, err := svc.CreateProduct(ctx, &service.CreateProductInput{ProductInput: service.ProductInput{Name: "X", Price: dec("0")}})
	require.ErrorIs(t, err, apperror.ErrValidation)
	fields := map[string]bool{}
	for _, fe := range apperror.GetAppError(err).Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["price"])

	_, err = svc.CreateProduct(ctx, &service.CreateProductInput{
		ProductInput: service.ProductInput{Name: "Rice", Price: dec("1")},
		Quantity:     -1,
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestProductService_ListAndLowStock(t *testing.T) {
	ctx := context.Background()
	svc := service.NewProductService(newTestStore(), 5, nil)
	for _, in := range []service.CreateProductInput{
		{ProductInput: service.ProductInput{Name: "Sugar", Price: dec("4")}, Quantity: 50},
		{ProductInput: service.ProductInput{Name: "beans", Price: dec("8")}, Quantity: 5},
		{ProductInput: service.ProductInput{Name: "Açaí", Price: dec("20")}, Quantity: 1},
	} {
		_, err := svc.CreateProduct(ctx, &in)
		require.NoError(t, err)
	}

	page, err := svc.ListProducts(ctx, service.ProductFilter{}, &pagination.PaginationParams{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.True(t, page.Pagination.HasNext)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Açaí", page.Items[0].Name)
	assert.Equal(t, "beans", page.Items[1].Name)

	low, err := svc.LowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, 1, low[0].Quantity)

	found, err := svc.ListProducts(ctx, service.ProductFilter{Search: "SUG"}, nil)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Sugar", found.Items[0].Name)
}

func TestClientService_Search(t *testing.T) {
	ctx := context.Background()
	svc := service.NewClientService(newTestStore(), nil)

	_, err := svc.CreateClient(ctx, &service.ClientInput{Name: "Maria Souza", Phone: "11988887777", CPFCNPJ: "12345678900"})
	require.NoError(t, err)
	_, err = svc.CreateClient(ctx, &service.ClientInput{Name: "João Lima", Email: "joao@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateClient(ctx, &service.ClientInput{Name: "Bad", Email: "not-an-email"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.SearchClients(ctx, "ma")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	byName, err := svc.SearchClients(ctx, "souza")
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byTaxID, err := svc.SearchClients(ctx, "456")
	require.NoError(t, err)
	assert.Len(t, byTaxID, 1)

	byPhone, err := svc.SearchClients(ctx, "98888")
	require.NoError(t, err)
	assert.Len(t, byPhone, 1)

	all, err := svc.SearchClients(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "João Lima", all[0].Name)
}

func TestBrandService_UniqueNames(t *testing.T) {
	ctx := context.Background()
	svc := service.NewBrandService(newTestStore())

	acme, err := svc.CreateBrand(ctx, &service.BrandInput{Name: "Acme"})
	require.NoError(t, err)
	_, err = svc.CreateBrand(ctx, &service.BrandInput{Name: " acme "})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	other, err := svc.CreateBrand(ctx, &service.BrandInput{Name: "Zeta"})
	require.NoError(t, err)
	_, err = svc.UpdateBrand(ctx, other.ID, &service.BrandInput{Name: "ACME"})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	renamed, err := svc.UpdateBrand(ctx, acme.ID, &service.BrandInput{Name: "ACME"})
	require.NoError(t, err)
	assert.Equal(t, "ACME", renamed.Name)

	_, err = svc.CreateBrand(ctx, &service.BrandInput{Name: "  "})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	svc := service.NewSettingsService(newTestStore(), "")

	settings, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "StockPilot", settings.AppName)

	_, err = svc.UpdateSettings(ctx, &service.UpdateSettingsInput{AppName: " "})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateSettings(ctx, &service.UpdateSettingsInput{AppName: "Mercadinho", LogoURL: "https://example.com/logo.png"})
	require.NoError(t, err)

	settings, err = svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mercadinho", settings.AppName)
	assert.Equal(t, "https://example.com/logo.png", settings.LogoURL)
}
