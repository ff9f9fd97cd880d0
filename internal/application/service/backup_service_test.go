package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupService_ExportHasEveryCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	seed(t, s, repository.CollectionProducts, product("p1", "Rice", "10", 3))
	svc := service.NewBackupService(s, "StockPilot", nil)

	raw, err := svc.Export(ctx)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, name := range repository.Collections {
		assert.Contains(t, doc, name)
	}
	assert.JSONEq(t, `[]`, string(doc[repository.CollectionSales]))
	assert.JSONEq(t, `{"appName":"StockPilot"}`, string(doc[repository.CollectionSettings]))

	var products []entity.Product
	require.NoError(t, json.Unmarshal(doc[repository.CollectionProducts], &products))
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, 3, products[0].Quantity)
	assert.True(t, dec("10").Equal(products[0].Price))
}

func TestBackupService_ImportIsAdditive(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	seed(t, s, repository.CollectionClients, entity.Client{ID: "c1", Name: "Existing"})
	svc := service.NewBackupService(s, "StockPilot", nil)

	result, err := svc.Import(ctx, []byte(`{
		"clients": [
			{"id": "c1", "name": "Overwritten?"},
			{"id": "c2", "name": "New"},
			{"id": "c2", "name": "Duplicate in file"},
			{"name": "No id"}
		],
		"products": [{"id": "p1", "name": "Rice", "price": 10, "quantity": 7}],
		"settings": {"appName": "Mercadinho"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added[repository.CollectionClients])
	assert.Equal(t, 1, result.Added[repository.CollectionProducts])
	assert.True(t, result.SettingsUpdated)

	clients := load[entity.Client](t, s, repository.CollectionClients)
	require.Len(t, clients, 3)
	assert.Equal(t, "Existing", clients[0].Name)
	assert.Equal(t, "New", clients[1].Name)
	assert.NotEmpty(t, clients[2].ID)

	assert.Equal(t, 7, quantityOf(t, s, "p1"), "imported quantities are restored as-is")

	settings, err := service.NewSettingsService(s, "StockPilot").GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mercadinho", settings.AppName)
}

func TestBackupService_ExportThenImportIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	seed(t, s, repository.CollectionProducts, product("p1", "Rice", "10", 3))
	seed(t, s, repository.CollectionSuppliers, entity.Supplier{ID: "s1", Name: "Atacadão"})
	svc := service.NewBackupService(s, "StockPilot", nil)

	doc, err := svc.Export(ctx)
	require.NoError(t, err)
	result, err := svc.Import(ctx, doc)
	require.NoError(t, err)

	for name, n := range result.Added {
		assert.Zero(t, n, "collection %s", name)
	}
	assert.Len(t, load[entity.Product](t, s, repository.CollectionProducts), 1)
}

func TestBackupService_MalformedImportWritesNothing(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":          `{"clients": [`,
		"not an object":     `[1, 2]`,
		"collection shape":  `{"clients": {"id": "c9"}}`,
		"record shape":      `{"clients": [{"id": "c9", "name": "Ok"}], "sales": [{"id": "s1", "items": "nope"}]}`,
		"settings shape":    `{"clients": [{"id": "c9"}], "settings": []}`,
		"record not object": `{"clients": [null]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			s := newTestStore()
			seed(t, s, repository.CollectionClients, entity.Client{ID: "c1", Name: "Existing"})
			svc := service.NewBackupService(s, "StockPilot", nil)

			_, err := svc.Import(ctx, []byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrMalformedImport)

			clients := load[entity.Client](t, s, repository.CollectionClients)
			assert.Len(t, clients, 1)
		})
	}
}
