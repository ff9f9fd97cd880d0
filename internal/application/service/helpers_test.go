package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/stockpilot-api/internal/application/service"
	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixedNow is the time every service under test sees
var fixedNow = time.Date(2024, time.March, 15, 14, 30, 0, 0, time.UTC)

func fixedClock() service.Clock {
	return func() time.Time { return fixedNow }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore() *store.MemoryStore {
	return store.NewMemoryStore(nil)
}

func seed[T any](t *testing.T, s repository.CollectionStore, name string, items ...T) {
	t.Helper()
	require.NoError(t, repository.SaveList(context.Background(), s, name, items))
}

func load[T any](t *testing.T, s repository.CollectionReader, name string) []T {
	t.Helper()
	items, err := repository.LoadList[T](context.Background(), s, name)
	require.NoError(t, err)
	return items
}

func quantityOf(t *testing.T, s repository.CollectionReader, productID string) int {
	t.Helper()
	products := load[entity.Product](t, s, repository.CollectionProducts)
	idx := repository.FindByID(products, productID)
	require.GreaterOrEqual(t, idx, 0, "product %s not found", productID)
	return products[idx].Quantity
}

func product(id, name, price string, quantity int) entity.Product {
	return entity.Product{ID: id, Name: name, Price: dec(price), Quantity: quantity}
}
