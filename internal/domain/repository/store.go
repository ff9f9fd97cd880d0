package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection names. Each holds a JSON array of records except Settings,
// which holds a single object.
const (
	CollectionProducts        = "products"
	CollectionClients         = "clients"
	CollectionSuppliers       = "suppliers"
	CollectionBrands          = "brands"
	CollectionSales           = "sales"
	CollectionPurchases       = "purchases"
	CollectionReceivables     = "receivables"
	CollectionCashAdjustments = "cashAdjustments"
	CollectionSettings        = "settings"
)

// Collections lists every collection in export order
var Collections = []string{
	CollectionProducts,
	CollectionClients,
	CollectionSuppliers,
	CollectionBrands,
	CollectionSales,
	CollectionPurchases,
	CollectionReceivables,
	CollectionCashAdjustments,
	CollectionSettings,
}

// ChangeEvent is published after a committed write to a collection
type ChangeEvent struct {
	Collection string          `json:"collection"`
	Value      json.RawMessage `json:"value"`
}

// CollectionReader reads the current value of a collection.
// A collection that was never written reads as nil.
type CollectionReader interface {
	Get(ctx context.Context, name string) (json.RawMessage, error)
}

// CollectionTx is the view of the store inside a unit of work
type CollectionTx interface {
	CollectionReader
	Set(ctx context.Context, name string, payload json.RawMessage) error
}

// CollectionStore persists named collections as whole JSON documents
type CollectionStore interface {
	CollectionTx

	// Update runs fn as one unit of work. Writes made through tx become
	// visible and are published together when fn returns nil, and are
	// discarded when it returns an error.
	Update(ctx context.Context, fn func(tx CollectionTx) error) error

	// Subscribe returns a channel of committed changes and a cancel func.
	// The channel is closed after cancel is called or ctx is done.
	Subscribe(ctx context.Context) (<-chan ChangeEvent, func())
}

// LoadList decodes a list collection. Missing collections yield an empty slice.
func LoadList[T any](ctx context.Context, r CollectionReader, name string) ([]T, error) {
	raw, err := r.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	items := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return items, nil
}

// SaveList encodes and replaces a list collection
func SaveList[T any](ctx context.Context, tx CollectionTx, name string, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return tx.Set(ctx, name, raw)
}

// LoadObject decodes an object collection. found is false when it was never written.
func LoadObject[T any](ctx context.Context, r CollectionReader, name string) (value T, found bool, err error) {
	raw, err := r.Get(ctx, name)
	if err != nil {
		return value, false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return value, false, nil
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return value, true, nil
}

// SaveObject encodes and replaces an object collection
func SaveObject[T any](ctx context.Context, tx CollectionTx, name string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return tx.Set(ctx, name, raw)
}

// Identified is implemented by every list record
type Identified interface {
	GetID() string
}

// FindByID returns the index of the record with id, or -1
func FindByID[T Identified](items []T, id string) int {
	for i := range items {
		if items[i].GetID() == id {
			return i
		}
	}
	return -1
}
