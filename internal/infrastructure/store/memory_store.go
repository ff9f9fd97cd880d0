package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sangkips/stockpilot-api/internal/domain/repository"
)

// MemoryStore keeps collections in process memory. Units of work are
// serialised by a mutex and applied copy-on-write, so a failed unit leaves
// nothing behind.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]json.RawMessage
	hub  *Hub
}

// NewMemoryStore creates an empty store publishing to hub
func NewMemoryStore(hub *Hub) *MemoryStore {
	if hub == nil {
		hub = NewHub(nil)
	}
	return &MemoryStore{
		data: make(map[string]json.RawMessage),
		hub:  hub,
	}
}

// Get returns a copy of the collection value
func (s *MemoryStore) Get(ctx context.Context, name string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRaw(s.data[name]), nil
}

// Set replaces a collection outside of an explicit unit of work
func (s *MemoryStore) Set(ctx context.Context, name string, payload json.RawMessage) error {
	return s.Update(ctx, func(tx repository.CollectionTx) error {
		return tx.Set(ctx, name, payload)
	})
}

// Update runs fn against a staged view of the store
func (s *MemoryStore) Update(ctx context.Context, fn func(tx repository.CollectionTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	tx := &memoryTx{base: s.data, staged: make(map[string]json.RawMessage)}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}

	events := make([]repository.ChangeEvent, 0, len(tx.order))
	for _, name := range tx.order {
		value := tx.staged[name]
		s.data[name] = value
		events = append(events, repository.ChangeEvent{Collection: name, Value: cloneRaw(value)})
	}
	s.mu.Unlock()

	s.hub.Publish(events...)
	return nil
}

// Subscribe registers for committed changes
func (s *MemoryStore) Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, func()) {
	return s.hub.Subscribe(ctx)
}

type memoryTx struct {
	base   map[string]json.RawMessage
	staged map[string]json.RawMessage
	order  []string
}

func (t *memoryTx) Get(ctx context.Context, name string) (json.RawMessage, error) {
	if v, ok := t.staged[name]; ok {
		return cloneRaw(v), nil
	}
	return cloneRaw(t.base[name]), nil
}

func (t *memoryTx) Set(ctx context.Context, name string, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("invalid JSON payload for collection %s", name)
	}
	if _, ok := t.staged[name]; !ok {
		t.order = append(t.order, name)
	}
	t.staged[name] = compact(payload)
	return nil
}

func cloneRaw(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out
}

func compact(v json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return cloneRaw(v)
	}
	return buf.Bytes()
}
