package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sangkips/stockpilot-api/internal/domain/repository"
)

const subscriberBuffer = 64

// Hub fans change events out to subscribers. A subscriber whose buffer is
// full misses the event; writers are never blocked by readers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan repository.ChangeEvent
	nextID int
	logger *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subs:   make(map[int]chan repository.ChangeEvent),
		logger: logger,
	}
}

// Publish delivers events to every current subscriber
func (h *Hub) Publish(events ...repository.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.subs {
		for _, ev := range events {
			select {
			case ch <- ev:
			default:
				h.logger.Warn("dropping change event for slow subscriber",
					"subscriber", id, "collection", ev.Collection)
			}
		}
	}
}

// Subscribe registers a subscriber until cancel is called or ctx is done
func (h *Hub) Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, func()) {
	ch := make(chan repository.ChangeEvent, subscriberBuffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}

// Subscribers returns the number of active subscribers
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
