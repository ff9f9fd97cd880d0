package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
)

const eventsKeepAlive = 25 * time.Second

// EventsHandler streams committed collection changes as server-sent events
type EventsHandler struct {
	store repository.CollectionStore
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(store repository.CollectionStore) *EventsHandler {
	return &EventsHandler{store: store}
}

// Stream sends one "change" event per committed write until the client
// disconnects. A "ping" comment keeps idle connections open.
func (h *EventsHandler) Stream(c *gin.Context) {
	events, cancel := h.store.Subscribe(c.Request.Context())
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(eventsKeepAlive)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"collections": repository.Collections})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
