package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
)

const listenerRetryDelay = 5 * time.Second

// PostgresListener republishes changes committed by other API instances,
// so every instance's subscribers see every write
type PostgresListener struct {
	dsn        string
	instanceID string
	reader     repository.CollectionReader
	hub        *Hub
	logger     *slog.Logger
}

// NewPostgresListener creates a listener for changes not made by instanceID
func NewPostgresListener(dsn, instanceID string, reader repository.CollectionReader, hub *Hub, logger *slog.Logger) *PostgresListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresListener{
		dsn:        dsn,
		instanceID: instanceID,
		reader:     reader,
		hub:        hub,
		logger:     logger.With("component", "pg_listener"),
	}
}

// Run listens until ctx is done, reconnecting after failures
func (l *PostgresListener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		l.logger.Error("change listener stopped, reconnecting", "error", err, "retry_in", listenerRetryDelay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(listenerRetryDelay):
		}
	}
}

func (l *PostgresListener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{NotifyChannel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", NotifyChannel, err)
	}
	l.logger.Info("listening for changes", "channel", NotifyChannel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed waiting for notification: %w", err)
		}
		l.handle(ctx, n.Payload)
	}
}

func (l *PostgresListener) handle(ctx context.Context, payload string) {
	var msg notification
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		l.logger.Warn("ignoring malformed change notification", "payload", payload)
		return
	}
	if msg.Instance == l.instanceID {
		return
	}

	value, err := l.reader.Get(ctx, msg.Collection)
	if err != nil {
		l.logger.Error("failed to read changed collection", "collection", msg.Collection, "error", err)
		return
	}
	l.hub.Publish(repository.ChangeEvent{Collection: msg.Collection, Value: value})
}
