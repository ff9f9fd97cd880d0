package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotifyChannel is the PostgreSQL channel committed changes are announced on
const NotifyChannel = "stockpilot_changes"

// writeLockKey serialises units of work across every API instance
const writeLockKey int64 = 0x53544f434b

// CollectionRecord is one collection stored as a JSON document
type CollectionRecord struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for CollectionRecord
func (CollectionRecord) TableName() string {
	return "collection_records"
}

// notification is the NOTIFY payload. The value itself is re-read by
// listeners since NOTIFY payloads are capped at 8000 bytes.
type notification struct {
	Instance   string `json:"instance"`
	Collection string `json:"collection"`
}

// GormStore persists collections in PostgreSQL
type GormStore struct {
	db         *gorm.DB
	hub        *Hub
	instanceID string
}

// NewGormStore creates a store over db publishing local commits to hub
func NewGormStore(db *gorm.DB, hub *Hub) *GormStore {
	if hub == nil {
		hub = NewHub(nil)
	}
	return &GormStore{
		db:         db,
		hub:        hub,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this process in change notifications
func (s *GormStore) InstanceID() string {
	return s.instanceID
}

// Get reads the committed value of a collection
func (s *GormStore) Get(ctx context.Context, name string) (json.RawMessage, error) {
	return readRecord(s.db.WithContext(ctx), name, false)
}

// Set replaces a collection in its own unit of work
func (s *GormStore) Set(ctx context.Context, name string, payload json.RawMessage) error {
	return s.Update(ctx, func(tx repository.CollectionTx) error {
		return tx.Set(ctx, name, payload)
	})
}

// Update runs fn inside a database transaction holding the write lock
func (s *GormStore) Update(ctx context.Context, fn func(tx repository.CollectionTx) error) error {
	var events []repository.ChangeEvent

	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := db.Exec("SELECT pg_advisory_xact_lock(?)", writeLockKey).Error; err != nil {
			return fmt.Errorf("failed to acquire write lock: %w", err)
		}

		tx := &gormTx{db: db, staged: make(map[string]json.RawMessage)}
		if err := fn(tx); err != nil {
			return err
		}

		for _, name := range tx.order {
			value := tx.staged[name]
			record := CollectionRecord{Name: name, Value: string(value)}
			err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&record).Error
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", name, err)
			}

			payload, _ := json.Marshal(notification{Instance: s.instanceID, Collection: name})
			if err := db.Exec("SELECT pg_notify(?, ?)", NotifyChannel, string(payload)).Error; err != nil {
				return fmt.Errorf("failed to notify change of %s: %w", name, err)
			}
			events = append(events, repository.ChangeEvent{Collection: name, Value: value})
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.hub.Publish(events...)
	return nil
}

// Subscribe registers for committed changes
func (s *GormStore) Subscribe(ctx context.Context) (<-chan repository.ChangeEvent, func()) {
	return s.hub.Subscribe(ctx)
}

type gormTx struct {
	db     *gorm.DB
	staged map[string]json.RawMessage
	order  []string
}

func (t *gormTx) Get(ctx context.Context, name string) (json.RawMessage, error) {
	if v, ok := t.staged[name]; ok {
		return cloneRaw(v), nil
	}
	return readRecord(t.db, name, true)
}

func (t *gormTx) Set(ctx context.Context, name string, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("invalid JSON payload for collection %s", name)
	}
	if _, ok := t.staged[name]; !ok {
		t.order = append(t.order, name)
	}
	t.staged[name] = compact(payload)
	return nil
}

func readRecord(db *gorm.DB, name string, forUpdate bool) (json.RawMessage, error) {
	var record CollectionRecord
	q := db
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("name = ?", name).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	return json.RawMessage(record.Value), nil
}
