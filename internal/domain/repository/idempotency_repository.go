package repository

import (
	"context"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
)

// IdempotencyRepository defines interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns nil, nil when the key was never seen
	GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error)
	// Reserve stores a pending key unless a live entry exists. It reports
	// whether the caller now owns the key.
	Reserve(ctx context.Context, key *entity.IdempotencyKey) (bool, error)
	// Create stores the completed response, replacing the pending entry
	Create(ctx context.Context, key *entity.IdempotencyKey) error
	// Release drops a pending key so the request can be retried
	Release(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context) error
}
