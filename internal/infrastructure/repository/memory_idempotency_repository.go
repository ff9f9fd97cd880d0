package repository

import (
	"context"
	"sync"
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stockpilot-api/internal/domain/repository"
)

type memoryIdempotencyRepository struct {
	mu   sync.RWMutex
	keys map[string]entity.IdempotencyKey
}

// NewMemoryIdempotencyRepository keeps idempotency keys in process memory
func NewMemoryIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[string]entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepository) GetByKey(ctx context.Context, key string) (*entity.IdempotencyKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ikey, ok := r.keys[key]
	if !ok {
		return nil, nil
	}
	return &ikey, nil
}

func (r *memoryIdempotencyRepository) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.keys[ikey.Key]; ok && !existing.IsExpired(time.Now()) {
		return false, nil
	}
	stored := *ikey
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.keys[ikey.Key] = stored
	return true, nil
}

func (r *memoryIdempotencyRepository) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.keys[key]; ok && existing.IsPending() {
		delete(r.keys, key)
	}
	return nil
}

func (r *memoryIdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *ikey
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.keys[ikey.Key] = stored
	return nil
}

func (r *memoryIdempotencyRepository) DeleteExpired(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for k, v := range r.keys {
		if v.IsExpired(now) {
			delete(r.keys, k)
		}
	}
	return nil
}
