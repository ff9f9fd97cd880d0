package service

import (
	"context"

	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/pkg/apperror"
)

// registry holds the CRUD plumbing shared by the catalog services.
// T is the record type and label names it in not-found errors.
type registry[T repository.Identified] struct {
	store      repository.CollectionStore
	collection string
	label      string
}

func (r registry[T]) list(ctx context.Context) ([]T, error) {
	return repository.LoadList[T](ctx, r.store, r.collection)
}

func (r registry[T]) get(ctx context.Context, id string) (*T, error) {
	items, err := r.list(ctx)
	if err != nil {
		return nil, err
	}
	idx := repository.FindByID(items, id)
	if idx < 0 {
		return nil, apperror.NewNotFoundError(r.label)
	}
	return &items[idx], nil
}

// insert appends a record. check runs against the current records first.
func (r registry[T]) insert(ctx context.Context, record T, check func([]T) error) error {
	return r.store.Update(ctx, func(tx repository.CollectionTx) error {
		items, err := repository.LoadList[T](ctx, tx, r.collection)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(items); err != nil {
				return err
			}
		}
		return repository.SaveList(ctx, tx, r.collection, append(items, record))
	})
}

// modify applies fn to the record with id and stores the result
func (r registry[T]) modify(ctx context.Context, id string, fn func(current *T, all []T) error) (*T, error) {
	var updated T
	err := r.store.Update(ctx, func(tx repository.CollectionTx) error {
		items, err := repository.LoadList[T](ctx, tx, r.collection)
		if err != nil {
			return err
		}
		idx := repository.FindByID(items, id)
		if idx < 0 {
			return apperror.NewNotFoundError(r.label)
		}
		if err := fn(&items[idx], items); err != nil {
			return err
		}
		updated = items[idx]
		return repository.SaveList(ctx, tx, r.collection, items)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// remove deletes the record with id. Records referencing it are left as is.
func (r registry[T]) remove(ctx context.Context, id string) error {
	return r.store.Update(ctx, func(tx repository.CollectionTx) error {
		items, err := repository.LoadList[T](ctx, tx, r.collection)
		if err != nil {
			return err
		}
		idx := repository.FindByID(items, id)
		if idx < 0 {
			return apperror.NewNotFoundError(r.label)
		}
		return repository.SaveList(ctx, tx, r.collection, append(items[:idx], items[idx+1:]...))
	})
}
