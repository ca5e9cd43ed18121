// Package crud implements the list/create/update/delete flow shared by every
// collection. Entity rules come from a core.Strategy bound at wiring time;
// persistence is a store.Collection snapshot rewritten on each mutation.
package crud

import (
	"context"
	"slices"

	"nobudget/internal/core"
	"nobudget/internal/log"
	"nobudget/internal/store"
)

const (
	msgDuplicate       = "Category already exists"
	msgAmountRequired  = "Amount is required."
	msgUpdateForbidden = "Update not supported for this endpoint"
)

// Notifier is told about every mutation after it has been saved.
type Notifier interface {
	Publish(ctx context.Context, change core.Change) error
}

// Service runs one collection's operations. There is no locking: two
// concurrent mutations of the same collection may lose one of the writes.
type Service[T any] struct {
	strategy core.Strategy[T]
	store    store.Collection[T]
	notifier Notifier
}

// NewService binds a strategy to its backing collection. notifier may be nil.
func NewService[T any](strategy core.Strategy[T], coll store.Collection[T], notifier Notifier) *Service[T] {
	return &Service[T]{strategy: strategy, store: coll, notifier: notifier}
}

func (s *Service[T]) Strategy() core.Strategy[T] { return s.strategy }

func (s *Service[T]) Kind() core.Kind { return s.strategy.Kind() }

// List returns the stored collection as is.
func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, &core.StoreError{Op: core.StoreOpLoad, Kind: s.Kind(), Err: err}
	}
	return items, nil
}

// Create validates and normalizes p, appends the result and saves. Set
// collections reject names that are already present.
func (s *Service[T]) Create(ctx context.Context, p core.Payload) (T, error) {
	var zero T
	if err := s.strategy.Validate(p); err != nil {
		return zero, err
	}
	item, err := s.strategy.Transform(p)
	if err != nil {
		return zero, err
	}

	items, err := s.List(ctx)
	if err != nil {
		return zero, err
	}
	key := s.strategy.Key(item)
	if !s.strategy.IsCollection() && s.indexOf(items, key) >= 0 {
		return zero, core.NewDuplicateError(msgDuplicate)
	}

	if err := s.save(ctx, append(items, item)); err != nil {
		return zero, err
	}
	s.notify(ctx, core.OpCreate, key, s.strategy.Present(item))
	return item, nil
}

// Update merges the fields present in p onto the record stored under key.
// Only id-keyed collections support it, and p must carry a truthy amount.
func (s *Service[T]) Update(ctx context.Context, key string, p core.Payload) (T, error) {
	var zero T
	if !s.strategy.IsCollection() {
		return zero, core.NewNotFoundError(msgUpdateForbidden)
	}
	if !p.Truthy("amount") {
		return zero, core.NewValidationError(msgAmountRequired)
	}

	items, err := s.List(ctx)
	if err != nil {
		return zero, err
	}
	i := s.indexOf(items, key)
	if i < 0 {
		// Update misses end with a period, delete misses do not.
		return zero, core.NewNotFoundError(s.strategy.NotFoundMessage() + ".")
	}

	merged, err := s.strategy.Merge(items[i], p)
	if err != nil {
		return zero, err
	}
	next := slices.Clone(items)
	next[i] = merged
	if err := s.save(ctx, next); err != nil {
		return zero, err
	}
	s.notify(ctx, core.OpUpdate, key, s.strategy.Present(merged))
	return merged, nil
}

// Delete removes every record stored under key. Keys are unique, so that is
// exactly one record.
func (s *Service[T]) Delete(ctx context.Context, key string) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	if s.indexOf(items, key) < 0 {
		return core.NewNotFoundError(s.strategy.NotFoundMessage())
	}

	kept := slices.DeleteFunc(slices.Clone(items), func(item T) bool {
		return s.strategy.Key(item) == key
	})
	if err := s.save(ctx, kept); err != nil {
		return err
	}
	s.notify(ctx, core.OpDelete, key, nil)
	return nil
}

func (s *Service[T]) indexOf(items []T, key string) int {
	return slices.IndexFunc(items, func(item T) bool {
		return s.strategy.Key(item) == key
	})
}

func (s *Service[T]) save(ctx context.Context, items []T) error {
	if err := s.store.Save(ctx, items); err != nil {
		return &core.StoreError{Op: core.StoreOpSave, Kind: s.Kind(), Err: err}
	}
	return nil
}

// notify logs the mutation and hands it to the notifier. A publish failure
// never undoes a saved mutation.
func (s *Service[T]) notify(ctx context.Context, op, key string, record any) {
	logger := log.FromContext(ctx)
	log.NewStructuredLogger(logger).LogMutation(ctx, string(s.Kind()), op, key)

	if s.notifier == nil {
		return
	}
	change, err := core.NewChange(s.Kind(), op, key, record)
	if err == nil {
		err = s.notifier.Publish(ctx, change)
	}
	if err != nil {
		logger.WithComponent(log.ComponentAMQP).WarnContext(ctx, "Publishing change failed",
			log.FieldKind, s.Kind(), log.FieldKey, key, log.FieldOperation, op, log.FieldError, err)
	}
}
