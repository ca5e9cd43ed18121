// Package store defines the persistence contract shared by every backend:
// a collection is loaded and saved as a whole snapshot, so the CRUD layer
// never depends on the medium behind it.
package store

import "context"

// Collection persists the full contents of one entity kind.
//
// Load returns the current snapshot, or the kind's default when nothing has
// been stored yet. Save replaces the snapshot; the last successful Save wins.
type Collection[T any] interface {
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
}

// Defaults returns a fresh default snapshot for a kind.
type Defaults[T any] func() []T

// Of returns a Defaults that yields a copy of items on every call.
func Of[T any](items ...T) Defaults[T] {
	return func() []T {
		return append([]T{}, items...)
	}
}

// Fill returns the default snapshot, or an empty slice when defaults is nil.
func Fill[T any](defaults Defaults[T]) []T {
	if defaults == nil {
		return []T{}
	}
	return defaults()
}
