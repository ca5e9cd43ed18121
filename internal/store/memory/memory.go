package memory

import (
	"context"
	"sync"

	"nobudget/internal/store"
)

// Collection keeps a snapshot in process memory. It is meant for tests and
// for running the server without a data directory.
type Collection[T any] struct {
	mu       sync.Mutex
	items    []T
	saved    bool
	defaults store.Defaults[T]
}

var _ store.Collection[string] = (*Collection[string])(nil)

func New[T any](defaults store.Defaults[T]) *Collection[T] {
	return &Collection[T]{defaults: defaults}
}

// Load returns a copy of the last saved snapshot, or the default if nothing
// was saved yet.
func (c *Collection[T]) Load(_ context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.saved {
		return store.Fill(c.defaults), nil
	}
	return append([]T{}, c.items...), nil
}

// Save replaces the snapshot.
func (c *Collection[T]) Save(_ context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{}, items...)
	c.saved = true
	return nil
}
