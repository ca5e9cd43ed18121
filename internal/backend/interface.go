// Package backend assembles the storage collections and the change
// notifier selected by configuration.
package backend

import (
	"context"

	"nobudget/internal/crud"
	"nobudget/internal/seed"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// Result is everything the server needs from a backend.
type Result struct {
	Type        BackendType
	Collections crud.Collections
	// Notifier is nil when change notifications are off.
	Notifier crud.Notifier
	// Ready reports whether the backend can serve requests.
	Ready   func(ctx context.Context) error
	Cleanup CleanupFunc
}

// Close runs Cleanup if one was set.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type BackendType

	// File backend
	DataDir string

	// SQLite backend
	SQLiteDBPath string

	// Change notifications, all backends
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	Seed seed.Seed
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
