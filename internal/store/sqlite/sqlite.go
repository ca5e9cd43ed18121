// Package sqlite keeps each collection snapshot as a JSON document in a
// single SQLite table, one row per kind.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"nobudget/internal/core"
	"nobudget/internal/log"
	"nobudget/internal/store"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

// Open creates the database file if needed, applies migrations and returns
// a ready handle.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Snapshots are rewritten whole; one writer at a time keeps SQLITE_BUSY away.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping reports whether the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Collection stores one kind's snapshot in the collections table.
type Collection[T any] struct {
	db       *DB
	kind     core.Kind
	defaults store.Defaults[T]
}

var _ store.Collection[string] = (*Collection[string])(nil)

func NewCollection[T any](db *DB, kind core.Kind, defaults store.Defaults[T]) *Collection[T] {
	return &Collection[T]{db: db, kind: kind, defaults: defaults}
}

// Load returns the stored snapshot or the default when no row exists yet.
// Unlike the file store, query and decode failures are returned to the
// caller, so a save never replaces a snapshot that could not be read.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	var body string
	err := c.db.db.QueryRowContext(ctx,
		`SELECT body FROM collections WHERE kind = ?`, string(c.kind)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Fill(c.defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.kind, err)
	}

	var items []T
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentStorage).ErrorContext(ctx,
			"Decoding stored collection failed",
			log.FieldKind, string(c.kind), log.FieldError, err.Error())
		return nil, fmt.Errorf("decode %s: %w", c.kind, err)
	}
	if items == nil {
		return store.Fill(c.defaults), nil
	}
	return items, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.kind, err)
	}

	_, err = c.db.db.ExecContext(ctx, `
		INSERT INTO collections (kind, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(kind) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(c.kind), string(body))
	if err != nil {
		return fmt.Errorf("save %s: %w", c.kind, err)
	}

	log.FromContext(ctx).WithComponent(log.ComponentStorage).DebugContext(ctx,
		"Collection saved to SQLite", log.FieldKind, string(c.kind), log.FieldCount, len(items))
	return nil
}
