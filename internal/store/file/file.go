// Package file stores each collection as a pretty-printed JSON array in its
// own file. A missing or unreadable file yields the collection's default, and
// an undecodable one is first copied aside so the next save cannot destroy
// it. Writes go to a temp file that is renamed over the target.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nobudget/internal/core"
	"nobudget/internal/log"
	"nobudget/internal/store"
)

// File names inside the data directory, one per kind.
var fileNames = map[core.Kind]string{
	core.KindExpenses:         "expenses.json",
	core.KindIncome:           "income.json",
	core.KindCategories:       "categories.json",
	core.KindIncomeCategories: "income_categories.json",
}

// PathFor returns the backing file of kind inside dir.
func PathFor(dir string, kind core.Kind) string {
	name, ok := fileNames[kind]
	if !ok {
		name = string(kind) + ".json"
	}
	return filepath.Join(dir, name)
}

type Collection[T any] struct {
	path     string
	defaults store.Defaults[T]
}

var _ store.Collection[string] = (*Collection[string])(nil)

func New[T any](path string, defaults store.Defaults[T]) *Collection[T] {
	return &Collection[T]{path: path, defaults: defaults}
}

// Path returns the backing file.
func (c *Collection[T]) Path() string {
	return c.path
}

// Load never fails: read and decode errors are logged and the default is
// returned instead.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	logger := log.FromContext(ctx).WithComponent(log.ComponentStorage)

	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WarnContext(ctx, "Reading collection file failed, using default",
				log.FieldPath, c.path, log.FieldError, err.Error())
		}
		return store.Fill(c.defaults), nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		backup, berr := c.preserve(data)
		if berr != nil {
			logger.ErrorContext(ctx, "Collection file is unreadable and could not be preserved, using default",
				log.FieldPath, c.path, log.FieldError, err.Error(), "backup_error", berr.Error())
		} else {
			logger.ErrorContext(ctx, "Collection file is unreadable, preserved a copy and using default",
				log.FieldPath, c.path, log.FieldError, err.Error(), "backup", backup)
		}
		return store.Fill(c.defaults), nil
	}
	if items == nil {
		return store.Fill(c.defaults), nil
	}
	return items, nil
}

// preserve copies undecodable contents next to the collection file. The name
// is derived from the contents, so repeated loads of the same file write one
// copy.
func (c *Collection[T]) preserve(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	backup := c.path + ".corrupt-" + hex.EncodeToString(sum[:4])
	if _, err := os.Stat(backup); err == nil {
		return backup, nil
	}
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backup, nil
}

// Save writes the whole collection. Readers see either the old or the new
// file, never a partial one.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	logger := log.FromContext(ctx).WithComponent(log.ComponentStorage)
	if err := tmp.Chmod(0o644); err != nil {
		logger.DebugContext(ctx, "Chmod on temp file failed", log.FieldPath, tmpPath, log.FieldError, err.Error())
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace collection file: %w", err)
	}

	logger.DebugContext(ctx, "Collection saved", log.FieldPath, c.path, log.FieldCount, len(items))
	return nil
}
