// Package memory keeps the change log in process. The worker uses it when no
// spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"nobudget/internal/core"
	"nobudget/internal/log"
	"nobudget/internal/sheets"
)

type Recorder struct {
	mu     sync.Mutex
	rows   [][]any
	logger *log.Logger
}

var _ sheets.ChangeRecorder = (*Recorder)(nil)

// New returns an empty recorder. logger may be nil.
func New(logger *log.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// RecordChange appends the change row.
func (r *Recorder) RecordChange(ctx context.Context, change core.Change) error {
	row := sheets.ChangeRow(change)
	r.mu.Lock()
	r.rows = append(r.rows, row)
	n := len(r.rows)
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.InfoContext(ctx, "Change recorded",
			log.FieldOperation, log.OpRecord,
			log.FieldKind, string(change.Kind),
			log.FieldKey, change.Key,
			"change_op", change.Op,
			"row", n)
	}
	return nil
}

// Rows returns a copy of the recorded rows, header excluded.
func (r *Recorder) Rows() [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]any, len(r.rows))
	copy(out, r.rows)
	return out
}
