// Package sheets mirrors collection changes into a spreadsheet-style change
// log, one row per change.
package sheets

import (
	"context"
	"encoding/json"
	"time"

	"nobudget/internal/core"
)

// ChangeRecorder appends one change to the log.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, change core.Change) error
}

// Header is the first row of the change log.
var Header = []any{"Timestamp", "Kind", "Operation", "Key", "Amount", "Category", "Date", "Description"}

// ChangeRow flattens a change into the columns of Header. Deletes carry no
// record, so only the first four columns are filled for them.
func ChangeRow(change core.Change) []any {
	row := []any{
		change.Timestamp.UTC().Format(time.RFC3339),
		string(change.Kind),
		change.Op,
		change.Key,
		"", "", "", "",
	}
	if len(change.Record) == 0 {
		return row
	}

	var rec map[string]any
	if err := json.Unmarshal(change.Record, &rec); err != nil {
		return row
	}
	if amount, ok := rec["amount"].(float64); ok {
		row[4] = amount
	}
	for _, field := range []string{"category", "source", "name"} {
		if v, ok := rec[field].(string); ok && v != "" {
			row[5] = v
			break
		}
	}
	if v, ok := rec["date"].(string); ok {
		row[6] = v
	}
	if v, ok := rec["description"].(string); ok {
		row[7] = v
	}
	return row
}
