package memory

import (
	"context"
	"sync"
	"testing"

	"nobudget/internal/core"
)

func TestRecorderKeepsRowsInOrder(t *testing.T) {
	r := New(nil)
	ctx := context.Background()
	for _, key := range []string{"a", "b"} {
		if err := r.RecordChange(ctx, core.Change{Kind: core.KindExpenses, Op: core.OpDelete, Key: key}); err != nil {
			t.Fatalf("RecordChange: %v", err)
		}
	}

	rows := r.Rows()
	if len(rows) != 2 || rows[0][3] != "a" || rows[1][3] != "b" {
		t.Fatalf("unexpected rows: %v", rows)
	}

	rows[0] = nil
	if r.Rows()[0] == nil {
		t.Fatal("Rows must return a copy")
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.RecordChange(context.Background(), core.Change{Kind: core.KindIncome, Op: core.OpCreate, Key: "k"})
		}()
	}
	wg.Wait()
	if got := len(r.Rows()); got != 50 {
		t.Fatalf("got %d rows, want 50", got)
	}
}
