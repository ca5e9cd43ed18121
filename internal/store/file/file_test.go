package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nobudget/internal/core"
	"nobudget/internal/store"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cats := New(PathFor(dir, core.KindCategories), store.Of(core.DefaultCategories()...))

	got, err := cats.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 6 || got[0] != "Food" || got[5] != "Other" {
		t.Fatalf("unexpected default categories: %v", got)
	}

	// Mutating the returned default must not leak into the next Load.
	got[0] = "Changed"
	again, _ := cats.Load(context.Background())
	if again[0] != "Food" {
		t.Fatalf("default slice was shared between loads: %v", again)
	}

	exp := New[core.Expense](PathFor(dir, core.KindExpenses), nil)
	items, err := exp.Load(context.Background())
	if err != nil || items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v (err=%v)", items, err)
	}
}

func TestLoadCorruptFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	path := PathFor(dir, core.KindIncomeCategories)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := New(path, store.Of(core.DefaultIncomeCategories()...))
	got, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 4 || got[0] != "Salary" {
		t.Fatalf("unexpected default: %v", got)
	}

	backups, _ := filepath.Glob(path + ".corrupt-*")
	if len(backups) != 1 {
		t.Fatalf("expected one preserved copy, got %v", backups)
	}
	raw, _ := os.ReadFile(backups[0])
	if string(raw) != "{not json" {
		t.Fatalf("preserved copy differs: %q", raw)
	}

	// Loading the same file again does not pile up copies.
	c.Load(context.Background())
	backups, _ = filepath.Glob(path + ".corrupt-*")
	if len(backups) != 1 {
		t.Fatalf("expected one preserved copy after reload, got %v", backups)
	}
}

func TestLoadStringAmounts(t *testing.T) {
	dir := t.TempDir()
	path := PathFor(dir, core.KindExpenses)
	legacy := `[
  {"id": "a", "amount": "12.50", "category": "Food", "date": "2024-03-05", "description": "", "tags": []},
  {"id": "b", "amount": "40", "category": "Bills", "date": "2024-03-06", "description": "power", "tags": ["home"]}
]`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := New[core.Expense](path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Amount != 12.5 || got[1].Amount != 40 {
		t.Fatalf("unexpected amounts: %v, %v", got[0].Amount, got[1].Amount)
	}
	if got[1].Description != "power" || got[1].Tags[0] != "home" {
		t.Fatalf("other fields lost: %+v", got[1])
	}
}

func TestLoadMismatchedElementTypesPreservesFile(t *testing.T) {
	dir := t.TempDir()
	path := PathFor(dir, core.KindIncome)
	// Valid JSON whose elements do not fit an income record.
	body := `[{"id": "x", "amount": {"value": 3}, "source": "Salary", "date": "2024-01-01"}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := New[core.Income](path, nil)
	got, err := c.Load(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty default, got %v (err=%v)", got, err)
	}
	if err := c.Save(context.Background(), []core.Income{{ID: "new", Amount: 1, Source: "Bonus", Date: "2024-02-01"}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	backups, _ := filepath.Glob(path + ".corrupt-*")
	if len(backups) != 1 {
		t.Fatalf("expected the unreadable file to be preserved, got %v", backups)
	}
	raw, _ := os.ReadFile(backups[0])
	if string(raw) != body {
		t.Fatalf("preserved copy differs: %q", raw)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New[core.Expense](PathFor(dir, core.KindExpenses), nil)
	want := []core.Expense{
		{ID: "1", Amount: 12.5, Category: "Food", Date: "2024-03-05", Description: "", Tags: []string{}},
		{ID: "2", Amount: 3, Category: "Bills", Date: "2024-03-06", Description: "power", Tags: []string{"home"}},
	}
	if err := c.Save(context.Background(), want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Amount != want[i].Amount || got[i].Date != want[i].Date ||
			got[i].Category != want[i].Category || got[i].Description != want[i].Description ||
			strings.Join(got[i].Tags, ",") != strings.Join(want[i].Tags, ",") {
			t.Fatalf("record %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
	}

	raw, err := os.ReadFile(c.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(raw), "\n  {\n    \"id\": \"1\"") {
		t.Fatalf("expected pretty-printed JSON, got:\n%s", raw)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	c := New(PathFor(dir, core.KindCategories), store.Of(core.DefaultCategories()...))
	if err := c.Save(context.Background(), nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, _ := os.ReadFile(c.Path())
	if string(raw) != "[]" {
		t.Fatalf("expected [], got %q", raw)
	}
	got, _ := c.Load(context.Background())
	if len(got) != 0 {
		t.Fatalf("an explicitly emptied set must stay empty, got %v", got)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// The parent "directory" is a regular file, so nothing can be written below it.
	c := New[string](filepath.Join(blocker, "categories.json"), nil)
	if err := c.Save(context.Background(), []string{"A"}); err == nil {
		t.Fatal("expected save error")
	}
}
