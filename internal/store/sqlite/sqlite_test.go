package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nobudget/internal/core"
	"nobudget/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCollectionDefaultsUntilSaved(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cats := NewCollection(db, core.KindCategories, store.Of(core.DefaultCategories()...))
	got, err := cats.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultCategories(), got)

	require.NoError(t, cats.Save(ctx, []string{"Food", "Travel"}))
	got, err = cats.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Travel"}, got)

	require.NoError(t, cats.Save(ctx, []string{}))
	got, err = cats.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestCollectionsAreIsolatedByKind(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	expenses := NewCollection[core.Expense](db, core.KindExpenses, nil)
	income := NewCollection[core.Income](db, core.KindIncome, nil)

	e := core.Expense{ID: "e1", Amount: 10, Category: "Food", Date: "2024-01-01", Tags: []string{}}
	require.NoError(t, expenses.Save(ctx, []core.Expense{e}))

	gotInc, err := income.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotInc)

	gotExp, err := expenses.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Expense{e}, gotExp)
}

func TestReopenRunsMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, NewCollection[string](db, core.KindIncomeCategories, nil).Save(context.Background(), []string{"Salary"}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping(context.Background()))

	got, err := NewCollection[string](db, core.KindIncomeCategories, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Salary"}, got)
}

func TestLoadAcceptsStringAmounts(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.db.ExecContext(ctx, `INSERT INTO collections (kind, body) VALUES (?, ?)`,
		string(core.KindIncome), `[{"id":"i1","amount":"1500","source":"Salary","date":"2024-01-31","description":""}]`)
	require.NoError(t, err)

	income := NewCollection[core.Income](db, core.KindIncome, nil)
	got, err := income.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1500.0, got[0].Amount)
}

func TestUndecodableSnapshotIsReportedNotReplaced(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	body := `[{"id":"e1","amount":"lots","category":"Food","date":"2024-01-01"}]`
	_, err := db.db.ExecContext(ctx, `INSERT INTO collections (kind, body) VALUES (?, ?)`,
		string(core.KindExpenses), body)
	require.NoError(t, err)

	expenses := NewCollection[core.Expense](db, core.KindExpenses, nil)
	_, err = expenses.Load(ctx)
	require.Error(t, err)

	var stored string
	require.NoError(t, db.db.QueryRowContext(ctx,
		`SELECT body FROM collections WHERE kind = ?`, string(core.KindExpenses)).Scan(&stored))
	assert.Equal(t, body, stored)
}
