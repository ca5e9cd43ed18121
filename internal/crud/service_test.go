package crud

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nobudget/internal/core"
	"nobudget/internal/store"
	"nobudget/internal/store/file"
	"nobudget/internal/store/memory"
)

type recordingNotifier struct {
	mu      sync.Mutex
	changes []core.Change
	err     error
}

func (n *recordingNotifier) Publish(_ context.Context, c core.Change) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
	return n.err
}

// failingCollection loads fine but refuses every save.
type failingCollection[T any] struct {
	items []T
}

func (f *failingCollection[T]) Load(context.Context) ([]T, error) { return append([]T{}, f.items...), nil }
func (f *failingCollection[T]) Save(context.Context, []T) error {
	return errors.New("disk full")
}

func newExpenses(t *testing.T, n Notifier) (*Service[core.Expense], *memory.Collection[core.Expense]) {
	t.Helper()
	coll := memory.New[core.Expense](nil)
	return NewService[core.Expense](core.NewExpenseStrategy(), coll, n), coll
}

func newCategories(t *testing.T) *Service[string] {
	t.Helper()
	coll := memory.New(store.Of(core.DefaultCategories()...))
	return NewService[string](core.NewCategoryStrategy(), coll, nil)
}

func TestCreateThenListContainsTransformedRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenses(t, nil)

	created, err := svc.Create(ctx, core.Payload{"amount": 12.5, "category": "Food", "date": "2024-03-05"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "", created.Description)
	assert.Equal(t, []string{}, created.Tags)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created, items[0])

	second, err := svc.Create(ctx, core.Payload{"amount": 12.5, "category": "Food", "date": "2024-03-05"})
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, second.ID)
}

func TestCreateWithMissingFieldLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()

	exp, _ := newExpenses(t, nil)
	_, err := exp.Create(ctx, core.Payload{"category": "Food", "date": "2024-03-05"})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	items, _ := exp.List(ctx)
	assert.Empty(t, items)

	inc := NewService[core.Income](core.NewIncomeStrategy(), memory.New[core.Income](nil), nil)
	_, err = inc.Create(ctx, core.Payload{"amount": 10.0, "date": "2024-03-05"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Amount, source, and date are required.", verr.Message)

	cats := newCategories(t)
	_, err = cats.Create(ctx, core.Payload{})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Category name required", verr.Message)
	names, _ := cats.List(ctx)
	assert.Equal(t, core.DefaultCategories(), names)
}

func TestCreateDuplicateCategory(t *testing.T) {
	ctx := context.Background()
	cats := newCategories(t)

	_, err := cats.Create(ctx, core.Payload{"name": "Food"})
	var dup *core.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Category already exists", dup.Message)

	names, _ := cats.List(ctx)
	assert.Equal(t, core.DefaultCategories(), names)

	// Names are case-sensitive.
	created, err := cats.Create(ctx, core.Payload{"name": "food"})
	require.NoError(t, err)
	assert.Equal(t, "food", created)
	names, _ = cats.List(ctx)
	assert.Equal(t, "food", names[len(names)-1])
}

func TestUpdateChangesOnlyGivenFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenses(t, nil)
	orig, err := svc.Create(ctx, core.Payload{
		"amount": 10.0, "category": "Food", "date": "2024-03-05",
		"description": "lunch", "tags": []any{"work"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, orig.ID, core.Payload{"amount": 42.0})
	require.NoError(t, err)
	want := orig
	want.Amount = 42
	assert.Equal(t, want, updated)

	items, _ := svc.List(ctx)
	assert.Equal(t, []core.Expense{want}, items)
}

func TestUpdateFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenses(t, nil)
	orig, err := svc.Create(ctx, core.Payload{"amount": 10.0, "category": "Food", "date": "2024-03-05"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, orig.ID, core.Payload{"category": "Bills"})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Amount is required.", verr.Message)

	_, err = svc.Update(ctx, "missing", core.Payload{"amount": 1.0})
	var nf *core.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "expense not found.", nf.Message)

	err = svc.Delete(ctx, "missing")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "expense not found", nf.Message)

	items, _ := svc.List(ctx)
	assert.Equal(t, []core.Expense{orig}, items)

	_, err = newCategories(t).Update(ctx, "Food", core.Payload{"amount": 1.0})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Update not supported for this endpoint", nf.Message)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenses(t, nil)
	a, _ := svc.Create(ctx, core.Payload{"amount": 1.0, "category": "Food", "date": "2024-01-01"})
	b, _ := svc.Create(ctx, core.Payload{"amount": 2.0, "category": "Food", "date": "2024-01-02"})

	err := svc.Delete(ctx, "nope")
	var nf *core.NotFoundError
	require.ErrorAs(t, err, &nf)
	items, _ := svc.List(ctx)
	assert.Len(t, items, 2)

	require.NoError(t, svc.Delete(ctx, a.ID))
	items, _ = svc.List(ctx)
	assert.Equal(t, []core.Expense{b}, items)

	cats := newCategories(t)
	require.NoError(t, cats.Delete(ctx, "Bills"))
	err = cats.Delete(ctx, "Bills")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Category not found", nf.Message)
}

func TestSaveFailureSurfacesStoreError(t *testing.T) {
	ctx := context.Background()
	backing := &failingCollection[string]{items: []string{"Food"}}
	svc := NewService[string](core.NewCategoryStrategy(), backing, nil)

	_, err := svc.Create(ctx, core.Payload{"name": "Travel"})
	var serr *core.StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Failed to save data: disk full", serr.Error())

	err = svc.Delete(ctx, "Food")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, []string{"Food"}, backing.items)
}

func TestMutationsAreNotified(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	svc, _ := newExpenses(t, n)

	e, err := svc.Create(ctx, core.Payload{"amount": 5.0, "category": "Food", "date": "2024-01-01"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, e.ID, core.Payload{"amount": 6.0})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, e.ID))

	require.Len(t, n.changes, 3)
	assert.Equal(t, core.OpCreate, n.changes[0].Op)
	assert.Equal(t, core.OpUpdate, n.changes[1].Op)
	assert.Equal(t, core.OpDelete, n.changes[2].Op)
	for _, c := range n.changes {
		assert.Equal(t, core.KindExpenses, c.Kind)
		assert.Equal(t, e.ID, c.Key)
	}
	assert.Nil(t, n.changes[2].Record)

	// A broken broker does not fail the request.
	n.err = errors.New("connection closed")
	_, err = svc.Create(ctx, core.Payload{"amount": 5.0, "category": "Food", "date": "2024-01-01"})
	require.NoError(t, err)
}

func TestStringAmountFileSurvivesCreate(t *testing.T) {
	ctx := context.Background()
	path := file.PathFor(t.TempDir(), core.KindExpenses)
	legacy := `[{"id":"a","amount":"12.50","category":"Food","date":"2024-03-05","description":"","tags":[]},` +
		`{"id":"b","amount":"40","category":"Bills","date":"2024-03-06","description":"","tags":[]}]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	svc := NewService[core.Expense](core.NewExpenseStrategy(), file.New[core.Expense](path, nil), nil)
	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = svc.Create(ctx, core.Payload{"amount": 1.0, "category": "Food", "date": "2024-03-07"})
	require.NoError(t, err)

	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 12.5, items[0].Amount)
	assert.Equal(t, 40.0, items[1].Amount)
}

func TestStringAndNumberAmountsAgree(t *testing.T) {
	ctx := context.Background()
	svc, _ := newExpenses(t, nil)

	fromString, err := svc.Create(ctx, core.Payload{"amount": "-5", "category": "Food", "date": "2024-01-01"})
	require.NoError(t, err)
	fromNumber, err := svc.Create(ctx, core.Payload{"amount": -5.0, "category": "Food", "date": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, fromNumber.Amount, fromString.Amount)

	// "0" is a non-empty string and passes the required check, 0 does not.
	zero, err := svc.Create(ctx, core.Payload{"amount": "0", "category": "Food", "date": "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero.Amount)

	_, err = svc.Create(ctx, core.Payload{"amount": 0.0, "category": "Food", "date": "2024-01-01"})
	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
}
