package crud

import (
	"context"

	"golang.org/x/sync/errgroup"

	"nobudget/internal/core"
	"nobudget/internal/report"
	"nobudget/internal/store"
)

// Services groups the four collection services the API exposes.
type Services struct {
	Expenses         *Service[core.Expense]
	Income           *Service[core.Income]
	Categories       *Service[string]
	IncomeCategories *Service[string]
}

// Collections are the four backing stores, one per kind.
type Collections struct {
	Expenses         store.Collection[core.Expense]
	Income           store.Collection[core.Income]
	Categories       store.Collection[string]
	IncomeCategories store.Collection[string]
}

// NewServices binds each collection to its strategy.
func NewServices(c Collections, notifier Notifier) Services {
	return Services{
		Expenses:         NewService[core.Expense](core.NewExpenseStrategy(), c.Expenses, notifier),
		Income:           NewService[core.Income](core.NewIncomeStrategy(), c.Income, notifier),
		Categories:       NewService[string](core.NewCategoryStrategy(), c.Categories, notifier),
		IncomeCategories: NewService[string](core.NewIncomeCategoryStrategy(), c.IncomeCategories, notifier),
	}
}

// Snapshot loads all four collections concurrently. Any failure fails the
// whole snapshot.
func (s Services) Snapshot(ctx context.Context) (report.Snapshot, error) {
	var snap report.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Expenses, err = s.Expenses.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Income, err = s.Income.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Categories, err = s.Categories.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		snap.IncomeCategories, err = s.IncomeCategories.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.Snapshot{}, err
	}
	return snap, nil
}
