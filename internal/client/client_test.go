package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nobudget/internal/core"
	"nobudget/internal/crud"
	api "nobudget/internal/http"
	"nobudget/internal/log"
	"nobudget/internal/report"
	"nobudget/internal/store"
	"nobudget/internal/store/memory"
)

func newAPI(t *testing.T) *Client {
	t.Helper()
	svcs := crud.NewServices(crud.Collections{
		Expenses:         memory.New[core.Expense](nil),
		Income:           memory.New[core.Income](nil),
		Categories:       memory.New(store.Of(core.DefaultCategories()...)),
		IncomeCategories: memory.New(store.Of(core.DefaultIncomeCategories()...)),
	}, nil)
	srv := api.NewServer(":0", svcs, api.Options{Logger: log.New(log.Config{Output: io.Discard})})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return New(ts.URL+"/", ts.Client())
}

func TestFetchAllAndAggregate(t *testing.T) {
	ctx := context.Background()
	c := newAPI(t)

	for _, p := range []core.Payload{
		{"amount": 10.0, "category": "Food", "date": "2024-03-05"},
		{"amount": 5.0, "category": "Food", "date": "2024-03-05"},
		{"amount": 20.0, "category": "Rent", "date": "2024-03-06"},
	} {
		_, err := c.CreateExpense(ctx, p)
		require.NoError(t, err)
	}
	_, err := c.CreateIncome(ctx, core.Payload{"amount": 50.0, "source": "Salary", "date": "2024-03-06"})
	require.NoError(t, err)

	snap, err := c.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Expenses, 3)
	assert.Len(t, snap.Income, 1)
	assert.Equal(t, core.DefaultCategories(), snap.Categories)
	assert.Equal(t, core.DefaultIncomeCategories(), snap.IncomeCategories)

	assert.Equal(t, map[string]float64{"Food": 15, "Rent": 20}, report.TotalsBy(snap.Expenses, report.ByCategory))
	assert.Len(t, report.ForDate(snap.Expenses, "2024-03-05"), 2)
	assert.Equal(t, []report.DailyPoint{
		{Date: "2024-03-05", Expenses: 15},
		{Date: "2024-03-06", Expenses: 20, Income: 50},
	}, report.SeriesByDate(snap.Expenses, snap.Income))
}

func TestCategoryAndDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newAPI(t)

	require.NoError(t, c.AddName(ctx, core.KindIncomeCategories, "Dividends & Interest"))
	names, err := c.IncomeCategories(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "Dividends & Interest")

	err = c.AddName(ctx, core.KindIncomeCategories, "Dividends & Interest")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Category already exists", apiErr.Message)

	require.NoError(t, c.Delete(ctx, core.KindIncomeCategories, "Dividends & Interest"))
	err = c.Delete(ctx, core.KindIncomeCategories, "Dividends & Interest")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestUpdateExpense(t *testing.T) {
	ctx := context.Background()
	c := newAPI(t)

	e, err := c.CreateExpense(ctx, core.Payload{"amount": 1.0, "category": "Food", "date": "2024-01-01"})
	require.NoError(t, err)

	got, err := c.UpdateExpense(ctx, e.ID, core.Payload{"amount": 2.5})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Amount)
	assert.Equal(t, e.Category, got.Category)

	_, err = c.UpdateExpense(ctx, e.ID, core.Payload{"description": "no amount"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Amount is required.", apiErr.Message)
}

func TestHealthSummaryAndChart(t *testing.T) {
	ctx := context.Background()
	c := newAPI(t)

	h, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)

	img, err := c.Chart(ctx, "categories")
	require.NoError(t, err)
	assert.Nil(t, img)

	_, err = c.CreateExpense(ctx, core.Payload{"amount": 9.0, "category": "Bills", "date": "2024-01-01"})
	require.NoError(t, err)

	sum, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bills", sum.MostUsedCategory)
	assert.Equal(t, 9.0, sum.TotalExpenses)

	img, err = c.Chart(ctx, "categories")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestFetchAllFailsAsAWhole(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/income" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Failed to fetch income: disk"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, ts.Client()).FetchAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to fetch income: disk", apiErr.Message)
}

func TestCallsReturnDecodedBodies(t *testing.T) {
	ctx := context.Background()
	c := newAPI(t)

	inc, err := c.CreateIncome(ctx, core.Payload{"amount": "1500", "source": "Salary", "date": "2024-01-31T10:00:00Z"})
	require.NoError(t, err)
	assert.NotEmpty(t, inc.ID)
	assert.Equal(t, 1500.0, inc.Amount)
	assert.Equal(t, "2024-01-31", inc.Date)

	updated, err := c.UpdateIncome(ctx, inc.ID, core.Payload{"amount": 1600.0})
	require.NoError(t, err)
	assert.Equal(t, inc.ID, updated.ID)
	assert.Equal(t, 1600.0, updated.Amount)

	all, err := c.Income(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 1600.0, all[0].Amount)
}
