package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nobudget/internal/core"
)

func TestTotalsByCategory(t *testing.T) {
	expenses := []core.Expense{
		{Category: "Food", Amount: 10},
		{Category: "Food", Amount: 5},
		{Category: "Rent", Amount: 20},
	}
	assert.Equal(t, map[string]float64{"Food": 15, "Rent": 20}, TotalsBy(expenses, ByCategory))
	assert.Empty(t, TotalsBy([]core.Expense{}, ByCategory))
}

func TestTotalsDoNotDrift(t *testing.T) {
	var expenses []core.Expense
	for i := 0; i < 10; i++ {
		expenses = append(expenses, core.Expense{Category: "Food", Amount: 0.1})
	}
	assert.Equal(t, 1.0, TotalsBy(expenses, ByCategory)["Food"])
	assert.Equal(t, 1.0, Sum(expenses))
}

func TestForDate(t *testing.T) {
	income := []core.Income{
		{ID: "a", Date: "2024-03-05", Amount: 1},
		{ID: "b", Date: "2024-03-06", Amount: 2},
		{ID: "c", Date: "2024-03-05", Amount: 3},
	}
	got := ForDate(income, "2024-03-05")
	assert.Equal(t, []core.Income{income[0], income[2]}, got)
	assert.Empty(t, ForDate(income, "2024-03-07"))
	assert.NotNil(t, ForDate(income, "2024-03-07"))
}

func TestSeriesByDate(t *testing.T) {
	expenses := []core.Expense{
		{Date: "2024-03-06", Amount: 4},
		{Date: "2024-03-05", Amount: 1.5},
		{Date: "2024-03-05", Amount: 1},
	}
	income := []core.Income{
		{Date: "2024-03-07", Amount: 100},
		{Date: "2024-03-05", Amount: 50},
	}
	assert.Equal(t, []DailyPoint{
		{Date: "2024-03-05", Expenses: 2.5, Income: 50},
		{Date: "2024-03-06", Expenses: 4, Income: 0},
		{Date: "2024-03-07", Expenses: 0, Income: 100},
	}, SeriesByDate(expenses, income))

	assert.Empty(t, SeriesByDate(nil, nil))
}

func TestMostUsed(t *testing.T) {
	names := []string{"Food", "Bills", "Other"}
	assert.Equal(t, "Bills", MostUsed(names, map[string]float64{"Food": 5, "Bills": 9}))
	assert.Equal(t, "Food", MostUsed(names, map[string]float64{"Food": 5, "Bills": 5}))
	assert.Equal(t, "Food", MostUsed(names, nil))
	assert.Equal(t, "", MostUsed(nil, map[string]float64{"Food": 1}))
}

func TestSummarize(t *testing.T) {
	s := Summarize(Snapshot{
		Expenses: []core.Expense{
			{Category: "Food", Amount: 10, Date: "2024-01-01"},
			{Category: "Gone", Amount: 2.5, Date: "2024-01-02"},
		},
		Income: []core.Income{
			{Source: "Salary", Amount: 100, Date: "2024-01-01"},
		},
		Categories:       []string{"Food", "Bills"},
		IncomeCategories: []string{"Salary", "Bonus"},
	})

	assert.Equal(t, 100.0, s.TotalIncome)
	assert.Equal(t, 12.5, s.TotalExpenses)
	assert.Equal(t, 87.5, s.Balance)
	assert.Equal(t, 3, s.Transactions)
	assert.Equal(t, 2, s.CategoryCount)
	assert.Equal(t, map[string]float64{"Food": 10, "Bills": 0}, s.ExpenseTotals)
	assert.Equal(t, map[string]float64{"Salary": 100, "Bonus": 0}, s.IncomeTotals)
	assert.Equal(t, "Food", s.MostUsedCategory)
	assert.Equal(t, "Salary", s.MostUsedSource)
	assert.Len(t, s.Daily, 2)
}
