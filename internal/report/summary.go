package report

import "nobudget/internal/core"

// Snapshot is the full state of the four collections at one point in time.
type Snapshot struct {
	Expenses         []core.Expense `json:"expenses"`
	Income           []core.Income  `json:"income"`
	Categories       []string       `json:"categories"`
	IncomeCategories []string       `json:"incomeCategories"`
}

// Summary is what the dashboard shows next to the charts.
type Summary struct {
	TotalIncome      float64            `json:"totalIncome"`
	TotalExpenses    float64            `json:"totalExpenses"`
	Balance          float64            `json:"balance"`
	Transactions     int                `json:"transactions"`
	CategoryCount    int                `json:"categoryCount"`
	ExpenseTotals    map[string]float64 `json:"expenseTotals"`
	IncomeTotals     map[string]float64 `json:"incomeTotals"`
	MostUsedCategory string             `json:"mostUsedCategory,omitempty"`
	MostUsedSource   string             `json:"mostUsedSource,omitempty"`
	Daily            []DailyPoint       `json:"daily"`
}

// Summarize computes the dashboard summary. Totals cover every record,
// including ones whose category or source is no longer declared; the
// per-name maps list declared names only.
func Summarize(s Snapshot) Summary {
	byCategory := TotalsBy(s.Expenses, ByCategory)
	bySource := TotalsBy(s.Income, BySource)

	income := core.MoneyOf(Sum(s.Income))
	expenses := core.MoneyOf(Sum(s.Expenses))

	return Summary{
		TotalIncome:      income.Float(),
		TotalExpenses:    expenses.Float(),
		Balance:          core.Money{Cents: income.Cents - expenses.Cents}.Float(),
		Transactions:     len(s.Expenses) + len(s.Income),
		CategoryCount:    len(s.Categories),
		ExpenseTotals:    TotalsOver(s.Categories, byCategory),
		IncomeTotals:     TotalsOver(s.IncomeCategories, bySource),
		MostUsedCategory: MostUsed(s.Categories, byCategory),
		MostUsedSource:   MostUsed(s.IncomeCategories, bySource),
		Daily:            SeriesByDate(s.Expenses, s.Income),
	}
}
