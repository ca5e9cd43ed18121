// Package report derives dashboard figures from fetched collections. Every
// function is pure and recomputes from scratch; nothing is cached between
// calls. Sums are accumulated in cents so repeated additions of decimal
// amounts do not drift.
package report

import (
	"sort"

	"nobudget/internal/core"
)

// ByCategory groups expenses by category.
func ByCategory(e core.Expense) string { return e.Category }

// BySource groups income by source.
func BySource(i core.Income) string { return i.Source }

// TotalsBy sums amounts per distinct key. Keys that no item carries are
// absent; a missing key reads as zero.
func TotalsBy[T core.Transaction](items []T, key func(T) string) map[string]float64 {
	cents := make(map[string]core.Money)
	for _, it := range items {
		k := key(it)
		cents[k] = cents[k].Add(core.MoneyOf(it.Value()))
	}
	out := make(map[string]float64, len(cents))
	for k, m := range cents {
		out[k] = m.Float()
	}
	return out
}

// ForDate keeps the items whose date equals date exactly.
func ForDate[T core.Transaction](items []T, date string) []T {
	out := make([]T, 0)
	for _, it := range items {
		if it.Day() == date {
			out = append(out, it)
		}
	}
	return out
}

// Sum adds up every amount.
func Sum[T core.Transaction](items []T) float64 {
	var total core.Money
	for _, it := range items {
		total = total.Add(core.MoneyOf(it.Value()))
	}
	return total.Float()
}

// DailyPoint holds the sums for one calendar date.
type DailyPoint struct {
	Date     string  `json:"date"`
	Expenses float64 `json:"expenses"`
	Income   float64 `json:"income"`
}

// SeriesByDate returns one point per date found in either collection, in
// ascending string order.
func SeriesByDate(expenses []core.Expense, income []core.Income) []DailyPoint {
	exp := TotalsBy(expenses, core.Expense.Day)
	inc := TotalsBy(income, core.Income.Day)

	dates := make([]string, 0, len(exp)+len(inc))
	for d := range exp {
		dates = append(dates, d)
	}
	for d := range inc {
		if _, ok := exp[d]; !ok {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	out := make([]DailyPoint, len(dates))
	for i, d := range dates {
		out[i] = DailyPoint{Date: d, Expenses: exp[d], Income: inc[d]}
	}
	return out
}

// TotalsOver looks up every name in totals, filling zero for absent ones.
func TotalsOver(names []string, totals map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(names))
	for _, n := range names {
		out[n] = totals[n]
	}
	return out
}

// MostUsed returns the name with the largest total. Ties keep the earlier
// name, and an empty list yields "".
func MostUsed(names []string, totals map[string]float64) string {
	if len(names) == 0 {
		return ""
	}
	best := names[0]
	for _, n := range names[1:] {
		if totals[n] > totals[best] {
			best = n
		}
	}
	return best
}
