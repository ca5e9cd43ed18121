package main

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"nobudget/internal/core"
	"nobudget/internal/report"
)

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the server is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := a.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s at %s\n", SuccessStyle.Render(h.Status), h.Version, h.Timestamp)
			return nil
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals, balance and spending per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.client().Summary(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, TitleStyle.Render("Summary"))
			t := newTable(out, "Metric", "Value")
			t.row("Total income", money(s.TotalIncome))
			t.row("Total expenses", money(s.TotalExpenses))
			t.row("Balance", money(s.Balance))
			t.row("Transactions", s.Transactions)
			t.row("Categories", s.CategoryCount)
			if s.MostUsedCategory != "" {
				t.row("Top category", s.MostUsedCategory)
			}
			if s.MostUsedSource != "" {
				t.row("Top income source", s.MostUsedSource)
			}
			if err := t.flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, TitleStyle.Render("Expenses by category"))
			t = newTable(out, "Category", "Amount")
			for _, name := range sortedKeys(s.ExpenseTotals) {
				t.row(name, money(s.ExpenseTotals[name]))
			}
			return t.flush()
		},
	}
}

func (a *app) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "List the expenses and income of one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := time.Now().Format(core.DateLayout)
			if len(args) == 1 {
				if _, err := time.Parse(core.DateLayout, args[0]); err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", args[0])
				}
				date = args[0]
			}

			snap, err := a.client().FetchAll(cmd.Context())
			if err != nil {
				return err
			}
			expenses := report.ForDate(snap.Expenses, date)
			income := report.ForDate(snap.Income, date)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, TitleStyle.Render("Transactions on "+date))
			if len(expenses) == 0 && len(income) == 0 {
				fmt.Fprintln(out, SubtleStyle.Render("No transactions recorded for this date."))
				return nil
			}

			t := newTable(out, "Type", "Amount", "Category", "Description", "ID")
			for _, e := range expenses {
				t.row("expense", money(e.Amount), e.Category, e.Description, e.ID)
			}
			for _, i := range income {
				t.row("income", money(i.Amount), i.Source, i.Description, i.ID)
			}
			if err := t.flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nSpent %s, earned %s\n",
				WarningStyle.Render(money(report.Sum(expenses))),
				SuccessStyle.Render(money(report.Sum(income))))
			return nil
		},
	}
}

func (a *app) chartCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "chart <categories|daily>",
		Short:     "Download a dashboard chart as PNG",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"categories", "daily"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if name != "categories" && name != "daily" {
				return fmt.Errorf("unknown chart %q: use categories or daily", name)
			}
			png, err := a.client().Chart(cmd.Context(), name)
			if err != nil {
				return err
			}
			if png == nil {
				fmt.Fprintln(cmd.OutOrStdout(), SubtleStyle.Render("Nothing to plot yet."))
				return nil
			}
			if output == "" {
				output = name + ".png"
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Saved "+output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.png)")
	return cmd
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
