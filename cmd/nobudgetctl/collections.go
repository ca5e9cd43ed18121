package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nobudget/internal/core"
)

func (a *app) expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List, add and remove expenses",
	}
	cmd.AddCommand(a.listExpensesCmd())
	cmd.AddCommand(a.addExpenseCmd())
	cmd.AddCommand(a.removeCmd(core.KindExpenses, "rm <id>", "Remove an expense by id"))
	return cmd
}

func (a *app) listExpensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			expenses, err := a.client().Expenses(cmd.Context())
			if err != nil {
				return err
			}
			if len(expenses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), SubtleStyle.Render("No expenses yet. Use 'nobudgetctl expenses add' to create one."))
				return nil
			}
			t := newTable(cmd.OutOrStdout(), "Date", "Amount", "Category", "Description", "ID")
			for _, e := range expenses {
				t.row(e.Date, money(e.Amount), e.Category, e.Description, e.ID)
			}
			return t.flush()
		},
	}
}

func (a *app) addExpenseCmd() *cobra.Command {
	var (
		amount      string
		category    string
		date        string
		description string
		tags        []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if date == "" {
				date = time.Now().Format(core.DateLayout)
			}
			tagList := make([]any, len(tags))
			for i, t := range tags {
				tagList[i] = t
			}
			e, err := a.client().CreateExpense(cmd.Context(), core.Payload{
				"amount":      amount,
				"category":    category,
				"date":        date,
				"description": description,
				"tags":        tagList,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s on %s (%s)\n",
				SuccessStyle.Render("Added"), money(e.Amount), e.Category, e.Date, e.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 12.50 or 12,50")
	cmd.Flags().StringVarP(&category, "category", "c", "", "expense category")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&description, "description", "", "free text")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag, repeatable")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func (a *app) categoriesCmd() *cobra.Command {
	var income bool
	kind := func() core.Kind {
		if income {
			return core.KindIncomeCategories
		}
		return core.KindCategories
	}

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List, add and remove expense or income categories",
	}
	cmd.PersistentFlags().BoolVar(&income, "income", false, "work on income categories")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				names []string
				err   error
			)
			if income {
				names, err = a.client().IncomeCategories(cmd.Context())
			} else {
				names, err = a.client().Categories(cmd.Context())
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render(string(kind())))
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().AddName(cmd.Context(), kind(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("Added %q", args[0])))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a category; records using it keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Delete(cmd.Context(), kind(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render(fmt.Sprintf("Removed %q", args[0])))
			return nil
		},
	})
	return cmd
}

func (a *app) removeCmd(kind core.Kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Delete(cmd.Context(), kind, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("Removed "+args[0]))
			return nil
		},
	}
}
