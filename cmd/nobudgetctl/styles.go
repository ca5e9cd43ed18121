package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor  = lipgloss.Color("#4ECDC4")
	warningColor = lipgloss.Color("#FFE66D")
	errorColor   = lipgloss.Color("#FF6B6B")
	subtleColor  = lipgloss.Color("#666666")

	TitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	SuccessStyle     = lipgloss.NewStyle().Foreground(accentColor)
	WarningStyle     = lipgloss.NewStyle().Foreground(warningColor)
	ErrorStyle       = lipgloss.NewStyle().Foreground(errorColor)
	SubtleStyle      = lipgloss.NewStyle().Foreground(subtleColor)
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// table writes aligned rows under a styled header.
type table struct {
	w *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	styled := make([]string, len(headers))
	rules := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = TableHeaderStyle.Render(h)
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(t.w, strings.Join(styled, "\t"))
	fmt.Fprintln(t.w, strings.Join(rules, "\t"))
	return t
}

func (t *table) row(cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

func (t *table) flush() error {
	return t.w.Flush()
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
