// Package charts renders the dashboard charts as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"nobudget/internal/core"
	"nobudget/internal/report"
)

var background = chart.Style{
	Padding:   chart.Box{Top: 50, Left: 50, Right: 50, Bottom: 50},
	FillColor: chart.ColorWhite,
}

var axisStyle = chart.Style{FontSize: 12, FontColor: chart.ColorBlack}

// CategoryPie draws one slice per category with a positive total, largest
// first. It returns nil when there is nothing to draw.
func CategoryPie(totals map[string]float64) ([]byte, error) {
	values := make([]chart.Value, 0, len(totals))
	var sum float64
	for name, amount := range totals {
		if amount <= 0 {
			continue
		}
		sum += amount
		values = append(values, chart.Value{Label: name, Value: amount})
	}
	if len(values) == 0 {
		return nil, nil
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Value != values[j].Value {
			return values[i].Value > values[j].Value
		}
		return values[i].Label < values[j].Label
	})
	for i := range values {
		values[i].Label = fmt.Sprintf("%s: %.2f (%.1f%%)", values[i].Label, values[i].Value, values[i].Value/sum*100)
		values[i].Style = axisStyle
	}

	pie := chart.PieChart{
		Title:      "Expenses by category",
		Width:      800,
		Height:     800,
		Values:     values,
		Background: background,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render category pie: %w", err)
	}
	return buffer.Bytes(), nil
}

// DailySeries draws expenses and income per day. Points whose date is not a
// calendar date are skipped. It returns nil unless at least two dates remain
// and the values are not all equal, since a flat or single-point series has
// no range to plot.
func DailySeries(points []report.DailyPoint) ([]byte, error) {
	xValues := make([]time.Time, 0, len(points))
	expenses := make([]float64, 0, len(points))
	income := make([]float64, 0, len(points))
	for _, p := range points {
		day, err := time.Parse(core.DateLayout, p.Date)
		if err != nil {
			continue
		}
		xValues = append(xValues, day)
		expenses = append(expenses, p.Expenses)
		income = append(income, p.Income)
	}
	if len(xValues) < 2 || flat(expenses, income) {
		return nil, nil
	}

	graph := chart.Chart{
		Width:      1200,
		Height:     600,
		Background: background,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
			Style:          axisStyle,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
			Style: axisStyle,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Expenses",
				XValues: xValues,
				YValues: expenses,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: income,
				Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, axisStyle)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render daily series: %w", err)
	}
	return buffer.Bytes(), nil
}

func flat(series ...[]float64) bool {
	first := true
	var v0 float64
	for _, s := range series {
		for _, v := range s {
			if first {
				v0, first = v, false
				continue
			}
			if v != v0 {
				return false
			}
		}
	}
	return true
}
