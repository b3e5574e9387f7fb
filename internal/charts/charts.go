// Package charts renders analytics aggregates as PNG images for the
// analytics screen. Data arrives already aggregated from the backend; this
// package only draws it.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"spendbook/internal/core"
)

// ErrNoData means there is nothing to draw for the current filter.
var ErrNoData = errors.New("no data to chart")

// CategoryPie renders per-category totals as a pie chart.
func CategoryPie(rows []core.CategoryAnalytics) ([]byte, error) {
	values := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		if row.TotalAmount <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: row.TotalAmount,
			Label: fmt.Sprintf("%s (%.2f)", row.Category, row.TotalAmount),
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	graph := chart.PieChart{
		Width:  512,
		Height: 512,
		Values: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render category pie: %w", err)
	}
	return buf.Bytes(), nil
}

// DateSeries renders by-date totals. Day buckets draw as a time series
// line; coarser groupings (week/month/year buckets are not parseable dates)
// draw as labeled bars.
func DateSeries(rows []core.DateAnalytics, grouping core.Grouping) ([]byte, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if grouping == core.GroupDay {
		if png, err := dateLine(rows); err == nil {
			return png, nil
		}
		// Unparseable day buckets fall back to bars.
	}
	return dateBars(rows)
}

func dateLine(rows []core.DateAnalytics) ([]byte, error) {
	xs := make([]time.Time, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	for _, row := range rows {
		t, err := core.ParseDate(row.Date)
		if err != nil {
			return nil, err
		}
		xs = append(xs, t)
		ys = append(ys, row.TotalAmount)
	}
	// A single point cannot make a line.
	if len(xs) < 2 {
		return nil, ErrNoData
	}

	graph := chart.Chart{
		Width:  900,
		Height: 360,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01-02"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Spent",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render date series: %w", err)
	}
	return buf.Bytes(), nil
}

func dateBars(rows []core.DateAnalytics) ([]byte, error) {
	bars := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		if row.TotalAmount <= 0 {
			continue
		}
		bars = append(bars, chart.Value{
			Value: row.TotalAmount,
			Label: row.Date,
		})
	}
	if len(bars) == 0 {
		return nil, ErrNoData
	}

	graph := chart.BarChart{
		Width:    900,
		Height:   360,
		BarWidth: 40,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render date bars: %w", err)
	}
	return buf.Bytes(), nil
}
