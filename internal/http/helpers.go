package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"spendbook/internal/api"
	"spendbook/internal/controller"
	"spendbook/internal/core"
)

// defaultPageSize bounds the expense list; older records page in via skip.
const defaultPageSize = 100

var templateFuncs = template.FuncMap{
	"amount": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"shortDate": core.DisplayDate,
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseExpenseFilter reads the expenses screen filter from query
// parameters. Absent parameters stay zero, which keeps them out of the
// outgoing API query.
func parseExpenseFilter(r *http.Request) api.ExpenseFilter {
	q := r.URL.Query()
	f := api.ExpenseFilter{
		Category:    sanitizeInput(q.Get("category")),
		SubCategory: sanitizeInput(q.Get("sub_category")),
		StartDate:   sanitizeInput(q.Get("start_date")),
		EndDate:     sanitizeInput(q.Get("end_date")),
		Limit:       defaultPageSize,
	}
	if v := strings.TrimSpace(q.Get("skip")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Skip = n
		}
	}
	return f
}

// parseAnalyticsFilter reads the analytics screen filter. A request with no
// filter parameters at all means the defined default: the trailing 30 days.
func parseAnalyticsFilter(r *http.Request, defaults controller.AnalyticsFilter) controller.AnalyticsFilter {
	q := r.URL.Query()
	if !q.Has("category") && !q.Has("sub_category") && !q.Has("start_date") && !q.Has("end_date") && !q.Has("grouping") {
		return defaults
	}
	return controller.AnalyticsFilter{
		AnalyticsFilter: api.AnalyticsFilter{
			Category:    sanitizeInput(q.Get("category")),
			SubCategory: sanitizeInput(q.Get("sub_category")),
			StartDate:   sanitizeInput(q.Get("start_date")),
			EndDate:     sanitizeInput(q.Get("end_date")),
		},
		Grouping: core.ParseGrouping(q.Get("grouping")),
	}
}
