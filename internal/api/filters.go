package api

import (
	"net/url"
	"strconv"

	"spendbook/internal/core"
)

// ExpenseFilter narrows the expense list. Zero-valued fields are omitted
// from the outgoing query entirely.
type ExpenseFilter struct {
	Category    string
	SubCategory string
	StartDate   string
	EndDate     string
	Skip        int
	Limit       int
}

// Values encodes the filter as query parameters.
func (f ExpenseFilter) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "category", f.Category)
	setNonEmpty(v, "sub_category", f.SubCategory)
	setNonEmpty(v, "start_date", f.StartDate)
	setNonEmpty(v, "end_date", f.EndDate)
	if f.Skip > 0 {
		v.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// IsZero reports whether no criteria are set.
func (f ExpenseFilter) IsZero() bool {
	return f == ExpenseFilter{}
}

// AnalyticsFilter narrows the aggregate queries. Grouping applies to the
// by-date endpoint only and travels separately (see AnalyticsService.ByDate).
type AnalyticsFilter struct {
	Category    string
	SubCategory string
	StartDate   string
	EndDate     string
}

// Values encodes the filter as query parameters, omitting blank fields.
func (f AnalyticsFilter) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "category", f.Category)
	setNonEmpty(v, "sub_category", f.SubCategory)
	setNonEmpty(v, "start_date", f.StartDate)
	setNonEmpty(v, "end_date", f.EndDate)
	return v
}

func (f AnalyticsFilter) withGrouping(g core.Grouping) url.Values {
	v := f.Values()
	if g.Valid() {
		v.Set("grouping", string(g))
	}
	return v
}
