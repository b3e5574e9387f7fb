package api

import (
	"context"
	"net/http"

	"spendbook/internal/core"
)

// AnalyticsService reads server-computed aggregates. All methods are
// read-only; changing the numbers means changing expenses and re-requesting.
type AnalyticsService struct {
	c *Client
}

// Summary returns the total/count/average over the filtered expense set.
func (s *AnalyticsService) Summary(ctx context.Context, f AnalyticsFilter) (core.ExpenseSummary, error) {
	var out core.ExpenseSummary
	if err := s.c.doJSON(ctx, http.MethodGet, "/analytics/summary", f.Values(), nil, &out); err != nil {
		return core.ExpenseSummary{}, err
	}
	return out, nil
}

// ByCategory returns per-category aggregates.
func (s *AnalyticsService) ByCategory(ctx context.Context, f AnalyticsFilter) ([]core.CategoryAnalytics, error) {
	var out []core.CategoryAnalytics
	if err := s.c.doJSON(ctx, http.MethodGet, "/analytics/by-category", f.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BySubCategory returns per-sub-category aggregates.
func (s *AnalyticsService) BySubCategory(ctx context.Context, f AnalyticsFilter) ([]core.SubCategoryAnalytics, error) {
	var out []core.SubCategoryAnalytics
	if err := s.c.doJSON(ctx, http.MethodGet, "/analytics/by-subcategory", f.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByDate returns time-bucketed aggregates at the requested grouping.
func (s *AnalyticsService) ByDate(ctx context.Context, f AnalyticsFilter, g core.Grouping) ([]core.DateAnalytics, error) {
	var out []core.DateAnalytics
	if err := s.c.doJSON(ctx, http.MethodGet, "/analytics/by-date", f.withGrouping(g), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
