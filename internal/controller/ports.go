// Package controller holds the per-screen filter state and reacts to filter
// changes by issuing exactly one fetch per change. Each fetch carries a
// monotonic sequence number; a response whose sequence has been superseded
// is discarded, so a slow stale request can never overwrite newer state.
package controller

import (
	"context"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

// Ports onto the API layer, kept narrow so tests can fake them.
type (
	ExpenseLister interface {
		List(ctx context.Context, f api.ExpenseFilter) ([]core.Expense, error)
	}

	CatalogReader interface {
		Categories(ctx context.Context) ([]core.Category, error)
		SubCategories(ctx context.Context) ([]core.SubCategory, error)
	}

	AggregateReader interface {
		Summary(ctx context.Context, f api.AnalyticsFilter) (core.ExpenseSummary, error)
		ByCategory(ctx context.Context, f api.AnalyticsFilter) ([]core.CategoryAnalytics, error)
		BySubCategory(ctx context.Context, f api.AnalyticsFilter) ([]core.SubCategoryAnalytics, error)
		ByDate(ctx context.Context, f api.AnalyticsFilter, g core.Grouping) ([]core.DateAnalytics, error)
	}
)
