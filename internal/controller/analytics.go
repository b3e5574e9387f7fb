package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

// AnalyticsFilter is the analytics screen's filter state: the aggregate
// criteria plus the by-date grouping granularity.
type AnalyticsFilter struct {
	api.AnalyticsFilter
	Grouping core.Grouping
}

// AnalyticsState is a render-ready snapshot of the analytics screen. The OK
// flags gate each section's render: a failed aggregate fetch suppresses its
// own section and nothing else.
type AnalyticsState struct {
	Filter AnalyticsFilter

	Summary   core.ExpenseSummary
	SummaryOK bool

	ByCategory   []core.CategoryAnalytics
	ByCategoryOK bool

	ByDate   []core.DateAnalytics
	ByDateOK bool

	// BySubCategory is populated only while a category filter is set.
	BySubCategory   []core.SubCategoryAnalytics
	BySubCategoryOK bool

	Categories    []core.Category
	SubCategories []core.SubCategory
	// CatalogLoaded is true once any catalog load has succeeded; a later
	// failed reload keeps the previous catalog and the flag.
	CatalogLoaded bool
}

// AnalyticsController owns the analytics screen state. The catalog reloads
// on every render; the aggregates refetch on every filter change,
// concurrently, with each result committed on its own.
type AnalyticsController struct {
	catalog    CatalogReader
	aggregates AggregateReader
	now        func() time.Time

	state guardedState[AnalyticsState]
}

func NewAnalyticsController(catalog CatalogReader, aggregates AggregateReader) *AnalyticsController {
	c := &AnalyticsController{
		catalog:    catalog,
		aggregates: aggregates,
		now:        time.Now,
	}
	c.state.set(AnalyticsState{Filter: defaultAnalyticsFilter(c.now())})
	return c
}

// defaultAnalyticsFilter is the trailing 30 days ending today, grouped by day.
func defaultAnalyticsFilter(now time.Time) AnalyticsFilter {
	return AnalyticsFilter{
		AnalyticsFilter: api.AnalyticsFilter{
			StartDate: core.FormatDate(now.AddDate(0, 0, -30)),
			EndDate:   core.FormatDate(now),
		},
		Grouping: core.GroupDay,
	}
}

// DefaultFilter returns the defined default filter as of now.
func (c *AnalyticsController) DefaultFilter() AnalyticsFilter {
	return defaultAnalyticsFilter(c.now())
}

// LoadCatalog fetches categories and sub-categories for the filter selects.
// It runs on every screen render so catalog edits made in Settings show up
// on the next visit; the catalog read path is cached upstream, which keeps
// the repeat fetches off the backend between mutations. The two fetches run
// in parallel and commit together: the selects are only useful as a pair.
// Failures log and keep whatever catalog was loaded before.
func (c *AnalyticsController) LoadCatalog(ctx context.Context) error {
	var (
		cats []core.Category
		subs []core.SubCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = c.catalog.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = c.catalog.SubCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(ctx, "Failed to load catalog", "error", err)
		return err
	}

	c.state.update(func(s *AnalyticsState) {
		s.Categories = cats
		s.SubCategories = subs
		s.CatalogLoaded = true
	})
	return nil
}

// SetFilter replaces the filter and refetches every aggregate once.
func (c *AnalyticsController) SetFilter(ctx context.Context, f AnalyticsFilter) {
	if !f.Grouping.Valid() {
		f.Grouping = core.GroupDay
	}
	c.state.update(func(s *AnalyticsState) { s.Filter = f })
	c.fetchAggregates(ctx)
}

// ClearFilter resets to the trailing-30-days default and refetches.
func (c *AnalyticsController) ClearFilter(ctx context.Context) {
	c.SetFilter(ctx, c.DefaultFilter())
}

// Refresh refetches all aggregates with the current filter.
func (c *AnalyticsController) Refresh(ctx context.Context) {
	c.fetchAggregates(ctx)
}

// State returns the current snapshot.
func (c *AnalyticsController) State() AnalyticsState {
	return c.state.get()
}

// fetchAggregates issues the aggregate calls concurrently. Completion order
// is undefined and does not matter: each leg commits its own section under
// the same sequence guard, so a whole stale round is discarded while a
// partial failure inside the current round only blanks its own section.
func (c *AnalyticsController) fetchAggregates(ctx context.Context) {
	seq, snap := c.state.begin()
	filter := snap.Filter

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sum, err := c.aggregates.Summary(ctx, filter.AnalyticsFilter)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load summary", "error", err)
			c.state.commit(seq, func(s *AnalyticsState) { s.SummaryOK = false })
			return
		}
		c.state.commit(seq, func(s *AnalyticsState) {
			s.Summary = sum
			s.SummaryOK = true
		})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		rows, err := c.aggregates.ByCategory(ctx, filter.AnalyticsFilter)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load by-category analytics", "error", err)
			c.state.commit(seq, func(s *AnalyticsState) { s.ByCategoryOK = false })
			return
		}
		c.state.commit(seq, func(s *AnalyticsState) {
			s.ByCategory = rows
			s.ByCategoryOK = true
		})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		rows, err := c.aggregates.ByDate(ctx, filter.AnalyticsFilter, filter.Grouping)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load by-date analytics", "error", err)
			c.state.commit(seq, func(s *AnalyticsState) { s.ByDateOK = false })
			return
		}
		c.state.commit(seq, func(s *AnalyticsState) {
			s.ByDate = rows
			s.ByDateOK = true
		})
	}()

	if filter.Category != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := c.aggregates.BySubCategory(ctx, filter.AnalyticsFilter)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to load by-subcategory analytics", "error", err)
				c.state.commit(seq, func(s *AnalyticsState) { s.BySubCategoryOK = false })
				return
			}
			c.state.commit(seq, func(s *AnalyticsState) {
				s.BySubCategory = rows
				s.BySubCategoryOK = true
			})
		}()
	} else {
		c.state.commit(seq, func(s *AnalyticsState) {
			s.BySubCategory = nil
			s.BySubCategoryOK = false
		})
	}

	wg.Wait()
}
