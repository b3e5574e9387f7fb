package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

type fakeCatalog struct {
	mu     sync.Mutex
	calls  int
	catErr error
	cats   []core.Category
	subs   []core.SubCategory
}

func (f *fakeCatalog) Categories(ctx context.Context) ([]core.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.cats, f.catErr
}

func (f *fakeCatalog) SubCategories(ctx context.Context) ([]core.SubCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs, nil
}

type fakeAggregates struct {
	mu            sync.Mutex
	summaryCalls  int
	categoryCalls int
	subCatCalls   int
	dateCalls     int
	lastGrouping  core.Grouping

	summaryErr  error
	categoryErr error
}

func (f *fakeAggregates) Summary(ctx context.Context, _ api.AnalyticsFilter) (core.ExpenseSummary, error) {
	f.mu.Lock()
	f.summaryCalls++
	f.mu.Unlock()
	if f.summaryErr != nil {
		return core.ExpenseSummary{}, f.summaryErr
	}
	return core.ExpenseSummary{TotalAmount: 100, Count: 4, AvgAmount: 25}, nil
}

func (f *fakeAggregates) ByCategory(ctx context.Context, _ api.AnalyticsFilter) ([]core.CategoryAnalytics, error) {
	f.mu.Lock()
	f.categoryCalls++
	f.mu.Unlock()
	if f.categoryErr != nil {
		return nil, f.categoryErr
	}
	return []core.CategoryAnalytics{{Category: "Food", TotalAmount: 60}}, nil
}

func (f *fakeAggregates) BySubCategory(ctx context.Context, _ api.AnalyticsFilter) ([]core.SubCategoryAnalytics, error) {
	f.mu.Lock()
	f.subCatCalls++
	f.mu.Unlock()
	return []core.SubCategoryAnalytics{{Category: "Food", SubCategory: "Coffee", TotalAmount: 20}}, nil
}

func (f *fakeAggregates) ByDate(ctx context.Context, _ api.AnalyticsFilter, g core.Grouping) ([]core.DateAnalytics, error) {
	f.mu.Lock()
	f.dateCalls++
	f.lastGrouping = g
	f.mu.Unlock()
	return []core.DateAnalytics{{Date: "2024-06-01", TotalAmount: 10}}, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
}

func TestDefaultFilterIsTrailing30Days(t *testing.T) {
	c := NewAnalyticsController(&fakeCatalog{}, &fakeAggregates{})
	c.now = fixedNow

	f := c.DefaultFilter()
	if f.StartDate != "2024-05-31" {
		t.Fatalf("start = %q", f.StartDate)
	}
	if f.EndDate != "2024-06-30" {
		t.Fatalf("end = %q", f.EndDate)
	}
	if f.Grouping != core.GroupDay {
		t.Fatalf("grouping = %q", f.Grouping)
	}
	if f.Category != "" || f.SubCategory != "" {
		t.Fatalf("category filters should be empty: %+v", f)
	}
}

func TestSetFilterFetchesAllAggregates(t *testing.T) {
	agg := &fakeAggregates{}
	c := NewAnalyticsController(&fakeCatalog{}, agg)

	c.SetFilter(context.Background(), AnalyticsFilter{Grouping: core.GroupMonth})

	if agg.summaryCalls != 1 || agg.categoryCalls != 1 || agg.dateCalls != 1 {
		t.Fatalf("calls = %d/%d/%d, want 1 each", agg.summaryCalls, agg.categoryCalls, agg.dateCalls)
	}
	if agg.subCatCalls != 0 {
		t.Fatal("by-subcategory should not be fetched without a category filter")
	}
	if agg.lastGrouping != core.GroupMonth {
		t.Fatalf("grouping = %q", agg.lastGrouping)
	}

	state := c.State()
	if !state.SummaryOK || !state.ByCategoryOK || !state.ByDateOK {
		t.Fatalf("sections should be OK: %+v", state)
	}
	if state.Summary.Count != 4 {
		t.Fatalf("summary = %+v", state.Summary)
	}
}

func TestCategoryFilterAddsSubCategoryLeg(t *testing.T) {
	agg := &fakeAggregates{}
	c := NewAnalyticsController(&fakeCatalog{}, agg)

	c.SetFilter(context.Background(), AnalyticsFilter{
		AnalyticsFilter: api.AnalyticsFilter{Category: "Food"},
		Grouping:        core.GroupDay,
	})

	if agg.subCatCalls != 1 {
		t.Fatalf("by-subcategory calls = %d, want 1", agg.subCatCalls)
	}
	if state := c.State(); !state.BySubCategoryOK || len(state.BySubCategory) != 1 {
		t.Fatalf("by-subcategory state: %+v", state)
	}

	// Dropping the category filter drops the section too.
	c.SetFilter(context.Background(), AnalyticsFilter{Grouping: core.GroupDay})
	if state := c.State(); state.BySubCategoryOK || state.BySubCategory != nil {
		t.Fatalf("by-subcategory should be suppressed: %+v", state)
	}
}

func TestPartialFailureSuppressesOnlyItsSection(t *testing.T) {
	agg := &fakeAggregates{categoryErr: errors.New("boom")}
	c := NewAnalyticsController(&fakeCatalog{}, agg)

	c.Refresh(context.Background())

	state := c.State()
	if state.ByCategoryOK {
		t.Fatal("failed section should not be OK")
	}
	if !state.SummaryOK || !state.ByDateOK {
		t.Fatalf("other sections should commit independently: %+v", state)
	}
}

func TestClearFilterResetsAndRefetches(t *testing.T) {
	agg := &fakeAggregates{}
	c := NewAnalyticsController(&fakeCatalog{}, agg)
	c.now = fixedNow

	c.SetFilter(context.Background(), AnalyticsFilter{
		AnalyticsFilter: api.AnalyticsFilter{Category: "Food", StartDate: "2020-01-01"},
		Grouping:        core.GroupYear,
	})
	c.ClearFilter(context.Background())

	f := c.State().Filter
	if f.Category != "" || f.StartDate != "2024-05-31" || f.EndDate != "2024-06-30" || f.Grouping != core.GroupDay {
		t.Fatalf("filter after clear = %+v", f)
	}
	// Two rounds of the three base aggregate fetches.
	if agg.summaryCalls != 2 || agg.categoryCalls != 2 || agg.dateCalls != 2 {
		t.Fatalf("calls = %d/%d/%d, want 2 each", agg.summaryCalls, agg.categoryCalls, agg.dateCalls)
	}
}

func TestCatalogReloadSeesNewEntries(t *testing.T) {
	cat := &fakeCatalog{
		cats: []core.Category{{ID: "c1", Name: "Food"}},
		subs: []core.SubCategory{{ID: "s1", Name: "Coffee", CategoryID: "c1"}},
	}
	c := NewAnalyticsController(cat, &fakeAggregates{})

	if err := c.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(c.State().Categories); got != 1 {
		t.Fatalf("categories after first load = %d, want 1", got)
	}

	// A category added from the settings screen must show up on the next
	// analytics render, not only after a restart.
	cat.mu.Lock()
	cat.cats = append(cat.cats, core.Category{ID: "c2", Name: "Travel"})
	cat.mu.Unlock()

	if err := c.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	state := c.State()
	if len(state.Categories) != 2 || state.Categories[1].Name != "Travel" {
		t.Fatalf("categories after reload = %+v", state.Categories)
	}
	if cat.calls != 2 {
		t.Fatalf("Categories called %d times, want 2", cat.calls)
	}
}

func TestCatalogFailureKeepsPriorCatalog(t *testing.T) {
	cat := &fakeCatalog{catErr: errors.New("boom")}
	c := NewAnalyticsController(cat, &fakeAggregates{})

	if err := c.LoadCatalog(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if c.State().CatalogLoaded {
		t.Fatal("catalog should stay unloaded until a load succeeds")
	}

	cat.mu.Lock()
	cat.catErr = nil
	cat.cats = []core.Category{{ID: "c1", Name: "Food"}}
	cat.mu.Unlock()
	if err := c.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	cat.mu.Lock()
	cat.catErr = errors.New("boom again")
	cat.mu.Unlock()
	if err := c.LoadCatalog(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	state := c.State()
	if !state.CatalogLoaded || len(state.Categories) != 1 {
		t.Fatalf("failed reload should keep the prior catalog: %+v", state)
	}
}
