package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"spendbook/internal/core"
)

func TestAnalyticsEndpoints(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		switch r.URL.Path {
		case "/analytics/summary":
			_, _ = w.Write([]byte(`{"total_amount":120.5,"count":10,"avg_amount":12.05}`))
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	ctx := context.Background()
	f := AnalyticsFilter{Category: "Food", StartDate: "2024-05-01", EndDate: "2024-05-31"}

	sum, err := c.Analytics.Summary(ctx, f)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalAmount != 120.5 || sum.Count != 10 || sum.AvgAmount != 12.05 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if gotPath != "/analytics/summary" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "category=Food&end_date=2024-05-31&start_date=2024-05-01" {
		t.Fatalf("query = %q", gotQuery)
	}

	if _, err := c.Analytics.ByCategory(ctx, f); err != nil {
		t.Fatalf("by-category: %v", err)
	}
	if gotPath != "/analytics/by-category" {
		t.Fatalf("path = %q", gotPath)
	}

	if _, err := c.Analytics.BySubCategory(ctx, f); err != nil {
		t.Fatalf("by-subcategory: %v", err)
	}
	if gotPath != "/analytics/by-subcategory" {
		t.Fatalf("path = %q", gotPath)
	}

	if _, err := c.Analytics.ByDate(ctx, f, core.GroupWeek); err != nil {
		t.Fatalf("by-date: %v", err)
	}
	if gotPath != "/analytics/by-date" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery != "category=Food&end_date=2024-05-31&grouping=week&start_date=2024-05-01" {
		t.Fatalf("by-date query = %q", gotQuery)
	}
}

func TestByDateDecodesBuckets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"date":"2024-06","total_amount":300,"count":12,"avg_amount":25},
			{"date":"2024-07","total_amount":150,"count":5,"avg_amount":30}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	buckets, err := c.Analytics.ByDate(context.Background(), AnalyticsFilter{}, core.GroupMonth)
	if err != nil {
		t.Fatalf("by-date: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("len = %d", len(buckets))
	}
	if buckets[0].Date != "2024-06" || buckets[0].TotalAmount != 300 {
		t.Fatalf("unexpected bucket: %+v", buckets[0])
	}
}
