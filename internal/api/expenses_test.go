package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"spendbook/internal/core"
)

func TestCreateExpensePayload(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"message":"Expense created","id":"abc123"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	resp, err := c.Expenses.Create(context.Background(), core.ExpenseCreate{
		Title:    "Coffee",
		Category: "Food",
		Amount:   4.50,
		Date:     "2024-06-01",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotPath != "/expenses/" {
		t.Fatalf("path = %q", gotPath)
	}
	// Blank sub_category and comments must not appear in the payload.
	want := `{"title":"Coffee","category":"Food","amount":4.5,"date":"2024-06-01"}`
	if gotBody != want {
		t.Fatalf("body = %s, want %s", gotBody, want)
	}
	if resp.ID != "abc123" {
		t.Fatalf("id = %q", resp.ID)
	}
}

func TestListExpensesSendsFilterQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"_id":"e1","title":"Coffee","category":"Food","amount":4.5,"date":"2024-06-01","created_at":"2024-06-01","updated_at":"2024-06-01"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	items, err := c.Expenses.List(context.Background(), ExpenseFilter{Category: "Food", StartDate: "2024-06-01"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery != "category=Food&start_date=2024-06-01" {
		t.Fatalf("query = %q", gotQuery)
	}
	if len(items) != 1 || items[0].Amount != 4.5 || items[0].Title != "Coffee" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestUpdateAndDeleteTargetRecordPath(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	if _, err := c.Expenses.Update(context.Background(), "e42", core.ExpenseCreate{Title: "Tea", Category: "Food", Amount: 2}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := c.Expenses.Delete(context.Background(), "e42"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []call{
		{http.MethodPut, "/expenses/e42"},
		{http.MethodDelete, "/expenses/e42"},
	}
	for i, w := range want {
		if calls[i] != w {
			t.Fatalf("call %d = %+v, want %+v", i, calls[i], w)
		}
	}
}

func TestGetExpenseDecodesRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/expenses/e7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(core.Expense{
			ID: "e7", Title: "Lunch", Category: "Food", SubCategory: "Restaurant",
			Amount: 12.80, Date: "2024-06-02", Comments: "with Bob",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticToken("tok"))
	e, err := c.Expenses.Get(context.Background(), "e7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.SubCategory != "Restaurant" || e.Comments != "with Bob" || e.Amount != 12.80 {
		t.Fatalf("unexpected expense: %+v", e)
	}
}
