package controller

import (
	"context"
	"errors"
	"sync"
	"testing"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

type fakeLister struct {
	mu     sync.Mutex
	calls  []api.ExpenseFilter
	listFn func(ctx context.Context, f api.ExpenseFilter) ([]core.Expense, error)
}

func (l *fakeLister) List(ctx context.Context, f api.ExpenseFilter) ([]core.Expense, error) {
	l.mu.Lock()
	l.calls = append(l.calls, f)
	l.mu.Unlock()
	if l.listFn != nil {
		return l.listFn(ctx, f)
	}
	return nil, nil
}

func (l *fakeLister) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func TestSetFilterFetchesExactlyOnce(t *testing.T) {
	lister := &fakeLister{
		listFn: func(ctx context.Context, f api.ExpenseFilter) ([]core.Expense, error) {
			return []core.Expense{{ID: "e1", Title: "Coffee", Category: f.Category}}, nil
		},
	}
	c := NewExpensesController(lister)

	f := api.ExpenseFilter{Category: "Food"}
	if err := c.SetFilter(context.Background(), f); err != nil {
		t.Fatalf("set filter: %v", err)
	}

	if lister.callCount() != 1 {
		t.Fatalf("List called %d times, want 1", lister.callCount())
	}
	if lister.calls[0] != f {
		t.Fatalf("List called with %+v", lister.calls[0])
	}

	state := c.State()
	if state.Filter != f || len(state.Expenses) != 1 || state.Failed {
		t.Fatalf("unexpected state: %+v", state)
	}
}

func TestFetchFailureKeepsPriorList(t *testing.T) {
	var fail bool
	lister := &fakeLister{
		listFn: func(ctx context.Context, f api.ExpenseFilter) ([]core.Expense, error) {
			if fail {
				return nil, errors.New("backend down")
			}
			return []core.Expense{{ID: "e1", Title: "Coffee"}}, nil
		},
	}
	c := NewExpensesController(lister)

	if err := c.SetFilter(context.Background(), api.ExpenseFilter{}); err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	fail = true
	if err := c.Reload(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	state := c.State()
	if !state.Failed {
		t.Fatal("Failed should be set")
	}
	if len(state.Expenses) != 1 {
		t.Fatalf("prior list should survive a failed fetch, got %d items", len(state.Expenses))
	}
}

func TestClearFilterResetsToEmpty(t *testing.T) {
	lister := &fakeLister{}
	c := NewExpensesController(lister)

	_ = c.SetFilter(context.Background(), api.ExpenseFilter{Category: "Food", StartDate: "2024-06-01"})
	_ = c.ClearFilter(context.Background())

	if got := c.State().Filter; !got.IsZero() {
		t.Fatalf("filter after clear = %+v", got)
	}
	if lister.callCount() != 2 {
		t.Fatalf("List called %d times, want 2", lister.callCount())
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	started := make(chan string, 2)
	release := map[string]chan struct{}{
		"slow": make(chan struct{}),
		"fast": make(chan struct{}),
	}
	lister := &fakeLister{
		listFn: func(ctx context.Context, f api.ExpenseFilter) ([]core.Expense, error) {
			started <- f.Category
			<-release[f.Category]
			return []core.Expense{{ID: f.Category, Category: f.Category}}, nil
		},
	}
	c := NewExpensesController(lister)

	slowDone := make(chan struct{})
	go func() {
		_ = c.SetFilter(context.Background(), api.ExpenseFilter{Category: "slow"})
		close(slowDone)
	}()
	<-started

	fastDone := make(chan struct{})
	go func() {
		_ = c.SetFilter(context.Background(), api.ExpenseFilter{Category: "fast"})
		close(fastDone)
	}()
	<-started

	// The newer fetch resolves first, then the older one limps in.
	close(release["fast"])
	<-fastDone
	close(release["slow"])
	<-slowDone

	state := c.State()
	if len(state.Expenses) != 1 || state.Expenses[0].Category != "fast" {
		t.Fatalf("stale response overwrote newer state: %+v", state.Expenses)
	}
}
