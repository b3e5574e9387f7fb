package controller

import (
	"context"
	"log/slog"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

// ExpensesState is a render-ready snapshot of the expenses screen.
type ExpensesState struct {
	Filter   api.ExpenseFilter
	Expenses []core.Expense
	// Failed marks the last fetch as failed; the list then still holds the
	// previous result.
	Failed bool
}

// ExpensesController owns the expense list filter. Changing the filter is
// the one event that triggers a refetch; mutations go through the API
// services directly and are followed by Reload.
type ExpensesController struct {
	lister ExpenseLister
	state  guardedState[ExpensesState]
}

func NewExpensesController(lister ExpenseLister) *ExpensesController {
	c := &ExpensesController{lister: lister}
	c.state.set(ExpensesState{})
	return c
}

// SetFilter replaces the filter and refetches the list once. The returned
// error is for logging at the call site; the previous list stays in place
// on failure.
func (c *ExpensesController) SetFilter(ctx context.Context, f api.ExpenseFilter) error {
	c.state.update(func(s *ExpensesState) { s.Filter = f })
	return c.fetch(ctx)
}

// ClearFilter resets to the no-filter default and refetches.
func (c *ExpensesController) ClearFilter(ctx context.Context) error {
	return c.SetFilter(ctx, api.ExpenseFilter{})
}

// Reload refetches the list with the current filter, used after every
// create, update, or delete. There are no optimistic updates.
func (c *ExpensesController) Reload(ctx context.Context) error {
	return c.fetch(ctx)
}

// State returns the current snapshot.
func (c *ExpensesController) State() ExpensesState {
	return c.state.get()
}

func (c *ExpensesController) fetch(ctx context.Context) error {
	seq, snap := c.state.begin()
	filter := snap.Filter

	items, err := c.lister.List(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load expenses", "error", err, "filter", filter.Values().Encode())
		c.state.commit(seq, func(s *ExpensesState) { s.Failed = true })
		return err
	}

	c.state.commit(seq, func(s *ExpensesState) {
		s.Expenses = items
		s.Failed = false
	})
	return nil
}
