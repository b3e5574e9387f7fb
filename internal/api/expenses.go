package api

import (
	"context"
	"net/http"

	"spendbook/internal/core"
)

// ExpenseService is a stateless façade over the /expenses endpoints.
// Callers own any list reloading after mutations; nothing is cached here.
type ExpenseService struct {
	c *Client
}

// CreateResponse acknowledges a created record.
type CreateResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// MessageResponse acknowledges an update or delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// List fetches expenses matching the filter, newest first.
func (s *ExpenseService) List(ctx context.Context, f ExpenseFilter) ([]core.Expense, error) {
	var out []core.Expense
	if err := s.c.doJSON(ctx, http.MethodGet, "/expenses/", f.Values(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single expense by id.
func (s *ExpenseService) Get(ctx context.Context, id string) (core.Expense, error) {
	var out core.Expense
	if err := s.c.doJSON(ctx, http.MethodGet, "/expenses/"+id, nil, nil, &out); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

// Create records a new expense and returns its id.
func (s *ExpenseService) Create(ctx context.Context, e core.ExpenseCreate) (CreateResponse, error) {
	var out CreateResponse
	if err := s.c.doJSON(ctx, http.MethodPost, "/expenses/", nil, e, &out); err != nil {
		return CreateResponse{}, err
	}
	return out, nil
}

// Update sends a partial update for the expense with the given id.
func (s *ExpenseService) Update(ctx context.Context, id string, e core.ExpenseCreate) (MessageResponse, error) {
	var out MessageResponse
	if err := s.c.doJSON(ctx, http.MethodPut, "/expenses/"+id, nil, e, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}

// Delete removes the expense with the given id.
func (s *ExpenseService) Delete(ctx context.Context, id string) (MessageResponse, error) {
	var out MessageResponse
	if err := s.c.doJSON(ctx, http.MethodDelete, "/expenses/"+id, nil, nil, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}
