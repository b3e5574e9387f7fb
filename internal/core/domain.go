package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for all dates exchanged with the backend.
const DateLayout = "2006-01-02"

const (
	GroupDay   Grouping = "day"
	GroupWeek  Grouping = "week"
	GroupMonth Grouping = "month"
	GroupYear  Grouping = "year"
)

type (
	// Grouping selects the bucket size for by-date analytics.
	Grouping string

	// User is the identity resolved from the current bearer token.
	// It is read-only on this side of the wire.
	User struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		CreatedAt string `json:"created_at"`
	}

	// Expense is a single recorded expense as returned by the backend.
	// Category and SubCategory are stored by NAME, duplicating the catalog;
	// the backend joins by name and this client preserves that contract.
	Expense struct {
		ID          string  `json:"_id"`
		Title       string  `json:"title"`
		Category    string  `json:"category"`
		SubCategory string  `json:"sub_category,omitempty"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date"`
		Comments    string  `json:"comments,omitempty"`
		CreatedAt   string  `json:"created_at"`
		UpdatedAt   string  `json:"updated_at"`
	}

	// ExpenseCreate is the payload for creating or updating an expense.
	// Optional fields are omitted from the request when blank.
	ExpenseCreate struct {
		Title       string  `json:"title"`
		Category    string  `json:"category"`
		SubCategory string  `json:"sub_category,omitempty"`
		Amount      float64 `json:"amount"`
		Date        string  `json:"date,omitempty"`
		Comments    string  `json:"comments,omitempty"`
	}

	Category struct {
		ID        string `json:"_id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	}

	// SubCategory optionally points at a parent Category by id. The link is
	// display-only: expense filtering still happens by name.
	SubCategory struct {
		ID         string `json:"_id"`
		Name       string `json:"name"`
		CategoryID string `json:"category_id,omitempty"`
		CreatedAt  string `json:"created_at"`
	}

	// ExpenseSummary is the server-computed total over a filtered set.
	ExpenseSummary struct {
		TotalAmount float64 `json:"total_amount"`
		Count       int     `json:"count"`
		AvgAmount   float64 `json:"avg_amount"`
	}

	CategoryAnalytics struct {
		Category    string  `json:"category"`
		TotalAmount float64 `json:"total_amount"`
		Count       int     `json:"count"`
		AvgAmount   float64 `json:"avg_amount"`
	}

	SubCategoryAnalytics struct {
		Category    string  `json:"category"`
		SubCategory string  `json:"sub_category"`
		TotalAmount float64 `json:"total_amount"`
		Count       int     `json:"count"`
		AvgAmount   float64 `json:"avg_amount"`
	}

	// DateAnalytics buckets depend on the requested grouping: a day bucket
	// is "2006-01-02", a month bucket "2006-01", a year bucket "2006".
	DateAnalytics struct {
		Date        string  `json:"date"`
		TotalAmount float64 `json:"total_amount"`
		Count       int     `json:"count"`
		AvgAmount   float64 `json:"avg_amount"`
	}
)

var (
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// Validate enforces the required-field contract for expense submissions.
// Amount must be positive; nothing else is checked beyond presence, matching
// the backend's own validation surface.
func (e ExpenseCreate) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.Date != "" {
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

func (g Grouping) Valid() bool {
	switch g {
	case GroupDay, GroupWeek, GroupMonth, GroupYear:
		return true
	}
	return false
}

// ParseGrouping returns the grouping for s, falling back to day for anything
// unknown so a mangled query parameter never breaks the analytics screen.
func ParseGrouping(s string) Grouping {
	g := Grouping(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return GroupDay
	}
	return g
}

// FormatDate renders t in the wire date format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a wire-format date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DisplayDate shortens a backend timestamp to its date part for rendering.
// The backend returns either plain dates or full RFC 3339 timestamps
// depending on the field; both start with yyyy-MM-dd.
func DisplayDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
