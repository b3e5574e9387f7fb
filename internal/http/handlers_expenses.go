package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

type expensesPageData struct {
	Username string

	Filter   api.ExpenseFilter
	Expenses []core.Expense
	Failed   bool

	Categories    []core.Category
	SubCategories []core.SubCategory

	// FilterSubCategories and FormSubCategories are the sub-category
	// options narrowed to the selected category's children (plus unparented
	// ones). The link is by catalog id but filtering still travels by name.
	FilterSubCategories []core.SubCategory
	FormSubCategories   []core.SubCategory

	// Draft backs the shared create/edit form; EditingID selects update
	// over create on submit.
	Draft     core.ExpenseCreate
	EditingID string
	FormError string

	// NextURL and PrevURL page through the filtered list; empty means no
	// page in that direction.
	NextURL string
	PrevURL string
}

// expensesURL rebuilds the screen URL for the given filter so redirects
// after mutations land back on the same filtered view.
func expensesURL(f api.ExpenseFilter) string {
	q := url.Values{}
	for key, val := range map[string]string{
		"category":     f.Category,
		"sub_category": f.SubCategory,
		"start_date":   f.StartDate,
		"end_date":     f.EndDate,
	} {
		if strings.TrimSpace(val) != "" {
			q.Set(key, val)
		}
	}
	if f.Skip > 0 {
		q.Set("skip", strconv.Itoa(f.Skip))
	}
	if len(q) == 0 {
		return "/expenses"
	}
	return "/expenses?" + q.Encode()
}

func (s *Server) expensesPage(r *http.Request) expensesPageData {
	state := s.expenses.State()
	data := expensesPageData{
		Filter:   state.Filter,
		Expenses: state.Expenses,
		Failed:   state.Failed,
	}
	if state.Filter.Limit > 0 && len(state.Expenses) == state.Filter.Limit {
		next := state.Filter
		next.Skip += next.Limit
		data.NextURL = expensesURL(next)
	}
	if state.Filter.Skip > 0 {
		prev := state.Filter
		prev.Skip = max(0, prev.Skip-prev.Limit)
		data.PrevURL = expensesURL(prev)
	}
	if u := s.session.User(); u != nil {
		data.Username = u.Username
	}

	// Catalog for the filter and form selects; a failure here leaves the
	// selects empty but the screen usable.
	if cats, err := s.catalogSvc.Categories(r.Context()); err == nil {
		data.Categories = cats
	} else {
		s.log.ErrorContext(r.Context(), "Failed to load categories", "error", err)
	}
	if subs, err := s.catalogSvc.SubCategories(r.Context()); err == nil {
		data.SubCategories = subs
	} else {
		s.log.ErrorContext(r.Context(), "Failed to load subcategories", "error", err)
	}
	data.FilterSubCategories = narrowSubCategories(data.SubCategories, data.Categories, data.Filter.Category)
	data.FormSubCategories = narrowSubCategories(data.SubCategories, data.Categories, data.Draft.Category)
	return data
}

// narrowSubCategories keeps the sub-categories parented to the named
// category, plus those without a parent link. No category selected means
// every option stays.
func narrowSubCategories(subs []core.SubCategory, cats []core.Category, categoryName string) []core.SubCategory {
	if categoryName == "" {
		return subs
	}
	parentID := ""
	for _, c := range cats {
		if c.Name == categoryName {
			parentID = c.ID
			break
		}
	}
	if parentID == "" {
		return subs
	}
	narrowed := make([]core.SubCategory, 0, len(subs))
	for _, sc := range subs {
		if sc.CategoryID == "" || sc.CategoryID == parentID {
			narrowed = append(narrowed, sc)
		}
	}
	return narrowed
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := s.expenses.SetFilter(r.Context(), parseExpenseFilter(r)); err != nil {
		// Logged by the controller; the screen renders the prior list.
		_ = err
	}
	s.render(w, r, "expenses.html", s.expensesPage(r))
}

func (s *Server) handleSaveExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		data := s.expensesPage(r)
		data.FormError = "Invalid form submission"
		s.render(w, r, "expenses.html", data)
		return
	}

	amount, _ := strconv.ParseFloat(strings.TrimSpace(r.Form.Get("amount")), 64)
	draft := core.ExpenseCreate{
		Title:       sanitizeInput(r.Form.Get("title")),
		Category:    sanitizeInput(r.Form.Get("category")),
		SubCategory: sanitizeInput(r.Form.Get("sub_category")),
		Amount:      amount,
		Date:        sanitizeInput(r.Form.Get("date")),
		Comments:    sanitizeInput(r.Form.Get("comments")),
	}
	editingID := sanitizeInput(r.Form.Get("id"))

	// Required-field guard: an invalid draft never reaches the network.
	if err := draft.Validate(); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		data := s.expensesPage(r)
		data.Draft = draft
		data.EditingID = editingID
		data.FormSubCategories = narrowSubCategories(data.SubCategories, data.Categories, draft.Category)
		data.FormError = "Title, category, and a positive amount are required"
		s.render(w, r, "expenses.html", data)
		return
	}

	ctx := r.Context()
	var err error
	if editingID == "" {
		var resp api.CreateResponse
		resp, err = s.expenseSvc.Create(ctx, draft)
		if err == nil {
			s.log.InfoContext(ctx, "Expense created", "id", resp.ID, "title", draft.Title, "amount", draft.Amount)
		}
	} else {
		_, err = s.expenseSvc.Update(ctx, editingID, draft)
		if err == nil {
			s.log.InfoContext(ctx, "Expense updated", "id", editingID, "title", draft.Title)
		}
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to save expense", "id", editingID, "error", err)
		w.WriteHeader(http.StatusBadGateway)
		data := s.expensesPage(r)
		data.Draft = draft
		data.EditingID = editingID
		data.FormSubCategories = narrowSubCategories(data.SubCategories, data.Categories, draft.Category)
		data.FormError = "Saving failed, try again"
		s.render(w, r, "expenses.html", data)
		return
	}

	// Unconditional reload after every mutation, no local patching.
	_ = s.expenses.Reload(ctx)
	http.Redirect(w, r, expensesURL(s.expenses.State().Filter), http.StatusSeeOther)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
		return
	}

	e, err := s.expenseSvc.Get(r.Context(), id)
	if err != nil {
		s.log.ErrorContext(r.Context(), "Failed to load expense for edit", "id", id, "error", err)
		http.Redirect(w, r, "/expenses", http.StatusSeeOther)
		return
	}

	data := s.expensesPage(r)
	// Pre-fill the form exactly as stored.
	data.Draft = core.ExpenseCreate{
		Title:       e.Title,
		Category:    e.Category,
		SubCategory: e.SubCategory,
		Amount:      e.Amount,
		Date:        core.DisplayDate(e.Date),
		Comments:    e.Comments,
	}
	data.EditingID = e.ID
	data.FormSubCategories = narrowSubCategories(data.SubCategories, data.Categories, e.Category)
	s.render(w, r, "expenses.html", data)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		// Explicit confirmation step before anything is deleted.
		id := sanitizeInput(r.URL.Query().Get("id"))
		if id == "" {
			http.Redirect(w, r, "/expenses", http.StatusSeeOther)
			return
		}
		s.render(w, r, "confirm_delete.html", confirmDeleteData{
			Action: "/expenses/delete",
			Cancel: "/expenses",
			ID:     id,
			What:   "expense",
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := sanitizeInput(r.Form.Get("id"))
		if id == "" {
			http.Redirect(w, r, "/expenses", http.StatusSeeOther)
			return
		}
		if _, err := s.expenseSvc.Delete(r.Context(), id); err != nil {
			s.log.ErrorContext(r.Context(), "Failed to delete expense", "id", id, "error", err)
		} else {
			s.log.InfoContext(r.Context(), "Expense deleted", "id", id)
		}
		_ = s.expenses.Reload(r.Context())
		http.Redirect(w, r, expensesURL(s.expenses.State().Filter), http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type confirmDeleteData struct {
	Action string
	Cancel string
	ID     string
	What   string
	Label  string
}
