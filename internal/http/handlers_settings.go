package http

import (
	"context"
	"net/http"

	"spendbook/internal/api"
	"spendbook/internal/core"
)

type settingsPageData struct {
	Username string

	Categories    []core.Category
	SubCategories []core.SubCategory

	Error string
}

func (s *Server) settingsPage(r *http.Request) settingsPageData {
	data := settingsPageData{}
	if u := s.session.User(); u != nil {
		data.Username = u.Username
	}

	ctx := r.Context()
	cats, err := s.catalogSvc.Categories(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load categories", "error", err)
		data.Error = "Loading the catalog failed"
		return data
	}
	subs, err := s.catalogSvc.SubCategories(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load subcategories", "error", err)
		data.Error = "Loading the catalog failed"
	}
	data.Categories = cats
	data.SubCategories = subs
	return data
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.render(w, r, "settings.html", s.settingsPage(r))
}

// handleCategorySave creates or renames a category depending on whether an
// id came with the form. Renames do not touch existing expenses; those keep
// the category name they were saved with.
func (s *Server) handleCategorySave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	id := sanitizeInput(r.Form.Get("id"))
	if name == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		data := s.settingsPage(r)
		data.Error = "Category name is required"
		s.render(w, r, "settings.html", data)
		return
	}

	ctx := r.Context()
	var err error
	if id == "" {
		_, err = s.catalogSvc.CreateCategory(ctx, name)
	} else {
		_, err = s.catalogSvc.UpdateCategory(ctx, id, name)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to save category", "id", id, "name", name, "error", err)
		w.WriteHeader(http.StatusBadGateway)
		data := s.settingsPage(r)
		data.Error = "Saving the category failed"
		s.render(w, r, "settings.html", data)
		return
	}
	s.log.InfoContext(ctx, "Category saved", "id", id, "name", name)
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (s *Server) handleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	s.handleCatalogDelete(w, r, "/settings/categories/delete", "category", s.catalogSvc.DeleteCategory)
}

func (s *Server) handleSubCategorySave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	id := sanitizeInput(r.Form.Get("id"))
	categoryID := sanitizeInput(r.Form.Get("category_id"))
	if name == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		data := s.settingsPage(r)
		data.Error = "Sub-category name is required"
		s.render(w, r, "settings.html", data)
		return
	}

	ctx := r.Context()
	var err error
	if id == "" {
		_, err = s.catalogSvc.CreateSubCategory(ctx, name, categoryID)
	} else {
		_, err = s.catalogSvc.UpdateSubCategory(ctx, id, name, categoryID)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to save subcategory", "id", id, "name", name, "error", err)
		w.WriteHeader(http.StatusBadGateway)
		data := s.settingsPage(r)
		data.Error = "Saving the sub-category failed"
		s.render(w, r, "settings.html", data)
		return
	}
	s.log.InfoContext(ctx, "Subcategory saved", "id", id, "name", name, "category_id", categoryID)
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

func (s *Server) handleSubCategoryDelete(w http.ResponseWriter, r *http.Request) {
	s.handleCatalogDelete(w, r, "/settings/subcategories/delete", "sub-category", s.catalogSvc.DeleteSubCategory)
}

// handleCatalogDelete is the shared confirm-then-delete flow for both
// catalog kinds.
func (s *Server) handleCatalogDelete(w http.ResponseWriter, r *http.Request, action, what string, del func(ctx context.Context, id string) (api.MessageResponse, error)) {
	switch r.Method {
	case http.MethodGet:
		id := sanitizeInput(r.URL.Query().Get("id"))
		if id == "" {
			http.Redirect(w, r, "/settings", http.StatusSeeOther)
			return
		}
		s.render(w, r, "confirm_delete.html", confirmDeleteData{
			Action: action,
			Cancel: "/settings",
			ID:     id,
			What:   what,
			Label:  sanitizeInput(r.URL.Query().Get("name")),
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := sanitizeInput(r.Form.Get("id"))
		if id == "" {
			http.Redirect(w, r, "/settings", http.StatusSeeOther)
			return
		}
		if _, err := del(r.Context(), id); err != nil {
			s.log.ErrorContext(r.Context(), "Failed to delete catalog entry", "kind", what, "id", id, "error", err)
		} else {
			s.log.InfoContext(r.Context(), "Catalog entry deleted", "kind", what, "id", id)
		}
		http.Redirect(w, r, "/settings", http.StatusSeeOther)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
