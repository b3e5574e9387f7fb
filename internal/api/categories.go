package api

import (
	"context"
	"net/http"

	"spendbook/internal/core"
)

// CategoryService manages the catalog: categories and sub-categories.
// Sub-categories live under the /categories prefix on the wire.
type CategoryService struct {
	c *Client
}

type categoryRequest struct {
	Name string `json:"name"`
}

type subCategoryRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id,omitempty"`
}

// Categories lists all categories.
func (s *CategoryService) Categories(ctx context.Context) ([]core.Category, error) {
	var out []core.Category
	if err := s.c.doJSON(ctx, http.MethodGet, "/categories/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory adds a category with the given name.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (CreateResponse, error) {
	var out CreateResponse
	if err := s.c.doJSON(ctx, http.MethodPost, "/categories/", nil, categoryRequest{Name: name}, &out); err != nil {
		return CreateResponse{}, err
	}
	return out, nil
}

// UpdateCategory renames a category. Existing expenses keep the old name;
// the backend does not cascade renames.
func (s *CategoryService) UpdateCategory(ctx context.Context, id, name string) (MessageResponse, error) {
	var out MessageResponse
	if err := s.c.doJSON(ctx, http.MethodPut, "/categories/"+id, nil, categoryRequest{Name: name}, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}

// DeleteCategory removes a category from the catalog.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) (MessageResponse, error) {
	var out MessageResponse
	if err := s.c.doJSON(ctx, http.MethodDelete, "/categories/"+id, nil, nil, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}

// SubCategories lists all sub-categories.
func (s *CategoryService) SubCategories(ctx context.Context) ([]core.SubCategory, error) {
	var out []core.SubCategory
	if err := s.c.doJSON(ctx, http.MethodGet, "/categories/subcategories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubCategory adds a sub-category, optionally linked to a parent
// category by id.
func (s *CategoryService) CreateSubCategory(ctx context.Context, name, categoryID string) (CreateResponse, error) {
	var out CreateResponse
	err := s.c.doJSON(ctx, http.MethodPost, "/categories/subcategories", nil, subCategoryRequest{
		Name:       name,
		CategoryID: categoryID,
	}, &out)
	if err != nil {
		return CreateResponse{}, err
	}
	return out, nil
}

// UpdateSubCategory renames a sub-category or repoints its parent link.
func (s *CategoryService) UpdateSubCategory(ctx context.Context, id, name, categoryID string) (MessageResponse, error) {
	var out MessageResponse
	err := s.c.doJSON(ctx, http.MethodPut, "/categories/subcategories/"+id, nil, subCategoryRequest{
		Name:       name,
		CategoryID: categoryID,
	}, &out)
	if err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}

// DeleteSubCategory removes a sub-category from the catalog.
func (s *CategoryService) DeleteSubCategory(ctx context.Context, id string) (MessageResponse, error) {
	var out MessageResponse
	if err := s.c.doJSON(ctx, http.MethodDelete, "/categories/subcategories/"+id, nil, nil, &out); err != nil {
		return MessageResponse{}, err
	}
	return out, nil
}
