package api

import (
	"context"
	"time"

	"spendbook/internal/cache"
	"spendbook/internal/core"
)

const (
	catalogCacheTTL = 30 * time.Second

	keyCategories    = "categories"
	keySubCategories = "subcategories"
)

// CachedCatalog wraps a CategoryService with a short-TTL read cache. Every
// screen render re-reads the catalog; most of those reads land between
// mutations and can be served locally. Any mutation drops the whole cache,
// so a write is always followed by a fresh read.
type CachedCatalog struct {
	svc *CategoryService

	categories    *cache.TTL[[]core.Category]
	subCategories *cache.TTL[[]core.SubCategory]
}

func NewCachedCatalog(svc *CategoryService) *CachedCatalog {
	return &CachedCatalog{
		svc:           svc,
		categories:    cache.NewTTL[[]core.Category](1, catalogCacheTTL),
		subCategories: cache.NewTTL[[]core.SubCategory](1, catalogCacheTTL),
	}
}

func (c *CachedCatalog) Categories(ctx context.Context) ([]core.Category, error) {
	if cats, ok := c.categories.Get(keyCategories); ok {
		return cats, nil
	}
	cats, err := c.svc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.categories.Set(keyCategories, cats)
	return cats, nil
}

func (c *CachedCatalog) SubCategories(ctx context.Context) ([]core.SubCategory, error) {
	if subs, ok := c.subCategories.Get(keySubCategories); ok {
		return subs, nil
	}
	subs, err := c.svc.SubCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.subCategories.Set(keySubCategories, subs)
	return subs, nil
}

func (c *CachedCatalog) invalidate() {
	c.categories.Clear()
	c.subCategories.Clear()
}

func (c *CachedCatalog) CreateCategory(ctx context.Context, name string) (CreateResponse, error) {
	out, err := c.svc.CreateCategory(ctx, name)
	if err == nil {
		c.invalidate()
	}
	return out, err
}

func (c *CachedCatalog) UpdateCategory(ctx context.Context, id, name string) (MessageResponse, error) {
	out, err := c.svc.UpdateCategory(ctx, id, name)
	if err == nil {
		c.invalidate()
	}
	return out, err
}

func (c *CachedCatalog) DeleteCategory(ctx context.Context, id string) (MessageResponse, error) {
	out, err := c.svc.DeleteCategory(ctx, id)
	if err == nil {
		c.invalidate()
	}
	return out, err
}

func (c *CachedCatalog) CreateSubCategory(ctx context.Context, name, categoryID string) (CreateResponse, error) {
	out, err := c.svc.CreateSubCategory(ctx, name, categoryID)
	if err == nil {
		c.invalidate()
	}
	return out, err
}

func (c *CachedCatalog) UpdateSubCategory(ctx context.Context, id, name, categoryID string) (MessageResponse, error) {
	out, err := c.svc.UpdateSubCategory(ctx, id, name, categoryID)
	if err == nil {
		c.invalidate()
	}
	return out, err
}

func (c *CachedCatalog) DeleteSubCategory(ctx context.Context, id string) (MessageResponse, error) {
	out, err := c.svc.DeleteSubCategory(ctx, id)
	if err == nil {
		c.invalidate()
	}
	return out, err
}
