// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/newsdesk/internal/cache"
	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/util"
)

// categoriesCacheKey is the cache key of the full category list.
const categoriesCacheKey = "categories:all"

// ErrCategoryNotFound is returned when a category reference matches nothing.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryAPI is the part of the API client used for categories.
type CategoryAPI interface {
	GetCategoriesDetailed(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, dto model.CreateCategoryDTO) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, dto model.UpdateCategoryDTO) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// CategoryService manages categories and resolves category references
// (ID, name or slug) to IDs through a cached category list.
type CategoryService struct {
	api    CategoryAPI
	cache  *cache.TypedCache[[]model.Category]
	logger *slog.Logger
}

// NewCategoryService creates a CategoryService. c may be shared with other
// services; entries expire after ttl.
func NewCategoryService(api CategoryAPI, c cache.Cacher, ttl time.Duration, logger *slog.Logger) *CategoryService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CategoryService{
		api:    api,
		cache:  cache.NewTypedCache[[]model.Category](c, ttl),
		logger: logger,
	}
}

// List returns all categories, from cache when possible.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.cache.GetOrSet(ctx, categoriesCacheKey, s.api.GetCategoriesDetailed)
}

// Invalidate drops the cached category list.
func (s *CategoryService) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, categoriesCacheKey); err != nil {
		s.logger.Warn("failed to invalidate category cache",
			"category", model.EventCategoryCache,
			"error", err)
	}
}

// Resolve maps a category reference to its ID. A numeric reference must
// match an existing ID; otherwise the name or slug is matched case-insensitively.
func (s *CategoryService) Resolve(ctx context.Context, ref string) (int64, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, ErrCategoryNotFound
	}

	categories, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	if c, ok := findCategory(categories, ref); ok {
		return c.ID, nil
	}

	// Stale cache: the category may have been created elsewhere
	s.Invalidate(ctx)
	categories, err = s.List(ctx)
	if err != nil {
		return 0, err
	}
	if c, ok := findCategory(categories, ref); ok {
		return c.ID, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrCategoryNotFound, ref)
}

func findCategory(categories []model.Category, ref string) (model.Category, bool) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, c := range categories {
			if c.ID == id {
				return c, true
			}
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) || strings.EqualFold(c.Slug, ref) {
			return c, true
		}
	}
	return model.Category{}, false
}

// Search returns the categories whose name or slug contains query,
// case-insensitively. An empty query returns all categories.
func (s *CategoryService) Search(ctx context.Context, query string) ([]model.Category, error) {
	categories, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCategories(categories, query), nil
}

// FilterCategories is the filter behind Search.
func FilterCategories(categories []model.Category, query string) []model.Category {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return categories
	}

	out := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), query) ||
			strings.Contains(strings.ToLower(c.Slug), query) {
			out = append(out, c)
		}
	}
	return out
}

// Create validates and creates a category. An empty slug is generated
// from the name.
func (s *CategoryService) Create(ctx context.Context, dto model.CreateCategoryDTO) (*model.Category, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if dto.Slug == "" {
		dto.Slug = util.Slugify(dto.Name)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if !util.IsValidSlug(dto.Slug) {
		return nil, model.ValidationErrors{"slug": model.ValidationInvalidSlug}
	}

	created, err := s.api.CreateCategory(ctx, dto)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx)

	s.logger.Info("category created", "category", model.EventCategoryCategory, "category_id", created.ID)
	return created, nil
}

// Update applies a partial update to a category.
func (s *CategoryService) Update(ctx context.Context, id int64, dto model.UpdateCategoryDTO) (*model.Category, error) {
	errs := model.ValidationErrors{}
	if id <= 0 {
		errs.Add("id", model.ValidationInvalidID)
	}
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		errs.Add("name", model.ValidationRequired)
	}
	if dto.Slug != nil && !util.IsValidSlug(*dto.Slug) {
		errs.Add("slug", model.ValidationInvalidSlug)
	}
	if dto.Name == nil && dto.Slug == nil && dto.Description == nil {
		errs.Add("update", model.ValidationNothingToSet)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateCategory(ctx, id, dto)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return updated, nil
}

// Delete deletes a category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.Invalidate(ctx)

	s.logger.Info("category deleted", "category", model.EventCategoryCategory, "category_id", id)
	return nil
}
