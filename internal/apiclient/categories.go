// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/olegiv/newsdesk/internal/model"
)

// GetCategoriesDetailed lists all categories with their metadata.
func (c *Client) GetCategoriesDetailed(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.request(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, dto model.CreateCategoryDTO) (*model.Category, error) {
	var category model.Category
	if err := c.request(ctx, http.MethodPost, "/categories", dto, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies a partial update to a category.
func (c *Client) UpdateCategory(ctx context.Context, id int64, dto model.UpdateCategoryDTO) (*model.Category, error) {
	var category model.Category
	if err := c.request(ctx, http.MethodPut, categoryPath(id), dto, nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodDelete, categoryPath(id), nil, nil, nil)
}

func categoryPath(id int64) string {
	return "/categories/" + strconv.FormatInt(id, 10)
}
