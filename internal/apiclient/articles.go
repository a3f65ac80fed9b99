// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/olegiv/newsdesk/internal/model"
)

// ArticlesQuery encodes the set fields of filter as a query string.
// An empty filter yields "".
func ArticlesQuery(filter model.ArticlesFilter) string {
	params := url.Values{}
	if filter.Search != "" {
		params.Set("search", filter.Search)
	}
	if filter.Published != nil {
		params.Set("published", strconv.FormatBool(*filter.Published))
	}
	if filter.CategoryID != 0 {
		params.Set("categoryId", strconv.FormatInt(filter.CategoryID, 10))
	}
	if filter.Page > 0 {
		params.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.SortBy != "" {
		params.Set("sortBy", filter.SortBy)
	}
	if filter.Order != "" {
		params.Set("order", filter.Order)
	}
	return params.Encode()
}

// GetArticles lists articles matching filter. The backend returns the full
// array, unpaginated.
func (c *Client) GetArticles(ctx context.Context, filter model.ArticlesFilter) ([]model.Article, error) {
	endpoint := "/articles"
	if q := ArticlesQuery(filter); q != "" {
		endpoint += "?" + q
	}

	var articles []model.Article
	if err := c.request(ctx, http.MethodGet, endpoint, nil, nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticleCategories returns the category names known to the articles endpoint.
func (c *Client) GetArticleCategories(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.request(ctx, http.MethodGet, "/articles/categories", nil, nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// GetArticle fetches a single article by ID.
func (c *Client) GetArticle(ctx context.Context, id int64) (*model.Article, error) {
	var article model.Article
	if err := c.request(ctx, http.MethodGet, articlePath(id), nil, nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// GetArticleBySlug fetches a single article by slug.
func (c *Client) GetArticleBySlug(ctx context.Context, slug string) (*model.Article, error) {
	if slug == "" {
		return nil, errors.New("empty slug")
	}
	var article model.Article
	if err := c.request(ctx, http.MethodGet, "/articles/slug/"+url.PathEscape(slug), nil, nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// CreateArticle creates an article. With an image the multipart endpoint is
// used and every scalar field travels in the query string; otherwise the
// fields are sent as a JSON body.
func (c *Client) CreateArticle(ctx context.Context, dto model.CreateArticleDTO) (*model.Article, error) {
	var article model.Article

	if dto.Image != nil {
		params := url.Values{}
		params.Set("title", dto.Title)
		params.Set("slug", dto.Slug)
		params.Set("content", dto.Content)
		params.Set("categoryId", strconv.FormatInt(dto.CategoryID, 10))
		params.Set("published", strconv.FormatBool(dto.Published))

		err := c.multipartRequest(ctx, http.MethodPost, "/articles/with-image", params,
			"image", dto.Image, DefaultErrorMessage, &article)
		if err != nil {
			return nil, err
		}
		return &article, nil
	}

	if err := c.request(ctx, http.MethodPost, "/articles", dto, nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// UpdateArticle applies a partial update. Only provided, non-empty fields
// are sent, in the query string when an image is attached and as a JSON
// body otherwise.
func (c *Client) UpdateArticle(ctx context.Context, dto model.UpdateArticleDTO) (*model.Article, error) {
	if dto.ID <= 0 {
		return nil, fmt.Errorf("invalid article id %d", dto.ID)
	}
	dto = dto.Compact()

	var article model.Article

	if dto.Image != nil {
		params := url.Values{}
		if dto.Title != nil {
			params.Set("title", *dto.Title)
		}
		if dto.Slug != nil {
			params.Set("slug", *dto.Slug)
		}
		if dto.Content != nil {
			params.Set("content", *dto.Content)
		}
		if dto.CategoryID != nil {
			params.Set("categoryId", strconv.FormatInt(*dto.CategoryID, 10))
		}
		if dto.Published != nil {
			params.Set("published", strconv.FormatBool(*dto.Published))
		}

		err := c.multipartRequest(ctx, http.MethodPut, articlePath(dto.ID)+"/with-image", params,
			"image", dto.Image, DefaultErrorMessage, &article)
		if err != nil {
			return nil, err
		}
		return &article, nil
	}

	if err := c.request(ctx, http.MethodPut, articlePath(dto.ID), dto, nil, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle deletes an article.
func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.request(ctx, http.MethodDelete, articlePath(id), nil, nil, nil)
}

func articlePath(id int64) string {
	return "/articles/" + strconv.FormatInt(id, 10)
}
