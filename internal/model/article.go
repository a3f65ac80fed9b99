// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Article is a news article as returned by the backend.
// Category carries the category name; writes reference categories by ID.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	ViewCount int64     `json:"viewCount"`
	Published bool      `json:"published"`
	Category  string    `json:"category"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// IsDraft returns true if the article is not published.
func (a *Article) IsDraft() bool {
	return !a.Published
}

// Sort fields accepted by the articles endpoint.
const (
	SortByCreatedAt = "createdAt"
	SortByTitle     = "title"
	SortByViewCount = "viewCount"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ArticlesFilter holds the optional query parameters of GET /articles.
// Nil pointers and empty strings are not sent.
type ArticlesFilter struct {
	Search     string
	Published  *bool
	CategoryID int64
	Page       int
	Limit      int
	SortBy     string
	Order      string
}

// CreateArticleDTO is the write shape for a new article.
// When Image is set the article is created through the multipart endpoint.
type CreateArticleDTO struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Content    string  `json:"content"`
	CategoryID int64   `json:"categoryId"`
	Published  bool    `json:"published"`
	Image      *Upload `json:"-"`
}

// UpdateArticleDTO is a partial update of an article. ID is mandatory,
// every other field is sent only when set.
type UpdateArticleDTO struct {
	ID         int64   `json:"-"`
	Title      *string `json:"title,omitempty"`
	Slug       *string `json:"slug,omitempty"`
	Content    *string `json:"content,omitempty"`
	CategoryID *int64  `json:"categoryId,omitempty"`
	Published  *bool   `json:"published,omitempty"`
	Image      *Upload `json:"-"`
}

// Compact returns a copy of the DTO with empty strings and a zero category ID
// dropped, so that only meaningful fields reach the backend.
func (d UpdateArticleDTO) Compact() UpdateArticleDTO {
	out := d
	if out.Title != nil && *out.Title == "" {
		out.Title = nil
	}
	if out.Slug != nil && *out.Slug == "" {
		out.Slug = nil
	}
	if out.Content != nil && *out.Content == "" {
		out.Content = nil
	}
	if out.CategoryID != nil && *out.CategoryID == 0 {
		out.CategoryID = nil
	}
	return out
}

// IsEmpty returns true if the update carries no fields and no image.
func (d UpdateArticleDTO) IsEmpty() bool {
	c := d.Compact()
	return c.Title == nil && c.Slug == nil && c.Content == nil &&
		c.CategoryID == nil && c.Published == nil && c.Image == nil
}
