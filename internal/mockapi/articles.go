// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mockapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/util"
)

// articleInput is a create or update request after decoding, whatever the
// transport. Nil fields were not provided.
type articleInput struct {
	Title      *string
	Slug       *string
	Content    *string
	CategoryID *int64
	Published  *bool
	ImageURL   string
}

// inputFromQuery reads article fields from the query string of the
// multipart endpoints.
func inputFromQuery(q url.Values) (articleInput, map[string]string) {
	var in articleInput
	errs := make(map[string]string)

	str := func(key string) *string {
		if !q.Has(key) {
			return nil
		}
		v := q.Get(key)
		return &v
	}
	in.Title = str("title")
	in.Slug = str("slug")
	in.Content = str("content")

	if q.Has("categoryId") {
		id, err := strconv.ParseInt(q.Get("categoryId"), 10, 64)
		if err != nil {
			errs["categoryId"] = "Invalid category ID"
		} else {
			in.CategoryID = &id
		}
	}
	if q.Has("published") {
		p, err := strconv.ParseBool(q.Get("published"))
		if err != nil {
			errs["published"] = "Invalid boolean"
		} else {
			in.Published = &p
		}
	}
	return in, errs
}

// listArticles handles GET /api/articles
// Returns a bare array; page and limit slice it when given.
func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := articleQuery{
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
		Order:  q.Get("order"),
	}
	if v := q.Get("published"); v != "" {
		p, err := strconv.ParseBool(v)
		if err != nil {
			WriteBadRequest(w, "Invalid published filter", nil)
			return
		}
		query.Published = &p
	}
	if v := q.Get("categoryId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			WriteBadRequest(w, "Invalid category ID", nil)
			return
		}
		query.CategoryID = id
	}

	articles := s.data.listArticles(query)

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if page > 0 || limit > 0 {
		articles = util.Paginate(articles, page, limit).Items
	}

	WriteJSON(w, http.StatusOK, articles)
}

// listArticleCategories handles GET /api/articles/categories
func (s *Server) listArticleCategories(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.data.categoryNames())
}

// getArticle handles GET /api/articles/{id}
func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid article ID", nil)
		return
	}

	s.data.mu.RLock()
	defer s.data.mu.RUnlock()

	a, ok := s.data.articles[id]
	if !ok {
		WriteNotFound(w, "Article not found")
		return
	}
	WriteJSON(w, http.StatusOK, s.data.toModel(a))
}

// getArticleBySlug handles GET /api/articles/slug/{slug}
// Each read by slug counts as a view.
func (s *Server) getArticleBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	a := s.data.articleBySlug(slug)
	if a == nil {
		WriteNotFound(w, "Article not found")
		return
	}
	a.ViewCount++
	WriteJSON(w, http.StatusOK, s.data.toModel(a))
}

// createArticle handles POST /api/articles
func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title      string `json:"title"`
		Slug       string `json:"slug"`
		Content    string `json:"content"`
		CategoryID int64  `json:"categoryId"`
		Published  bool   `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	s.saveNewArticle(w, articleInput{
		Title:      &req.Title,
		Slug:       &req.Slug,
		Content:    &req.Content,
		CategoryID: &req.CategoryID,
		Published:  &req.Published,
	})
}

// createArticleWithImage handles POST /api/articles/with-image
func (s *Server) createArticleWithImage(w http.ResponseWriter, r *http.Request) {
	in, errs := inputFromQuery(r.URL.Query())
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	imageURL, ok := s.receiveFile(w, r, "image")
	if !ok {
		return
	}
	in.ImageURL = imageURL

	s.saveNewArticle(w, in)
}

func (s *Server) saveNewArticle(w http.ResponseWriter, in articleInput) {
	errs := make(map[string]string)
	title := deref(in.Title)
	content := deref(in.Content)
	slug := deref(in.Slug)
	var categoryID int64
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}

	if strings.TrimSpace(title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(content) == "" {
		errs["content"] = "Content is required"
	}
	if slug == "" {
		slug = util.Slugify(title)
	}
	if !util.IsValidSlug(slug) && errs["title"] == "" {
		errs["slug"] = "Invalid slug format"
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.categories[categoryID]; !ok {
		errs["categoryId"] = "Category not found"
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	if s.data.articleSlugTaken(slug, 0) {
		WriteConflict(w, "Slug already exists")
		return
	}

	now := s.opts.Now()
	a := &article{
		ID:         s.data.id(),
		Title:      title,
		Slug:       slug,
		Content:    content,
		ImageURL:   in.ImageURL,
		Published:  in.Published != nil && *in.Published,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.data.articles[a.ID] = a

	s.logger.Info("mock article created", "category", model.EventCategoryArticle, "article_id", a.ID)
	WriteJSON(w, http.StatusCreated, s.data.toModel(a))
}

// updateArticle handles PUT /api/articles/{id}
func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid article ID", nil)
		return
	}

	var req model.UpdateArticleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	s.applyArticleUpdate(w, id, articleInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Published:  req.Published,
	})
}

// updateArticleWithImage handles PUT /api/articles/{id}/with-image
func (s *Server) updateArticleWithImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid article ID", nil)
		return
	}

	in, errs := inputFromQuery(r.URL.Query())
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	imageURL, ok := s.receiveFile(w, r, "image")
	if !ok {
		return
	}
	in.ImageURL = imageURL

	s.applyArticleUpdate(w, id, in)
}

func (s *Server) applyArticleUpdate(w http.ResponseWriter, id int64, in articleInput) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	a, ok := s.data.articles[id]
	if !ok {
		WriteNotFound(w, "Article not found")
		return
	}

	errs := make(map[string]string)
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		errs["title"] = "Title cannot be empty"
	}
	if in.Slug != nil && !util.IsValidSlug(*in.Slug) {
		errs["slug"] = "Invalid slug format"
	}
	if in.CategoryID != nil {
		if _, ok := s.data.categories[*in.CategoryID]; !ok {
			errs["categoryId"] = "Category not found"
		}
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	if in.Slug != nil && s.data.articleSlugTaken(*in.Slug, id) {
		WriteConflict(w, "Slug already exists")
		return
	}

	if in.Title != nil {
		a.Title = *in.Title
	}
	if in.Slug != nil {
		a.Slug = *in.Slug
	}
	if in.Content != nil {
		a.Content = *in.Content
	}
	if in.CategoryID != nil {
		a.CategoryID = *in.CategoryID
	}
	if in.Published != nil {
		a.Published = *in.Published
	}
	if in.ImageURL != "" {
		a.ImageURL = in.ImageURL
	}
	a.UpdatedAt = s.opts.Now()

	WriteJSON(w, http.StatusOK, s.data.toModel(a))
}

// deleteArticle handles DELETE /api/articles/{id}
func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid article ID", nil)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if _, ok := s.data.articles[id]; !ok {
		WriteNotFound(w, "Article not found")
		return
	}
	delete(s.data.articles, id)

	w.WriteHeader(http.StatusNoContent)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
