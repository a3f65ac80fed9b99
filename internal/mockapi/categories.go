// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/util"
)

// listCategories handles GET /api/categories
func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, s.data.listCategories())
}

// createCategory handles POST /api/categories
func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	errs := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "Name is required"
	}
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if !util.IsValidSlug(req.Slug) && errs["name"] == "" {
		errs["slug"] = "Invalid slug format"
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	if s.data.categorySlugTaken(req.Slug, 0) {
		WriteConflict(w, "Slug already exists")
		return
	}

	now := s.opts.Now()
	c := &category{
		ID:          s.data.id(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.data.categories[c.ID] = c

	WriteJSON(w, http.StatusCreated, s.data.categoryToModel(c))
}

// updateCategory handles PUT /api/categories/{id}
func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid category ID", nil)
		return
	}

	var req model.UpdateCategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	c, ok := s.data.categories[id]
	if !ok {
		WriteNotFound(w, "Category not found")
		return
	}

	errs := make(map[string]string)
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs["name"] = "Name cannot be empty"
	}
	if req.Slug != nil && !util.IsValidSlug(*req.Slug) {
		errs["slug"] = "Invalid slug format"
	}
	if len(errs) > 0 {
		WriteValidationError(w, errs)
		return
	}
	if req.Slug != nil && s.data.categorySlugTaken(*req.Slug, id) {
		WriteConflict(w, "Slug already exists")
		return
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Slug != nil {
		c.Slug = *req.Slug
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	c.UpdatedAt = s.opts.Now()

	WriteJSON(w, http.StatusOK, s.data.categoryToModel(c))
}

// deleteCategory handles DELETE /api/categories/{id}
// Categories that still have articles cannot be deleted.
func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid category ID", nil)
		return
	}

	s.data.mu.Lock()
	defer s.data.mu.Unlock()

	c, ok := s.data.categories[id]
	if !ok {
		WriteNotFound(w, "Category not found")
		return
	}
	if s.data.categoryToModel(c).ArticlesCount > 0 {
		WriteConflict(w, "Category has articles")
		return
	}
	delete(s.data.categories, id)

	w.WriteHeader(http.StatusNoContent)
}
