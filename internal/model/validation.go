// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"sort"
	"strings"
)

// Validation message keys. They double as i18n keys.
const (
	ValidationRequired     = "validation.required"
	ValidationInvalidSlug  = "validation.invalid_slug"
	ValidationNothingToSet = "validation.nothing_to_update"
	ValidationInvalidID    = "validation.invalid_id"
)

// ValidationErrors maps field names to message keys. It is returned before
// any request is issued.
type ValidationErrors map[string]string

// Error implements error.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add records a field error, keeping the first message per field.
func (v ValidationErrors) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Err returns v as an error, or nil if it is empty.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Validate checks the fields required to create an article.
func (d CreateArticleDTO) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.Title) == "" {
		errs.Add("title", ValidationRequired)
	}
	if strings.TrimSpace(d.Content) == "" {
		errs.Add("content", ValidationRequired)
	}
	if d.CategoryID <= 0 {
		errs.Add("categoryId", ValidationRequired)
	}
	return errs.Err()
}

// Validate checks that the update targets an article and changes something.
func (d UpdateArticleDTO) Validate() error {
	errs := ValidationErrors{}
	if d.ID <= 0 {
		errs.Add("id", ValidationInvalidID)
	}
	if d.Title != nil && strings.TrimSpace(*d.Title) == "" {
		errs.Add("title", ValidationRequired)
	}
	if d.IsEmpty() {
		errs.Add("update", ValidationNothingToSet)
	}
	return errs.Err()
}

// Validate checks the fields required to create a category.
func (d CreateCategoryDTO) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.Name) == "" {
		errs.Add("name", ValidationRequired)
	}
	if strings.TrimSpace(d.Slug) == "" {
		errs.Add("slug", ValidationRequired)
	}
	return errs.Err()
}
