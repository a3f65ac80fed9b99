// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/olegiv/newsdesk/internal/content"
	"github.com/olegiv/newsdesk/internal/imaging"
	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/util"
)

// ArticleAPI is the part of the API client used for articles.
type ArticleAPI interface {
	GetArticles(ctx context.Context, filter model.ArticlesFilter) ([]model.Article, error)
	GetArticle(ctx context.Context, id int64) (*model.Article, error)
	CreateArticle(ctx context.Context, dto model.CreateArticleDTO) (*model.Article, error)
	UpdateArticle(ctx context.Context, dto model.UpdateArticleDTO) (*model.Article, error)
	DeleteArticle(ctx context.Context, id int64) error
}

// CategoryResolver maps a category reference to an ID.
type CategoryResolver interface {
	Resolve(ctx context.Context, ref string) (int64, error)
}

// ArticleDraft is the editor input for a new article.
type ArticleDraft struct {
	Title     string
	Slug      string // Generated from Title when empty
	Content   string
	Format    content.Format
	Category  string // ID, name or slug
	Published bool
	Image     *model.Upload
}

// ArticlePatch is the editor input for a partial update. Nil fields are
// left unchanged.
type ArticlePatch struct {
	ID        int64
	Title     *string
	Slug      *string
	Content   *string
	Format    content.Format
	Category  *string
	Published *bool
	Image     *model.Upload
}

// ArticleEditor validates editor input, normalizes it and sends it to the
// backend.
type ArticleEditor struct {
	api        ArticleAPI
	categories CategoryResolver
	logger     *slog.Logger

	// ImageOptions, when set, prepares images before upload.
	ImageOptions *imaging.Options
}

// NewArticleEditor creates an ArticleEditor.
func NewArticleEditor(api ArticleAPI, categories CategoryResolver, logger *slog.Logger) *ArticleEditor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ArticleEditor{
		api:        api,
		categories: categories,
		logger:     logger,
	}
}

// Create validates the draft, fills in the slug, renders and sanitizes the
// content, resolves the category and creates the article.
func (e *ArticleEditor) Create(ctx context.Context, draft ArticleDraft) (*model.Article, error) {
	errs := model.ValidationErrors{}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		errs.Add("title", model.ValidationRequired)
	}
	if strings.TrimSpace(draft.Content) == "" {
		errs.Add("content", model.ValidationRequired)
	}
	if strings.TrimSpace(draft.Category) == "" {
		errs.Add("categoryId", model.ValidationRequired)
	}

	slug := strings.TrimSpace(draft.Slug)
	if slug == "" {
		slug = util.Slugify(title)
	}
	if title != "" && !util.IsValidSlug(slug) {
		errs.Add("slug", model.ValidationInvalidSlug)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	body, err := content.Prepare(draft.Content, draft.Format)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, model.ValidationErrors{"content": model.ValidationRequired}
	}

	categoryID, err := e.resolveCategory(ctx, draft.Category)
	if err != nil {
		return nil, err
	}

	image, err := e.prepareImage(draft.Image)
	if err != nil {
		return nil, err
	}

	dto := model.CreateArticleDTO{
		Title:      title,
		Slug:       slug,
		Content:    body,
		CategoryID: categoryID,
		Published:  draft.Published,
		Image:      image,
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	article, err := e.api.CreateArticle(ctx, dto)
	if err != nil {
		return nil, err
	}

	e.logger.Info("article created",
		"category", model.EventCategoryArticle,
		"article_id", article.ID,
		"with_image", image != nil)
	return article, nil
}

// Update validates and applies a partial update. Only the fields set in
// the patch reach the backend.
func (e *ArticleEditor) Update(ctx context.Context, patch ArticlePatch) (*model.Article, error) {
	dto := model.UpdateArticleDTO{
		ID:        patch.ID,
		Title:     trimmed(patch.Title),
		Slug:      trimmed(patch.Slug),
		Published: patch.Published,
	}

	errs := model.ValidationErrors{}
	if dto.Slug != nil && *dto.Slug != "" && !util.IsValidSlug(*dto.Slug) {
		errs.Add("slug", model.ValidationInvalidSlug)
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		errs.Add("categoryId", model.ValidationRequired)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if patch.Content != nil {
		body, err := content.Prepare(*patch.Content, patch.Format)
		if err != nil {
			return nil, err
		}
		if body == "" {
			return nil, model.ValidationErrors{"content": model.ValidationRequired}
		}
		dto.Content = &body
	}

	if patch.Category != nil {
		id, err := e.resolveCategory(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		dto.CategoryID = &id
	}

	image, err := e.prepareImage(patch.Image)
	if err != nil {
		return nil, err
	}
	dto.Image = image

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	article, err := e.api.UpdateArticle(ctx, dto)
	if err != nil {
		return nil, err
	}

	e.logger.Info("article updated",
		"category", model.EventCategoryArticle,
		"article_id", article.ID,
		"with_image", image != nil)
	return article, nil
}

// Delete deletes an article.
func (e *ArticleEditor) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return model.ValidationErrors{"id": model.ValidationInvalidID}
	}
	if err := e.api.DeleteArticle(ctx, id); err != nil {
		return err
	}
	e.logger.Info("article deleted", "category", model.EventCategoryArticle, "article_id", id)
	return nil
}

// List fetches the filtered article list and paginates it locally; the
// backend returns the full array without a total.
func (e *ArticleEditor) List(ctx context.Context, filter model.ArticlesFilter, page, limit int) (util.Page[model.Article], error) {
	filter.Page = 0
	filter.Limit = 0

	articles, err := e.api.GetArticles(ctx, filter)
	if err != nil {
		return util.Page[model.Article]{}, err
	}
	return util.Paginate(articles, page, limit), nil
}

func (e *ArticleEditor) resolveCategory(ctx context.Context, ref string) (int64, error) {
	if e.categories == nil {
		return 0, errors.New("no category resolver configured")
	}
	return e.categories.Resolve(ctx, ref)
}

func (e *ArticleEditor) prepareImage(upload *model.Upload) (*model.Upload, error) {
	if upload == nil || e.ImageOptions == nil {
		return upload, nil
	}

	prepared, res, err := imaging.Prepare(upload, *e.ImageOptions)
	if err != nil {
		return nil, err
	}
	if res != nil && (res.Resized || res.Rotated) {
		e.logger.Debug("image prepared",
			"category", model.EventCategoryUpload,
			"width", res.Width,
			"height", res.Height,
			"size", res.Size)
	}
	return prepared, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
