// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/newsdesk/internal/content"
	"github.com/olegiv/newsdesk/internal/imaging"
	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/testutil"
)

type fakeArticleAPI struct {
	articles []model.Article
	filters  []model.ArticlesFilter
	created  []model.CreateArticleDTO
	updated  []model.UpdateArticleDTO
	deleted  []int64
}

func (f *fakeArticleAPI) GetArticles(_ context.Context, filter model.ArticlesFilter) ([]model.Article, error) {
	f.filters = append(f.filters, filter)
	return f.articles, nil
}

func (f *fakeArticleAPI) GetArticle(_ context.Context, id int64) (*model.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("article %d not found", id)
}

func (f *fakeArticleAPI) CreateArticle(_ context.Context, dto model.CreateArticleDTO) (*model.Article, error) {
	f.created = append(f.created, dto)
	return &model.Article{ID: 100, Title: dto.Title, Slug: dto.Slug, Content: dto.Content}, nil
}

func (f *fakeArticleAPI) UpdateArticle(_ context.Context, dto model.UpdateArticleDTO) (*model.Article, error) {
	f.updated = append(f.updated, dto)
	return &model.Article{ID: dto.ID}, nil
}

func (f *fakeArticleAPI) DeleteArticle(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type mapResolver map[string]int64

func (m mapResolver) Resolve(_ context.Context, ref string) (int64, error) {
	if id, ok := m[strings.ToLower(ref)]; ok {
		return id, nil
	}
	return 0, ErrCategoryNotFound
}

func newEditor() (*ArticleEditor, *fakeArticleAPI) {
	api := &fakeArticleAPI{}
	return NewArticleEditor(api, mapResolver{"sport": 2, "2": 2}, testutil.TestLoggerSilent()), api
}

func TestArticleEditor_CreateValidation(t *testing.T) {
	editor, api := newEditor()

	_, err := editor.Create(context.Background(), ArticleDraft{Title: " ", Content: "", Category: ""})

	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, model.ValidationRequired, verrs["title"])
	assert.Equal(t, model.ValidationRequired, verrs["content"])
	assert.Equal(t, model.ValidationRequired, verrs["categoryId"])
	assert.Empty(t, api.created, "no request on validation failure")
}

func TestArticleEditor_CreateInvalidSlug(t *testing.T) {
	editor, api := newEditor()

	_, err := editor.Create(context.Background(), ArticleDraft{
		Title: "Title", Slug: "Not A Slug", Content: "x", Category: "sport",
	})

	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, model.ValidationInvalidSlug, verrs["slug"])
	assert.Empty(t, api.created)
}

func TestArticleEditor_CreateGeneratesSlugAndResolvesCategory(t *testing.T) {
	editor, api := newEditor()

	article, err := editor.Create(context.Background(), ArticleDraft{
		Title:     "  Новости спорта ",
		Content:   "<p>Matn</p>",
		Category:  "Sport",
		Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), article.ID)

	require.Len(t, api.created, 1)
	dto := api.created[0]
	assert.Equal(t, "Новости спорта", dto.Title)
	assert.Equal(t, "novosti-sporta", dto.Slug)
	assert.Equal(t, "<p>Matn</p>", dto.Content)
	assert.Equal(t, int64(2), dto.CategoryID)
	assert.True(t, dto.Published)
	assert.Nil(t, dto.Image)
}

func TestArticleEditor_CreateMarkdownIsSanitized(t *testing.T) {
	editor, api := newEditor()

	_, err := editor.Create(context.Background(), ArticleDraft{
		Title:    "Markdown",
		Content:  "# Sarlavha\n\n**qalin** <script>alert(1)</script>",
		Format:   content.FormatMarkdown,
		Category: "2",
	})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	body := api.created[0].Content
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "<strong>qalin</strong>")
	assert.NotContains(t, body, "<script")
}

func TestArticleEditor_CreateContentSanitizedAway(t *testing.T) {
	editor, api := newEditor()

	_, err := editor.Create(context.Background(), ArticleDraft{
		Title: "Title", Content: "<script>alert(1)</script>", Category: "sport",
	})

	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, model.ValidationRequired, verrs["content"])
	assert.Empty(t, api.created)
}

func TestArticleEditor_CreateUnknownCategory(t *testing.T) {
	editor, api := newEditor()

	_, err := editor.Create(context.Background(), ArticleDraft{
		Title: "T", Content: "c", Category: "Ob-havo",
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Empty(t, api.created)
}

func TestArticleEditor_CreateWithoutResolver(t *testing.T) {
	editor := NewArticleEditor(&fakeArticleAPI{}, nil, nil)

	_, err := editor.Create(context.Background(), ArticleDraft{
		Title: "T", Content: "c", Category: "Sport",
	})
	assert.Error(t, err)
}

func TestArticleEditor_CreatePreparesImage(t *testing.T) {
	editor, api := newEditor()
	editor.ImageOptions = &imaging.Options{MaxWidth: 40, MaxHeight: 40}

	img := image.NewRGBA(image.Rect(0, 0, 80, 20))
	for x := 0; x < 80; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, err := editor.Create(context.Background(), ArticleDraft{
		Title:    "With image",
		Content:  "c",
		Category: "sport",
		Image:    model.NewUpload("wide.png", buf.Bytes()),
	})
	require.NoError(t, err)

	require.Len(t, api.created, 1)
	upload := api.created[0].Image
	require.NotNil(t, upload)

	data, err := io.ReadAll(upload.Body)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 10, cfg.Height)
}

func TestArticleEditor_UpdateOnlySetFields(t *testing.T) {
	editor, api := newEditor()

	_, err := editor.Update(context.Background(), ArticlePatch{ID: 5, Title: strPtr(" x ")})
	require.NoError(t, err)

	require.Len(t, api.updated, 1)
	dto := api.updated[0]
	assert.Equal(t, int64(5), dto.ID)
	require.NotNil(t, dto.Title)
	assert.Equal(t, "x", *dto.Title)
	assert.Nil(t, dto.Content)
	assert.Nil(t, dto.CategoryID)
	assert.Nil(t, dto.Published)
	assert.Nil(t, dto.Slug)
}

func TestArticleEditor_UpdateAllFields(t *testing.T) {
	editor, api := newEditor()

	_, err := editor.Update(context.Background(), ArticlePatch{
		ID:        7,
		Content:   strPtr("*yangi*"),
		Format:    content.FormatMarkdown,
		Category:  strPtr("sport"),
		Published: boolPtr(false),
	})
	require.NoError(t, err)

	dto := api.updated[0]
	require.NotNil(t, dto.Content)
	assert.Equal(t, "<p><em>yangi</em></p>", *dto.Content)
	require.NotNil(t, dto.CategoryID)
	assert.Equal(t, int64(2), *dto.CategoryID)
	require.NotNil(t, dto.Published)
	assert.False(t, *dto.Published)
}

func TestArticleEditor_UpdateValidation(t *testing.T) {
	editor, api := newEditor()
	ctx := context.Background()

	tests := []struct {
		name  string
		patch ArticlePatch
		field string
		want  string
	}{
		{"missing id", ArticlePatch{Title: strPtr("x")}, "id", model.ValidationInvalidID},
		{"nothing to update", ArticlePatch{ID: 1}, "update", model.ValidationNothingToSet},
		{"empty title", ArticlePatch{ID: 1, Title: strPtr("  ")}, "title", model.ValidationRequired},
		{"bad slug", ArticlePatch{ID: 1, Slug: strPtr("Bad Slug")}, "slug", model.ValidationInvalidSlug},
		{"empty category", ArticlePatch{ID: 1, Category: strPtr(" ")}, "categoryId", model.ValidationRequired},
		{"content sanitized away", ArticlePatch{ID: 1, Content: strPtr("<script>alert(1)</script>")}, "content", model.ValidationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := editor.Update(ctx, tt.patch)
			var verrs model.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.want, verrs[tt.field])
		})
	}
	assert.Empty(t, api.updated)
}

func TestArticleEditor_Delete(t *testing.T) {
	editor, api := newEditor()

	err := editor.Delete(context.Background(), 0)
	var verrs model.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	require.NoError(t, editor.Delete(context.Background(), 3))
	assert.Equal(t, []int64{3}, api.deleted)
}

func TestArticleEditor_ListPaginatesLocally(t *testing.T) {
	editor, api := newEditor()
	for i := 1; i <= 12; i++ {
		api.articles = append(api.articles, model.Article{ID: int64(i)})
	}

	page, err := editor.List(context.Background(), model.ArticlesFilter{Search: "a", Page: 4, Limit: 2}, 2, 5)
	require.NoError(t, err)

	require.Len(t, api.filters, 1)
	assert.Equal(t, model.ArticlesFilter{Search: "a"}, api.filters[0], "page and limit are not sent")

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 12, page.Total)
	require.Len(t, page.Items, 5)
	assert.Equal(t, int64(6), page.Items[0].ID)
}

func TestArticleEditor_AgainstMockBackend(t *testing.T) {
	client := newMockClient(t)
	categories := NewCategoryService(client, newMemoryCache(t), 0, nil)
	editor := NewArticleEditor(client, categories, nil)
	ctx := context.Background()

	created, err := editor.Create(ctx, ArticleDraft{
		Title:    "Kutubxona haftaligi",
		Content:  "Matn",
		Format:   content.FormatMarkdown,
		Category: "Texnologiya",
	})
	require.NoError(t, err)
	assert.Equal(t, "kutubxona-haftaligi", created.Slug)
	assert.Equal(t, "Texnologiya", created.Category)
	assert.False(t, created.Published)

	updated, err := editor.Update(ctx, ArticlePatch{ID: created.ID, Published: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, "Kutubxona haftaligi", updated.Title)

	page, err := editor.List(ctx, model.ArticlesFilter{Search: "kutubxona"}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, created.ID, page.Items[0].ID)

	require.NoError(t, editor.Delete(ctx, created.ID))
}
