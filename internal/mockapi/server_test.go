// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mockapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/newsdesk/internal/apiclient"
	"github.com/olegiv/newsdesk/internal/model"
)

func newTestBackend(t *testing.T, opts Options) (*Server, *apiclient.Client) {
	t.Helper()
	srv := New(opts)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, apiclient.New(ts.URL + "/api")
}

func login(t *testing.T, c *apiclient.Client) {
	t.Helper()
	_, err := c.Login(context.Background(), model.LoginCredentials{Username: DefaultUsername, Password: DefaultPassword})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	_, c := newTestBackend(t, Options{})
	ctx := context.Background()

	_, err := c.Login(ctx, model.LoginCredentials{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, "Invalid username or password", err.Error())

	resp, err := c.Login(ctx, model.LoginCredentials{Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestWritesRequireToken(t *testing.T) {
	_, c := newTestBackend(t, Options{Seed: true})
	ctx := context.Background()

	_, err := c.CreateCategory(ctx, model.CreateCategoryDTO{Name: "X"})
	assert.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))

	// Reads are public
	articles, err := c.GetArticles(ctx, model.ArticlesFilter{})
	require.NoError(t, err)
	assert.Len(t, articles, 4)
}

func TestArticleLifecycle(t *testing.T) {
	_, c := newTestBackend(t, Options{})
	ctx := context.Background()
	login(t, c)

	cat, err := c.CreateCategory(ctx, model.CreateCategoryDTO{Name: "Iqtisodiyot"})
	require.NoError(t, err)
	assert.Equal(t, "iqtisodiyot", cat.Slug)

	created, err := c.CreateArticle(ctx, model.CreateArticleDTO{
		Title:      "Bozor yangiliklari",
		Content:    "<p>Matn</p>",
		CategoryID: cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "bozor-yangiliklari", created.Slug)
	assert.Equal(t, "Iqtisodiyot", created.Category)
	assert.False(t, created.Published)

	published := true
	title := "Bozor sharhi"
	updated, err := c.UpdateArticle(ctx, model.UpdateArticleDTO{ID: created.ID, Title: &title, Published: &published})
	require.NoError(t, err)
	assert.Equal(t, "Bozor sharhi", updated.Title)
	assert.Equal(t, "<p>Matn</p>", updated.Content)
	assert.True(t, updated.Published)

	bySlug, err := c.GetArticleBySlug(ctx, "bozor-yangiliklari")
	require.NoError(t, err)
	assert.Equal(t, int64(1), bySlug.ViewCount)

	cats, err := c.GetCategoriesDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, int64(1), cats[0].ArticlesCount)

	err = c.DeleteCategory(ctx, cat.ID)
	assert.True(t, apiclient.IsStatus(err, http.StatusConflict))

	require.NoError(t, c.DeleteArticle(ctx, created.ID))
	_, err = c.GetArticle(ctx, created.ID)
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))

	require.NoError(t, c.DeleteCategory(ctx, cat.ID))
}

func TestCreateArticleValidation(t *testing.T) {
	_, c := newTestBackend(t, Options{})
	login(t, c)

	_, err := c.CreateArticle(context.Background(), model.CreateArticleDTO{Title: "x", Content: "y", CategoryID: 99})
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, "Validation failed", err.Error())
}

func TestArticleWithImage(t *testing.T) {
	_, c := newTestBackend(t, Options{Seed: true})
	ctx := context.Background()
	login(t, c)

	a, err := c.CreateArticle(ctx, model.CreateArticleDTO{
		Title:      "Rasmli maqola",
		Slug:       "rasmli-maqola",
		Content:    "Matn",
		CategoryID: 1,
		Published:  true,
		Image:      model.NewUpload("photo.png", []byte("png-bytes")),
	})
	require.NoError(t, err)
	require.NotEmpty(t, a.ImageURL)
	assert.True(t, a.Published)

	resp, err := http.Get(c.ImageURL(a.ImageURL))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png-bytes", string(body))

	content := "Yangi matn"
	updated, err := c.UpdateArticle(ctx, model.UpdateArticleDTO{
		ID:      a.ID,
		Content: &content,
		Image:   model.NewUpload("second.jpg", []byte("jpg")),
	})
	require.NoError(t, err)
	assert.Equal(t, "Yangi matn", updated.Content)
	assert.Equal(t, "Rasmli maqola", updated.Title)
	assert.NotEqual(t, a.ImageURL, updated.ImageURL)
}

func TestUpload(t *testing.T) {
	_, c := newTestBackend(t, Options{UploadsDir: t.TempDir()})
	login(t, c)

	resp, err := c.UploadFile(context.Background(), model.NewUpload("doc.txt", []byte("hello")))
	require.NoError(t, err)
	assert.Contains(t, resp.URL, UploadsPath)
	assert.Contains(t, resp.URL, ".txt")
}

func TestUploadTooLarge(t *testing.T) {
	_, c := newTestBackend(t, Options{MaxUploadSize: 16})
	login(t, c)

	_, err := c.UploadFile(context.Background(), model.NewUpload("big.bin", make([]byte, 1024)))
	require.Error(t, err)
}

func TestListArticlesFilters(t *testing.T) {
	_, c := newTestBackend(t, Options{Seed: true})
	ctx := context.Background()

	published := false
	drafts, err := c.GetArticles(ctx, model.ArticlesFilter{Published: &published})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Yangi smartfon taqdimoti", drafts[0].Title)

	byViews, err := c.GetArticles(ctx, model.ArticlesFilter{SortBy: model.SortByViewCount, Order: model.OrderDesc, Limit: 2})
	require.NoError(t, err)
	require.Len(t, byViews, 2)
	assert.Equal(t, int64(1520), byViews[0].ViewCount)
	assert.Equal(t, int64(840), byViews[1].ViewCount)

	search, err := c.GetArticles(ctx, model.ArticlesFilter{Search: "STADION"})
	require.NoError(t, err)
	assert.Len(t, search, 1)

	sport, err := c.GetArticles(ctx, model.ArticlesFilter{CategoryID: 2})
	require.NoError(t, err)
	require.Len(t, sport, 1)
	assert.Equal(t, "Sport", sport[0].Category)

	names, err := c.GetArticleCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Siyosat", "Sport", "Texnologiya"}, names)
}

func TestListAndServe(t *testing.T) {
	srv := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not stop")
	}
}
