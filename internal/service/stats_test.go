// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/newsdesk/internal/model"
)

type fakeStatsAPI struct {
	articles    []model.Article
	categories  []model.Category
	articlesErr error
	catsErr     error
}

func (f *fakeStatsAPI) GetArticles(ctx context.Context, _ model.ArticlesFilter) ([]model.Article, error) {
	if f.articlesErr != nil {
		return nil, f.articlesErr
	}
	return f.articles, ctx.Err()
}

func (f *fakeStatsAPI) GetCategoriesDetailed(ctx context.Context) ([]model.Category, error) {
	if f.catsErr != nil {
		return nil, f.catsErr
	}
	return f.categories, ctx.Err()
}

func statsFixture(now time.Time) ([]model.Article, []model.Category) {
	at := func(d time.Duration) model.Timestamp { return model.NewTimestamp(now.Add(-d)) }
	articles := []model.Article{
		{ID: 1, Title: "a", Category: "Sport", ViewCount: 900, Published: true, CreatedAt: at(24 * time.Hour)},
		{ID: 2, Title: "b", Category: "Sport", ViewCount: 250, Published: true, CreatedAt: at(48 * time.Hour)},
		{ID: 3, Title: "c", Category: "Siyosat", ViewCount: 50, Published: false, CreatedAt: at(time.Hour)},
		{ID: 4, Title: "d", Category: "Sport", ViewCount: 0, Published: true, CreatedAt: at(40 * 24 * time.Hour)},
		{ID: 5, Title: "e", Category: "Texnologiya", ViewCount: 10, Published: false, CreatedAt: at(3 * time.Hour)},
		{ID: 6, Title: "f", Category: "Texnologiya", ViewCount: 5, Published: true, CreatedAt: at(5 * time.Hour)},
	}
	categories := []model.Category{
		{ID: 1, Name: "Siyosat"},
		{ID: 2, Name: "Sport"},
		{ID: 3, Name: "Texnologiya"},
		{ID: 4, Name: "Madaniyat"},
	}
	return articles, categories
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	articles, categories := statsFixture(now)

	stats := ComputeStats(articles, categories, now)

	assert.Equal(t, 6, stats.TotalArticles)
	assert.Equal(t, 4, stats.PublishedArticles)
	assert.Equal(t, 2, stats.DraftArticles)
	assert.Equal(t, 4, stats.TotalCategories)
	assert.Equal(t, int64(1215), stats.TotalViews)
	assert.Equal(t, "1.2K", stats.FormattedViews())
	assert.Equal(t, 5, stats.ThisMonth, "article from February is excluded")

	require.Len(t, stats.Recent, 5)
	recentIDs := make([]int64, 0, len(stats.Recent))
	for _, a := range stats.Recent {
		recentIDs = append(recentIDs, a.ID)
	}
	assert.Equal(t, []int64{3, 5, 6, 1, 2}, recentIDs)

	require.Len(t, stats.MostViewed, 5)
	assert.Equal(t, int64(1), stats.MostViewed[0].ID)
	assert.Equal(t, int64(2), stats.MostViewed[1].ID)
	assert.Equal(t, int64(3), stats.MostViewed[2].ID)

	require.Len(t, stats.TopCategories, 4)
	assert.Equal(t, "Sport", stats.TopCategories[0].Category.Name)
	assert.Equal(t, 3, stats.TopCategories[0].Count)
	assert.Equal(t, "Texnologiya", stats.TopCategories[1].Category.Name)
	assert.Equal(t, "Siyosat", stats.TopCategories[2].Category.Name)
	assert.Equal(t, "Madaniyat", stats.TopCategories[3].Category.Name)
	assert.Equal(t, 0, stats.TopCategories[3].Count)

	assert.Equal(t, int64(1), articles[0].ID, "input order untouched")
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil, time.Now())

	assert.Zero(t, stats.TotalArticles)
	assert.Zero(t, stats.TotalViews)
	assert.Equal(t, "0", stats.FormattedViews())
	assert.Empty(t, stats.Recent)
	assert.Empty(t, stats.TopCategories)
}

func TestStatsService_Dashboard(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	articles, categories := statsFixture(now)
	svc := NewStatsService(&fakeStatsAPI{articles: articles, categories: categories})
	svc.now = func() time.Time { return now }

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalArticles)
	assert.Equal(t, 4, stats.TotalCategories)
	assert.Equal(t, 5, stats.ThisMonth)
}

func TestStatsService_DashboardError(t *testing.T) {
	boom := errors.New("categories unavailable")
	svc := NewStatsService(&fakeStatsAPI{catsErr: boom})

	stats, err := svc.Dashboard(context.Background())
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, boom)
}

func TestStatsService_DashboardAgainstMockBackend(t *testing.T) {
	svc := NewStatsService(newMockClient(t))

	stats, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalArticles)
	assert.Equal(t, 3, stats.PublishedArticles)
	assert.Equal(t, 1, stats.DraftArticles)
	assert.Equal(t, 3, stats.TotalCategories)
	assert.Equal(t, int64(2670), stats.TotalViews)
	assert.Equal(t, "2.7K", stats.FormattedViews())
	require.NotEmpty(t, stats.MostViewed)
	assert.Equal(t, int64(1520), stats.MostViewed[0].ViewCount)
	assert.Equal(t, "Texnologiya", stats.TopCategories[0].Category.Name)
}
