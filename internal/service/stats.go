// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/util"
)

// dashboardListSize is the length of the recent, most viewed and top
// category lists.
const dashboardListSize = 5

// CategoryCount is a category with the number of articles referencing it.
type CategoryCount struct {
	Category model.Category
	Count    int
}

// DashboardStats summarizes the backend content.
type DashboardStats struct {
	TotalArticles     int
	PublishedArticles int
	DraftArticles     int
	TotalCategories   int
	TotalViews        int64
	ThisMonth         int
	Recent            []model.Article
	MostViewed        []model.Article
	TopCategories     []CategoryCount
}

// FormattedViews returns TotalViews in compact form, e.g. "1.2K".
func (s DashboardStats) FormattedViews() string {
	return util.FormatCount(s.TotalViews)
}

// StatsAPI is the part of the API client used by the dashboard.
type StatsAPI interface {
	GetArticles(ctx context.Context, filter model.ArticlesFilter) ([]model.Article, error)
	GetCategoriesDetailed(ctx context.Context) ([]model.Category, error)
}

// StatsService computes dashboard statistics.
type StatsService struct {
	api StatsAPI
	now func() time.Time
}

// NewStatsService creates a StatsService.
func NewStatsService(api StatsAPI) *StatsService {
	return &StatsService{api: api, now: time.Now}
}

// Dashboard fetches articles and categories concurrently and computes the
// statistics. Either fetch failing fails the whole call.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg          sync.WaitGroup
		articles    []model.Article
		categories  []model.Category
		articlesErr error
		catsErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		articles, articlesErr = s.api.GetArticles(ctx, model.ArticlesFilter{})
		if articlesErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		categories, catsErr = s.api.GetCategoriesDetailed(ctx)
		if catsErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	if err := errors.Join(articlesErr, catsErr); err != nil {
		return nil, err
	}

	stats := ComputeStats(articles, categories, s.now())
	return &stats, nil
}

// ComputeStats derives the dashboard numbers from the full lists.
// Months are compared in now's location.
func ComputeStats(articles []model.Article, categories []model.Category, now time.Time) DashboardStats {
	stats := DashboardStats{
		TotalArticles:   len(articles),
		TotalCategories: len(categories),
	}

	year, month, _ := now.Date()
	perCategory := make(map[string]int)
	for _, a := range articles {
		if a.Published {
			stats.PublishedArticles++
		} else {
			stats.DraftArticles++
		}
		stats.TotalViews += a.ViewCount
		perCategory[a.Category]++

		if !a.CreatedAt.IsZero() {
			y, m, _ := a.CreatedAt.In(now.Location()).Date()
			if y == year && m == month {
				stats.ThisMonth++
			}
		}
	}

	recent := append([]model.Article(nil), articles...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt.Time)
	})
	stats.Recent = head(recent, dashboardListSize)

	viewed := append([]model.Article(nil), articles...)
	sort.SliceStable(viewed, func(i, j int) bool {
		return viewed[i].ViewCount > viewed[j].ViewCount
	})
	stats.MostViewed = head(viewed, dashboardListSize)

	counts := make([]CategoryCount, 0, len(categories))
	for _, c := range categories {
		counts = append(counts, CategoryCount{Category: c, Count: perCategory[c.Name]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	stats.TopCategories = head(counts, dashboardListSize)

	return stats
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
