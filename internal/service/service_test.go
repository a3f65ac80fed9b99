// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/newsdesk/internal/apiclient"
	"github.com/olegiv/newsdesk/internal/cache"
	"github.com/olegiv/newsdesk/internal/mockapi"
	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/testutil"
)

// fakeCategoryAPI serves a fixed category list and counts list calls.
type fakeCategoryAPI struct {
	categories []model.Category
	listCalls  atomic.Int32
	created    []model.CreateCategoryDTO
	updated    []model.UpdateCategoryDTO
	deleted    []int64
	err        error
}

func (f *fakeCategoryAPI) GetCategoriesDetailed(context.Context) ([]model.Category, error) {
	f.listCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeCategoryAPI) CreateCategory(_ context.Context, dto model.CreateCategoryDTO) (*model.Category, error) {
	f.created = append(f.created, dto)
	c := model.Category{ID: int64(len(f.categories) + 1), Name: dto.Name, Slug: dto.Slug}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeCategoryAPI) UpdateCategory(_ context.Context, id int64, dto model.UpdateCategoryDTO) (*model.Category, error) {
	f.updated = append(f.updated, dto)
	return &model.Category{ID: id}, nil
}

func (f *fakeCategoryAPI) DeleteCategory(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func newMemoryCache(t *testing.T) cache.Cacher {
	t.Helper()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Siyosat", Slug: "siyosat", ArticlesCount: 3},
		{ID: 2, Name: "Sport", Slug: "sport", ArticlesCount: 5},
		{ID: 3, Name: "Texnologiya", Slug: "texnologiya", ArticlesCount: 1},
	}
}

// newMockClient starts a seeded mock backend and returns a logged-in client.
func newMockClient(t *testing.T) *apiclient.Client {
	t.Helper()
	srv := mockapi.New(mockapi.Options{Seed: true, Logger: testutil.TestLogger()})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c := apiclient.New(ts.URL + "/api")
	_, err := c.Login(context.Background(), model.LoginCredentials{
		Username: mockapi.DefaultUsername,
		Password: mockapi.DefaultPassword,
	})
	require.NoError(t, err)
	return c
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
