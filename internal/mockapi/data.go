// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/newsdesk/internal/model"
)

// article is the stored form of an article; categories are referenced by ID.
type article struct {
	ID         int64
	Title      string
	Slug       string
	Content    string
	ImageURL   string
	ViewCount  int64
	Published  bool
	CategoryID int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// data is the in-memory content store.
type data struct {
	mu         sync.RWMutex
	articles   map[int64]*article
	categories map[int64]*category
	nextID     int64
	now        func() time.Time
}

func newData(now func() time.Time) *data {
	return &data{
		articles:   make(map[int64]*article),
		categories: make(map[int64]*category),
		now:        now,
	}
}

func (d *data) id() int64 {
	d.nextID++
	return d.nextID
}

// toModel converts a stored article. Callers hold at least the read lock.
func (d *data) toModel(a *article) model.Article {
	out := model.Article{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Content:   a.Content,
		ImageURL:  a.ImageURL,
		ViewCount: a.ViewCount,
		Published: a.Published,
		CreatedAt: model.NewTimestamp(a.CreatedAt),
		UpdatedAt: model.NewTimestamp(a.UpdatedAt),
	}
	if c, ok := d.categories[a.CategoryID]; ok {
		out.Category = c.Name
	}
	return out
}

// categoryToModel converts a stored category. Callers hold at least the read lock.
func (d *data) categoryToModel(c *category) model.Category {
	var count int64
	for _, a := range d.articles {
		if a.CategoryID == c.ID {
			count++
		}
	}
	return model.Category{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Description:   c.Description,
		ArticlesCount: count,
		CreatedAt:     model.NewTimestamp(c.CreatedAt),
		UpdatedAt:     model.NewTimestamp(c.UpdatedAt),
	}
}

// articleQuery is the parsed filter of GET /articles.
type articleQuery struct {
	Search     string
	Published  *bool
	CategoryID int64
	SortBy     string
	Order      string
}

func (d *data) listArticles(q articleQuery) []model.Article {
	d.mu.RLock()
	defer d.mu.RUnlock()

	search := strings.ToLower(q.Search)
	out := make([]model.Article, 0, len(d.articles))
	for _, a := range d.articles {
		if q.Published != nil && a.Published != *q.Published {
			continue
		}
		if q.CategoryID != 0 && a.CategoryID != q.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Content), search) {
			continue
		}
		out = append(out, d.toModel(a))
	}

	sortArticles(out, q.SortBy, q.Order)
	return out
}

// sortArticles sorts by createdAt descending unless told otherwise.
func sortArticles(items []model.Article, sortBy, order string) {
	desc := order != model.OrderAsc
	less := func(i, j int) bool {
		var lt, gt bool
		switch sortBy {
		case model.SortByTitle:
			lt, gt = items[i].Title < items[j].Title, items[i].Title > items[j].Title
		case model.SortByViewCount:
			lt, gt = items[i].ViewCount < items[j].ViewCount, items[i].ViewCount > items[j].ViewCount
		default:
			lt, gt = items[i].CreatedAt.Before(items[j].CreatedAt.Time), items[i].CreatedAt.After(items[j].CreatedAt.Time)
		}
		if !lt && !gt {
			return items[i].ID < items[j].ID
		}
		if desc {
			return gt
		}
		return lt
	}
	sort.SliceStable(items, less)
}

func (d *data) categoryNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.categories))
	for _, c := range d.categories {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func (d *data) listCategories() []model.Category {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]model.Category, 0, len(d.categories))
	for _, c := range d.categories {
		out = append(out, d.categoryToModel(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *data) articleSlugTaken(slug string, exceptID int64) bool {
	for _, a := range d.articles {
		if a.Slug == slug && a.ID != exceptID {
			return true
		}
	}
	return false
}

func (d *data) categorySlugTaken(slug string, exceptID int64) bool {
	for _, c := range d.categories {
		if c.Slug == slug && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (d *data) articleBySlug(slug string) *article {
	for _, a := range d.articles {
		if a.Slug == slug {
			return a
		}
	}
	return nil
}

// seed fills the store with a few categories and articles.
func (d *data) seed() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	cats := []struct{ name, slug, desc string }{
		{"Siyosat", "siyosat", "Siyosiy yangiliklar"},
		{"Sport", "sport", "Sport yangiliklari"},
		{"Texnologiya", "texnologiya", "Texnologiya va IT"},
	}
	ids := make([]int64, len(cats))
	for i, c := range cats {
		id := d.id()
		ids[i] = id
		d.categories[id] = &category{
			ID: id, Name: c.name, Slug: c.slug, Description: c.desc,
			CreatedAt: now.AddDate(0, -2, 0), UpdatedAt: now.AddDate(0, -2, 0),
		}
	}

	arts := []struct {
		title, slug string
		cat         int
		views       int64
		published   bool
		age         time.Duration
	}{
		{"Yangi stadion ochildi", "yangi-stadion-ochildi", 1, 1520, true, 72 * time.Hour},
		{"Sun'iy intellekt bo'yicha konferensiya", "suniy-intellekt-konferensiya", 2, 840, true, 48 * time.Hour},
		{"Parlament sessiyasi", "parlament-sessiyasi", 0, 310, true, 24 * time.Hour},
		{"Yangi smartfon taqdimoti", "yangi-smartfon-taqdimoti", 2, 0, false, time.Hour},
	}
	for _, a := range arts {
		id := d.id()
		created := now.Add(-a.age)
		d.articles[id] = &article{
			ID: id, Title: a.title, Slug: a.slug,
			Content:    "<p>" + a.title + "</p>",
			ViewCount:  a.views,
			Published:  a.published,
			CategoryID: ids[a.cat],
			CreatedAt:  created,
			UpdatedAt:  created,
		}
	}
}
