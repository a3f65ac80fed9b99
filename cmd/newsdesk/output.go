// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/olegiv/newsdesk/internal/content"
	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/util"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func row(w io.Writer, cols ...string) {
	_, _ = io.WriteString(w, strings.Join(cols, "\t")+"\n")
}

func formatDate(ts model.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(time.DateOnly)
}

// excerptLength is the width of the body column in article tables.
const excerptLength = 40

func (a *app) articleStatus(article model.Article) string {
	if article.IsDraft() {
		return a.t("article.draft")
	}
	return a.t("article.published")
}

func (a *app) printArticles(articles []model.Article) error {
	tw := newTable(a.out)
	row(tw, a.t("field.id"), a.t("article.title"), a.t("article.category"),
		a.t("article.published"), a.t("article.view_count"), a.t("field.created_at"),
		a.t("article.excerpt"))
	for _, article := range articles {
		row(tw,
			strconv.FormatInt(article.ID, 10),
			article.Title,
			article.Category,
			a.articleStatus(article),
			util.FormatCount(article.ViewCount),
			formatDate(article.CreatedAt),
			content.Excerpt(article.Content, excerptLength),
		)
	}
	return tw.Flush()
}

func (a *app) printCategories(categories []model.Category) error {
	tw := newTable(a.out)
	row(tw, a.t("field.id"), a.t("category.name"), a.t("category.slug"),
		a.t("category.articles_count"), a.t("category.description"))
	for _, c := range categories {
		row(tw,
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Slug,
			strconv.FormatInt(c.ArticlesCount, 10),
			c.Description,
		)
	}
	return tw.Flush()
}
