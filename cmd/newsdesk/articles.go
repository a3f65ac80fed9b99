// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olegiv/newsdesk/internal/content"
	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/service"
	"github.com/olegiv/newsdesk/internal/util"
)

const articlesUsage = "usage: newsdesk articles list|get|create|update|delete"

func (a *app) cmdArticles(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errUsage(articlesUsage)
	}

	switch args[0] {
	case "list":
		return a.articlesList(ctx, args[1:])
	case "get":
		return a.articlesGet(ctx, args[1:])
	case "create":
		return a.articlesCreate(ctx, args[1:])
	case "update":
		return a.articlesUpdate(ctx, args[1:])
	case "delete":
		return a.articlesDelete(ctx, args[1:])
	default:
		return errUsage(articlesUsage)
	}
}

func (a *app) articlesList(ctx context.Context, args []string) error {
	fs := a.flagSet("articles list")
	search := fs.String("search", "", "Search in title and content")
	published := fs.String("published", "", "Filter by status: true or false")
	category := fs.String("category", "", "Category ID, name or slug")
	sortBy := fs.String("sort", "", "Sort by createdAt, title or viewCount")
	order := fs.String("order", "", "Sort order: asc or desc")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", util.DefaultPageLimit, "Articles per page")
	if err := parse(fs, args); err != nil {
		return err
	}

	filter := model.ArticlesFilter{
		Search: strings.TrimSpace(*search),
		SortBy: *sortBy,
		Order:  *order,
	}
	if *published != "" {
		p, err := strconv.ParseBool(*published)
		if err != nil {
			return errUsage("-published must be true or false")
		}
		filter.Published = &p
	}
	if *category != "" {
		id, err := a.categories.Resolve(ctx, *category)
		if err != nil {
			return err
		}
		filter.CategoryID = id
	}

	result, err := a.editor.List(ctx, filter, *page, *limit)
	if err != nil {
		return err
	}
	if result.Total == 0 {
		a.println(a.t("article.empty"))
		return nil
	}

	if err := a.printArticles(result.Items); err != nil {
		return err
	}
	a.println(a.t("article.page", result.Page, result.TotalPages, result.Total))
	if result.HasPrev() {
		a.println(a.t("article.prev_page", result.Page-1))
	}
	if result.HasNext() {
		a.println(a.t("article.next_page", result.Page+1))
	}
	return nil
}

func (a *app) articlesGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("usage: newsdesk articles get <id|slug>")
	}

	var (
		article *model.Article
		err     error
	)
	if id, perr := strconv.ParseInt(args[0], 10, 64); perr == nil {
		article, err = a.client.GetArticle(ctx, id)
	} else {
		article, err = a.client.GetArticleBySlug(ctx, args[0])
	}
	if err != nil {
		return err
	}

	tw := newTable(a.out)
	row(tw, a.t("field.id"), strconv.FormatInt(article.ID, 10))
	row(tw, a.t("article.title"), article.Title)
	row(tw, a.t("article.slug"), article.Slug)
	row(tw, a.t("article.category"), article.Category)
	row(tw, a.t("article.published"), a.articleStatus(*article))
	row(tw, a.t("article.view_count"), util.FormatCount(article.ViewCount))
	if article.ImageURL != "" {
		row(tw, a.t("article.image"), a.client.ImageURL(article.ImageURL))
	}
	row(tw, a.t("field.created_at"), formatDate(article.CreatedAt))
	row(tw, a.t("field.updated_at"), formatDate(article.UpdatedAt))
	if err := tw.Flush(); err != nil {
		return err
	}

	a.printf("\n%s\n", content.PlainText(article.Content))
	return nil
}

// articleFlags are the editable fields shared by create and update.
type articleFlags struct {
	title     *string
	slug      *string
	body      *string
	bodyFile  *string
	format    *string
	category  *string
	published *string
	image     *string
	noResize  *bool
}

func addArticleFlags(fs *flag.FlagSet) articleFlags {
	return articleFlags{
		title:     fs.String("title", "", "Article title"),
		slug:      fs.String("slug", "", "URL slug (generated from the title when empty)"),
		body:      fs.String("content", "", "Article content"),
		bodyFile:  fs.String("content-file", "", "Read the content from a file"),
		format:    fs.String("format", string(content.FormatHTML), "Content format: html or markdown"),
		category:  fs.String("category", "", "Category ID, name or slug"),
		published: fs.String("published", "", "Publish the article: true or false"),
		image:     fs.String("image", "", "Image file to attach"),
		noResize:  fs.Bool("no-resize", false, "Attach the image unchanged"),
	}
}

func (f articleFlags) readContent() (string, error) {
	if *f.bodyFile == "" {
		return *f.body, nil
	}
	data, err := os.ReadFile(*f.bodyFile)
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return string(data), nil
}

func (f articleFlags) upload() (*model.Upload, error) {
	if *f.image == "" {
		return nil, nil
	}
	return model.OpenUpload(*f.image)
}

func (a *app) articlesCreate(ctx context.Context, args []string) error {
	fs := a.flagSet("articles create")
	f := addArticleFlags(fs)
	if err := parse(fs, args); err != nil {
		return err
	}

	format, err := content.ParseFormat(*f.format)
	if err != nil {
		return errUsage(err.Error())
	}
	body, err := f.readContent()
	if err != nil {
		return err
	}
	published := false
	if *f.published != "" {
		if published, err = strconv.ParseBool(*f.published); err != nil {
			return errUsage("-published must be true or false")
		}
	}
	image, err := f.upload()
	if err != nil {
		return err
	}
	if *f.noResize {
		a.editor.ImageOptions = nil
	}

	article, err := a.editor.Create(ctx, service.ArticleDraft{
		Title:     *f.title,
		Slug:      *f.slug,
		Content:   body,
		Format:    format,
		Category:  *f.category,
		Published: published,
		Image:     image,
	})
	if err != nil {
		return err
	}
	a.println(a.t("article.created", article.ID))
	return nil
}

func (a *app) articlesUpdate(ctx context.Context, args []string) error {
	fs := a.flagSet("articles update")
	f := addArticleFlags(fs)
	if len(args) == 0 {
		return errUsage("usage: newsdesk articles update <id> [flags]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return model.ValidationErrors{"id": model.ValidationInvalidID}
	}
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	format, err := content.ParseFormat(*f.format)
	if err != nil {
		return errUsage(err.Error())
	}

	patch := service.ArticlePatch{ID: id, Format: format}
	var visitErr error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			patch.Title = f.title
		case "slug":
			patch.Slug = f.slug
		case "content", "content-file":
			body, err := f.readContent()
			if err != nil {
				visitErr = err
				return
			}
			patch.Content = &body
		case "category":
			patch.Category = f.category
		case "published":
			p, err := strconv.ParseBool(*f.published)
			if err != nil {
				visitErr = errUsage("-published must be true or false")
				return
			}
			patch.Published = &p
		}
	})
	if visitErr != nil {
		return visitErr
	}

	if patch.Image, err = f.upload(); err != nil {
		return err
	}
	if *f.noResize {
		a.editor.ImageOptions = nil
	}

	article, err := a.editor.Update(ctx, patch)
	if err != nil {
		return err
	}
	a.println(a.t("article.updated", article.ID))
	return nil
}

func (a *app) articlesDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("usage: newsdesk articles delete <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return model.ValidationErrors{"id": model.ValidationInvalidID}
	}

	if err := a.editor.Delete(ctx, id); err != nil {
		return err
	}
	a.println(a.t("article.deleted"))
	return nil
}
