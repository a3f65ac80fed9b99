// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"strconv"

	"github.com/olegiv/newsdesk/internal/model"
)

const categoriesUsage = "usage: newsdesk categories list|create|update|delete"

func (a *app) cmdCategories(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errUsage(categoriesUsage)
	}

	switch args[0] {
	case "list":
		return a.categoriesList(ctx, args[1:])
	case "create":
		return a.categoriesCreate(ctx, args[1:])
	case "update":
		return a.categoriesUpdate(ctx, args[1:])
	case "delete":
		return a.categoriesDelete(ctx, args[1:])
	default:
		return errUsage(categoriesUsage)
	}
}

func (a *app) categoriesList(ctx context.Context, args []string) error {
	fs := a.flagSet("categories list")
	search := fs.String("search", "", "Filter by name or slug")
	namesOnly := fs.Bool("names", false, "Print only the names used by articles")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *namesOnly {
		names, err := a.client.GetArticleCategories(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			a.println(a.t("category.empty"))
			return nil
		}
		for _, name := range names {
			a.println(name)
		}
		return nil
	}

	categories, err := a.categories.Search(ctx, *search)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		a.println(a.t("category.empty"))
		return nil
	}
	return a.printCategories(categories)
}

func (a *app) categoriesCreate(ctx context.Context, args []string) error {
	fs := a.flagSet("categories create")
	name := fs.String("name", "", "Category name")
	slug := fs.String("slug", "", "URL slug (generated from the name when empty)")
	description := fs.String("description", "", "Description")
	if err := parse(fs, args); err != nil {
		return err
	}

	created, err := a.categories.Create(ctx, model.CreateCategoryDTO{
		Name:        *name,
		Slug:        *slug,
		Description: *description,
	})
	if err != nil {
		return err
	}
	a.println(a.t("category.created", created.Name))
	return nil
}

func (a *app) categoriesUpdate(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("usage: newsdesk categories update <id> [flags]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return model.ValidationErrors{"id": model.ValidationInvalidID}
	}

	fs := a.flagSet("categories update")
	name := fs.String("name", "", "Category name")
	slug := fs.String("slug", "", "URL slug")
	description := fs.String("description", "", "Description")
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	var dto model.UpdateCategoryDTO
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			dto.Name = name
		case "slug":
			dto.Slug = slug
		case "description":
			dto.Description = description
		}
	})

	updated, err := a.categories.Update(ctx, id, dto)
	if err != nil {
		return err
	}
	a.println(a.t("category.updated", updated.Name))
	return nil
}

func (a *app) categoriesDelete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("usage: newsdesk categories delete <id|name|slug>")
	}

	id, err := a.categories.Resolve(ctx, args[0])
	if err != nil {
		return err
	}
	if err := a.categories.Delete(ctx, id); err != nil {
		return err
	}
	a.println(a.t("category.deleted"))
	return nil
}
