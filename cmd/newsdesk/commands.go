// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/newsdesk/internal/i18n"
	"github.com/olegiv/newsdesk/internal/imaging"
	"github.com/olegiv/newsdesk/internal/mockapi"
	"github.com/olegiv/newsdesk/internal/model"
)

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.err)
	return fs
}

// parse parses args and turns flag errors into usage errors.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage(fmt.Sprintf("%s: %v", fs.Name(), err))
	}
	return nil
}

// readLine prompts on the output and reads one line of input.
func (a *app) readLine(prompt string) string {
	a.printf("%s: ", prompt)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	username := fs.String("username", "", "Username")
	password := fs.String("password", "", "Password (prompted when empty)")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *username == "" {
		*username = a.readLine(a.t("auth.username"))
	}
	if *password == "" {
		*password = a.readLine(a.t("auth.password"))
	}

	if !a.session.Login(ctx, *username, *password) {
		return errUsage(a.t("auth.login_failed"))
	}
	a.audit(ctx, "login succeeded", map[string]any{"username": *username})
	a.println(a.t("auth.login_success"))
	return nil
}

func (a *app) cmdLogout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.audit(ctx, "logged out", nil)
	a.println(a.t("auth.logged_out"))
	return nil
}

// audit records a session change in the event log.
func (a *app) audit(ctx context.Context, message string, metadata map[string]any) {
	if err := a.events.LogInfo(ctx, model.EventCategoryAuth, message, metadata); err != nil {
		a.logger.Debug("failed to record audit event", "message", message, "error", err)
	}
}

func (a *app) cmdStatus() error {
	state := a.session.State()

	authenticated := a.t("status.no")
	if state.Authenticated {
		authenticated = a.t("status.yes")
	}

	tw := newTable(a.out)
	row(tw, a.t("status.authenticated"), authenticated)
	token := a.t("status.no")
	if a.client.HasToken() {
		token = a.t("status.yes")
	}
	row(tw, a.t("status.token"), token)
	row(tw, a.t("status.language"), string(state.Language))
	row(tw, a.t("status.theme"), string(state.Theme))
	row(tw, a.t("status.backend"), a.client.BaseURL())
	row(tw, a.t("status.cache"), a.cacheSummary())
	return tw.Flush()
}

func (a *app) cmdLang(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println(a.t("msg.language_current", a.session.Language()))
		return nil
	}

	lang := model.Language(strings.ToLower(args[0]))
	if matched, ok := i18n.MatchLanguage(args[0]); ok {
		lang = model.Language(matched)
	}
	if err := a.session.SetLanguage(ctx, lang); err != nil {
		return err
	}
	a.println(a.t("msg.language_set", lang))
	return nil
}

func (a *app) cmdTheme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println(a.t("msg.theme_current", a.session.Theme()))
		return nil
	}

	var theme model.Theme
	if strings.EqualFold(args[0], "toggle") {
		t, err := a.session.ToggleTheme(ctx)
		if err != nil {
			return err
		}
		theme = t
	} else {
		theme = model.Theme(strings.ToLower(args[0]))
		if err := a.session.SetTheme(ctx, theme); err != nil {
			return err
		}
	}
	a.println(a.t("msg.theme_set", theme))
	return nil
}

func (a *app) cmdUpload(ctx context.Context, args []string) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	fs := a.flagSet("upload")
	noResize := fs.Bool("no-resize", false, "Upload images unchanged")
	if err := parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage("usage: newsdesk upload [-no-resize] <file>")
	}

	upload, err := model.OpenUpload(fs.Arg(0))
	if err != nil {
		return err
	}
	if !*noResize {
		prepared, _, err := imaging.Prepare(upload, imaging.Options{})
		if err != nil {
			return err
		}
		upload = prepared
	}

	resp, err := a.client.UploadFile(ctx, upload)
	if err != nil {
		return err
	}
	a.println(a.t("msg.uploaded", a.client.ImageURL(resp.URL)))
	return nil
}

func (a *app) cmdStats(ctx context.Context) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	stats, err := a.stats.Dashboard(ctx)
	if err != nil {
		return err
	}

	a.println(a.t("stats.title"))
	tw := newTable(a.out)
	row(tw, a.t("stats.total_articles"), fmt.Sprint(stats.TotalArticles),
		a.t("stats.published_drafts", stats.PublishedArticles, stats.DraftArticles))
	row(tw, a.t("stats.categories"), fmt.Sprint(stats.TotalCategories), a.t("stats.active_categories"))
	row(tw, a.t("stats.total_views"), stats.FormattedViews(), a.t("stats.all_articles"))
	row(tw, a.t("stats.this_month"), fmt.Sprint(stats.ThisMonth), a.t("stats.new_articles"))
	if err := tw.Flush(); err != nil {
		return err
	}

	a.printf("\n%s\n", a.t("stats.recent"))
	if err := a.printArticles(stats.Recent); err != nil {
		return err
	}

	a.printf("\n%s\n", a.t("stats.most_viewed"))
	if err := a.printArticles(stats.MostViewed); err != nil {
		return err
	}

	a.printf("\n%s\n", a.t("stats.popular_categories"))
	tw = newTable(a.out)
	for _, c := range stats.TopCategories {
		row(tw, c.Category.Name, fmt.Sprint(c.Count))
	}
	return tw.Flush()
}

func (a *app) cmdEvents(ctx context.Context, args []string) error {
	fs := a.flagSet("events")
	limit := fs.Int("limit", 20, "Number of events to show")
	offset := fs.Int("offset", 0, "Number of events to skip")
	prune := fs.Duration("prune", 0, "Delete events older than this duration instead of listing")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *prune > 0 {
		n, err := a.events.DeleteOldEvents(ctx, *prune)
		if err != nil {
			return err
		}
		a.println(a.t("events.pruned", n))
		return nil
	}

	page, err := a.events.List(ctx, *limit, *offset)
	if err != nil {
		return err
	}
	if len(page.Events) == 0 {
		a.println(a.t("events.empty"))
		return nil
	}

	tw := newTable(a.out)
	for _, e := range page.Events {
		row(tw, e.CreatedAt.Local().Format(time.DateTime), e.Level, e.Category, e.Message)
	}
	return tw.Flush()
}

func (a *app) cmdMock(ctx context.Context, args []string) error {
	fs := a.flagSet("mock")
	addr := fs.String("addr", a.cfg.MockAddr, "Listen address")
	uploads := fs.String("uploads", "", "Directory for uploaded files (memory when empty)")
	noSeed := fs.Bool("no-seed", false, "Start without sample data")
	if err := parse(fs, args); err != nil {
		return err
	}

	srv := mockapi.New(mockapi.Options{
		Username:   a.cfg.MockUsername,
		Password:   a.cfg.MockPassword,
		UploadsDir: *uploads,
		Seed:       !*noSeed,
		Logger:     a.logger,
	})

	a.println(a.t("msg.mock_listening", *addr))
	return srv.ListenAndServe(ctx, *addr)
}
