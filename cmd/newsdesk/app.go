// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/olegiv/newsdesk/internal/apiclient"
	"github.com/olegiv/newsdesk/internal/cache"
	"github.com/olegiv/newsdesk/internal/config"
	"github.com/olegiv/newsdesk/internal/i18n"
	"github.com/olegiv/newsdesk/internal/imaging"
	"github.com/olegiv/newsdesk/internal/logging"
	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/service"
	"github.com/olegiv/newsdesk/internal/session"
	"github.com/olegiv/newsdesk/internal/store"
)

// errNotAuthenticated is returned by commands that need a signed-in session.
var errNotAuthenticated = errors.New("not authenticated")

// errUsage marks a malformed command line.
type errUsage string

func (e errUsage) Error() string { return string(e) }

// app wires the console components for a single command invocation.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	logger *slog.Logger

	cache        cache.Cacher
	cacheBackend string

	client     *apiclient.Client
	session    *session.Store
	categories *service.CategoryService
	editor     *service.ArticleEditor
	stats      *service.StatsService
	events     *service.EventService

	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

func newApp(ctx context.Context, cfg *config.Config, stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	// Ensure the state directory exists
	if dir := filepath.Dir(cfg.StatePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	db, err := store.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("opening state database: %w", err)
	}

	logFormat := logging.FormatJSON
	if cfg.IsDevelopment() {
		logFormat = logging.FormatText
	}
	logger := logging.NewLogger(stderr, logging.ParseLevel(cfg.LogLevel), logFormat, db)
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing i18n: %w", err)
	}

	c, backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	}, logger)

	prefs := store.NewPreferences(db)
	client := apiclient.New(cfg.APIURL(),
		apiclient.WithBackendURL(cfg.BackendURL()),
		apiclient.WithStorage(prefs),
		apiclient.WithLogger(logger),
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
	if err := client.LoadToken(ctx); err != nil {
		logger.Warn("failed to load auth token", "category", model.EventCategoryAuth, "error", err)
	}

	sess := session.New(prefs, client,
		session.WithLogger(logger),
		session.WithThemeApplier(session.ThemeApplierFunc(func(t model.Theme) {
			logger.Debug("theme applied", "theme", t)
		})),
	)
	if err := sess.Load(ctx); err != nil {
		logger.Warn("failed to load session, using defaults", "category", model.EventCategorySystem, "error", err)
	}

	categories := service.NewCategoryService(client, c, cfg.CacheTTLDuration(), logger)
	editor := service.NewArticleEditor(client, categories, logger)
	editor.ImageOptions = &imaging.Options{}

	return &app{
		cfg:          cfg,
		db:           db,
		logger:       logger,
		cache:        c,
		cacheBackend: backend,
		client:       client,
		session:      sess,
		categories:   categories,
		editor:       editor,
		stats:        service.NewStatsService(client),
		events:       service.NewEventService(db),
		in:           bufio.NewReader(stdin),
		out:          stdout,
		err:          stderr,
	}, nil
}

// cacheSummary names the cache backend with its hit and miss counters.
func (a *app) cacheSummary() string {
	sp, ok := a.cache.(cache.StatsProvider)
	if !ok {
		return a.cacheBackend
	}
	stats := sp.Stats()
	return a.t("status.cache_stats", a.cacheBackend, stats.Hits, stats.Misses)
}

func (a *app) close() {
	if sp, ok := a.cache.(cache.StatsProvider); ok {
		stats := sp.Stats()
		a.logger.Debug("cache stats",
			"backend", a.cacheBackend,
			"hits", stats.Hits,
			"misses", stats.Misses,
			"sets", stats.Sets)
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Debug("error closing cache", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Debug("error closing state database", "error", err)
	}
}

// t translates key into the session language.
func (a *app) t(key string, args ...any) string {
	return i18n.T(string(a.session.Language()), key, args...)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(s string) {
	_, _ = fmt.Fprintln(a.out, s)
}

func (a *app) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return errNotAuthenticated
	}
	return nil
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "logout":
		return a.cmdLogout(ctx)
	case "status":
		return a.cmdStatus()
	case "lang":
		return a.cmdLang(ctx, rest)
	case "theme":
		return a.cmdTheme(ctx, rest)
	case "articles":
		return a.cmdArticles(ctx, rest)
	case "categories":
		return a.cmdCategories(ctx, rest)
	case "upload":
		return a.cmdUpload(ctx, rest)
	case "stats":
		return a.cmdStats(ctx)
	case "events":
		return a.cmdEvents(ctx, rest)
	case "mock":
		return a.cmdMock(ctx, rest)
	default:
		return errUsage(a.t("msg.unknown_command", cmd))
	}
}

// describeError renders err for the terminal in the session language.
func (a *app) describeError(err error) string {
	var (
		verrs  model.ValidationErrors
		apiErr *apiclient.APIError
		usage  errUsage
	)

	switch {
	case errors.Is(err, errNotAuthenticated):
		return a.t("auth.required")
	case errors.As(err, &usage):
		return string(usage)
	case errors.As(err, &verrs):
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)

		parts := make([]string, 0, len(fields))
		for _, f := range fields {
			parts = append(parts, f+": "+a.t(verrs[f]))
		}
		return a.t("msg.error") + ": " + strings.Join(parts, "; ")
	case errors.Is(err, service.ErrCategoryNotFound):
		ref := strings.TrimPrefix(err.Error(), service.ErrCategoryNotFound.Error())
		return a.t("category.not_found", strings.TrimPrefix(ref, ": "))
	case apiclient.IsStatus(err, http.StatusUnauthorized):
		return a.t("auth.required")
	case errors.As(err, &apiErr):
		return a.t("msg.error") + ": " + apiErr.Message
	default:
		return a.t("msg.error") + ": " + err.Error()
	}
}
