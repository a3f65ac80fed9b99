// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mockapi implements an in-memory news CMS backend with the same
// REST surface as the real one. It backs the client tests and the
// `newsdesk mock` command for local development.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/olegiv/newsdesk/internal/auth"
	"github.com/olegiv/newsdesk/internal/model"
)

// Defaults for Options.
const (
	DefaultUsername      = "admin"
	DefaultPassword      = "admin"
	DefaultMaxUploadSize = 10 << 20
	UploadsPath          = "/uploads/"
)

// Options configures a Server.
type Options struct {
	Username      string
	Password      string
	UploadsDir    string // Uploaded files are kept in memory when empty
	MaxUploadSize int64
	Seed          bool // Start with sample categories and articles
	Logger        *slog.Logger
	Now           func() time.Time

	// Login protection
	MaxLoginAttempts int           // Failures before a username is locked, 0 = DefaultMaxLoginAttempts
	LockoutDuration  time.Duration // Doubles with each lockout, 0 = DefaultLockoutDuration
	LoginRateLimit   float64       // Login requests per second per IP, 0 disables
}

// Server is the mock backend.
type Server struct {
	opts    Options
	logger  *slog.Logger
	data    *data
	uploads *uploadStore
	guard   *loginGuard

	// Only the hash of the configured password is kept
	passwordHash string

	mu     sync.RWMutex
	tokens map[string]string // token -> username
}

// New creates a mock backend.
func New(opts Options) *Server {
	if opts.Username == "" {
		opts.Username = DefaultUsername
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = DefaultMaxUploadSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		opts:    opts,
		logger:  logger,
		data:    newData(opts.Now),
		uploads: newUploadStore(opts.UploadsDir),
		guard:   newLoginGuard(opts.MaxLoginAttempts, opts.LockoutDuration, opts.LoginRateLimit, opts.Now),
		tokens:  make(map[string]string),
	}

	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		logger.Error("failed to hash mock password, logins will fail", "category", model.EventCategoryAuth, "error", err)
	}
	s.passwordHash = hash
	s.opts.Password = ""
	if opts.Seed {
		s.data.seed()
	}
	return s
}

// Handler returns the HTTP handler serving /api and /uploads.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get(UploadsPath+"{name}", s.serveUpload)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.login)

		// Reads are public
		r.Get("/articles", s.listArticles)
		r.Get("/articles/categories", s.listArticleCategories)
		r.Get("/articles/slug/{slug}", s.getArticleBySlug)
		r.Get("/articles/{id}", s.getArticle)
		r.Get("/categories", s.listCategories)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/articles", s.createArticle)
			r.Post("/articles/with-image", s.createArticleWithImage)
			r.Put("/articles/{id}", s.updateArticle)
			r.Put("/articles/{id}/with-image", s.updateArticleWithImage)
			r.Delete("/articles/{id}", s.deleteArticle)

			r.Post("/categories", s.createCategory)
			r.Put("/categories/{id}", s.updateCategory)
			r.Delete("/categories/{id}", s.deleteCategory)

			r.Post("/upload", s.upload)
		})
	})

	return r
}

// ListenAndServe serves the mock backend on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mock backend: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// IssueToken creates a valid token without going through login.
func (s *Server) IssueToken(username string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.tokens[token] = username
	s.mu.Unlock()
	return token
}

func (s *Server) validToken(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tokens[token]
	return ok
}

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			WriteUnauthorized(w, "Missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			WriteUnauthorized(w, "Invalid Authorization header format. Use: Bearer <token>")
			return
		}

		if !s.validToken(parts[1]) {
			WriteUnauthorized(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
