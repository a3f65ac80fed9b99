// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds the console session: the authentication flag and
// the UI language and theme, persisted as independent key/value entries.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/store"
)

// Authenticator performs the backend login and owns the bearer token.
// *apiclient.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, creds model.LoginCredentials) (*model.LoginResponse, error)
	ClearToken(ctx context.Context) error
}

// ThemeApplier receives theme changes, e.g. to switch terminal colors.
type ThemeApplier interface {
	ApplyTheme(theme model.Theme)
}

// ThemeApplierFunc adapts a function to ThemeApplier.
type ThemeApplierFunc func(theme model.Theme)

// ApplyTheme calls f(theme).
func (f ThemeApplierFunc) ApplyTheme(theme model.Theme) {
	f(theme)
}

// State is a snapshot of the session.
type State struct {
	Authenticated bool
	Language      model.Language
	Theme         model.Theme
}

// DefaultState is the session before anything has been persisted.
func DefaultState() State {
	return State{
		Authenticated: false,
		Language:      model.DefaultLanguage,
		Theme:         model.DefaultTheme,
	}
}

// Store is the session/preference store.
type Store struct {
	storage store.Storage
	auth    Authenticator
	themes  ThemeApplier
	logger  *slog.Logger

	mu    sync.RWMutex
	state State
}

// Option configures a Store.
type Option func(*Store)

// WithThemeApplier sets the collaborator notified of theme changes.
func WithThemeApplier(a ThemeApplier) Option {
	return func(s *Store) {
		s.themes = a
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store backed by storage. auth may be nil when login is not needed.
// Call Load before reading the state.
func New(storage store.Storage, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		auth:    auth,
		logger:  slog.New(slog.DiscardHandler),
		state:   DefaultState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted session. Missing or invalid values fall back to
// the defaults. Storage failures are returned after the defaults are applied.
func (s *Store) Load(ctx context.Context) error {
	state := DefaultState()
	var errs []error

	if v, err := s.get(ctx, model.KeyIsAuthenticated); err != nil {
		errs = append(errs, err)
	} else if v == "true" {
		state.Authenticated = true
	}

	if v, err := s.get(ctx, model.KeyLanguage); err != nil {
		errs = append(errs, err)
	} else if lang := model.Language(v); lang.Valid() {
		state.Language = lang
	}

	if v, err := s.get(ctx, model.KeyTheme); err != nil {
		errs = append(errs, err)
	} else if theme := model.Theme(v); theme.Valid() {
		state.Theme = theme
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.applyTheme(state.Theme)

	return errors.Join(errs...)
}

// get returns "" for a missing key.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	v, err := s.storage.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return v, nil
}

// State returns a snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated returns the authentication flag.
func (s *Store) IsAuthenticated() bool {
	return s.State().Authenticated
}

// Language returns the UI language.
func (s *Store) Language() model.Language {
	return s.State().Language
}

// Theme returns the UI theme.
func (s *Store) Theme() model.Theme {
	return s.State().Theme
}

// Login authenticates through the API client. On success the client has
// stored the token and the authenticated flag is persisted. Any failure is
// reported as false.
func (s *Store) Login(ctx context.Context, username, password string) bool {
	if s.auth == nil {
		s.logger.Error("login without authenticator", "category", model.EventCategoryAuth)
		return false
	}

	if _, err := s.auth.Login(ctx, model.LoginCredentials{Username: username, Password: password}); err != nil {
		s.logger.Warn("login failed",
			"category", model.EventCategoryAuth,
			"username", username,
			"error", err)
		return false
	}

	if err := s.storage.Set(ctx, model.KeyIsAuthenticated, strconv.FormatBool(true)); err != nil {
		s.logger.Error("failed to persist authentication flag",
			"category", model.EventCategoryAuth,
			"error", err)
		// the token must not outlive a login that reports failure
		if clearErr := s.auth.ClearToken(ctx); clearErr != nil {
			s.logger.Error("failed to clear token after login failure",
				"category", model.EventCategoryAuth,
				"error", clearErr)
		}
		return false
	}

	s.mu.Lock()
	s.state.Authenticated = true
	s.mu.Unlock()
	return true
}

// Logout clears the authentication flag, its persisted entry and the
// bearer token. Language and theme are kept.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.state.Authenticated = false
	s.mu.Unlock()

	var errs []error
	if err := s.storage.Delete(ctx, model.KeyIsAuthenticated); err != nil {
		errs = append(errs, fmt.Errorf("removing %s: %w", model.KeyIsAuthenticated, err))
	}
	if s.auth != nil {
		if err := s.auth.ClearToken(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.Info("logged out", "category", model.EventCategoryAuth)
	return errors.Join(errs...)
}

// SetLanguage changes and persists the UI language.
func (s *Store) SetLanguage(ctx context.Context, lang model.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("unsupported language %q", lang)
	}
	if err := s.storage.Set(ctx, model.KeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("persisting language: %w", err)
	}

	s.mu.Lock()
	s.state.Language = lang
	s.mu.Unlock()
	return nil
}

// SetTheme changes and persists the UI theme and forwards it to the
// theme applier.
func (s *Store) SetTheme(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unsupported theme %q", theme)
	}
	if err := s.storage.Set(ctx, model.KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("persisting theme: %w", err)
	}

	s.mu.Lock()
	s.state.Theme = theme
	s.mu.Unlock()

	s.applyTheme(theme)
	return nil
}

// ToggleTheme switches between light and dark and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) (model.Theme, error) {
	next := model.ThemeDark
	if s.Theme() == model.ThemeDark {
		next = model.ThemeLight
	}
	return next, s.SetTheme(ctx, next)
}

func (s *Store) applyTheme(theme model.Theme) {
	if s.themes != nil {
		s.themes.ApplyTheme(theme)
	}
}
