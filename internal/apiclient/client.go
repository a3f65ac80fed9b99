// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apiclient implements the REST client for the news CMS backend.
//
// All JSON calls go through a single request helper that injects the default
// headers and the bearer token and normalizes error responses. Multipart
// calls (article image, file upload) share the same error normalization.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/store"
	"github.com/olegiv/newsdesk/internal/version"
)

// Request and response limits.
const (
	MaxErrorBodyLen = 64 * 1024 // Error bodies larger than this are truncated before parsing
	HeaderRequestID = "X-Request-Id"
)

// Fallback messages used when an error response has no "message" field.
const (
	DefaultErrorMessage = "An error occurred"
	UploadErrorMessage  = "File upload failed"
)

// ErrNoToken is returned by Login when the backend answers 2xx without a token.
var ErrNoToken = errors.New("login response has no token")

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// Client is a typed client for the backend REST API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	backendURL string
	httpClient *http.Client
	storage    store.Storage
	logger     *slog.Logger
	limiter    *rate.Limiter
	userAgent  string

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithStorage sets the persistent mirror of the auth token. Without it
// the token lives in process memory only.
func WithStorage(s store.Storage) Option {
	return func(c *Client) {
		if s != nil {
			c.storage = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRateLimit limits outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBackendURL sets the host used to resolve relative image URLs.
func WithBackendURL(u string) Option {
	return func(c *Client) {
		c.backendURL = strings.TrimRight(u, "/")
	}
}

// New creates a client for the API rooted at baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:    baseURL,
		backendURL: strings.TrimSuffix(baseURL, "/api"),
		httpClient: &http.Client{},
		storage:    store.NewMemoryStorage(nil),
		logger:     slog.New(slog.DiscardHandler),
		userAgent:  version.Current().UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoadToken restores the token from persistent storage.
// A missing token is not an error.
func (c *Client) LoadToken(ctx context.Context) error {
	token, err := c.storage.Get(ctx, model.KeyAuthToken)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading auth token: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

// SetToken sets the bearer token and mirrors it to storage.
func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if err := c.storage.Set(ctx, model.KeyAuthToken, token); err != nil {
		return fmt.Errorf("persisting auth token: %w", err)
	}
	return nil
}

// ClearToken removes the bearer token from memory and storage.
// Subsequent requests carry no Authorization header.
func (c *Client) ClearToken(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	if err := c.storage.Delete(ctx, model.KeyAuthToken); err != nil {
		return fmt.Errorf("removing auth token: %w", err)
	}
	return nil
}

// Token returns the current bearer token, or "" if none.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// HasToken reports whether a bearer token is set.
func (c *Client) HasToken() bool {
	return c.Token() != ""
}

// ImageURL resolves an image URL returned by the backend.
// Absolute URLs are returned unchanged, relative ones are prefixed with the
// backend host, and an empty value stays empty.
func (c *Client) ImageURL(raw string) string {
	return ResolveImageURL(c.backendURL, raw)
}

// ResolveImageURL is ImageURL for an explicit backend host.
func ResolveImageURL(backendURL, raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimRight(backendURL, "/") + raw
}
