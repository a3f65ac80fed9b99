// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultAPIBaseURL is the backend host used when NEWSDESK_API_BASE_URL is unset.
const DefaultAPIBaseURL = "http://localhost:8080"

// APIPathPrefix is appended to the base URL to reach the REST API.
const APIPathPrefix = "/api"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL string `env:"NEWSDESK_API_BASE_URL" envDefault:"http://localhost:8080"`
	StatePath  string `env:"NEWSDESK_STATE_PATH" envDefault:"./data/newsdesk.db"`
	Env        string `env:"NEWSDESK_ENV" envDefault:"development"`
	LogLevel   string `env:"NEWSDESK_LOG_LEVEL" envDefault:"warn"`

	// HTTP client configuration
	HTTPTimeout time.Duration `env:"NEWSDESK_HTTP_TIMEOUT" envDefault:"0s"` // 0 disables the timeout
	RateLimit   float64       `env:"NEWSDESK_RATE_LIMIT" envDefault:"0"`    // Requests per second, 0 = unlimited
	RateBurst   int           `env:"NEWSDESK_RATE_BURST" envDefault:"1"`

	// Cache configuration
	RedisURL    string `env:"NEWSDESK_REDIS_URL"`                           // Optional Redis URL for the category cache
	CachePrefix string `env:"NEWSDESK_CACHE_PREFIX" envDefault:"newsdesk:"` // Redis key prefix
	CacheTTL    int    `env:"NEWSDESK_CACHE_TTL" envDefault:"300"`          // Category cache TTL in seconds

	// Mock backend configuration
	MockAddr     string `env:"NEWSDESK_MOCK_ADDR" envDefault:"localhost:8080"`
	MockUsername string `env:"NEWSDESK_MOCK_USERNAME" envDefault:"admin"`
	MockPassword string `env:"NEWSDESK_MOCK_PASSWORD" envDefault:"admin"`
}

// IsDevelopment returns true if the application is running in development mode.
// Development logs are plain text, production logs are JSON.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// APIURL returns the REST API root, e.g. http://localhost:8080/api.
func (c Config) APIURL() string {
	return strings.TrimRight(c.APIBaseURL, "/") + APIPathPrefix
}

// BackendURL returns the backend host without a trailing slash.
// Relative image URLs returned by the API are resolved against it.
func (c Config) BackendURL() string {
	return strings.TrimRight(c.APIBaseURL, "/")
}

// CacheTTLDuration returns the category cache TTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("NEWSDESK_API_BASE_URL must be an absolute http(s) URL, got %q", cfg.APIBaseURL)
	}

	if cfg.Env != "development" && cfg.Env != "production" {
		return nil, fmt.Errorf("NEWSDESK_ENV must be development or production, got %q", cfg.Env)
	}

	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("NEWSDESK_HTTP_TIMEOUT must not be negative, got %s", cfg.HTTPTimeout)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("NEWSDESK_RATE_LIMIT must not be negative, got %v", cfg.RateLimit)
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = 1
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("NEWSDESK_CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}

	return cfg, nil
}
