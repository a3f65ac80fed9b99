// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mockapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Login protection defaults.
const (
	DefaultMaxLoginAttempts = 5
	DefaultLockoutDuration  = 15 * time.Minute
	maxLockoutDuration      = 24 * time.Hour
)

// loginAttempt tracks failed logins for one username.
type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int // Number of lockouts so far, doubles the next one
}

// loginGuard locks usernames after repeated failures and optionally rate
// limits login requests per client IP.
type loginGuard struct {
	maxAttempts int
	lockout     time.Duration
	window      time.Duration
	now         func() time.Time

	mu       sync.Mutex
	attempts map[string]*loginAttempt

	// nil when per-IP limiting is disabled
	limiters *limiterCache
}

func newLoginGuard(maxAttempts int, lockout time.Duration, ipRate float64, now func() time.Time) *loginGuard {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	if lockout <= 0 {
		lockout = DefaultLockoutDuration
	}

	g := &loginGuard{
		maxAttempts: maxAttempts,
		lockout:     lockout,
		window:      lockout,
		now:         now,
		attempts:    make(map[string]*loginAttempt),
	}
	if ipRate > 0 {
		g.limiters = newLimiterCache(ipRate, DefaultMaxLoginAttempts)
	}
	return g
}

// allowIP reports whether a login request from r may proceed.
func (g *loginGuard) allowIP(r *http.Request) bool {
	if g.limiters == nil {
		return true
	}
	return g.limiters.get(clientIP(r)).Allow()
}

// locked returns the remaining lockout of username, or 0.
func (g *loginGuard) locked(username string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	a, ok := g.attempts[username]
	if !ok {
		return 0
	}
	if remaining := a.lockedUntil.Sub(g.now()); remaining > 0 {
		return remaining
	}
	return 0
}

// failed records a failed login and returns the lockout it triggered, or 0.
func (g *loginGuard) failed(username string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	a, ok := g.attempts[username]
	if !ok {
		a = &loginAttempt{}
		g.attempts[username] = a
	}
	if a.count == 0 || now.Sub(a.firstFailed) > g.window {
		a.count = 0
		a.firstFailed = now
	}

	a.count++
	if a.count < g.maxAttempts {
		return 0
	}

	d := g.lockout
	for i := 0; i < a.lockouts && d < maxLockoutDuration; i++ {
		d *= 2
	}
	if d > maxLockoutDuration {
		d = maxLockoutDuration
	}

	a.lockedUntil = now.Add(d)
	a.lockouts++
	a.count = 0
	return d
}

// succeeded clears the failure history of username.
func (g *loginGuard) succeeded(username string) {
	g.mu.Lock()
	delete(g.attempts, username)
	g.mu.Unlock()
}

// limiterCache holds one rate limiter per key.
type limiterCache struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLimiterCache(rps float64, burst int) *limiterCache {
	return &limiterCache{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (lc *limiterCache) get(key string) *rate.Limiter {
	lc.mu.RLock()
	limiter, ok := lc.limiters[key]
	lc.mu.RUnlock()
	if ok {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring the write lock
	if limiter, ok = lc.limiters[key]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
