// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for newsdesk packages.
package testutil

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/newsdesk/internal/store"
)

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a logger that discards everything.
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// TestDB opens a migrated state database in a temporary directory.
// It is closed when the test ends.
func TestDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "newsdesk-test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestPreferences returns preference storage backed by a fresh TestDB.
func TestPreferences(t testing.TB) *store.Preferences {
	t.Helper()
	return store.NewPreferences(TestDB(t))
}
