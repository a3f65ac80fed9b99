// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.Open(filepath.Join(t.TempDir(), "logging-test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []model.Event {
	t.Helper()
	events, err := store.New(db).ListEvents(context.Background(), 50, 0)
	require.NoError(t, err)
	return events
}

func TestEventLogHandler_ErrorLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Error("failed to delete article", "id", 42, "status", 500)

	events := listEvents(t, db)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventLevelError, events[0].Level)
	assert.Equal(t, model.EventCategoryArticle, events[0].Category)
	assert.JSONEq(t, `{"id":"42","status":"500"}`, events[0].Metadata)
}

func TestEventLogHandler_InfoNotStored(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("articles listed", "count", 3)
	logger.Debug("request sent")

	assert.Empty(t, listEvents(t, db))
}

func TestEventLogHandler_ExplicitCategory(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("category", model.EventCategoryCache)

	logger.Warn("redis unavailable", "url", "redis://x")

	events := listEvents(t, db)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventCategoryCache, events[0].Category)
	assert.Equal(t, model.EventLevelWarning, events[0].Level)
	assert.JSONEq(t, `{"url":"redis://x"}`, events[0].Metadata)
}

func TestEventLogHandler_InferCategory(t *testing.T) {
	h := &EventLogHandler{}
	tests := []struct {
		msg  string
		want string
	}{
		{"login failed", model.EventCategoryAuth},
		{"article update rejected", model.EventCategoryArticle},
		{"category not found", model.EventCategoryCategory},
		{"image upload failed", model.EventCategoryUpload},
		{"cache miss storm", model.EventCategoryCache},
		{"something else", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			r := slog.NewRecord(testTime, slog.LevelWarn, tt.msg, 0)
			assert.Equal(t, tt.want, h.extractCategory(r))
		})
	}
}

func TestEventLogHandler_RedactsSecrets(t *testing.T) {
	db := testDB(t)
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelDebug, FormatText, db)

	logger.Warn("login failed", "username", "admin", "password", "hunter2", "token", "abc")
	logger.With("authorization", "Bearer abc").Info("request sent")

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "Bearer abc")
	assert.Contains(t, out, "username=admin")
	assert.Contains(t, out, "password="+Redacted)

	events := listEvents(t, db)
	require.Len(t, events, 1)
	assert.NotContains(t, events[0].Metadata, "hunter2")
	assert.Contains(t, events[0].Metadata, Redacted)
}

func TestRedactAttr_Group(t *testing.T) {
	a := redactAttr(slog.Group("req", slog.String("token", "abc"), slog.Int("n", 1)))
	group := a.Value.Group()
	require.Len(t, group, 2)
	assert.Equal(t, Redacted, group[0].Value.String())
	assert.Equal(t, int64(1), group[1].Value.Int64())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewLogger_WithoutDB(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, FormatText, nil)
	logger.Info("hello", "password", "x")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "password="+Redacted)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo, FormatJSON, nil)
	logger.Info("hello", "token", "abc")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"token":"`+Redacted+`"`)
	assert.NotContains(t, buf.String(), "abc")
}

var testTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
