// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/store"
	"github.com/olegiv/newsdesk/internal/testutil"
)

func TestEventService_LogAndList(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogInfo(ctx, model.EventCategoryAuth, "logged in", map[string]any{"user": "admin"}))
	require.NoError(t, svc.LogEvent(ctx, model.EventLevelError, model.EventCategoryArticle, "create failed", nil))

	page, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Events, 2)

	newest := page.Events[0]
	assert.Equal(t, "create failed", newest.Message)
	assert.Equal(t, model.EventLevelError, newest.Level)
	assert.Equal(t, "{}", newest.Metadata)

	oldest := page.Events[1]
	assert.Equal(t, model.EventLevelInfo, oldest.Level)
	assert.Equal(t, model.EventCategoryAuth, oldest.Category)
	assert.JSONEq(t, `{"user":"admin"}`, oldest.Metadata)

	page, err = svc.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "logged in", page.Events[0].Message)
	assert.Equal(t, int64(2), page.Total)
}

func TestEventService_DeleteOldEvents(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewEventService(db)
	ctx := context.Background()

	_, err := store.New(db).CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelWarning,
		Category:  model.EventCategorySystem,
		Message:   "old",
		Metadata:  "{}",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, svc.LogInfo(ctx, model.EventCategorySystem, "fresh", nil))

	removed, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	page, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	assert.Equal(t, "fresh", page.Events[0].Message)
}
