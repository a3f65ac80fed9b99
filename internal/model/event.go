// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryArticle  = "article"
	EventCategoryCategory = "category"
	EventCategoryUpload   = "upload"
	EventCategoryConfig   = "config"
	EventCategoryCache    = "cache"
	EventCategorySystem   = "system"
)

// Event is a local event log entry. WARN and ERROR log records are mirrored
// here so failed backend calls can be reviewed later.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON object
	CreatedAt time.Time
}
