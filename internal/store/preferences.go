// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Storage.Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// Storage is a persistent string key/value store.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

const getPreference = `SELECT value FROM preferences WHERE key = ?`

// GetPreference returns the stored value for key or sql.ErrNoRows.
func (q *Queries) GetPreference(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getPreference, key).Scan(&value)
	return value, err
}

const upsertPreference = `INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// UpsertPreference inserts or replaces the value for key.
func (q *Queries) UpsertPreference(ctx context.Context, key, value string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, upsertPreference, key, value, updatedAt)
	return err
}

const deletePreference = `DELETE FROM preferences WHERE key = ?`

// DeletePreference removes key. Removing a missing key is not an error.
func (q *Queries) DeletePreference(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deletePreference, key)
	return err
}

// Preferences is a Storage backed by the preferences table.
type Preferences struct {
	queries *Queries
}

// NewPreferences creates a Storage over the state database.
func NewPreferences(db *sql.DB) *Preferences {
	return &Preferences{queries: New(db)}
}

// Get implements Storage.
func (p *Preferences) Get(ctx context.Context, key string) (string, error) {
	value, err := p.queries.GetPreference(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading preference %q: %w", key, err)
	}
	return value, nil
}

// Set implements Storage.
func (p *Preferences) Set(ctx context.Context, key, value string) error {
	if err := p.queries.UpsertPreference(ctx, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}
	return nil
}

// Delete implements Storage.
func (p *Preferences) Delete(ctx context.Context, key string) error {
	if err := p.queries.DeletePreference(ctx, key); err != nil {
		return fmt.Errorf("deleting preference %q: %w", key, err)
	}
	return nil
}

var _ Storage = (*Preferences)(nil)
