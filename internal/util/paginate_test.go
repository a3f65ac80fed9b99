// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23}

	p := Paginate(items, 1, 10)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, p.Items)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 23, p.Total)
	assert.True(t, p.HasNext())
	assert.False(t, p.HasPrev())

	p = Paginate(items, 3, 10)
	assert.Equal(t, []int{21, 22, 23}, p.Items)
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())
}

func TestPaginate_Clamping(t *testing.T) {
	items := []string{"a", "b", "c"}

	p := Paginate(items, 99, 2)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, []string{"c"}, p.Items)

	p = Paginate(items, -1, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageLimit, p.Limit)
	assert.Equal(t, items, p.Items)
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 1, 10)
	assert.Empty(t, p.Items)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.Total)
	assert.False(t, p.HasNext())
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", FormatCount(0))
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1.0K", FormatCount(1000))
	assert.Equal(t, "1.5K", FormatCount(1500))
	assert.Equal(t, "12.3K", FormatCount(12345))
}
