// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "strconv"

// FormatCount renders large counters compactly: values of 1000 and above
// are shown in thousands with one decimal, e.g. 1500 -> "1.5K".
func FormatCount(n int64) string {
	if n >= 1000 {
		return strconv.FormatFloat(float64(n)/1000, 'f', 1, 64) + "K"
	}
	return strconv.FormatInt(n, 10)
}
