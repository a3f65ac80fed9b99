// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeFilename extracts only the base filename, removing any directory
// components. Returns an error if nothing usable remains.
func SanitizeFilename(filename string) (string, error) {
	safe := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(filename, "\\", "/")))
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return safe, nil
}

// SafeJoinPath joins path components and rejects results that escape basePath.
func SafeJoinPath(basePath string, components ...string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(basePath))
	if err != nil {
		return "", fmt.Errorf("invalid base path: %w", err)
	}

	fullPath := filepath.Join(append([]string{absBase}, components...)...)

	// Trailing separator so /uploads-other does not match /uploads
	if fullPath != absBase && !strings.HasPrefix(fullPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: path escapes base directory")
	}

	return fullPath, nil
}
