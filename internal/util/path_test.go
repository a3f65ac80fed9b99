// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"photo.jpg", "photo.jpg", false},
		{"/tmp/photo.jpg", "photo.jpg", false},
		{"../../etc/passwd", "passwd", false},
		{`C:\Users\me\photo.png`, "photo.png", false},
		{"..", "", true},
		{"", "", true},
		{"/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	got, err := SafeJoinPath(base, "images", "a.png")
	if err != nil {
		t.Fatalf("SafeJoinPath: %v", err)
	}
	if got != filepath.Join(base, "images", "a.png") {
		t.Errorf("SafeJoinPath = %q", got)
	}

	if _, err := SafeJoinPath(base, "..", "escape.png"); err == nil {
		t.Error("expected traversal error")
	}
	if _, err := SafeJoinPath(base, "../"+filepath.Base(base)+"-other/x"); err == nil {
		t.Error("expected sibling-prefix traversal error")
	}
}
