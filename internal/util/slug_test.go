// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"with special characters", "Hello, World!", "hello-world"},
		{"with numbers", "Page 123", "page-123"},
		{"with accents", "Café résumé", "cafe-resume"},
		{"with multiple spaces", "Hello   World", "hello-world"},
		{"with tabs and newlines", "Hello\t\nWorld", "hello-world"},
		{"with hyphens", "Hello - World", "hello-world"},
		{"leading and trailing spaces", "  Hello World  ", "hello-world"},
		{"all special characters", "!@#$%^&*()", ""},
		{"german umlauts", "Über München", "uber-munchen"},
		{"russian", "Привет мир", "privet-mir"},
		{"russian headline", "Новости спорта", "novosti-sporta"},
		{"uzbek latin apostrophe", "O'zbekiston yangiliklari", "ozbekiston-yangiliklari"},
		{"empty string", "", ""},
		{"mixed case", "HeLLo WoRLd", "hello-world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.input)
			if result != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSlugify_ProducesValidSlugs(t *testing.T) {
	inputs := []string{"Hello World", "Привет мир", "Café -- résumé", "  a  "}
	for _, in := range inputs {
		if s := Slugify(in); !IsValidSlug(s) {
			t.Errorf("Slugify(%q) = %q is not a valid slug", in, s)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"hello-world", true},
		{"page-123", true},
		{"123", true},
		{"", false},
		{"Hello-World", false},
		{"hello world", false},
		{"hello!world", false},
		{"-hello", false},
		{"hello-", false},
		{"hello--world", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidSlug(tt.input); got != tt.expected {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
