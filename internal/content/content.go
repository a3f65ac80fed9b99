// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content converts article bodies written in the console to the
// HTML stored by the backend.
package content

import (
	"bytes"
	"fmt"
	gohtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Format is the markup of an article body.
type Format string

// Supported formats.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat maps a flag value to a Format. Empty means HTML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown content format %q", s)
	}
}

// htmlSanitizer allows the markup of user-generated content and strips
// scripts, event handlers and similar.
var htmlSanitizer = bluemonday.UGCPolicy()

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts Markdown to HTML. Raw HTML in the source is kept;
// pass the result through Sanitize before sending it anywhere.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// Sanitize removes unsafe markup from HTML.
func Sanitize(htmlSrc string) string {
	return htmlSanitizer.Sanitize(htmlSrc)
}

// Prepare renders src according to format and sanitizes the result.
func Prepare(src string, format Format) (string, error) {
	out := src
	if format == FormatMarkdown {
		rendered, err := RenderMarkdown(src)
		if err != nil {
			return "", err
		}
		out = rendered
	}
	return strings.TrimSpace(Sanitize(out)), nil
}

// PlainText strips all markup, e.g. for table excerpts.
func PlainText(htmlSrc string) string {
	text := gohtml.UnescapeString(bluemonday.StrictPolicy().Sanitize(htmlSrc))
	return strings.Join(strings.Fields(text), " ")
}

// Excerpt returns the first n runes of the plain text of htmlSrc.
func Excerpt(htmlSrc string, n int) string {
	text := []rune(PlainText(htmlSrc))
	if n <= 0 || len(text) <= n {
		return string(text)
	}
	return strings.TrimSpace(string(text[:n])) + "…"
}
