// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// Upload is a binary file attached to a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// NewUpload wraps in-memory data as an upload, sniffing the content type
// when the file extension does not give one.
func NewUpload(filename string, data []byte) *Upload {
	ct := mime.TypeByExtension(filepath.Ext(filename))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &Upload{
		Filename:    filepath.Base(filename),
		ContentType: ct,
		Body:        bytes.NewReader(data),
	}
}

// OpenUpload reads a file from disk into an Upload.
func OpenUpload(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return NewUpload(path, data), nil
}
