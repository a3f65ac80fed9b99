// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mockapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/newsdesk/internal/model"
	"github.com/olegiv/newsdesk/internal/util"
)

type storedFile struct {
	contentType string
	data        []byte
}

// uploadStore keeps uploaded files in memory, or on disk when dir is set.
type uploadStore struct {
	dir string

	mu    sync.RWMutex
	files map[string]storedFile
}

func newUploadStore(dir string) *uploadStore {
	return &uploadStore{dir: dir, files: make(map[string]storedFile)}
}

// save stores data under a fresh name that keeps the original extension.
func (u *uploadStore) save(filename, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.NewString() + ext

	if u.dir != "" {
		path, err := util.SafeJoinPath(u.dir, name)
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(u.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating uploads dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("writing upload: %w", err)
		}
		return name, nil
	}

	u.mu.Lock()
	u.files[name] = storedFile{contentType: contentType, data: data}
	u.mu.Unlock()
	return name, nil
}

func (u *uploadStore) open(name string) (storedFile, error) {
	safe, err := util.SanitizeFilename(name)
	if err != nil {
		return storedFile{}, err
	}

	if u.dir != "" {
		path, err := util.SafeJoinPath(u.dir, safe)
		if err != nil {
			return storedFile{}, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return storedFile{}, err
		}
		ct := mime.TypeByExtension(filepath.Ext(safe))
		if ct == "" {
			ct = http.DetectContentType(data)
		}
		return storedFile{contentType: ct, data: data}, nil
	}

	u.mu.RLock()
	defer u.mu.RUnlock()
	f, ok := u.files[safe]
	if !ok {
		return storedFile{}, os.ErrNotExist
	}
	return f, nil
}

// receiveFile reads the multipart part named field and stores it.
// On failure the response is written and ok is false.
func (s *Server) receiveFile(w http.ResponseWriter, r *http.Request, field string) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	if err := r.ParseMultipartForm(s.opts.MaxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "File too large", nil)
			return "", false
		}
		WriteBadRequest(w, "Invalid multipart body", nil)
		return "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		WriteValidationError(w, map[string]string{field: "File is required"})
		return "", false
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		WriteInternalError(w, "Failed to read file")
		return "", false
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(buf.Bytes())
	}

	name, err := s.uploads.save(header.Filename, contentType, buf.Bytes())
	if err != nil {
		s.logger.Error("failed to store upload", "category", model.EventCategoryUpload, "error", err)
		WriteInternalError(w, "Failed to store file")
		return "", false
	}

	return UploadsPath + name, true
}

// upload handles POST /api/upload
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	url, ok := s.receiveFile(w, r, "file")
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, model.UploadResponse{URL: url})
}

// serveUpload handles GET /uploads/{name}
func (s *Server) serveUpload(w http.ResponseWriter, r *http.Request) {
	f, err := s.uploads.open(chi.URLParam(r, "name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Content-Length", fmt.Sprint(len(f.data)))
	_, _ = w.Write(f.data)
}
