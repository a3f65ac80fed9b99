// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mockapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/olegiv/newsdesk/internal/auth"
	"github.com/olegiv/newsdesk/internal/model"
)

// login handles POST /api/auth/login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if !s.guard.allowIP(r) {
		WriteTooManyRequests(w, "Too many login requests", 0)
		return
	}

	var creds model.LoginCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if remaining := s.guard.locked(creds.Username); remaining > 0 {
		WriteTooManyRequests(w, "Account temporarily locked, try again later", remaining)
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(s.opts.Username)) == 1
	passOK, err := auth.CheckPassword(creds.Password, s.passwordHash)
	if err != nil {
		s.logger.Error("mock password check failed", "category", model.EventCategoryAuth, "error", err)
		WriteInternalError(w, "Login unavailable")
		return
	}

	if !userOK || !passOK {
		if d := s.guard.failed(creds.Username); d > 0 {
			s.logger.Warn("mock account locked",
				"category", model.EventCategoryAuth,
				"username", creds.Username,
				"duration", d)
		}
		s.logger.Warn("mock login rejected", "category", model.EventCategoryAuth, "username", creds.Username)
		WriteUnauthorized(w, "Invalid username or password")
		return
	}

	s.guard.succeeded(creds.Username)
	WriteJSON(w, http.StatusOK, model.LoginResponse{Token: s.IssueToken(creds.Username)})
}
