// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// LoginCredentials is the body of POST /auth/login.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// UploadResponse is the body returned by POST /upload.
type UploadResponse struct {
	URL string `json:"url"`
}
