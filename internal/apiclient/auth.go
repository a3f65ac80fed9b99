// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"

	"github.com/olegiv/newsdesk/internal/model"
)

// Login authenticates against POST /auth/login and stores the returned token.
func (c *Client) Login(ctx context.Context, creds model.LoginCredentials) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.request(ctx, http.MethodPost, "/auth/login", creds, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}

	if err := c.SetToken(ctx, resp.Token); err != nil {
		return nil, err
	}

	c.logger.Info("logged in", "category", model.EventCategoryAuth, "username", creds.Username)
	return &resp, nil
}
