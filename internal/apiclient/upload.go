// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"net/http"

	"github.com/olegiv/newsdesk/internal/model"
)

// UploadFile uploads a file as the multipart field "file" and returns the
// URL the backend stored it under.
func (c *Client) UploadFile(ctx context.Context, file *model.Upload) (*model.UploadResponse, error) {
	var resp model.UploadResponse
	if err := c.multipartRequest(ctx, http.MethodPost, "/upload", nil, "file", file, UploadErrorMessage, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("file uploaded", "category", model.EventCategoryUpload, "url", resp.URL)
	return &resp, nil
}
