// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/newsdesk/internal/model"
)

// request performs a JSON call against the API.
// body, when non-nil, is encoded as JSON. headers are merged over the default
// Content-Type. out, when non-nil, receives the decoded response. A 204
// response leaves out untouched.
func (c *Client) request(ctx context.Context, method, endpoint string, body any, headers http.Header, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	return c.send(req, DefaultErrorMessage, out)
}

// multipartRequest sends file as the single part named field. Scalar
// parameters travel in the URL query, never in the body.
func (c *Client) multipartRequest(ctx context.Context, method, endpoint string, query url.Values, field string, file *model.Upload, fallback string, out any) error {
	if file == nil || file.Body == nil {
		return errors.New("multipart request without a file")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := file.Filename
	if filename == "" {
		filename = field
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(filename)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := io.Copy(part, file.Body); err != nil {
		return fmt.Errorf("writing multipart file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	target := c.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req, fallback, out)
}

// send adds the common headers, executes req and decodes the response.
func (c *Client) send(req *http.Request, fallback string, out any) error {
	ctx := req.Context()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("User-Agent", c.userAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", requestID,
			"error", err)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp, fallback)
		apiErr.RequestID = requestID
		c.logger.Warn("api error response",
			"category", categoryForPath(req.URL.Path),
			"method", req.Method,
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"request_id", requestID,
			"message", apiErr.Message)
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decoding %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// decodeError builds an APIError from a non-2xx response, taking the
// message from a JSON body when one can be parsed.
func decodeError(resp *http.Response, fallback string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodyLen))
	if err != nil || len(data) == 0 {
		return apiErr
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}

// categoryForPath maps an API path to an event log category.
func categoryForPath(path string) string {
	switch {
	case strings.Contains(path, "/auth/"):
		return model.EventCategoryAuth
	case strings.Contains(path, "/categories"):
		return model.EventCategoryCategory
	case strings.Contains(path, "/upload"):
		return model.EventCategoryUpload
	default:
		return model.EventCategoryArticle
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
