/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package api is the REST client for the factory backend. All business
// logic lives server-side; this client only fetches snapshots, history,
// and device provisioning state.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
)

var (
	// ErrUnauthorized indicates the API key was missing or rejected.
	ErrUnauthorized = errors.New("api: unauthorized")
	// ErrNotFound indicates the resource does not exist.
	ErrNotFound = errors.New("api: not found")
	// ErrServerError indicates a 5xx response.
	ErrServerError = errors.New("api: server error")
	// ErrUnexpectedStatus indicates any other non-2xx response.
	ErrUnexpectedStatus = errors.New("api: unexpected status")
)

const (
	defaultTimeout = 10 * time.Second

	headerAPIKey = "X-API-Key"
)

// Client talks to the backend REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient builds a client for the given base URL. The API key is
// optional; when set it is sent on every request.
func NewClient(baseURL, apiKey string, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log,
	}
}

// GetLines fetches the full current line snapshot. Used at load and on
// every reconnect, since the push channel does not replay missed events.
func (c *Client) GetLines(ctx context.Context) ([]models.LineUpdate, error) {
	var lines []models.LineUpdate
	if err := c.get(ctx, "/api/lines", nil, &lines); err != nil {
		return nil, err
	}

	return lines, nil
}

// ListDevices fetches all provisioned devices.
func (c *Client) ListDevices(ctx context.Context) ([]models.Device, error) {
	var devices []models.Device
	if err := c.get(ctx, "/api/devices", nil, &devices); err != nil {
		return nil, err
	}

	return devices, nil
}

// CreateDevice provisions a MAC-to-line binding.
func (c *Client) CreateDevice(ctx context.Context, device models.Device) error {
	return c.send(ctx, http.MethodPost, "/api/devices", device)
}

// DeleteDevice removes a device by MAC address.
func (c *Client) DeleteDevice(ctx context.Context, mac string) error {
	return c.send(ctx, http.MethodDelete, "/api/devices/"+url.PathEscape(mac), nil)
}

// HistoryToday fetches today's resolved faults.
func (c *Client) HistoryToday(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if err := c.get(ctx, "/api/history_today", nil, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// HistoryStats fetches resolved faults between two dates (inclusive).
func (c *Client) HistoryStats(ctx context.Context, start, end time.Time) ([]models.HistoryEntry, error) {
	query := url.Values{
		"start_date": {start.Format("2006-01-02")},
		"end_date":   {end.Format("2006-01-02")},
	}

	var entries []models.HistoryEntry
	if err := c.get(ctx, "/api/history_stats", query, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Events fetches the newest raw events, capped by limit.
func (c *Client) Events(ctx context.Context, limit int) ([]models.RawEvent, error) {
	query := url.Values{"limit": {fmt.Sprintf("%d", limit)}}

	var events []models.RawEvent
	if err := c.get(ctx, "/api/events", query, &events); err != nil {
		return nil, err
	}

	return events, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decoding %s: %w", path, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload interface{}) error {
	var body io.Reader

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: encoding request: %w", err)
		}

		body = bytes.NewReader(data)
	}

	_, err := c.do(ctx, method, path, nil, body)

	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.apiKey != "" {
		req.Header.Set(headerAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: reading response: %w", err)
	}

	if err := statusError(resp.StatusCode); err != nil {
		c.logger.Debug().Int("status", resp.StatusCode).Str("path", path).Msg("Request failed")
		return nil, fmt.Errorf("%w: %s %s returned %d", err, method, path, resp.StatusCode)
	}

	return data, nil
}

func statusError(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return ErrServerError
	default:
		return ErrUnexpectedStatus
	}
}
