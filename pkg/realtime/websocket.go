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

package realtime

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/factoryline/linewatch/pkg/logger"
)

const (
	streamPath       = "/api/stream"
	handshakeTimeout = 10 * time.Second

	headerAPIKey = "X-API-Key"
)

// WebsocketChannel is the default push transport: one long-lived
// websocket carrying JSON envelopes.
type WebsocketChannel struct {
	url    string
	apiKey string
	dialer *websocket.Dialer
	logger logger.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	done chan struct{}
}

// NewWebsocketChannel derives the stream URL from the server base URL
// (http becomes ws, https becomes wss).
func NewWebsocketChannel(serverURL, apiKey string, log logger.Logger) (*WebsocketChannel, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("realtime: parsing server url %q: %w", serverURL, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("realtime: unsupported server url scheme %q", u.Scheme)
	}

	u.Path = streamPath

	return &WebsocketChannel{
		url:    u.String(),
		apiKey: apiKey,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		logger: log,
	}, nil
}

// Connect dials the stream endpoint. The connection is closed when the
// context is canceled, which unblocks any pending Read.
func (w *WebsocketChannel) Connect(ctx context.Context) error {
	header := http.Header{}
	if w.apiKey != "" {
		header.Set(headerAPIKey, w.apiKey)
	}

	conn, resp, err := w.dialer.DialContext(ctx, w.url, header)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
			return fmt.Errorf("realtime: dialing %s (status %s): %w", w.url, resp.Status, err)
		}

		return fmt.Errorf("realtime: dialing %s: %w", w.url, err)
	}

	done := make(chan struct{})

	w.mu.Lock()
	w.conn = conn
	w.done = done
	w.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	w.logger.Debug().Str("url", w.url).Msg("Websocket connected")

	return nil
}

// Read blocks for the next envelope.
func (w *WebsocketChannel) Read(_ context.Context) (Message, error) {
	w.mu.Lock()
	conn := w.conn
	w.mu.Unlock()

	if conn == nil {
		return Message{}, errNotConnected
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		return Message{}, fmt.Errorf("realtime: reading stream: %w", err)
	}

	return msg, nil
}

// Close tears down the current connection, if any.
func (w *WebsocketChannel) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.done != nil {
		close(w.done)
		w.done = nil
	}

	if w.conn == nil {
		return nil
	}

	err := w.conn.Close()
	w.conn = nil

	return err
}
