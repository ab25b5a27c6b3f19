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
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/factoryline/linewatch/pkg/logger"
)

// Subjects the factory broker publishes line traffic on. Payloads are
// the bare event data; the subject itself names the event.
const (
	subjectLineUpdate  = "factory.line.update"
	subjectBatchUpdate = "factory.line.batch"
	subjectLineAck     = "factory.line.ack"
	subjectAckError    = "factory.line.ack_error"

	natsInboxSize = 256
)

var errNATSClosed = errors.New("realtime: nats connection closed")

var subjectEvents = map[string]string{
	subjectLineUpdate:  eventLineUpdate,
	subjectBatchUpdate: eventBatchUpdate,
	subjectLineAck:     eventLineAck,
	subjectAckError:    eventLineAckError,
}

// NATSChannel is the broker-backed push transport for plants that run
// NATS instead of exposing the websocket stream. The library's own
// reconnect machinery is disabled so the adapter's backoff policy
// applies to both transports alike.
type NATSChannel struct {
	url    string
	opts   []nats.Option
	logger logger.Logger

	mu    sync.Mutex
	conn  *nats.Conn
	subs  []*nats.Subscription
	inbox chan Message
	errs  chan error
}

// NewNATSChannel builds a channel for the given broker URL. Extra
// options (TLS, credentials) are passed through to the connection.
func NewNATSChannel(url string, log logger.Logger, opts ...nats.Option) *NATSChannel {
	return &NATSChannel{
		url:    url,
		opts:   opts,
		logger: log,
	}
}

// Connect dials the broker and subscribes to the line subjects.
func (n *NATSChannel) Connect(_ context.Context) error {
	errs := make(chan error, 1)
	inbox := make(chan Message, natsInboxSize)

	opts := append([]nats.Option{
		nats.Name("linewatch"),
		nats.NoReconnect(),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err == nil {
				err = errNATSClosed
			}

			select {
			case errs <- err:
			default:
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			select {
			case errs <- errNATSClosed:
			default:
			}
		}),
	}, n.opts...)

	conn, err := nats.Connect(n.url, opts...)
	if err != nil {
		return fmt.Errorf("realtime: connecting to nats at %s: %w", n.url, err)
	}

	var subs []*nats.Subscription

	for subject, event := range subjectEvents {
		event := event

		sub, err := conn.Subscribe(subject, func(m *nats.Msg) {
			select {
			case inbox <- Message{Event: event, Data: m.Data}:
			default:
				n.logger.Warn().Str("subject", m.Subject).Msg("Dropping push message, inbox full")
			}
		})
		if err != nil {
			conn.Close()
			return fmt.Errorf("realtime: subscribing to %s: %w", subject, err)
		}

		subs = append(subs, sub)
	}

	n.mu.Lock()
	n.conn = conn
	n.subs = subs
	n.inbox = inbox
	n.errs = errs
	n.mu.Unlock()

	n.logger.Debug().Str("url", n.url).Msg("NATS connected")

	return nil
}

// Read blocks for the next message, a connection failure, or context
// cancellation.
func (n *NATSChannel) Read(ctx context.Context) (Message, error) {
	n.mu.Lock()
	inbox, errs := n.inbox, n.errs
	n.mu.Unlock()

	if inbox == nil {
		return Message{}, errNotConnected
	}

	select {
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case err := <-errs:
		return Message{}, err
	case msg := <-inbox:
		return msg, nil
	}
}

// Close unsubscribes and closes the connection.
func (n *NATSChannel) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, sub := range n.subs {
		_ = sub.Unsubscribe()
	}

	n.subs = nil

	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}

	n.inbox = nil
	n.errs = nil

	return nil
}
