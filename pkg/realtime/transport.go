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
)

var (
	// ErrRetriesExhausted is returned by Run when the reconnect attempt
	// budget is spent.
	ErrRetriesExhausted = errors.New("realtime: reconnect attempts exhausted")

	errNotConnected = errors.New("realtime: not connected")
)

// Transport is one push connection. Connect establishes a session, Read
// blocks for the next envelope and returns an error when the session
// dies, Close tears the session down. The adapter owns the reconnect
// policy; transports never reconnect on their own.
type Transport interface {
	Connect(ctx context.Context) error
	Read(ctx context.Context) (Message, error)
	Close() error
}
