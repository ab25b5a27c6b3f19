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

// Package notify is the transient toast surface: short messages that
// auto-dismiss after a few seconds. The view reads Active on every
// frame; expired toasts are pruned on read.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level classifies a toast for styling.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

const (
	defaultTTL = 3 * time.Second
	maxBacklog = 5
)

// Toast is one transient message.
type Toast struct {
	ID      string
	Level   Level
	Message string
	Expires time.Time
}

// Center collects and expires toasts.
type Center struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	clock  func() time.Time
}

// NewCenter returns a center with the default auto-dismiss TTL.
func NewCenter() *Center {
	return &Center{
		ttl:   defaultTTL,
		clock: time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (c *Center) SetClock(clock func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
}

// Push queues a toast. The oldest toast is evicted past the backlog cap.
func (c *Center) Push(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.toasts = append(c.toasts, Toast{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		Expires: c.clock().Add(c.ttl),
	})

	if len(c.toasts) > maxBacklog {
		c.toasts = c.toasts[len(c.toasts)-maxBacklog:]
	}
}

// Active returns the unexpired toasts, oldest first, pruning the rest.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	kept := c.toasts[:0]

	for _, toast := range c.toasts {
		if toast.Expires.After(now) {
			kept = append(kept, toast)
		}
	}

	c.toasts = kept

	out := make([]Toast, len(kept))
	copy(out, kept)

	return out
}
