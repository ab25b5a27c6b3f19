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

// Package ticker drives the live elapsed-time display. A single shared
// 1 Hz sweep recomputes elapsed seconds for every card with an active
// anchor. The ticker never owns card state: it reads anchors and writes
// duration text, nothing else. A card that returns to normal drops its
// anchor and is simply skipped on the next tick.
package ticker

import (
	"context"
	"time"

	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
)

const defaultInterval = time.Second

// CardSweeper is the slice of the card store the ticker needs.
type CardSweeper interface {
	Anchored() []models.LineCard
	SetDuration(line int, text string)
}

// Ticker is the shared duration sweep.
type Ticker struct {
	store    CardSweeper
	clock    func() time.Time
	interval time.Duration
	logger   logger.Logger
}

// New builds a ticker over the card store.
func New(store CardSweeper, log logger.Logger) *Ticker {
	return &Ticker{
		store:    store,
		clock:    time.Now,
		interval: defaultInterval,
		logger:   log,
	}
}

// SetClock overrides the time source. Tests only.
func (t *Ticker) SetClock(clock func() time.Time) {
	t.clock = clock
}

// Run sweeps once per interval until the context is canceled. It is
// intended to run for the whole page lifetime.
func (t *Ticker) Run(ctx context.Context) {
	tick := time.NewTicker(t.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.Sweep()
		}
	}
}

// Sweep recomputes the elapsed text for every anchored card. Negative
// elapsed time (clock skew, bad anchor) is treated as not-yet-started
// and left untouched rather than rendered as a negative duration.
func (t *Ticker) Sweep() {
	now := t.clock()

	for _, card := range t.store.Anchored() {
		if card.Anchor == nil {
			continue
		}

		elapsed := int64(now.Sub(*card.Anchor).Seconds())
		if elapsed < 0 {
			continue
		}

		t.store.SetDuration(card.Line, models.FormatDuration(elapsed))
	}
}
