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

// Package cardstore holds the one in-memory record per production line
// and applies status updates to it in place. Cards are created only from
// a full snapshot; push updates for unknown lines are dropped. Updates
// are idempotent and touch a single card, so a high-frequency stream of
// line transitions stays cheap.
package cardstore

import (
	"sync"
	"time"

	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
)

// Store is the card state store. Readers pull state through Snapshot,
// Anchored and Get; the store does not push changes.
type Store struct {
	mu     sync.RWMutex
	cards  map[int]*models.LineCard
	order  []int
	clock  func() time.Time
	logger logger.Logger
}

// New creates an empty store.
func New(log logger.Logger) *Store {
	return &Store{
		cards:  make(map[int]*models.LineCard),
		clock:  time.Now,
		logger: log,
	}
}

// SetClock overrides the time source. Tests only.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// ResetFromSnapshot replaces the whole card set from a full line
// snapshot. This is the only place cards are created; render order is
// snapshot order and filtering never reorders it.
func (s *Store) ResetFromSnapshot(lines []models.LineUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = make(map[int]*models.LineCard, len(lines))
	s.order = s.order[:0]

	for i := range lines {
		u := &lines[i]
		if !u.Valid() {
			s.logger.Debug().Int("line", u.Line).Msg("Dropping invalid snapshot entry")
			continue
		}

		if _, exists := s.cards[u.Line]; exists {
			continue
		}

		card := &models.LineCard{
			Line:        u.Line,
			DisplayName: u.DisplayName,
			Area:        u.Area,
			Duration:    models.ZeroDuration,
		}

		if card.DisplayName == "" {
			card.DisplayName = models.DisplayNameForLine(u.Line)
		}

		if card.Area == "" {
			card.Area = models.AreaForLine(u.Line)
		}

		s.cards[u.Line] = card
		s.order = append(s.order, u.Line)

		s.applyLocked(card, u)
	}
}

// Apply applies one update payload to its card. Unknown or invalid lines
// are a no-op; the store never errors on malformed input. Returns true
// when a card changed.
func (s *Store) Apply(u models.LineUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !u.Valid() {
		s.logger.Debug().Int("line", u.Line).Msg("Dropping update with unusable line id")
		return false
	}

	card, ok := s.cards[u.Line]
	if !ok {
		s.logger.Debug().Int("line", u.Line).Msg("Dropping update for unprovisioned line")
		return false
	}

	s.applyLocked(card, &u)

	return true
}

// ApplyBatch applies updates in order and returns how many cards changed.
func (s *Store) ApplyBatch(updates []models.LineUpdate) int {
	changed := 0

	for i := range updates {
		if s.Apply(updates[i]) {
			changed++
		}
	}

	return changed
}

// applyLocked is the single transition function. The anchor invariant is
// maintained here: after it returns, card.Anchor != nil exactly when the
// status is non-normal.
func (s *Store) applyLocked(card *models.LineCard, u *models.LineUpdate) {
	status := u.Status()

	card.Status = status

	if u.Area != "" {
		card.Area = u.Area
	}

	if u.ReqTime != nil {
		card.ReqTime = u.ReqTime
	}

	if status == models.StatusNormal {
		// Cleared synchronously so the next ticker tick skips this card.
		card.Anchor = nil
		card.StartTime = nil

		if u.MTTR != "" {
			card.MTTR = u.MTTR
			card.Duration = u.MTTR
		} else {
			card.Duration = models.ZeroDuration
		}
	} else {
		if u.StartTime != nil {
			card.StartTime = u.StartTime
		}

		switch {
		case u.StartTime != nil:
			card.Anchor = u.StartTime
		case u.ReqTime != nil:
			card.Anchor = u.ReqTime
		case card.Anchor != nil:
			// Re-announcement without timestamps keeps the running anchor.
		default:
			now := s.clock()
			card.Anchor = &now
		}
	}
}

// SetDuration writes the ticker's elapsed-time text onto a card.
func (s *Store) SetDuration(line int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[line]
	if !ok || card.Duration == text {
		return
	}

	card.Duration = text
}

// Anchored returns copies of the cards currently driving the ticker.
func (s *Store) Anchored() []models.LineCard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.LineCard

	for _, line := range s.order {
		if card := s.cards[line]; card.HasActiveAnchor() {
			out = append(out, *card)
		}
	}

	return out
}

// Snapshot returns copies of all cards in render order.
func (s *Store) Snapshot() []models.LineCard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.LineCard, 0, len(s.order))
	for _, line := range s.order {
		out = append(out, *s.cards[line])
	}

	return out
}

// Get returns a copy of one card.
func (s *Store) Get(line int) (models.LineCard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[line]
	if !ok {
		return models.LineCard{}, false
	}

	return *card, true
}

// Len returns the number of provisioned cards.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
