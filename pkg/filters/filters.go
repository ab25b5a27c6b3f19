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

// Package filters computes the visible subset of the card grid from the
// current {area, status, search} selection. It never touches the
// network; it operates purely on the card store's snapshot. The
// selection survives restarts through the localstate store.
package filters

import (
	"strings"
	"sync"

	"github.com/factoryline/linewatch/pkg/localstate"
	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
)

// All is the sentinel selection matching every area or status.
const All = "all"

// Dimension names accepted by SetFilter.
const (
	DimensionArea   = "area"
	DimensionStatus = "status"
)

// Selection is the persisted filter state.
type Selection struct {
	Area   string `json:"area"`
	Status string `json:"status"`
	Search string `json:"search"`
}

// DefaultSelection matches everything.
func DefaultSelection() Selection {
	return Selection{Area: All, Status: All, Search: ""}
}

// Result is one recomputation over the full card set. Counts tally all
// cards regardless of visibility; Visible marks the filtered subset.
type Result struct {
	Visible      map[int]bool
	VisibleCount int
	TotalCount   int
	AreaCounts   map[string]int
	StatusCounts map[string]int
	Empty        bool
}

// CardSource supplies the rendered card set, in render order.
type CardSource interface {
	Snapshot() []models.LineCard
}

// Engine owns the selection and recomputes visibility on every change.
type Engine struct {
	mu        sync.Mutex
	selection Selection
	source    CardSource
	state     *localstate.Store
	logger    logger.Logger
}

// NewEngine builds an engine, rehydrating any saved selection. Missing
// or corrupt saved state silently falls back to defaults.
func NewEngine(source CardSource, state *localstate.Store, log logger.Logger) *Engine {
	e := &Engine{
		selection: DefaultSelection(),
		source:    source,
		state:     state,
		logger:    log,
	}

	var saved Selection
	if state != nil && state.Get(localstate.KeyFilters, &saved) {
		e.selection = sanitize(saved)
	}

	return e
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.selection
}

// SetFilter replaces the area or status selection, persists, recomputes.
// An unknown dimension leaves the selection untouched.
func (e *Engine) SetFilter(dimension, value string) Result {
	e.mu.Lock()

	switch dimension {
	case DimensionArea:
		e.selection.Area = value
	case DimensionStatus:
		e.selection.Status = sanitizeStatus(value)
	default:
		e.logger.Debug().Str("dimension", dimension).Msg("Ignoring unknown filter dimension")
	}

	e.persistLocked()
	e.mu.Unlock()

	return e.Recompute()
}

// SetSearch normalizes the term, persists, recomputes.
func (e *Engine) SetSearch(term string) Result {
	e.mu.Lock()
	e.selection.Search = models.NormalizeSearch(term)
	e.persistLocked()
	e.mu.Unlock()

	return e.Recompute()
}

// Reset restores defaults, persists, recomputes.
func (e *Engine) Reset() Result {
	e.mu.Lock()
	e.selection = DefaultSelection()
	e.persistLocked()
	e.mu.Unlock()

	return e.Recompute()
}

// Recompute walks every card once: visibility is the conjunction of the
// three predicates, counts are the true tally across all cards.
func (e *Engine) Recompute() Result {
	sel := e.Selection()
	cards := e.source.Snapshot()

	result := Result{
		Visible:      make(map[int]bool, len(cards)),
		AreaCounts:   map[string]int{All: 0},
		StatusCounts: map[string]int{All: 0},
	}

	for _, status := range models.Statuses() {
		result.StatusCounts[string(status)] = 0
	}

	for i := range cards {
		card := &cards[i]

		result.TotalCount++
		result.AreaCounts[All]++
		result.AreaCounts[card.Area]++
		result.StatusCounts[All]++
		result.StatusCounts[string(card.Status)]++

		if matches(card, sel) {
			result.Visible[card.Line] = true
			result.VisibleCount++
		}
	}

	result.Empty = result.VisibleCount == 0 && result.TotalCount > 0

	return result
}

func matches(card *models.LineCard, sel Selection) bool {
	if sel.Area != All && card.Area != sel.Area {
		return false
	}

	if sel.Status != All && string(card.Status) != sel.Status {
		return false
	}

	if sel.Search != "" && !strings.Contains(models.FoldString(card.DisplayName), sel.Search) {
		return false
	}

	return true
}

func (e *Engine) persistLocked() {
	if e.state != nil {
		e.state.Set(localstate.KeyFilters, e.selection)
	}
}

func sanitize(sel Selection) Selection {
	out := Selection{
		Area:   strings.TrimSpace(sel.Area),
		Status: sanitizeStatus(sel.Status),
		Search: models.NormalizeSearch(sel.Search),
	}

	if out.Area == "" {
		out.Area = All
	}

	return out
}

func sanitizeStatus(value string) string {
	switch value {
	case All, string(models.StatusNormal), string(models.StatusProcessing), string(models.StatusFault):
		return value
	default:
		return All
	}
}
