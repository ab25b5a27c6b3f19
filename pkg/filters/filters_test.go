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

package filters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryline/linewatch/pkg/localstate"
	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
)

type staticSource []models.LineCard

func (s staticSource) Snapshot() []models.LineCard { return s }

func testCards() staticSource {
	return staticSource{
		{Line: 1, DisplayName: "Assembly 01", Area: "Assembly", Status: models.StatusNormal},
		{Line: 2, DisplayName: "Assembly 02", Area: "Assembly", Status: models.StatusFault},
		{Line: 41, DisplayName: "Panel 01", Area: "Panel", Status: models.StatusFault},
		{Line: 42, DisplayName: "Panel 02", Area: "Panel", Status: models.StatusProcessing},
		{Line: 53, DisplayName: "Visor 01", Area: "Visor", Status: models.StatusNormal},
	}
}

func TestRecomputeDefaults(t *testing.T) {
	e := NewEngine(testCards(), nil, logger.NewTestLogger())

	r := e.Recompute()

	assert.Equal(t, 5, r.VisibleCount)
	assert.Equal(t, 5, r.TotalCount)
	assert.False(t, r.Empty)
	assert.Equal(t, 2, r.AreaCounts["Assembly"])
	assert.Equal(t, 2, r.AreaCounts["Panel"])
	assert.Equal(t, 1, r.AreaCounts["Visor"])
	assert.Equal(t, 5, r.AreaCounts[All])
	assert.Equal(t, 2, r.StatusCounts["fault"])
	assert.Equal(t, 1, r.StatusCounts["processing"])
	assert.Equal(t, 2, r.StatusCounts["normal"])
}

func TestCombinedPredicates(t *testing.T) {
	e := NewEngine(testCards(), nil, logger.NewTestLogger())

	e.SetFilter(DimensionArea, "Panel")
	e.SetFilter(DimensionStatus, "fault")
	r := e.SetSearch("Panel 0")

	assert.Equal(t, 1, r.VisibleCount)
	assert.True(t, r.Visible[41])
	assert.False(t, r.Visible[42])

	// Counts stay a full tally regardless of visibility.
	assert.Equal(t, 5, r.TotalCount)
	assert.Equal(t, 2, r.StatusCounts["fault"])
}

func TestSearchIsDiacriticInsensitive(t *testing.T) {
	source := staticSource{
		{Line: 1, DisplayName: "Dây chuyền 01", Area: "Assembly", Status: models.StatusNormal},
		{Line: 2, DisplayName: "Assembly 02", Area: "Assembly", Status: models.StatusNormal},
	}

	e := NewEngine(source, nil, logger.NewTestLogger())
	r := e.SetSearch("day chuyen")

	assert.Equal(t, 1, r.VisibleCount)
	assert.True(t, r.Visible[1])
}

func TestEmptyResultIndicator(t *testing.T) {
	e := NewEngine(testCards(), nil, logger.NewTestLogger())

	r := e.SetSearch("no such line")

	assert.Equal(t, 0, r.VisibleCount)
	assert.True(t, r.Empty)
}

func TestZeroCardsBeforeFirstFetch(t *testing.T) {
	e := NewEngine(staticSource{}, nil, logger.NewTestLogger())

	r := e.Recompute()

	assert.Equal(t, 0, r.VisibleCount)
	assert.Equal(t, 0, r.TotalCount)
	assert.False(t, r.Empty)
}

func TestReset(t *testing.T) {
	e := NewEngine(testCards(), nil, logger.NewTestLogger())

	e.SetFilter(DimensionArea, "Panel")
	e.SetSearch("01")
	r := e.Reset()

	assert.Equal(t, DefaultSelection(), e.Selection())
	assert.Equal(t, 5, r.VisibleCount)
}

func TestUnknownDimensionIgnored(t *testing.T) {
	e := NewEngine(testCards(), nil, logger.NewTestLogger())

	e.SetFilter("flavor", "spicy")

	assert.Equal(t, DefaultSelection(), e.Selection())
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	state := localstate.New(dir, logger.NewTestLogger())

	e := NewEngine(testCards(), state, logger.NewTestLogger())
	e.SetFilter(DimensionArea, "Panel")
	e.SetFilter(DimensionStatus, "fault")
	e.SetSearch("  A ")

	// Simulated reload: fresh engine over the same state dir.
	reloaded := NewEngine(testCards(), localstate.New(dir, logger.NewTestLogger()), logger.NewTestLogger())

	assert.Equal(t, Selection{Area: "Panel", Status: "fault", Search: "a"}, reloaded.Selection())
}

func TestCorruptPersistedStateFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"),
		[]byte(`{"dashboard_filters": [1,2,3]}`), 0600))

	e := NewEngine(testCards(), localstate.New(dir, logger.NewTestLogger()), logger.NewTestLogger())

	assert.Equal(t, DefaultSelection(), e.Selection())
}

func TestRehydratedInvalidStatusSanitized(t *testing.T) {
	dir := t.TempDir()
	state := localstate.New(dir, logger.NewTestLogger())
	state.Set(localstate.KeyFilters, Selection{Area: "Panel", Status: "exploded", Search: "X"})

	e := NewEngine(testCards(), localstate.New(dir, logger.NewTestLogger()), logger.NewTestLogger())

	sel := e.Selection()
	assert.Equal(t, "Panel", sel.Area)
	assert.Equal(t, All, sel.Status)
	assert.Equal(t, "x", sel.Search)
}
