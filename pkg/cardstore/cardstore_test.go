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

package cardstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
)

func newTestStore(t *testing.T, lines int) *Store {
	t.Helper()

	store := New(logger.NewTestLogger())

	snapshot := make([]models.LineUpdate, 0, lines)
	for i := 1; i <= lines; i++ {
		snapshot = append(snapshot, models.LineUpdate{Line: i, RawStatus: "normal"})
	}

	store.ResetFromSnapshot(snapshot)

	return store
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}

	return &t
}

func TestSnapshotCreatesCards(t *testing.T) {
	store := newTestStore(t, 57)

	assert.Equal(t, 57, store.Len())

	card, ok := store.Get(42)
	require.True(t, ok)
	assert.Equal(t, "Panel 02", card.DisplayName)
	assert.Equal(t, models.AreaPanel, card.Area)
	assert.Equal(t, models.StatusNormal, card.Status)
	assert.False(t, card.HasActiveAnchor())
	assert.Equal(t, models.ZeroDuration, card.Duration)
}

func TestApplyUnknownLineIsNoOp(t *testing.T) {
	store := newTestStore(t, 5)

	assert.False(t, store.Apply(models.LineUpdate{Line: 30, RawStatus: "fault", ReqTime: ts("2024-01-01T10:00:00Z")}))
	assert.Equal(t, 5, store.Len())
}

func TestApplyMalformedIsNoOp(t *testing.T) {
	store := newTestStore(t, 5)

	assert.False(t, store.Apply(models.LineUpdate{Line: 0, RawStatus: "fault"}))
	assert.False(t, store.Apply(models.LineUpdate{Line: 99, RawStatus: "fault"}))
}

func TestApplyIdempotent(t *testing.T) {
	store := newTestStore(t, 10)

	update := models.LineUpdate{Line: 3, RawStatus: "fault", ReqTime: ts("2024-01-01T10:00:00Z")}

	require.True(t, store.Apply(update))
	first, _ := store.Get(3)

	require.True(t, store.Apply(update))
	second, _ := store.Get(3)

	assert.Equal(t, first, second)
}

func TestAnchorInvariant(t *testing.T) {
	store := newTestStore(t, 10)
	store.SetClock(func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) })

	updates := []models.LineUpdate{
		{Line: 1, RawStatus: "fault", ReqTime: ts("2024-01-01T09:00:00Z")},
		{Line: 2, RawStatus: "processing", StartTime: ts("2024-01-01T09:05:00Z")},
		{Line: 3, RawStatus: "fault"}, // no timestamps at all
		{Line: 1, RawStatus: "normal", MTTR: "5m30s"},
		{Line: 4, RawStatus: "done"},
	}

	for _, u := range updates {
		store.Apply(u)

		for _, card := range store.Snapshot() {
			assert.Equal(t, card.Status != models.StatusNormal, card.HasActiveAnchor(),
				"line %d status %s", card.Line, card.Status)
		}
	}
}

func TestAnchorPrefersStartTime(t *testing.T) {
	store := newTestStore(t, 10)

	store.Apply(models.LineUpdate{
		Line:      5,
		RawStatus: "processing",
		ReqTime:   ts("2024-01-01T09:00:00Z"),
		StartTime: ts("2024-01-01T09:10:00Z"),
	})

	card, _ := store.Get(5)
	require.NotNil(t, card.Anchor)
	assert.Equal(t, *ts("2024-01-01T09:10:00Z"), *card.Anchor)
}

func TestReAnnouncementKeepsRunningAnchor(t *testing.T) {
	store := newTestStore(t, 10)

	store.Apply(models.LineUpdate{Line: 5, RawStatus: "fault", ReqTime: ts("2024-01-01T09:00:00Z")})
	store.Apply(models.LineUpdate{Line: 5, RawStatus: "fault"})

	card, _ := store.Get(5)
	require.NotNil(t, card.Anchor)
	assert.Equal(t, *ts("2024-01-01T09:00:00Z"), *card.Anchor)
}

func TestAreaRetainedWhenAbsent(t *testing.T) {
	store := newTestStore(t, 10)

	store.Apply(models.LineUpdate{Line: 2, RawStatus: "fault", Area: "Panel", ReqTime: ts("2024-01-01T09:00:00Z")})
	store.Apply(models.LineUpdate{Line: 2, RawStatus: "processing", StartTime: ts("2024-01-01T09:05:00Z")})

	card, _ := store.Get(2)
	assert.Equal(t, "Panel", card.Area)
}

// The end-to-end transition from the dashboard's point of view: a line
// faults, then recovers with a server-computed MTTR.
func TestFaultThenRecoverScenario(t *testing.T) {
	store := newTestStore(t, 57)

	require.True(t, store.Apply(models.LineUpdate{
		Line:      12,
		RawStatus: "fault",
		ReqTime:   ts("2024-01-01T10:00:00Z"),
	}))

	card, _ := store.Get(12)
	assert.Equal(t, models.StatusFault, card.Status)
	require.NotNil(t, card.Anchor)
	assert.Equal(t, *ts("2024-01-01T10:00:00Z"), *card.Anchor)

	require.True(t, store.Apply(models.LineUpdate{
		Line:      12,
		RawStatus: "normal",
		MTTR:      "5m 30s",
	}))

	card, _ = store.Get(12)
	assert.Equal(t, models.StatusNormal, card.Status)
	assert.Nil(t, card.Anchor)
	assert.Nil(t, card.StartTime)
	assert.Equal(t, "5m 30s", card.Duration)
	assert.Empty(t, store.Anchored())
}

func TestRecoverWithoutMTTRShowsZero(t *testing.T) {
	store := newTestStore(t, 10)

	store.Apply(models.LineUpdate{Line: 7, RawStatus: "fault", ReqTime: ts("2024-01-01T10:00:00Z")})
	store.Apply(models.LineUpdate{Line: 7, RawStatus: "normal"})

	card, _ := store.Get(7)
	assert.Equal(t, models.ZeroDuration, card.Duration)
}

func TestApplyBatchOrder(t *testing.T) {
	store := newTestStore(t, 10)

	changed := store.ApplyBatch([]models.LineUpdate{
		{Line: 1, RawStatus: "fault", ReqTime: ts("2024-01-01T10:00:00Z")},
		{Line: 1, RawStatus: "normal", MTTR: "1m00s"},
		{Line: 99, RawStatus: "fault"},
	})

	assert.Equal(t, 2, changed)

	card, _ := store.Get(1)
	assert.Equal(t, models.StatusNormal, card.Status)
	assert.Equal(t, "1m00s", card.Duration)
}

func TestSetDuration(t *testing.T) {
	store := newTestStore(t, 10)

	store.Apply(models.LineUpdate{Line: 4, RawStatus: "fault", ReqTime: ts("2024-01-01T10:00:00Z")})
	store.SetDuration(4, "01m 00s")

	card, _ := store.Get(4)
	assert.Equal(t, "01m 00s", card.Duration)

	store.SetDuration(99, "02m 00s") // unknown line, no-op
	assert.Equal(t, 10, store.Len())
}

func TestSnapshotPreservesOrder(t *testing.T) {
	store := New(logger.NewTestLogger())
	store.ResetFromSnapshot([]models.LineUpdate{
		{Line: 41}, {Line: 3}, {Line: 55},
	})

	snap := store.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, 41, snap[0].Line)
	assert.Equal(t, 3, snap[1].Line)
	assert.Equal(t, 55, snap[2].Line)
}
