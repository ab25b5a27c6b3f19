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

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineUpdateUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantLine  int
		wantValid bool
		check     func(t *testing.T, u LineUpdate)
	}{
		{
			name:      "push shape with status",
			payload:   `{"line": 12, "status": "fault", "req_time": "2024-01-01T10:00:00Z"}`,
			wantLine:  12,
			wantValid: true,
			check: func(t *testing.T, u LineUpdate) {
				t.Helper()
				assert.Equal(t, StatusFault, u.Status())
				require.NotNil(t, u.ReqTime)
				assert.Nil(t, u.StartTime)
			},
		},
		{
			name:      "snapshot shape with type",
			payload:   `{"line": 41, "type": "processing", "area": "Panel", "start_time": "08:15:00"}`,
			wantLine:  41,
			wantValid: true,
			check: func(t *testing.T, u LineUpdate) {
				t.Helper()
				assert.Equal(t, StatusProcessing, u.Status())
				assert.Equal(t, "Panel", u.Area)
				require.NotNil(t, u.StartTime)
			},
		},
		{
			name:      "status wins over type when both present",
			payload:   `{"line": 3, "status": "fault", "type": "normal"}`,
			wantLine:  3,
			wantValid: true,
			check: func(t *testing.T, u LineUpdate) {
				t.Helper()
				assert.Equal(t, StatusFault, u.Status())
			},
		},
		{
			name:      "string line id",
			payload:   `{"line": "07", "status": "fault"}`,
			wantLine:  7,
			wantValid: true,
		},
		{
			name:      "request_time alias",
			payload:   `{"line": 5, "status": "fault", "request_time": "2024-01-01T10:00:00Z"}`,
			wantLine:  5,
			wantValid: true,
			check: func(t *testing.T, u LineUpdate) {
				t.Helper()
				require.NotNil(t, u.ReqTime)
			},
		},
		{
			name:      "timestamp fallback for req time",
			payload:   `{"line": 5, "status": "fault", "timestamp": "2024-01-01T10:00:00Z"}`,
			wantLine:  5,
			wantValid: true,
			check: func(t *testing.T, u LineUpdate) {
				t.Helper()
				require.NotNil(t, u.ReqTime)
			},
		},
		{
			name:      "mttr carried through",
			payload:   `{"line": 9, "status": "normal", "mttr": "5m 30s"}`,
			wantLine:  9,
			wantValid: true,
			check: func(t *testing.T, u LineUpdate) {
				t.Helper()
				assert.Equal(t, "5m 30s", u.MTTR)
			},
		},
		{
			name:      "missing line is invalid",
			payload:   `{"status": "fault"}`,
			wantLine:  0,
			wantValid: false,
		},
		{
			name:      "non-numeric line is invalid",
			payload:   `{"line": "abc", "status": "fault"}`,
			wantLine:  0,
			wantValid: false,
		},
		{
			name:      "out of range line is invalid",
			payload:   `{"line": 99, "status": "fault"}`,
			wantLine:  99,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u LineUpdate
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &u))

			assert.Equal(t, tt.wantLine, u.Line)
			assert.Equal(t, tt.wantValid, u.Valid())

			if tt.check != nil {
				tt.check(t, u)
			}
		})
	}
}

func TestDecodeBatch(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		items, err := DecodeBatch([]byte(`[{"line":1,"status":"fault"},{"line":2,"type":"done"}]`))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].Line)
		assert.Equal(t, StatusNormal, items[1].Status())
	})

	t.Run("items envelope", func(t *testing.T) {
		items, err := DecodeBatch([]byte(`{"items":[{"line":3,"status":"processing"}]}`))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, StatusProcessing, items[0].Status())
	})

	t.Run("malformed element does not abort batch", func(t *testing.T) {
		items, err := DecodeBatch([]byte(`[{"line":"bogus","status":"fault"},{"line":4,"status":"fault"}]`))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.False(t, items[0].Valid())
		assert.True(t, items[1].Valid())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeBatch([]byte(`"nope"`))
		assert.Error(t, err)
	})
}

func TestAreaForLine(t *testing.T) {
	tests := []struct {
		line int
		area string
		idx  int
	}{
		{1, AreaAssembly, 1},
		{40, AreaAssembly, 40},
		{41, AreaPanel, 1},
		{52, AreaPanel, 12},
		{53, AreaVisor, 1},
		{57, AreaVisor, 5},
		{0, AreaUnknown, 0},
		{58, AreaUnknown, 58},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.area, AreaForLine(tt.line), "line=%d", tt.line)
		assert.Equal(t, tt.idx, AreaIndex(tt.line), "line=%d", tt.line)
	}

	assert.Equal(t, "Panel 02", DisplayNameForLine(42))
	assert.Equal(t, "Assembly 07", DisplayNameForLine(7))
}

func TestHistoryEntryUnmarshal(t *testing.T) {
	payload := `{
		"id": 10,
		"line": "45",
		"req_time": "2024-01-01T10:00:00Z",
		"start_time": "2024-01-01T10:02:00Z",
		"finish_time": "2024-01-01T10:05:30Z",
		"mttr": "5m30s"
	}`

	var h HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(payload), &h))

	assert.Equal(t, 45, h.Line)
	assert.Equal(t, AreaPanel, h.Area)
	assert.Equal(t, "Panel 05", h.DisplayName)
	assert.Equal(t, "done", h.Status)

	d, ok := h.RepairDuration()
	require.True(t, ok)
	assert.Equal(t, 5*time.Minute+30*time.Second, d)
}

func TestRawEventUnmarshal(t *testing.T) {
	// The backend serializes naive datetimes, so no zone suffix.
	payload := `[
		{
			"id": 7,
			"line": "12",
			"type": "fault",
			"timestamp": "2025-08-31T10:00:00",
			"req_time": "2025-08-31T09:58:30",
			"start_time": null,
			"finish_time": null
		},
		{"id": 8, "line": 3, "type": "done", "timestamp": "2025-08-31T10:05:00.123456"}
	]`

	var events []RawEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &events))
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, 7, first.ID)
	assert.Equal(t, "fault line 12", first.Label())
	assert.Equal(t, time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC), first.Timestamp)

	require.NotNil(t, first.ReqTime)
	assert.Equal(t, 30, first.ReqTime.Second())
	assert.Nil(t, first.StartTime)
	assert.Nil(t, first.FinishTime)

	second := events[1]
	assert.Equal(t, "3", second.Line, "numeric line ids accepted")
	assert.Equal(t, 10, second.Timestamp.Hour())
	assert.False(t, second.Timestamp.IsZero(), "fractional seconds accepted")
}
