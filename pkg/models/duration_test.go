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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, "0s"},
		{-5, "0s"},
		{5, "05s"},
		{59, "59s"},
		{60, "01m 00s"},
		{65, "01m 05s"},
		{3599, "59m 59s"},
		{3600, "1h 00m 00s"},
		{3665, "1h 01m 05s"},
		{7322, "2h 02m 02s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDuration(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestFormatMTTR(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{-time.Second, "-"},
		{0, "0m00s"},
		{90 * time.Second, "1m30s"},
		{5*time.Minute + 30*time.Second, "5m30s"},
		{time.Hour + 5*time.Minute, "1h05m"},
		{2*time.Hour + 30*time.Minute + 59*time.Second, "2h30m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatMTTR(tt.d))
	}
}

func TestParseEventTime(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)

	t.Run("rfc3339", func(t *testing.T) {
		got, ok := ParseEventTime("2024-01-01T10:00:00Z", now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("wall clock anchored to today", func(t *testing.T) {
		got, ok := ParseEventTime("08:30:15", now)
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 1, 15, 8, 30, 15, 0, time.Local), got)
	})

	t.Run("datetime without zone", func(t *testing.T) {
		_, ok := ParseEventTime("2024-01-01 10:00:00", now)
		assert.True(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := ParseEventTime("", now)
		assert.False(t, ok)
	})

	t.Run("garbage", func(t *testing.T) {
		_, ok := ParseEventTime("yesterday-ish", now)
		assert.False(t, ok)
	})
}
