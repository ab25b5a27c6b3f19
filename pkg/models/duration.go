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
	"fmt"
	"strings"
	"time"
)

// ZeroDuration is the placeholder rendered for zero or negative elapsed time.
const ZeroDuration = "0s"

// FormatDuration renders whole seconds as "Nh NNm NNs": hours only when
// positive, minutes when nonzero or hours are shown, seconds always,
// zero-padded to two digits alongside a larger unit.
func FormatDuration(seconds int64) string {
	if seconds <= 0 {
		return ZeroDuration
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	var b strings.Builder

	if h > 0 {
		fmt.Fprintf(&b, "%dh ", h)
	}

	if m > 0 || h > 0 {
		fmt.Fprintf(&b, "%02dm ", m)
	}

	fmt.Fprintf(&b, "%02ds", s)

	return b.String()
}

// FormatMTTR renders a repair duration the way the backend does when it
// closes out a fault: "XhMMm" above an hour, "XmSSs" below.
func FormatMTTR(d time.Duration) string {
	if d < 0 {
		return "-"
	}

	secs := int64(d.Seconds())
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60

	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}

	return fmt.Sprintf("%dm%02ds", m, s)
}

// ParseEventTime accepts the timestamp shapes seen on the wire: RFC3339
// (with or without fractional seconds), a date-time without zone, or a
// bare wall clock "HH:MM:SS" which is anchored to today's date in the
// local zone. Returns false for anything else.
func ParseEventTime(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	if t, err := time.Parse("15:04:05", raw); err == nil {
		anchored := time.Date(now.Year(), now.Month(), now.Day(),
			t.Hour(), t.Minute(), t.Second(), 0, now.Location())

		return anchored, true
	}

	return time.Time{}, false
}
