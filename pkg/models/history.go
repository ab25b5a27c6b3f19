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
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HistoryEntry is one resolved fault in the history/report views.
// Field-name drift mirrors LineUpdate: older backends emitted
// "done_time" for finish and "line_name" for the label.
type HistoryEntry struct {
	ID          int
	Line        int
	Area        string
	DisplayName string
	Status      string
	Description string
	ReqTime     *time.Time
	StartTime   *time.Time
	FinishTime  *time.Time
	MTTR        string
}

type historyEntryWire struct {
	ID          int             `json:"id"`
	Line        json.RawMessage `json:"line"`
	Area        string          `json:"area"`
	Section     string          `json:"section"`
	DisplayName string          `json:"display_name"`
	LineName    string          `json:"line_name"`
	Status      string          `json:"status"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	ReqTime     string          `json:"req_time"`
	RequestTime string          `json:"request_time"`
	StartTime   string          `json:"start_time"`
	ProcStart   string          `json:"processing_start"`
	FinishTime  string          `json:"finish_time"`
	DoneTime    string          `json:"done_time"`
	Timestamp   string          `json:"timestamp"`
	MTTR        string          `json:"mttr"`
}

func (h *HistoryEntry) UnmarshalJSON(data []byte) error {
	var w historyEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	now := time.Now()

	h.ID = w.ID
	h.Line = decodeLineID(w.Line)
	h.Area = firstNonEmpty(w.Area, w.Section)
	h.Status = firstNonEmpty(w.Status, w.Type, "done")
	h.Description = w.Description
	h.ReqTime = decodeEventTime(firstNonEmpty(w.ReqTime, w.RequestTime), now)
	h.StartTime = decodeEventTime(firstNonEmpty(w.StartTime, w.ProcStart), now)
	h.FinishTime = decodeEventTime(firstNonEmpty(w.FinishTime, w.DoneTime, w.Timestamp), now)
	h.MTTR = strings.TrimSpace(w.MTTR)

	h.DisplayName = firstNonEmpty(w.DisplayName, w.LineName)
	if h.DisplayName == "" {
		if h.Line != 0 {
			h.DisplayName = DisplayNameForLine(h.Line)
		} else {
			h.DisplayName = "Line " + strconv.Itoa(h.ID)
		}
	}

	if h.Area == "" && h.Line != 0 {
		h.Area = AreaForLine(h.Line)
	}

	return nil
}

// RepairDuration computes the request-to-finish span when both ends are
// known. It is the ground truth behind the server's MTTR string.
func (h *HistoryEntry) RepairDuration() (time.Duration, bool) {
	if h.ReqTime == nil || h.FinishTime == nil {
		return 0, false
	}

	d := h.FinishTime.Sub(*h.ReqTime)
	if d < 0 {
		return 0, false
	}

	return d, true
}

// RawEvent is one row from the raw event feed (GET /api/events).
type RawEvent struct {
	ID         int
	Line       string
	Type       string
	Timestamp  time.Time
	ReqTime    *time.Time
	StartTime  *time.Time
	FinishTime *time.Time
}

type rawEventWire struct {
	ID         int             `json:"id"`
	Line       json.RawMessage `json:"line"`
	Type       string          `json:"type"`
	Timestamp  string          `json:"timestamp"`
	ReqTime    string          `json:"req_time"`
	StartTime  string          `json:"start_time"`
	FinishTime string          `json:"finish_time"`
}

// UnmarshalJSON decodes an event row. The backend emits timestamps via
// isoformat() on naive datetimes, so there is no zone suffix and the
// stock time.Time decoding would reject every row; all four timestamps
// go through the tolerant parser instead.
func (e *RawEvent) UnmarshalJSON(data []byte) error {
	var w rawEventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	now := time.Now()

	e.ID = w.ID
	e.Line = decodeLineLabel(w.Line)
	e.Type = w.Type

	e.Timestamp = time.Time{}
	if t, ok := ParseEventTime(w.Timestamp, now); ok {
		e.Timestamp = t
	}

	e.ReqTime = decodeEventTime(w.ReqTime, now)
	e.StartTime = decodeEventTime(w.StartTime, now)
	e.FinishTime = decodeEventTime(w.FinishTime, now)

	return nil
}

// decodeLineLabel keeps the event feed's line field as the free-form
// label it is server-side, accepting a bare number as well.
func decodeLineLabel(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	if n := decodeLineID(raw); n != 0 {
		return strconv.Itoa(n)
	}

	return ""
}

// Label renders a short human-readable tag for the event, e.g. "fault line 12".
func (e *RawEvent) Label() string {
	return fmt.Sprintf("%s line %s", e.Type, e.Line)
}
