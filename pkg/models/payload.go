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
	"strconv"
	"strings"
	"time"
)

// LineUpdate is the canonical ingestion schema for a single-line status
// change, whatever shape it arrived in. Push payloads and the snapshot
// API disagree on field names ("status" vs "type", "req_time" vs
// "request_time" vs "timestamp"); all of that tolerance lives in
// UnmarshalJSON and nowhere else.
type LineUpdate struct {
	Line        int
	RawStatus   string
	Area        string
	DisplayName string
	ReqTime     *time.Time
	StartTime   *time.Time
	MTTR        string
}

// Valid reports whether the payload carried a usable line id. Invalid
// updates are dropped silently by the store.
func (u *LineUpdate) Valid() bool {
	return u.Line >= MinLine && u.Line <= MaxLine
}

// Status returns the canonical status for the payload.
func (u *LineUpdate) Status() Status {
	return NormalizeStatus(u.RawStatus)
}

type lineUpdateWire struct {
	Line            json.RawMessage `json:"line"`
	Status          string          `json:"status"`
	Type            string          `json:"type"`
	Area            string          `json:"area"`
	DisplayName     string          `json:"display_name"`
	ReqTime         string          `json:"req_time"`
	RequestTime     string          `json:"request_time"`
	Timestamp       string          `json:"timestamp"`
	StartTime       string          `json:"start_time"`
	ProcessingStart string          `json:"processing_start"`
	MTTR            string          `json:"mttr"`
}

// UnmarshalJSON decodes the duck-typed wire shapes into the canonical
// schema. It never fails on a malformed line id; it produces an invalid
// (zero-line) update instead, so a bad element in a batch cannot abort
// the rest of the batch.
func (u *LineUpdate) UnmarshalJSON(data []byte) error {
	var w lineUpdateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	now := time.Now()

	u.Line = decodeLineID(w.Line)
	u.RawStatus = firstNonEmpty(w.Status, w.Type)
	u.Area = strings.TrimSpace(w.Area)
	u.DisplayName = strings.TrimSpace(w.DisplayName)
	u.ReqTime = decodeEventTime(firstNonEmpty(w.ReqTime, w.RequestTime, w.Timestamp), now)
	u.StartTime = decodeEventTime(firstNonEmpty(w.StartTime, w.ProcessingStart), now)
	u.MTTR = strings.TrimSpace(w.MTTR)

	return nil
}

// DecodeBatch accepts both observed batch shapes: a bare JSON array of
// updates or an {"items": [...]} envelope.
func DecodeBatch(data []byte) ([]LineUpdate, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []LineUpdate
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}

		return items, nil
	}

	var envelope struct {
		Items []LineUpdate `json:"items"`
	}

	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}

	return envelope.Items, nil
}

func decodeLineID(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}

	return 0
}

func decodeEventTime(raw string, now time.Time) *time.Time {
	t, ok := ParseEventTime(raw, now)
	if !ok {
		return nil
	}

	return &t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}
