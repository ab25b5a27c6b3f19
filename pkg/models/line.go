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
	"time"
)

// Factory line numbering. Lines 1-40 are Assembly, 41-52 Panel,
// 53-57 Visor; anything else is Unknown.
const (
	MinLine = 1
	MaxLine = 57

	assemblyMax = 40
	panelMax    = 52
)

const (
	AreaAssembly = "Assembly"
	AreaPanel    = "Panel"
	AreaVisor    = "Visor"
	AreaUnknown  = "Unknown"
)

// AreaForLine derives the area from a line number.
func AreaForLine(line int) string {
	switch {
	case line >= MinLine && line <= assemblyMax:
		return AreaAssembly
	case line > assemblyMax && line <= panelMax:
		return AreaPanel
	case line > panelMax && line <= MaxLine:
		return AreaVisor
	default:
		return AreaUnknown
	}
}

// AreaIndex returns the 1-based position of a line within its area.
func AreaIndex(line int) int {
	switch AreaForLine(line) {
	case AreaAssembly:
		return line
	case AreaPanel:
		return line - assemblyMax
	case AreaVisor:
		return line - panelMax
	default:
		return line
	}
}

// DisplayNameForLine builds the human-readable label, e.g. "Panel 02".
func DisplayNameForLine(line int) string {
	return fmt.Sprintf("%s %02d", AreaForLine(line), AreaIndex(line))
}

// LineCard is one production line's record in the card store. The anchor
// is the zero point for the live elapsed-time display; it is present if
// and only if the line is currently non-normal.
type LineCard struct {
	Line        int        `json:"line"`
	DisplayName string     `json:"display_name"`
	Area        string     `json:"area"`
	Status      Status     `json:"status"`
	ReqTime     *time.Time `json:"req_time,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	Anchor      *time.Time `json:"anchor,omitempty"`
	MTTR        string     `json:"mttr,omitempty"`
	Duration    string     `json:"duration,omitempty"`
}

// HasActiveAnchor reports whether the card is driving the duration ticker.
func (c *LineCard) HasActiveAnchor() bool {
	return c.Anchor != nil
}
