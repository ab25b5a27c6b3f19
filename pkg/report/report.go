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

// Package report aggregates current line state and resolved-fault
// history into the tallies behind the stats views and exports.
package report

import (
	"errors"
	"time"

	"github.com/factoryline/linewatch/pkg/models"
)

// ErrNoData is returned by exports when there is nothing to write.
// Exports are all-or-nothing; an empty or unbuildable report produces
// no file.
var ErrNoData = errors.New("report: no rows to export")

// monthSlots is the fixed day-of-month bucket count; short months just
// leave trailing slots at zero.
const monthSlots = 31

// WeekdayOrder is the factory week. Sunday entries still count toward
// totals but have no weekday bucket.
var WeekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// CurrentStats tallies the live card grid.
type CurrentStats struct {
	Total        int
	ByArea       map[string]int
	ByStatus     map[models.Status]int
	FaultsByArea map[string]int
}

// Summarize tallies one card snapshot.
func Summarize(cards []models.LineCard) CurrentStats {
	stats := CurrentStats{
		ByArea:       make(map[string]int),
		ByStatus:     make(map[models.Status]int),
		FaultsByArea: make(map[string]int),
	}

	for i := range cards {
		card := &cards[i]

		stats.Total++
		stats.ByArea[card.Area]++
		stats.ByStatus[card.Status]++

		if card.Status == models.StatusFault {
			stats.FaultsByArea[card.Area]++
		}
	}

	return stats
}

// StatsReport aggregates resolved faults over a date window, the way
// the 30-day statistics view slices them.
type StatsReport struct {
	Start time.Time
	End   time.Time

	Total  int
	ByArea map[string]int

	// DayCounts buckets faults by day of month, slot 0 is the 1st.
	DayCounts [monthSlots]int

	// WeekdayCounts buckets faults by weekday.
	WeekdayCounts map[time.Weekday]int

	AvgRepair       time.Duration
	AvgRepairByArea map[string]time.Duration
}

// BuildStats aggregates history entries. Entries without a usable
// timestamp count toward totals but skip the time buckets; entries
// without both request and finish times skip the repair averages.
func BuildStats(entries []models.HistoryEntry, start, end time.Time) StatsReport {
	report := StatsReport{
		Start:           start,
		End:             end,
		ByArea:          make(map[string]int),
		WeekdayCounts:   make(map[time.Weekday]int),
		AvgRepairByArea: make(map[string]time.Duration),
	}

	var (
		totalRepair time.Duration
		repaired    int

		areaRepair   = make(map[string]time.Duration)
		areaRepaired = make(map[string]int)
	)

	for i := range entries {
		entry := &entries[i]

		report.Total++
		report.ByArea[entry.Area]++

		if at := entryTime(entry); at != nil {
			report.DayCounts[at.Day()-1]++
			report.WeekdayCounts[at.Weekday()]++
		}

		if d, ok := entry.RepairDuration(); ok {
			totalRepair += d
			repaired++

			areaRepair[entry.Area] += d
			areaRepaired[entry.Area]++
		}
	}

	if repaired > 0 {
		report.AvgRepair = totalRepair / time.Duration(repaired)
	}

	for area, total := range areaRepair {
		report.AvgRepairByArea[area] = total / time.Duration(areaRepaired[area])
	}

	return report
}

// entryTime picks the timestamp a fault is bucketed under: when it was
// resolved, falling back to when it was raised.
func entryTime(entry *models.HistoryEntry) *time.Time {
	if entry.FinishTime != nil {
		return entry.FinishTime
	}

	return entry.ReqTime
}
