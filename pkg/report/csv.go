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

package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/factoryline/linewatch/pkg/models"
)

var csvHeader = []string{
	"No", "Line", "Area", "Status", "Request Time", "Start Time", "Finish Time", "MTTR",
}

const csvTimeLayout = "2006-01-02 15:04:05"

// WriteHistoryCSV renders history rows to CSV in report order.
func WriteHistoryCSV(buf *bytes.Buffer, entries []models.HistoryEntry) error {
	if len(entries) == 0 {
		return ErrNoData
	}

	w := csv.NewWriter(buf)

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("report: writing csv header: %w", err)
	}

	for i := range entries {
		entry := &entries[i]

		mttr := entry.MTTR
		if mttr == "" {
			if d, ok := entry.RepairDuration(); ok {
				mttr = models.FormatMTTR(d)
			}
		}

		row := []string{
			strconv.Itoa(i + 1),
			entry.DisplayName,
			entry.Area,
			entry.Status,
			csvTime(entry.ReqTime),
			csvTime(entry.StartTime),
			csvTime(entry.FinishTime),
			mttr,
		}

		if err := w.Write(row); err != nil {
			return fmt.Errorf("report: writing csv row %d: %w", i+1, err)
		}
	}

	w.Flush()

	return w.Error()
}

// ExportHistoryCSV writes today's history table to path. Nothing is
// written unless every row renders.
func ExportHistoryCSV(path string, entries []models.HistoryEntry) error {
	var buf bytes.Buffer
	if err := WriteHistoryCSV(&buf, entries); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("report: writing %s: %w", path, err)
	}

	return nil
}

func csvTime(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(csvTimeLayout)
}
