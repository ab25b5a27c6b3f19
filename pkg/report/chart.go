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
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"sort"
	"strconv"

	"github.com/factoryline/linewatch/pkg/models"
)

const chartTemplateStr = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Fault statistics {{.Start}} – {{.End}}</title>
<script src="https://cdn.jsdelivr.net/npm/vega@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-lite@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
<style>
body { font-family: sans-serif; background: #282a36; color: #f8f8f2; margin: 2em; }
h1 { font-size: 1.3em; }
.chart { background: #f8f8f2; border-radius: 6px; padding: 1em; margin-bottom: 2em; }
.summary { margin-bottom: 2em; }
</style>
</head>
<body>
<h1>Fault statistics {{.Start}} &ndash; {{.End}}</h1>
<div class="summary">{{.Total}} faults, average repair {{.AvgRepair}}</div>
<div id="daily" class="chart"></div>
<div id="areas" class="chart"></div>
<script>
vegaEmbed('#daily', {{.DailySpec}});
vegaEmbed('#areas', {{.AreaSpec}});
</script>
</body>
</html>
`

var chartTemplate = template.Must(template.New("chart").Parse(chartTemplateStr))

type chartPage struct {
	Start     string
	End       string
	Total     int
	AvgRepair string
	DailySpec template.JS
	AreaSpec  template.JS
}

type chartRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// WriteChartHTML renders the stats report as a standalone HTML page
// with embedded Vega-Lite bar charts.
func WriteChartHTML(buf *bytes.Buffer, r StatsReport) error {
	if r.Total == 0 {
		return ErrNoData
	}

	daily, err := barSpec("Faults per day", dailyRows(r))
	if err != nil {
		return err
	}

	areas, err := barSpec("Faults per area", areaRows(r))
	if err != nil {
		return err
	}

	page := chartPage{
		Start:     r.Start.Format("2006-01-02"),
		End:       r.End.Format("2006-01-02"),
		Total:     r.Total,
		AvgRepair: models.FormatMTTR(r.AvgRepair),
		DailySpec: daily,
		AreaSpec:  areas,
	}

	if err := chartTemplate.Execute(buf, page); err != nil {
		return fmt.Errorf("report: rendering chart page: %w", err)
	}

	return nil
}

// ExportChartHTML writes the chart page to path, all-or-nothing.
func ExportChartHTML(path string, r StatsReport) error {
	var buf bytes.Buffer
	if err := WriteChartHTML(&buf, r); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("report: writing %s: %w", path, err)
	}

	return nil
}

func dailyRows(r StatsReport) []chartRow {
	rows := make([]chartRow, 0, monthSlots)

	for day, count := range r.DayCounts {
		rows = append(rows, chartRow{Label: strconv.Itoa(day + 1), Count: count})
	}

	return rows
}

func areaRows(r StatsReport) []chartRow {
	areas := make([]string, 0, len(r.ByArea))
	for area := range r.ByArea {
		areas = append(areas, area)
	}

	sort.Strings(areas)

	rows := make([]chartRow, 0, len(areas))
	for _, area := range areas {
		rows = append(rows, chartRow{Label: area, Count: r.ByArea[area]})
	}

	return rows
}

func barSpec(title string, rows []chartRow) (template.JS, error) {
	spec := map[string]interface{}{
		"$schema": "https://vega.github.io/schema/vega-lite/v5.json",
		"title":   title,
		"width":   "container",
		"data":    map[string]interface{}{"values": rows},
		"mark":    "bar",
		"encoding": map[string]interface{}{
			"x": map[string]interface{}{"field": "label", "type": "ordinal", "sort": nil},
			"y": map[string]interface{}{"field": "count", "type": "quantitative"},
		},
	}

	data, err := json.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("report: building %q spec: %w", title, err)
	}

	return template.JS(data), nil
}
