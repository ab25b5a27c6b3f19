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

package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/factoryline/linewatch/pkg/filters"
	"github.com/factoryline/linewatch/pkg/models"
)

const (
	minColumns     = 1
	defaultColumns = 4
)

// View renders the full dashboard frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewFilterBar())
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	body := m.viewGrid()
	if !m.sidebarCollapsed {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.styles.sidebar.Render(m.viewSidebar()), body)
	}

	b.WriteString(body)
	b.WriteString("\n")

	if toasts := m.viewToasts(); toasts != "" {
		b.WriteString(toasts)
		b.WriteString("\n")
	}

	b.WriteString(m.styles.help.Render("a area · s status · / search · r reset · b sidebar · q quit"))

	return b.String()
}

func (m Model) viewHeader() string {
	indicator := m.styles.offline.Render("● offline")
	if m.online != nil && m.online() {
		indicator = m.styles.online.Render("● online")
	}

	title := m.styles.title.Render("linewatch")

	return fmt.Sprintf("%s  %s", title, indicator)
}

func (m Model) viewFilterBar() string {
	sel := m.engine.Selection()

	var parts []string

	for _, area := range areaCycle {
		label := fmt.Sprintf("%s(%d)", area, m.result.AreaCounts[area])
		if area == sel.Area {
			label = m.styles.selected.Render(label)
		}

		parts = append(parts, label)
	}

	parts = append(parts, "|")

	for _, status := range statusCycle {
		label := fmt.Sprintf("%s(%d)", status, m.result.StatusCounts[status])
		if status == sel.Status {
			label = m.styles.selected.Render(label)
		}

		parts = append(parts, label)
	}

	return m.styles.filterBar.Render(strings.Join(parts, " "))
}

func (m Model) viewGrid() string {
	visible := make([]models.LineCard, 0, m.result.VisibleCount)

	for i := range m.cards {
		if m.result.Visible[m.cards[i].Line] {
			visible = append(visible, m.cards[i])
		}
	}

	if len(visible) == 0 {
		if m.result.Empty {
			return m.styles.empty.Render("No lines match the current filters")
		}

		return m.styles.empty.Render("Waiting for line data")
	}

	columns := m.columns()
	rows := make([]string, 0, (len(visible)+columns-1)/columns)

	for start := 0; start < len(visible); start += columns {
		end := start + columns
		if end > len(visible) {
			end = len(visible)
		}

		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, m.viewCard(&visible[i]))
		}

		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) viewCard(card *models.LineCard) string {
	style := m.styles.card(card.Status)

	body := fmt.Sprintf("%s\n%s\n%s", card.DisplayName, card.Status, card.Duration)
	if card.Status == models.StatusNormal && card.MTTR != "" {
		body = fmt.Sprintf("%s\n%s\nMTTR %s", card.DisplayName, card.Status, card.MTTR)
	}

	return style.Render(body)
}

func (m Model) viewSidebar() string {
	var b strings.Builder

	b.WriteString("Areas\n")

	for _, area := range areaCycle {
		if area == filters.All {
			continue
		}

		fmt.Fprintf(&b, "%-9s %d\n", area, m.result.AreaCounts[area])
	}

	b.WriteString("\nStatus\n")

	for _, status := range statusCycle {
		if status == filters.All {
			continue
		}

		fmt.Fprintf(&b, "%-10s %d", status, m.result.StatusCounts[status])

		if status != statusCycle[len(statusCycle)-1] {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m Model) viewToasts() string {
	toasts := m.center.Active()
	if len(toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		lines = append(lines, m.styles.toast(toast.Level).Render(toast.Message))
	}

	return strings.Join(lines, "\n")
}

// columns fits as many fixed-width cards as the terminal allows,
// reserving room for the sidebar when it is open.
func (m Model) columns() int {
	width := m.width
	if !m.sidebarCollapsed {
		width -= 16
	}

	// Border adds two columns per card.
	columns := width / (cardWidth + 2)
	if columns < minColumns {
		if m.width == 0 {
			return defaultColumns
		}

		return minColumns
	}

	return columns
}
