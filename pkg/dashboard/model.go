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

// Package dashboard is the terminal view over the card store: a grid of
// line cards styled by status, a filter bar, search, and the connection
// indicator. It renders state owned by the other packages and never
// mutates a card itself.
package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/factoryline/linewatch/pkg/cardstore"
	"github.com/factoryline/linewatch/pkg/filters"
	"github.com/factoryline/linewatch/pkg/localstate"
	"github.com/factoryline/linewatch/pkg/logger"
	"github.com/factoryline/linewatch/pkg/models"
	"github.com/factoryline/linewatch/pkg/notify"
	"github.com/factoryline/linewatch/pkg/realtime"
	"github.com/factoryline/linewatch/pkg/ticker"
)

// TickMsg drives the 1 Hz duration sweep.
type TickMsg time.Time

// EventMsg wraps a realtime event for the update loop. The adapter's
// handler sends these through the program.
type EventMsg struct {
	Event realtime.Event
}

var areaCycle = []string{
	filters.All,
	models.AreaAssembly,
	models.AreaPanel,
	models.AreaVisor,
}

var statusCycle = []string{
	filters.All,
	string(models.StatusNormal),
	string(models.StatusProcessing),
	string(models.StatusFault),
}

// Model is the bubbletea model for the live dashboard.
type Model struct {
	store  *cardstore.Store
	engine *filters.Engine
	sweep  *ticker.Ticker
	center *notify.Center
	online func() bool
	state  *localstate.Store
	logger logger.Logger
	styles styles

	cards  []models.LineCard
	result filters.Result

	search    textinput.Model
	searching bool

	sidebarCollapsed bool
	width            int
	height           int
}

// NewModel wires the dashboard over the shared state. online reports
// the push channel state for the indicator.
func NewModel(
	store *cardstore.Store,
	engine *filters.Engine,
	sweep *ticker.Ticker,
	center *notify.Center,
	online func() bool,
	state *localstate.Store,
	log logger.Logger,
) Model {
	search := textinput.New()
	search.Placeholder = "search lines"
	search.Prompt = "/ "
	search.CharLimit = 40
	search.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	search.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground))
	search.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))
	search.SetValue(engine.Selection().Search)

	m := Model{
		store:  store,
		engine: engine,
		sweep:  sweep,
		center: center,
		online: online,
		state:  state,
		logger: log,
		styles: newStyles(),
		search: search,
	}

	if state != nil {
		state.Get(localstate.KeySidebar, &m.sidebarCollapsed)
	}

	m.refresh(engine.Recompute())

	return m
}

// Init schedules the first duration tick.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles ticks, realtime events, resizes, and key input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.sweep.Sweep()
		m.cards = m.store.Snapshot()

		return m, tick()

	case EventMsg:
		return m.handleEvent(msg.Event), nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleEvent(event realtime.Event) Model {
	switch event := event.(type) {
	case realtime.LineUpdated:
		m.refresh(event.Result)
	case realtime.BatchApplied:
		m.refresh(event.Result)
	case realtime.Resynced:
		m.refresh(event.Result)
	case realtime.Connected, realtime.Disconnected, realtime.LineAcked:
		// Indicator and toasts read live state at render time.
	}

	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.search.Focus()

		return m, textinput.Blink

	case "a":
		m.refresh(m.engine.SetFilter(filters.DimensionArea, cycle(areaCycle, m.engine.Selection().Area)))

	case "s":
		m.refresh(m.engine.SetFilter(filters.DimensionStatus, cycle(statusCycle, m.engine.Selection().Status)))

	case "r":
		m.search.SetValue("")
		m.refresh(m.engine.Reset())

	case "b":
		m.sidebarCollapsed = !m.sidebarCollapsed
		if m.state != nil {
			m.state.Set(localstate.KeySidebar, m.sidebarCollapsed)
		}
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		m.searching = false
		m.search.Blur()

		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd

	m.search, cmd = m.search.Update(msg)
	m.refresh(m.engine.SetSearch(m.search.Value()))

	return m, cmd
}

// refresh re-reads the card snapshot alongside a fresh filter result so
// the next frame renders a consistent pair.
func (m *Model) refresh(result filters.Result) {
	m.result = result
	m.cards = m.store.Snapshot()
}

func cycle(values []string, current string) string {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}

	return values[0]
}
