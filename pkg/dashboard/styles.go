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
	"github.com/charmbracelet/lipgloss"

	"github.com/factoryline/linewatch/pkg/models"
	"github.com/factoryline/linewatch/pkg/notify"
)

// Dracula theme colors.
const (
	draculaForeground = "#F8F8F2"
	draculaCyan       = "#8BE9FD"
	draculaGreen      = "#50FA7B"
	draculaOrange     = "#FFB86C"
	draculaPink       = "#FF79C6"
	draculaPurple     = "#BD93F9"
	draculaRed        = "#FF5555"
	draculaYellow     = "#F1FA8C"
	draculaComment    = "#6272A4"
)

const cardWidth = 20

type styles struct {
	title     lipgloss.Style
	online    lipgloss.Style
	offline   lipgloss.Style
	filterBar lipgloss.Style
	selected  lipgloss.Style
	help      lipgloss.Style
	sidebar   lipgloss.Style
	empty     lipgloss.Style

	cardNormal     lipgloss.Style
	cardProcessing lipgloss.Style
	cardFault      lipgloss.Style

	toastInfo    lipgloss.Style
	toastSuccess lipgloss.Style
	toastWarning lipgloss.Style
	toastError   lipgloss.Style
}

func newStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Width(cardWidth).
		Padding(0, 1)

	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPink)).
			Bold(true),
		online: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		offline: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
		filterBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaYellow)).
			Bold(true),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color(draculaComment)).
			PaddingRight(1).
			MarginRight(1),
		empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)).
			Padding(1, 2),

		cardNormal: card.
			BorderForeground(lipgloss.Color(draculaGreen)).
			Foreground(lipgloss.Color(draculaForeground)),
		cardProcessing: card.
			BorderForeground(lipgloss.Color(draculaYellow)).
			Foreground(lipgloss.Color(draculaYellow)),
		cardFault: card.
			BorderForeground(lipgloss.Color(draculaRed)).
			Foreground(lipgloss.Color(draculaRed)),

		toastInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		toastSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)),
		toastWarning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaOrange)),
		toastError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
	}
}

func (s *styles) card(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusFault:
		return s.cardFault
	case models.StatusProcessing:
		return s.cardProcessing
	default:
		return s.cardNormal
	}
}

func (s *styles) toast(level notify.Level) lipgloss.Style {
	switch level {
	case notify.LevelSuccess:
		return s.toastSuccess
	case notify.LevelWarning:
		return s.toastWarning
	case notify.LevelError:
		return s.toastError
	default:
		return s.toastInfo
	}
}
