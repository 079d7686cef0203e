package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitgrid/internal/tracker"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorAccent    = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Category colours as light/dark pairs.
var categoryPalette = map[tracker.Color][2]lipgloss.Color{
	tracker.ColorRed:    {"#FCA5A5", "#7F1D1D"},
	tracker.ColorOrange: {"#FDBA74", "#7C2D12"},
	tracker.ColorYellow: {"#FDE047", "#713F12"},
	tracker.ColorGreen:  {"#86EFAC", "#14532D"},
	tracker.ColorBlue:   {"#93C5FD", "#1E3A8A"},
	tracker.ColorPurple: {"#D8B4FE", "#581C87"},
}

func categoryColor(c tracker.Color, dark bool) lipgloss.Color {
	pair, ok := categoryPalette[c]
	if !ok {
		return colorMuted
	}
	if dark {
		return pair[1]
	}
	return pair[0]
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	// Calendar
	todayStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	selectedDayStyle = lipgloss.NewStyle().
				Bold(true).
				Reverse(true)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Align(lipgloss.Center)

	weekNoteStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Italic(true)
)
