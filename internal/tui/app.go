package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitgrid/internal/config"
	"github.com/sadopc/habitgrid/internal/log"
	"github.com/sadopc/habitgrid/internal/store"
	"github.com/sadopc/habitgrid/internal/tracker"
)

// App is the root Bubble Tea model.
type App struct {
	sess   *session
	width  int
	height int

	activeView viewState
	showHelp   bool

	calendar calendarModel
	stats    statsModel
	notes    notesModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the UI over st. Every change is saved to s as it happens.
func NewApp(s *store.Store, st tracker.State, cfg config.Config, logger *log.Logger) App {
	h := help.New()
	h.ShowAll = false

	sess := newSession(s, st, cfg, logger)
	return App{
		sess:       sess,
		activeView: viewCalendar,
		calendar:   newCalendarModel(sess),
		stats:      newStatsModel(sess),
		notes:      newNotesModel(sess),
		settings:   newSettingsModel(sess),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return nil
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.calendar.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.notes.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewCalendar
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewStats
			a.stats.refresh()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewNotes
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewStats {
				a.stats.refresh()
			}
			return a, nil
		}

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		if msg.json {
			at := msg.at
			a.sess.state.LastBackup = &at
			return a, a.sess.commit(log.OpExport)
		}
		return a, nil

	case importDoneMsg:
		a.activeView = viewSettings
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case stateReplacedMsg:
		a.calendar, _ = a.calendar.update(msg)
		a.stats, _ = a.stats.update(msg)
		a.notes, _ = a.notes.update(msg)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewNotes:
		a.notes, cmd = a.notes.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewCalendar:
		return a.calendar.formActive()
	case viewNotes:
		return a.notes.formActive()
	case viewSettings:
		return a.settings.active()
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewCalendar:
		content = a.calendar.view()
	case viewStats:
		content = a.stats.view()
	case viewNotes:
		content = a.notes.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("habitgrid")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Reminder when the last backup is stale
	var backupInfo string
	if lb := a.sess.state.LastBackup; lb == nil {
		backupInfo = warningStyle.Render(" ● no backup")
	} else if a.sess.now().Sub(*lb).Hours() > 24*30 {
		backupInfo = warningStyle.Render(" ● backup " + lb.Local().Format("2006-01-02"))
	} else {
		backupInfo = successStyle.Render(" ● backed up")
	}

	left := footerStyle.Render(helpView)
	right := backupInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
