package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitgrid/internal/backup"
	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/export"
	"github.com/sadopc/habitgrid/internal/log"
	"github.com/sadopc/habitgrid/internal/tracker"
)

type settingsAction int

const (
	actionPreferences settingsAction = iota
	actionExportJSON
	actionExportCSV
	actionImport
	actionResetMonth
	actionResetAll
)

var settingsActions = []string{
	"Edit preferences",
	"Export JSON backup",
	"Export records as CSV",
	"Import backup",
	"Reset this month",
	"Reset all data",
}

var languageNames = []string{"中文", "日本語", "English"}

type settingsModel struct {
	sess   *session
	width  int
	height int

	cursor int

	formActive bool
	form       *huh.Form
	prompt     *prompt

	// A decoded import waiting for confirmation.
	pending *importDoneMsg

	// Form values as pointers (survive value copies)
	title *string
	grid  *int
	lang  *int
	dark  *bool
}

func newSettingsModel(sess *session) settingsModel {
	t, g, l, d := "", 0, 0, false
	return settingsModel{
		sess:  sess,
		title: &t,
		grid:  &g,
		lang:  &l,
		dark:  &d,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) active() bool {
	return s.formActive || s.prompt != nil
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}
	if s.prompt != nil {
		return s.updatePrompt(msg)
	}

	switch msg := msg.(type) {
	case importDoneMsg:
		s.pending = &msg
		s.prompt = newConfirmPrompt(importSummary(msg), msg.path)
		return s, s.prompt.init()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(settingsActions)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return s.run(settingsAction(s.cursor))
		}
	}
	return s, nil
}

func (s settingsModel) run(action settingsAction) (settingsModel, tea.Cmd) {
	switch action {
	case actionPreferences:
		return s.showForm()
	case actionExportJSON:
		return s, s.doExport(true)
	case actionExportCSV:
		return s, s.doExport(false)
	case actionImport:
		s.prompt = newInputPrompt(promptImportPath, "Backup file to import", "",
			filepath.Join(s.sess.cfg.ExportDir, export.FileName(s.sess.now())), requireText)
		return s, s.prompt.init()
	case actionResetMonth:
		s.prompt = newConfirmPrompt(fmt.Sprintf("Clear every mark in %s?", s.sess.month), "month")
		return s, s.prompt.init()
	case actionResetAll:
		s.prompt = newConfirmPrompt("Erase all records and notes?", "all")
		return s, s.prompt.init()
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	st := s.sess.state
	*s.title = st.Title
	*s.grid = st.GridMode
	*s.lang = st.LangIndex
	*s.dark = st.DarkMode

	langOptions := make([]huh.Option[int], len(languageNames))
	for i, name := range languageNames {
		langOptions[i] = huh.NewOption(fmt.Sprintf("%s (%s)", name, calendar.LangCode(i)), i)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(s.title).Validate(requireText),
			huh.NewSelect[int]().Title("Sub-cells per day").
				Options(
					huh.NewOption("4 (2×2)", tracker.GridCompact),
					huh.NewOption("6 (3×2)", tracker.GridDense),
				).Value(s.grid),
			huh.NewSelect[int]().Title("Weekday labels").Options(langOptions...).Value(s.lang),
			huh.NewConfirm().Title("Dark mode").Affirmative("On").Negative("Off").Value(s.dark),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		st := s.sess.state
		st.SetTitle(strings.TrimSpace(*s.title))
		if tracker.ValidGridMode(*s.grid) {
			st.GridMode = *s.grid
		}
		st.LangIndex = *s.lang
		st.DarkMode = *s.dark
		return s, tea.Batch(s.sess.commit("preferences"), func() tea.Msg { return stateReplacedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) updatePrompt(msg tea.Msg) (settingsModel, tea.Cmd) {
	state, cmd := s.prompt.update(msg)
	switch state {
	case promptCancelled:
		s.prompt = nil
		s.pending = nil
		return s, nil
	case promptOpen:
		return s, cmd
	}

	p := s.prompt
	s.prompt = nil
	return s.applyPrompt(p)
}

func (s settingsModel) applyPrompt(p *prompt) (settingsModel, tea.Cmd) {
	switch {
	case p.kind == promptImportPath:
		return s, s.doImport(strings.TrimSpace(p.text()))

	case s.pending != nil:
		pending := s.pending
		s.pending = nil
		if !p.confirmed() {
			return s, statusCmd("Import cancelled", false)
		}
		// Fields the file leaves out keep whatever changed since the preview.
		res, err := backup.Decode(pending.data, *s.sess.state, s.sess.now())
		if err != nil {
			s.sess.log.Warn("import rejected", log.FieldPath, pending.path, log.FieldError, err)
			return s, statusCmd(fmt.Sprintf("Import error: %v", err), true)
		}
		*s.sess.state = res.State
		s.sess.log.Info("backup imported",
			log.FieldOperation, log.OpImport,
			log.FieldPath, pending.path,
			log.FieldFields, strings.Join(res.Invalid, ","),
		)
		return s, tea.Batch(
			s.sess.commit(log.OpImport),
			statusCmd("Imported "+pending.path, false),
			func() tea.Msg { return stateReplacedMsg{} },
		)

	case p.target == "month" && p.confirmed():
		n := s.sess.state.ResetMonth(s.sess.month)
		s.sess.log.Info("month reset", log.FieldOperation, log.OpReset, log.FieldMonth, s.sess.month.Key(), log.FieldCount, n)
		return s, tea.Batch(
			s.sess.commit(log.OpReset),
			statusCmd(fmt.Sprintf("Cleared %d days in %s", n, s.sess.month), false),
			func() tea.Msg { return stateReplacedMsg{} },
		)

	case p.target == "all" && p.confirmed():
		s.sess.state.ResetAll()
		s.sess.log.Info("all data reset", log.FieldOperation, log.OpReset)
		return s, tea.Batch(
			s.sess.commit(log.OpReset),
			statusCmd("All records and notes erased", false),
			func() tea.Msg { return stateReplacedMsg{} },
		)
	}
	return s, nil
}

func importSummary(msg importDoneMsg) string {
	var b strings.Builder
	b.WriteString("Replace current data with " + filepath.Base(msg.path) + "?")
	if at := msg.result.ExportedAt; at != nil {
		b.WriteString(" Exported " + at.Local().Format("2006-01-02 15:04") + ".")
	}
	if len(msg.result.Invalid) > 0 {
		b.WriteString(" Defaults used for: " + strings.Join(msg.result.Invalid, ", ") + ".")
	}
	return b.String()
}

func (s settingsModel) doImport(path string) tea.Cmd {
	base := s.sess.state.Clone()
	now := s.sess.now()
	logger := s.sess.log
	return func() tea.Msg {
		data, err := export.ReadBackup(path)
		if err == nil {
			var res backup.Result
			if res, err = backup.Decode(data, base, now); err == nil {
				return importDoneMsg{path: path, data: data, result: res}
			}
		}
		logger.Warn("import rejected", log.FieldPath, path, log.FieldError, err)
		return statusMsg{text: fmt.Sprintf("Import error: %v", err), isError: true}
	}
}

func (s settingsModel) doExport(asJSON bool) tea.Cmd {
	snap := s.sess.state.Clone()
	dir := s.sess.cfg.ExportDir
	now := s.sess.now()
	logger := s.sess.log
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		var path string
		if asJSON {
			path = filepath.Join(dir, export.FileName(now))
			if err := export.ToJSON(&snap, path, now); err != nil {
				logger.Error("export failed", log.FieldPath, path, log.FieldError, err)
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, export.CSVFileName(now))
			if err := export.ToCSV(snap, path); err != nil {
				logger.Error("export failed", log.FieldPath, path, log.FieldError, err)
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		}
		logger.Info("exported", log.FieldOperation, log.OpExport, log.FieldPath, path)
		return exportDoneMsg{path: path, json: asJSON, at: now}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	if s.formActive && s.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View())
		return activePanelStyle.Width(w).Render(content)
	}
	if s.prompt != nil {
		return s.prompt.view(s.width)
	}

	st := s.sess.state
	lastBackup := "never"
	if st.LastBackup != nil {
		lastBackup = st.LastBackup.Local().Format("2006-01-02 15:04")
		if s.sess.now().Sub(*st.LastBackup) > 30*24*time.Hour {
			lastBackup = warningStyle.Render(lastBackup + " (over a month ago)")
		}
	}
	dark := "off"
	if st.DarkMode {
		dark = "on"
	}
	lang := "?"
	if st.LangIndex >= 0 && st.LangIndex < len(languageNames) {
		lang = languageNames[st.LangIndex]
	}

	info := []struct{ label, value string }{
		{"Title", st.Title},
		{"Sub-cells", fmt.Sprintf("%d", st.GridMode)},
		{"Weekday labels", lang},
		{"Dark mode", dark},
		{"Categories", fmt.Sprintf("%d", len(st.Categories))},
		{"Days marked", fmt.Sprintf("%d", len(st.Records))},
		{"Last backup", lastBackup},
		{"Database", s.sess.cfg.DBPath},
		{"Export dir", s.sess.cfg.ExportDir},
	}

	rows := []string{titleStyle.Render("Settings"), ""}
	for _, item := range info {
		rows = append(rows, "  "+mutedStyle.Render(fmt.Sprintf("%-16s", item.label))+" "+normalItemStyle.Render(item.value))
	}
	rows = append(rows, "")
	for i, name := range settingsActions {
		cursor := "  "
		style := normalItemStyle
		if i == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		if settingsAction(i) >= actionResetMonth {
			name = accentStyle.Render(name)
		}
		rows = append(rows, style.Render(cursor)+style.Render(name))
	}
	rows = append(rows, "", mutedStyle.Render("  ↑/↓: select  enter: run"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
