package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type promptKind int

const (
	promptTitle promptKind = iota
	promptRename
	promptWeekNote
	promptMonth
	promptCategoryNew
	promptNoteNew
	promptNoteEdit
	promptImportPath
	promptConfirm
)

type promptState int

const (
	promptOpen promptState = iota
	promptDone
	promptCancelled
)

// prompt is a single-field huh form. Values live behind pointers so they
// survive model copies.
type prompt struct {
	kind    promptKind
	heading string
	target  string
	value   *string
	ok      *bool
	form    *huh.Form
}

func newInputPrompt(kind promptKind, heading, target, initial string, validate func(string) error) *prompt {
	v := initial
	p := &prompt{kind: kind, heading: heading, target: target, value: &v}
	input := huh.NewInput().Title(heading).Value(p.value)
	if validate != nil {
		input = input.Validate(validate)
	}
	p.form = huh.NewForm(huh.NewGroup(input)).WithShowHelp(true).WithShowErrors(true)
	return p
}

func newConfirmPrompt(heading, target string) *prompt {
	b := false
	p := &prompt{kind: promptConfirm, heading: heading, target: target, ok: &b}
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title(heading).Affirmative("Yes").Negative("No").Value(p.ok),
		),
	).WithShowHelp(true)
	return p
}

func (p *prompt) init() tea.Cmd {
	return p.form.Init()
}

func (p *prompt) update(msg tea.Msg) (promptState, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		return promptCancelled, nil
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	switch p.form.State {
	case huh.StateCompleted:
		return promptDone, nil
	case huh.StateAborted:
		return promptCancelled, nil
	}
	return promptOpen, cmd
}

func (p *prompt) text() string {
	if p.value == nil {
		return ""
	}
	return *p.value
}

func (p *prompt) confirmed() bool {
	return p.ok != nil && *p.ok
}

func (p *prompt) view(width int) string {
	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(p.heading), "", p.form.View())
	return activePanelStyle.Width(clamp(width-4, 20, width)).Render(content)
}
