package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitgrid/internal/tracker"
)

// notesModel edits the footer notes of the displayed month.
type notesModel struct {
	sess   *session
	width  int
	height int

	cursor  int
	reorder tracker.Reorder
	prompt  *prompt
}

func newNotesModel(sess *session) notesModel {
	return notesModel{sess: sess}
}

func (n *notesModel) setSize(w, h int) {
	n.width = w
	n.height = h
}

func (n notesModel) formActive() bool {
	return n.prompt != nil
}

func (n notesModel) notes() []tracker.Note {
	return n.sess.state.FooterNotes.ForMonth(n.sess.month)
}

func (n notesModel) update(msg tea.Msg) (notesModel, tea.Cmd) {
	if n.prompt != nil {
		return n.updatePrompt(msg)
	}

	switch msg := msg.(type) {
	case stateReplacedMsg:
		n.cursor = 0
		n.reorder = tracker.Reorder{}
		return n, nil

	case tea.KeyMsg:
		notes := n.notes()
		switch {
		case key.Matches(msg, keys.Up):
			if n.cursor > 0 {
				n.cursor--
			}
		case key.Matches(msg, keys.Down):
			if n.cursor < len(notes)-1 {
				n.cursor++
			}
		case key.Matches(msg, keys.PrevMonth):
			n.changeMonth(-1)
		case key.Matches(msg, keys.NextMonth):
			n.changeMonth(1)
		case key.Matches(msg, keys.Reorder):
			n.reorder.Toggle(tracker.ReorderNotes)
		case key.Matches(msg, keys.Back):
			if n.reorder.Active(tracker.ReorderNotes) {
				n.reorder.Toggle(tracker.ReorderNotes)
			}

		case key.Matches(msg, keys.Enter):
			if n.cursor >= len(notes) {
				return n, nil
			}
			if n.reorder.Active(tracker.ReorderNotes) {
				return n, n.pick(notes[n.cursor].ID)
			}
			note := notes[n.cursor]
			n.prompt = newInputPrompt(promptNoteEdit, "Edit note", note.ID, note.Text, nil)
			return n, n.prompt.init()

		case key.Matches(msg, keys.New):
			n.prompt = newInputPrompt(promptNoteNew, "New note", "", "", nil)
			return n, n.prompt.init()

		case key.Matches(msg, keys.Delete):
			if n.cursor >= len(notes) {
				return n, nil
			}
			if n.sess.state.FooterNotes.Delete(n.sess.month, notes[n.cursor].ID) {
				n.cursor = clamp(n.cursor, 0, max(len(notes)-2, 0))
				return n, n.sess.commit("delete_note")
			}
		}
	}
	return n, nil
}

func (n *notesModel) changeMonth(step int) {
	n.sess.month = n.sess.month.Add(step)
	n.cursor = 0
	n.reorder.Reset()
}

func (n *notesModel) pick(id string) tea.Cmd {
	src, ok := n.reorder.Select(id)
	if !ok {
		return nil
	}
	if n.sess.state.FooterNotes.Swap(n.sess.month, src, id) {
		return n.sess.commit("swap_notes")
	}
	return nil
}

func (n notesModel) updatePrompt(msg tea.Msg) (notesModel, tea.Cmd) {
	state, cmd := n.prompt.update(msg)
	switch state {
	case promptCancelled:
		n.prompt = nil
		return n, nil
	case promptOpen:
		return n, cmd
	}

	p := n.prompt
	n.prompt = nil
	return n.applyPrompt(p)
}

func (n notesModel) applyPrompt(p *prompt) (notesModel, tea.Cmd) {
	book := &n.sess.state.FooterNotes

	switch p.kind {
	case promptNoteNew:
		book.Add(n.sess.month, p.text())
		n.cursor = len(book.ForMonth(n.sess.month)) - 1
		return n, n.sess.commit("add_note")
	case promptNoteEdit:
		if book.Update(n.sess.month, p.target, p.text()) {
			return n, n.sess.commit("edit_note")
		}
	}
	return n, nil
}

func (n notesModel) view() string {
	if n.prompt != nil {
		return n.prompt.view(n.width)
	}

	w := n.width - 4
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Notes"), "  ",
		highlightStyle.Render(n.sess.month.String()),
	)

	rows := []string{header, ""}
	notes := n.notes()
	pending, hasPending := n.reorder.Pending()
	reordering := n.reorder.Active(tracker.ReorderNotes)

	for i, note := range notes {
		cursor := "  "
		style := normalItemStyle
		if i == n.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		text := note.Text
		if strings.TrimSpace(text) == "" {
			text = mutedStyle.Render("(empty)")
		} else {
			text = truncate(text, w-10)
		}
		prefix := fmt.Sprintf("%d. ", i+1)
		if reordering && hasPending && pending == note.ID {
			prefix = warningStyle.Render("* ")
		}
		rows = append(rows, style.Render(cursor+prefix)+text)
	}

	rows = append(rows, "")
	if reordering {
		if hasPending {
			rows = append(rows, warningStyle.Render("  Reorder: pick the note to swap with (esc to stop)"))
		} else {
			rows = append(rows, warningStyle.Render("  Reorder: pick a note (enter), r to finish"))
		}
	} else {
		rows = append(rows, mutedStyle.Render("  n: new  enter: edit  d: delete  r: reorder  [/]: month"))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
