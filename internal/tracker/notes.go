package tracker

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sadopc/habitgrid/internal/calendar"
)

const defaultNoteCount = 3

// DefaultNotes returns the blank notes shown for a month without any.
func DefaultNotes() []Note {
	notes := make([]Note, defaultNoteCount)
	for i := range notes {
		notes[i] = Note{ID: fmt.Sprintf("def-%d", i)}
	}
	return notes
}

// NoteBook holds footer notes per month, keyed by calendar.YearMonth.Key.
type NoteBook map[string][]Note

// ForMonth returns a copy of the month's notes, falling back to blanks.
func (b NoteBook) ForMonth(ym calendar.YearMonth) []Note {
	notes, ok := b[ym.Key()]
	if !ok {
		return DefaultNotes()
	}
	return append([]Note(nil), notes...)
}

// put stores a month's notes, creating the book on first write.
func (b *NoteBook) put(ym calendar.YearMonth, notes []Note) {
	if *b == nil {
		*b = make(NoteBook)
	}
	(*b)[ym.Key()] = notes
}

func (b *NoteBook) Add(ym calendar.YearMonth, text string) Note {
	n := Note{ID: uuid.NewString(), Text: text}
	b.put(ym, append(b.ForMonth(ym), n))
	return n
}

func (b *NoteBook) Update(ym calendar.YearMonth, id, text string) bool {
	notes := b.ForMonth(ym)
	for i := range notes {
		if notes[i].ID == id {
			notes[i].Text = text
			b.put(ym, notes)
			return true
		}
	}
	return false
}

// Delete removes a note. Deleting the last note leaves an empty list, which
// is distinct from a month that never had notes.
func (b *NoteBook) Delete(ym calendar.YearMonth, id string) bool {
	notes := b.ForMonth(ym)
	for i := range notes {
		if notes[i].ID == id {
			b.put(ym, append(notes[:i:i], notes[i+1:]...))
			return true
		}
	}
	return false
}

// Swap exchanges two notes of the month. Nothing changes unless both exist.
func (b *NoteBook) Swap(ym calendar.YearMonth, a, c string) bool {
	notes := b.ForMonth(ym)
	i, j := -1, -1
	for k, n := range notes {
		switch n.ID {
		case a:
			i = k
		case c:
			j = k
		}
	}
	if i < 0 || j < 0 {
		return false
	}
	notes[i], notes[j] = notes[j], notes[i]
	b.put(ym, notes)
	return true
}

func (b NoteBook) Clone() NoteBook {
	out := make(NoteBook, len(b))
	for k, v := range b {
		out[k] = append([]Note(nil), v...)
	}
	return out
}
