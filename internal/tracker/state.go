package tracker

import (
	"fmt"

	"github.com/sadopc/habitgrid/internal/calendar"
)

// DefaultState is the state of a fresh install.
func DefaultState() State {
	return State{
		Title:       DefaultTitle,
		GridMode:    GridCompact,
		Categories:  DefaultCategories(),
		Records:     make(Records),
		WeekNotes:   make(map[string]string),
		FooterNotes: make(NoteBook),
		LangIndex:   LangZH,
	}
}

// Mark applies brush to one slot of a day. The slot must fit the current
// grid mode and brush must be Eraser or a registered category.
func (s *State) Mark(key string, slot int, brush CategoryID) (DayRecord, error) {
	if slot < 0 || slot >= s.GridMode {
		return s.Records.Get(key), fmt.Errorf("mark %s slot %d: %w", key, slot, ErrSlotRange)
	}
	if brush != Eraser && !s.Categories.Has(brush) {
		return s.Records.Get(key), fmt.Errorf("mark %s with %q: %w", key, brush, ErrUnknownCategory)
	}
	if s.Records == nil {
		s.Records = make(Records)
	}
	return s.Records.Apply(key, slot, brush), nil
}

// ToggleGridMode flips between 4 and 6 sub-cells. Marks in slots beyond the
// new density are kept.
func (s *State) ToggleGridMode() {
	if s.GridMode == GridDense {
		s.GridMode = GridCompact
	} else {
		s.GridMode = GridDense
	}
}

func (s *State) CycleLanguage() {
	s.LangIndex = (s.LangIndex + 1) % langCount
}

func (s *State) ToggleDarkMode() {
	s.DarkMode = !s.DarkMode
}

func (s *State) SetTitle(title string) {
	s.Title = title
}

func (s State) WeekNote(ym calendar.YearMonth, week int) string {
	return s.WeekNotes[calendar.WeekNoteKey(ym, week)]
}

// SetWeekNote stores a row note; an empty text removes it.
func (s *State) SetWeekNote(ym calendar.YearMonth, week int, text string) {
	if s.WeekNotes == nil {
		s.WeekNotes = make(map[string]string)
	}
	key := calendar.WeekNoteKey(ym, week)
	if text == "" {
		delete(s.WeekNotes, key)
		return
	}
	s.WeekNotes[key] = text
}

// ResetMonth clears the records of one month. Notes are left alone.
func (s *State) ResetMonth(ym calendar.YearMonth) int {
	return s.Records.ClearMonth(ym)
}

// ResetAll wipes records and notes but keeps categories and preferences.
func (s *State) ResetAll() {
	s.Records = make(Records)
	s.WeekNotes = make(map[string]string)
	s.FooterNotes = make(NoteBook)
}

// Clone returns a deep copy suitable for all-or-nothing updates.
func (s State) Clone() State {
	out := s
	out.Categories = s.Categories.Clone()
	out.Records = s.Records.Clone()
	out.WeekNotes = make(map[string]string, len(s.WeekNotes))
	for k, v := range s.WeekNotes {
		out.WeekNotes[k] = v
	}
	out.FooterNotes = s.FooterNotes.Clone()
	if s.LastBackup != nil {
		t := *s.LastBackup
		out.LastBackup = &t
	}
	return out
}
