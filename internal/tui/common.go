package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/sadopc/habitgrid/internal/backup"
	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/config"
	"github.com/sadopc/habitgrid/internal/log"
	"github.com/sadopc/habitgrid/internal/store"
	"github.com/sadopc/habitgrid/internal/tracker"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewStats
	viewNotes
	viewSettings
)

var viewNames = []string{"Calendar", "Stats", "Notes", "Settings"}

// session is shared by every view. Models are values, so they hold a pointer
// to it and all of them see the same state and displayed month.
type session struct {
	state *tracker.State
	store *store.Store
	cfg   config.Config
	log   *log.Logger
	month calendar.YearMonth
	now   func() time.Time
}

func newSession(s *store.Store, st tracker.State, cfg config.Config, logger *log.Logger) *session {
	if logger == nil {
		logger = log.Discard()
	}
	return &session{
		state: &st,
		store: s,
		cfg:   cfg,
		log:   logger.WithComponent(log.ComponentTUI),
		month: calendar.Of(time.Now()),
		now:   time.Now,
	}
}

// commit persists the state after a mutation. Saving is synchronous so that
// writes land in the order the user made them.
func (s *session) commit(op string) tea.Cmd {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(*s.state); err != nil {
		s.log.Error("save failed", log.FieldOperation, log.OpSave, log.FieldAction, op, log.FieldError, err)
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
	}
	s.log.Debug("saved", log.FieldOperation, log.OpSave, log.FieldAction, op)
	return nil
}

func (s *session) today() (calendar.YearMonth, int) {
	t := s.now()
	return calendar.Of(t), t.Day()
}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
	json bool
	at   time.Time
}

// importDoneMsg carries a decoded preview. data is decoded again over the
// live state once the import is confirmed.
type importDoneMsg struct {
	path   string
	data   []byte
	result backup.Result
}

// stateReplacedMsg tells views to drop cursors that may point at data the
// new state no longer has.
type stateReplacedMsg struct{}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// --- Helpers ---

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// truncate cuts s to width display cells; CJK labels count double.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
