package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/log"
	"github.com/sadopc/habitgrid/internal/tracker"
)

type calendarModel struct {
	sess   *session
	width  int
	height int

	day       int
	slot      int
	brush     tracker.CategoryID
	lastBrush tracker.CategoryID

	reorder   tracker.Reorder
	catCursor int

	prompt *prompt
}

func newCalendarModel(sess *session) calendarModel {
	_, d := sess.today()
	c := calendarModel{sess: sess, day: d}
	c.ensureBrush()
	return c
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) formActive() bool {
	return c.prompt != nil
}

// ensureBrush falls back to the first category when the brush no longer
// exists, e.g. after an import.
func (c *calendarModel) ensureBrush() {
	cats := c.sess.state.Categories
	if c.brush == tracker.Eraser {
		return
	}
	if cats.Has(c.brush) {
		return
	}
	c.brush = ""
	if len(cats) > 0 {
		c.brush = cats[0].ID
	}
}

func (c *calendarModel) clampCursor() {
	c.day = clamp(c.day, 1, calendar.DaysIn(c.sess.month.Year, c.sess.month.Month))
	c.slot = clamp(c.slot, 0, c.sess.state.GridMode-1)
	c.catCursor = clamp(c.catCursor, 0, max(len(c.sess.state.Categories)-1, 0))
}

// week returns the grid row holding the selected day.
func (c calendarModel) week() int {
	for i, cell := range c.sess.month.Grid() {
		if cell.InMonth && cell.Day == c.day {
			return i / 7
		}
	}
	return 0
}

func (c calendarModel) selectedKey() string {
	return calendar.DateKey(c.sess.month.Year, c.sess.month.Month, c.day)
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if c.prompt != nil {
		return c.updatePrompt(msg)
	}

	switch msg := msg.(type) {
	case stateReplacedMsg:
		c.reorder = tracker.Reorder{}
		c.ensureBrush()
		c.clampCursor()
		return c, nil

	case tea.KeyMsg:
		if c.reorder.Active(tracker.ReorderCategories) {
			return c.updateReorder(msg)
		}
		return c.updateKeys(msg)
	}
	return c, nil
}

func (c calendarModel) updateKeys(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	st := c.sess.state
	last := calendar.DaysIn(c.sess.month.Year, c.sess.month.Month)

	switch {
	case key.Matches(msg, keys.Left):
		c.day = clamp(c.day-1, 1, last)
	case key.Matches(msg, keys.Right):
		c.day = clamp(c.day+1, 1, last)
	case key.Matches(msg, keys.Up):
		c.day = clamp(c.day-7, 1, last)
	case key.Matches(msg, keys.Down):
		c.day = clamp(c.day+7, 1, last)
	case key.Matches(msg, keys.SlotPrev):
		c.slot = (c.slot + st.GridMode - 1) % st.GridMode
	case key.Matches(msg, keys.SlotNext):
		c.slot = (c.slot + 1) % st.GridMode

	case key.Matches(msg, keys.Mark):
		return c, c.mark()

	case key.Matches(msg, keys.BrushNext):
		c.cycleBrush(1)
	case key.Matches(msg, keys.BrushPrev):
		c.cycleBrush(-1)
	case key.Matches(msg, keys.Eraser):
		if c.brush == tracker.Eraser {
			c.brush = c.lastBrush
			c.ensureBrush()
		} else {
			c.lastBrush = c.brush
			c.brush = tracker.Eraser
		}

	case key.Matches(msg, keys.Grid):
		st.ToggleGridMode()
		c.clampCursor()
		return c, c.sess.commit("grid_mode")
	case key.Matches(msg, keys.Lang):
		st.CycleLanguage()
		return c, c.sess.commit("language")
	case key.Matches(msg, keys.Dark):
		st.ToggleDarkMode()
		return c, c.sess.commit("dark_mode")

	case key.Matches(msg, keys.PrevMonth):
		c.sess.month = c.sess.month.Prev()
		c.clampCursor()
	case key.Matches(msg, keys.NextMonth):
		c.sess.month = c.sess.month.Next()
		c.clampCursor()
	case key.Matches(msg, keys.Today):
		c.sess.month, c.day = c.sess.today()

	case key.Matches(msg, keys.Reorder):
		c.reorder.Toggle(tracker.ReorderCategories)
		if i := st.Categories.Index(c.brush); i >= 0 {
			c.catCursor = i
		}

	case key.Matches(msg, keys.Title):
		c.prompt = newInputPrompt(promptTitle, "Title", "", st.Title, requireText)
		return c, c.prompt.init()
	case key.Matches(msg, keys.Rename):
		cat, ok := st.Categories.Get(c.brush)
		if !ok {
			return c, statusCmd("Pick a category to rename", true)
		}
		c.prompt = newInputPrompt(promptRename, "Rename category", string(cat.ID), cat.Label, requireText)
		return c, c.prompt.init()
	case key.Matches(msg, keys.WeekNote):
		week := c.week()
		c.prompt = newInputPrompt(promptWeekNote, fmt.Sprintf("Note for week %d", week+1), "",
			st.WeekNote(c.sess.month, week), nil)
		return c, c.prompt.init()
	case key.Matches(msg, keys.New):
		c.prompt = newInputPrompt(promptCategoryNew, "New category", "", "", requireText)
		return c, c.prompt.init()
	case key.Matches(msg, keys.Delete):
		cat, ok := st.Categories.Get(c.brush)
		if !ok {
			return c, statusCmd("Pick a category to delete", true)
		}
		if len(st.Categories) == 1 {
			return c, statusCmd("The last category cannot be deleted", true)
		}
		c.prompt = newConfirmPrompt(fmt.Sprintf("Delete %q? Its marks stay but stop counting.", cat.Label), string(cat.ID))
		return c, c.prompt.init()
	case key.Matches(msg, keys.Jump):
		c.prompt = newInputPrompt(promptMonth, "Go to month (YYYY-MM)", "", c.sess.month.Key(), validMonth)
		return c, c.prompt.init()
	}
	return c, nil
}

func (c *calendarModel) mark() tea.Cmd {
	if c.brush == "" {
		return statusCmd("No category to mark with", true)
	}
	k := c.selectedKey()
	if _, err := c.sess.state.Mark(k, c.slot, c.brush); err != nil {
		c.sess.log.Warn("mark rejected", log.FieldError, err)
		return statusCmd(err.Error(), true)
	}
	return c.sess.commit("mark")
}

func (c *calendarModel) cycleBrush(step int) {
	cats := c.sess.state.Categories
	if len(cats) == 0 {
		return
	}
	i := cats.Index(c.brush)
	if i < 0 {
		i = 0
	} else {
		i = (i + step + len(cats)) % len(cats)
	}
	c.brush = cats[i].ID
}

func (c calendarModel) updateReorder(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	cats := c.sess.state.Categories
	switch {
	case key.Matches(msg, keys.Reorder), key.Matches(msg, keys.Back):
		c.reorder.Toggle(tracker.ReorderCategories)
	case key.Matches(msg, keys.BrushNext), key.Matches(msg, keys.Right), key.Matches(msg, keys.Down):
		if len(cats) > 0 {
			c.catCursor = (c.catCursor + 1) % len(cats)
		}
	case key.Matches(msg, keys.BrushPrev), key.Matches(msg, keys.Left), key.Matches(msg, keys.Up):
		if len(cats) > 0 {
			c.catCursor = (c.catCursor + len(cats) - 1) % len(cats)
		}
	case key.Matches(msg, keys.Mark):
		if c.catCursor >= len(cats) {
			return c, nil
		}
		picked := cats[c.catCursor].ID
		src, ok := c.reorder.Select(string(picked))
		if !ok {
			return c, nil
		}
		if cats.Swap(tracker.CategoryID(src), picked) {
			return c, c.sess.commit("swap_categories")
		}
	}
	return c, nil
}

func (c calendarModel) updatePrompt(msg tea.Msg) (calendarModel, tea.Cmd) {
	state, cmd := c.prompt.update(msg)
	switch state {
	case promptCancelled:
		c.prompt = nil
		return c, nil
	case promptOpen:
		return c, cmd
	}

	p := c.prompt
	c.prompt = nil
	return c.applyPrompt(p)
}

// applyPrompt commits the value of a completed prompt.
func (c calendarModel) applyPrompt(p *prompt) (calendarModel, tea.Cmd) {
	st := c.sess.state
	text := strings.TrimSpace(p.text())

	switch p.kind {
	case promptTitle:
		st.SetTitle(text)
		return c, c.sess.commit("title")
	case promptRename:
		if st.Categories.Relabel(tracker.CategoryID(p.target), text) {
			return c, c.sess.commit("relabel")
		}
	case promptWeekNote:
		st.SetWeekNote(c.sess.month, c.week(), text)
		return c, c.sess.commit("week_note")
	case promptMonth:
		if ym, err := calendar.ParseYearMonth(text); err == nil {
			c.sess.month = ym
			c.clampCursor()
		}
	case promptCategoryNew:
		cat := st.Categories.Add(text, nextColor(st.Categories))
		c.brush = cat.ID
		return c, c.sess.commit("add_category")
	case promptConfirm:
		if !p.confirmed() || len(st.Categories) == 1 {
			return c, nil
		}
		if st.Categories.Remove(tracker.CategoryID(p.target)) {
			c.ensureBrush()
			c.clampCursor()
			return c, c.sess.commit("remove_category")
		}
	}
	return c, nil
}

// nextColor picks the first palette colour no category uses yet, cycling
// once every colour is taken.
func nextColor(cats tracker.CategoryList) tracker.Color {
	used := make(map[tracker.Color]bool, len(cats))
	for _, cat := range cats {
		used[cat.Color] = true
	}
	for _, col := range tracker.Colors {
		if !used[col] {
			return col
		}
	}
	return tracker.Colors[len(cats)%len(tracker.Colors)]
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func validMonth(s string) error {
	_, err := calendar.ParseYearMonth(strings.TrimSpace(s))
	if err != nil {
		return errors.New("use YYYY-MM")
	}
	return nil
}

// --- View ---

const noteColumnMin = 12

func (c calendarModel) view() string {
	if c.prompt != nil {
		return c.prompt.view(c.width)
	}

	st := c.sess.state
	avail := c.width - 4
	noteW := max(noteColumnMin, avail/5)
	cellW := clamp((avail-noteW)/7, 8, 14)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render(st.Title),
		"  ",
		highlightStyle.Render(c.sess.month.String()),
		mutedStyle.Render(fmt.Sprintf("  grid %d", st.GridMode)),
	)

	rows := []string{header, "", c.renderWeekdays(cellW, noteW)}
	for w, week := range calendar.PartitionWeeks(c.sess.month.Grid()) {
		rows = append(rows, c.renderWeek(w, week, cellW, noteW))
	}
	rows = append(rows, "", c.renderPalette(), c.renderStatus())

	return lipgloss.NewStyle().Padding(0, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (c calendarModel) renderWeekdays(cellW, noteW int) string {
	labels := calendar.WeekdayLabels(c.sess.state.LangIndex)
	cols := make([]string, 0, len(labels)+1)
	for _, l := range labels {
		cols = append(cols, weekdayStyle.Width(cellW).Render(l))
	}
	cols = append(cols, mutedStyle.Width(noteW).Render(" Notes"))
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (c calendarModel) renderWeek(w int, week []calendar.Cell, cellW, noteW int) string {
	cols := make([]string, 0, len(week)+1)
	for _, cell := range week {
		cols = append(cols, c.renderCell(cell, cellW))
	}
	note := c.sess.state.WeekNote(c.sess.month, w)
	if note == "" {
		note = mutedStyle.Render(" ·")
	} else {
		note = weekNoteStyle.Render(" " + truncate(note, noteW-1))
	}
	cols = append(cols, lipgloss.NewStyle().Width(noteW).Render(note))
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (c calendarModel) renderCell(cell calendar.Cell, cellW int) string {
	st := c.sess.state
	todayYM, todayDay := c.sess.today()
	selected := cell.InMonth && cell.Day == c.day
	isToday := cell.YearMonth() == todayYM && cell.Day == todayDay

	num := fmt.Sprintf("%2d", cell.Day)
	switch {
	case selected:
		num = selectedDayStyle.Render(num)
	case !cell.InMonth:
		num = mutedStyle.Faint(true).Render(num)
	case isToday:
		num = todayStyle.Render(num)
	default:
		num = normalItemStyle.Render(num)
	}

	perRow := st.GridMode / 2
	slotW := max((cellW-2)/perRow, 1)
	rec := st.Records.Get(cell.Key())

	lines := []string{num}
	for r := 0; r < 2; r++ {
		var b strings.Builder
		for i := 0; i < perRow; i++ {
			slot := r*perRow + i
			b.WriteString(c.renderSlot(rec[slot], slotW, !cell.InMonth, selected && slot == c.slot))
		}
		lines = append(lines, b.String())
	}
	return lipgloss.NewStyle().Width(cellW).Render(strings.Join(lines, "\n"))
}

func (c calendarModel) renderSlot(id tracker.CategoryID, w int, faint, cursor bool) string {
	cat, ok := c.sess.state.Categories.Get(id)
	var s string
	style := lipgloss.NewStyle()
	if ok {
		s = strings.Repeat("█", w)
		style = style.Foreground(categoryColor(cat.Color, c.sess.state.DarkMode))
	} else {
		s = strings.Repeat("·", w)
		style = style.Foreground(colorSubtle)
	}
	if faint {
		style = style.Faint(true)
	}
	if cursor {
		style = style.Reverse(true)
	}
	return style.Render(s)
}

func (c calendarModel) renderPalette() string {
	st := c.sess.state
	reordering := c.reorder.Active(tracker.ReorderCategories)
	pending, hasPending := c.reorder.Pending()

	items := make([]string, 0, len(st.Categories)+1)
	for i, cat := range st.Categories {
		swatch := lipgloss.NewStyle().Foreground(categoryColor(cat.Color, st.DarkMode)).Render("██")
		label := cat.Label
		style := normalItemStyle
		switch {
		case reordering && hasPending && pending == string(cat.ID):
			label = "*" + label
			style = warningStyle
		case reordering && i == c.catCursor:
			style = selectedItemStyle
			label = "[" + label + "]"
		case !reordering && cat.ID == c.brush:
			style = selectedItemStyle.Underline(true)
		}
		items = append(items, swatch+" "+style.Render(label))
	}

	eraser := mutedStyle.Render("⌫ Eraser")
	if c.brush == tracker.Eraser {
		eraser = accentStyle.Bold(true).Underline(true).Render("⌫ Eraser")
	}
	items = append(items, eraser)
	return strings.Join(items, "  ")
}

func (c calendarModel) renderStatus() string {
	st := c.sess.state
	brush := "Eraser"
	if cat, ok := st.Categories.Get(c.brush); ok {
		brush = cat.Label
	}
	info := fmt.Sprintf("%s  slot %d/%d  brush %s", c.selectedKey(), c.slot+1, st.GridMode, brush)
	if c.reorder.Active(tracker.ReorderCategories) {
		if _, ok := c.reorder.Pending(); ok {
			return warningStyle.Render("Reorder: pick the category to swap with (esc to stop)")
		}
		return warningStyle.Render("Reorder: pick a category (space), r to finish")
	}
	return mutedStyle.Render(info)
}
