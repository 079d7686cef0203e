package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Mark      key.Binding
	SlotPrev  key.Binding
	SlotNext  key.Binding
	BrushNext key.Binding
	BrushPrev key.Binding
	Eraser    key.Binding
	Grid      key.Binding
	Lang      key.Binding
	Dark      key.Binding
	Reorder   key.Binding
	Rename    key.Binding
	Title     key.Binding
	WeekNote  key.Binding
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Jump      key.Binding
	New       key.Binding
	Delete    key.Binding
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	Tab4      key.Binding
	Tab       key.Binding
	Help      key.Binding
	Enter     key.Binding
	Back      key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Mark: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "mark"),
	),
	SlotPrev: key.NewBinding(
		key.WithKeys(","),
		key.WithHelp(",", "prev slot"),
	),
	SlotNext: key.NewBinding(
		key.WithKeys("."),
		key.WithHelp(".", "next slot"),
	),
	BrushNext: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c/C", "category"),
	),
	BrushPrev: key.NewBinding(
		key.WithKeys("C"),
	),
	Eraser: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "eraser"),
	),
	Grid: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "4/6 grid"),
	),
	Lang: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "weekday lang"),
	),
	Dark: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "dark mode"),
	),
	Reorder: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reorder"),
	),
	Rename: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "rename"),
	),
	Title: key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "title"),
	),
	WeekNote: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "week note"),
	),
	PrevMonth: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev month"),
	),
	NextMonth: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next month"),
	),
	Today: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	Jump: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "go to month"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "calendar"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "stats"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "notes"),
	),
	Tab4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "settings"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mark, k.BrushNext, k.Eraser, k.PrevMonth, k.NextMonth, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.SlotPrev, k.SlotNext},
		{k.Mark, k.BrushNext, k.Eraser, k.Reorder, k.Rename},
		{k.PrevMonth, k.NextMonth, k.Today, k.Jump, k.WeekNote},
		{k.Grid, k.Lang, k.Dark, k.Title, k.New, k.Delete},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab},
		{k.Enter, k.Back, k.Help, k.Quit},
	}
}
