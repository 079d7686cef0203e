package tracker

import (
	"errors"
	"time"
)

// CategoryID identifies a category. Ids are stable once created.
type CategoryID string

// Eraser is the brush that clears a slot instead of marking it.
const Eraser CategoryID = "ERASER"

// Color is a palette token; the UI maps it to concrete light/dark colours.
type Color string

const (
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
)

var Colors = []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple}

func (c Color) Valid() bool {
	for _, v := range Colors {
		if v == c {
			return true
		}
	}
	return false
}

type Category struct {
	ID    CategoryID
	Label string
	Color Color
}

type Note struct {
	ID   string
	Text string
}

// Grid densities: sub-cells per day.
const (
	GridCompact = 4
	GridDense   = 6
)

func ValidGridMode(n int) bool {
	return n == GridCompact || n == GridDense
}

// Language indexes into calendar.Languages.
const (
	LangZH = iota
	LangJP
	LangEN
	langCount
)

const DefaultTitle = "My Life Log"

var (
	ErrSlotRange       = errors.New("slot out of range")
	ErrUnknownCategory = errors.New("unknown category")
)

// State is the whole persisted application state.
type State struct {
	Title       string
	GridMode    int
	Categories  CategoryList
	Records     Records
	WeekNotes   map[string]string
	FooterNotes NoteBook
	LangIndex   int
	DarkMode    bool
	LastBackup  *time.Time
}
