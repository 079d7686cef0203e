package backup

import (
	"strings"
	"time"

	"github.com/sadopc/habitgrid/internal/tracker"
)

// Document field names.
const (
	FieldTitle       = "title"
	FieldGridMode    = "gridMode"
	FieldCategories  = "categories"
	FieldRecords     = "records"
	FieldWeekNotes   = "weekNotes"
	FieldFooterNotes = "allFooterNotes"
	FieldLangIndex   = "langIndex"
	FieldDarkMode    = "darkMode"
	FieldLastBackup  = "lastBackupTimestamp"
	FieldExportedAt  = "exportedAt"
)

// Keys only found in older documents. They are rewritten by migrations and
// never produced by Encode.
const (
	legacyFooterNotes  = "footerNotes"
	legacyAppTitle     = "appTitle"
	legacyCalendarData = "calendarData"
	legacyColors       = "colors"
	legacyWeeklyNotes  = "weeklyNotes"
	legacyBottomNotes  = "bottomNotes"
	legacyIsDarkMode   = "isDarkMode"
	legacyWeekdayLang  = "weekdayLang"
	legacyBackupDate   = "backupDate"
)

// LegacyFields lists every key a migration may consume.
var LegacyFields = []string{
	legacyFooterNotes, legacyAppTitle, legacyCalendarData, legacyColors,
	legacyWeeklyNotes, legacyBottomNotes, legacyIsDarkMode, legacyWeekdayLang,
}

const timeLayout = time.RFC3339Nano

type document struct {
	Title          string                    `json:"title"`
	GridMode       int                       `json:"gridMode"`
	Categories     []wireCategory            `json:"categories"`
	Records        map[string]map[int]string `json:"records"`
	WeekNotes      map[string]string         `json:"weekNotes"`
	AllFooterNotes map[string][]wireNote     `json:"allFooterNotes"`
	LangIndex      int                       `json:"langIndex"`
	DarkMode       bool                      `json:"darkMode"`
	LastBackup     *string                   `json:"lastBackupTimestamp"`
	ExportedAt     string                    `json:"exportedAt,omitempty"`
}

type wireCategory struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	Color        string `json:"color,omitempty"`
	DefaultLabel string `json:"defaultLabel,omitempty"`
	Tw           string `json:"tw,omitempty"`
}

type wireNote struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func toWireCategories(cats tracker.CategoryList) []wireCategory {
	out := make([]wireCategory, len(cats))
	for i, c := range cats {
		out[i] = wireCategory{ID: string(c.ID), Label: c.Label, Color: string(c.Color)}
	}
	return out
}

func toWireRecords(r tracker.Records) map[string]map[int]string {
	out := make(map[string]map[int]string, len(r))
	for key, day := range r {
		if len(day) == 0 {
			continue
		}
		d := make(map[int]string, len(day))
		for slot, id := range day {
			d[slot] = string(id)
		}
		out[key] = d
	}
	return out
}

func toWireNotes(b tracker.NoteBook) map[string][]wireNote {
	out := make(map[string][]wireNote, len(b))
	for month, notes := range b {
		ns := make([]wireNote, len(notes))
		for i, n := range notes {
			ns[i] = wireNote{ID: n.ID, Text: n.Text}
		}
		out[month] = ns
	}
	return out
}

func toWireTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(timeLayout)
	return &s
}

// colorFor picks the palette token for a decoded category: an explicit
// colour, then an id that is itself a token, then a utility class name, then
// the palette slot for its position.
func colorFor(c wireCategory, pos int) tracker.Color {
	if col := tracker.Color(c.Color); col.Valid() {
		return col
	}
	if col := tracker.Color(c.ID); col.Valid() {
		return col
	}
	if c.Tw != "" {
		if strings.Contains(c.Tw, "emerald") {
			return tracker.ColorGreen
		}
		for _, col := range tracker.Colors {
			if strings.Contains(c.Tw, "-"+string(col)+"-") {
				return col
			}
		}
	}
	return tracker.Colors[pos%len(tracker.Colors)]
}

func fromWireCategory(c wireCategory, pos int) tracker.Category {
	label := c.Label
	if label == "" {
		label = c.DefaultLabel
	}
	return tracker.Category{ID: tracker.CategoryID(c.ID), Label: label, Color: colorFor(c, pos)}
}
