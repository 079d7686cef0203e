package backup

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/tracker"
)

// Migration tags reported in Result.Migrated.
const (
	MigrateAppTitle    = "app-title"
	MigrateV1Calendar  = "v1-calendar-data"
	MigrateFooterNotes = "legacy-footer-notes"
)

// A migration rewrites legacy keys of doc into current fields in place. It
// reports whether it ran and which legacy keys it had to discard.
type migration struct {
	name string
	run  func(doc map[string]json.RawMessage, now time.Time) (bool, []string)
}

// Order matters: the v1 conversion emits a flat footerNotes list that the
// footer migration then files under the current month.
var migrations = []migration{
	{name: MigrateAppTitle, run: migrateAppTitle},
	{name: MigrateV1Calendar, run: migrateV1Calendar},
	{name: MigrateFooterNotes, run: migrateFooterNotes},
}

func migrateAppTitle(doc map[string]json.RawMessage, _ time.Time) (bool, []string) {
	raw, ok := doc[legacyAppTitle]
	if !ok {
		return false, nil
	}
	delete(doc, legacyAppTitle)
	if _, exists := doc[FieldTitle]; !exists {
		doc[FieldTitle] = raw
	}
	return true, nil
}

// v1 documents store colour indexes per slot under keys of the form
// {year}-{month0}-{day}, with the palette in "colors".
type v1Color struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var v1DefaultColorIDs = []string{"c1", "c2", "c3", "c4", "c5", "c6"}

func migrateV1Calendar(doc map[string]json.RawMessage, _ time.Time) (bool, []string) {
	rawData, ok := doc[legacyCalendarData]
	if !ok {
		return false, nil
	}
	var invalid []string
	defer func() {
		for _, k := range []string{legacyCalendarData, legacyColors, legacyWeeklyNotes, legacyBottomNotes, legacyIsDarkMode, legacyWeekdayLang} {
			delete(doc, k)
		}
	}()

	ids := v1DefaultColorIDs
	if raw, ok := doc[legacyColors]; ok {
		var colors []v1Color
		if err := json.Unmarshal(raw, &colors); err != nil || len(colors) == 0 {
			invalid = append(invalid, legacyColors)
		} else {
			ids = make([]string, len(colors))
			cats := make([]wireCategory, len(colors))
			for i, c := range colors {
				ids[i] = c.ID
				cats[i] = wireCategory{ID: c.ID, Label: c.Label, Color: string(tracker.Colors[i%len(tracker.Colors)])}
			}
			setIfAbsent(doc, FieldCategories, cats)
		}
	}

	if _, exists := doc[FieldRecords]; !exists {
		var data map[string]map[int]int
		if err := json.Unmarshal(rawData, &data); err != nil {
			invalid = append(invalid, legacyCalendarData)
		} else {
			records := make(map[string]map[int]string, len(data))
			for key, day := range data {
				dateKey, ok := convertV1DateKey(key)
				if !ok {
					continue
				}
				d := make(map[int]string, len(day))
				for slot, idx := range day {
					if idx >= 0 && idx < len(ids) {
						d[slot] = ids[idx]
					}
				}
				if len(d) > 0 {
					records[dateKey] = d
				}
			}
			setIfAbsent(doc, FieldRecords, records)
		}
	}

	if raw, ok := doc[legacyWeeklyNotes]; ok {
		var weekly map[string]string
		if err := json.Unmarshal(raw, &weekly); err != nil {
			invalid = append(invalid, legacyWeeklyNotes)
		} else {
			notes := make(map[string]string, len(weekly))
			for key, text := range weekly {
				i := strings.LastIndex(key, "-")
				if i < 0 {
					continue
				}
				notes[key[:i+1]+"W"+key[i+1:]] = text
			}
			setIfAbsent(doc, FieldWeekNotes, notes)
		}
	}

	if raw, ok := doc[legacyBottomNotes]; ok {
		if _, exists := doc[legacyFooterNotes]; !exists {
			doc[legacyFooterNotes] = raw
		}
	}
	if raw, ok := doc[legacyIsDarkMode]; ok {
		if _, exists := doc[FieldDarkMode]; !exists {
			doc[FieldDarkMode] = raw
		}
	}
	if raw, ok := doc[legacyWeekdayLang]; ok {
		var code string
		if err := json.Unmarshal(raw, &code); err != nil || calendar.LangIndex(code) < 0 {
			invalid = append(invalid, legacyWeekdayLang)
		} else {
			setIfAbsent(doc, FieldLangIndex, calendar.LangIndex(code))
		}
	}
	return true, invalid
}

// convertV1DateKey turns {year}-{month0}-{day} into a canonical date key.
func convertV1DateKey(key string) (string, bool) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 {
		return "", false
	}
	n := make([]int, 3)
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		n[i] = v
	}
	if n[1] < 0 || n[1] > 11 || n[2] < 1 || n[2] > calendar.DaysIn(n[0], time.Month(n[1]+1)) {
		return "", false
	}
	return calendar.DateKey(n[0], time.Month(n[1]+1), n[2]), true
}

// migrateFooterNotes files a flat note list under the current month. Items
// may be note objects or plain strings.
func migrateFooterNotes(doc map[string]json.RawMessage, now time.Time) (bool, []string) {
	raw, ok := doc[legacyFooterNotes]
	if !ok {
		return false, nil
	}
	delete(doc, legacyFooterNotes)
	if _, exists := doc[FieldFooterNotes]; exists {
		return true, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return true, []string{legacyFooterNotes}
	}
	notes := make([]wireNote, 0, len(items))
	for i, item := range items {
		var n wireNote
		if err := json.Unmarshal(item, &n); err != nil {
			var text string
			if err := json.Unmarshal(item, &text); err != nil {
				return true, []string{legacyFooterNotes}
			}
			n.Text = text
		}
		if n.ID == "" {
			n.ID = fmt.Sprintf("def-%d", i)
		}
		notes = append(notes, n)
	}
	setIfAbsent(doc, FieldFooterNotes, map[string][]wireNote{calendar.Of(now).Key(): notes})
	return true, nil
}

func setIfAbsent(doc map[string]json.RawMessage, name string, v any) {
	if _, exists := doc[name]; exists {
		return
	}
	if raw, err := json.Marshal(v); err == nil {
		doc[name] = raw
	}
}
