package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/tracker"
)

var errShape = errors.New("unexpected shape")

// errPartial marks a field that decoded after dropping unusable entries.
// The decoded value is kept and the field is still reported.
var errPartial = errors.New("entries dropped")

type field struct {
	name     string
	nullable bool
	decode   func(raw json.RawMessage, st *tracker.State) error
	reset    func(st *tracker.State, def tracker.State)
}

var fields = []field{
	{
		name: FieldTitle,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			return json.Unmarshal(raw, &st.Title)
		},
		reset: func(st *tracker.State, def tracker.State) { st.Title = def.Title },
	},
	{
		name: FieldGridMode,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			var n int
			if err := json.Unmarshal(raw, &n); err != nil {
				return err
			}
			if !tracker.ValidGridMode(n) {
				return fmt.Errorf("grid mode %d: %w", n, errShape)
			}
			st.GridMode = n
			return nil
		},
		reset: func(st *tracker.State, def tracker.State) { st.GridMode = def.GridMode },
	},
	{
		name:   FieldCategories,
		decode: decodeCategories,
		reset:  func(st *tracker.State, def tracker.State) { st.Categories = def.Categories },
	},
	{
		name: FieldRecords,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			var in map[string]map[int]string
			if err := json.Unmarshal(raw, &in); err != nil {
				return err
			}
			records := make(tracker.Records, len(in))
			var legacy []string
			dropped := 0
			for key, day := range in {
				if len(day) == 0 {
					continue
				}
				if _, _, err := calendar.ParseDateKey(key); err != nil {
					legacy = append(legacy, key)
					continue
				}
				records[key] = toDayRecord(day)
			}
			// Zero-based keys only fill days the canonical keys left empty.
			sort.Strings(legacy)
			for _, key := range legacy {
				canon, ok := convertV1DateKey(key)
				if !ok {
					dropped++
					continue
				}
				if _, exists := records[canon]; !exists {
					records[canon] = toDayRecord(in[key])
				}
			}
			st.Records = records
			if dropped > 0 {
				return fmt.Errorf("%d record keys: %w", dropped, errPartial)
			}
			return nil
		},
		reset: func(st *tracker.State, def tracker.State) { st.Records = def.Records },
	},
	{
		name: FieldWeekNotes,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			var in map[string]string
			if err := json.Unmarshal(raw, &in); err != nil {
				return err
			}
			notes := make(map[string]string, len(in))
			dropped := 0
			for key, text := range in {
				if _, _, ok := calendar.ParseWeekNoteKey(key); !ok {
					dropped++
					continue
				}
				if text != "" {
					notes[key] = text
				}
			}
			st.WeekNotes = notes
			if dropped > 0 {
				return fmt.Errorf("%d week note keys: %w", dropped, errPartial)
			}
			return nil
		},
		reset: func(st *tracker.State, def tracker.State) { st.WeekNotes = def.WeekNotes },
	},
	{
		name: FieldFooterNotes,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			var in map[string][]wireNote
			if err := json.Unmarshal(raw, &in); err != nil {
				return err
			}
			book := make(tracker.NoteBook, len(in))
			for month, notes := range in {
				ns := make([]tracker.Note, len(notes))
				for i, n := range notes {
					ns[i] = tracker.Note{ID: n.ID, Text: n.Text}
				}
				book[month] = ns
			}
			st.FooterNotes = book
			return nil
		},
		reset: func(st *tracker.State, def tracker.State) { st.FooterNotes = def.FooterNotes },
	},
	{
		name: FieldLangIndex,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			var n int
			if err := json.Unmarshal(raw, &n); err != nil {
				return err
			}
			if n < tracker.LangZH || n > tracker.LangEN {
				return fmt.Errorf("language index %d: %w", n, errShape)
			}
			st.LangIndex = n
			return nil
		},
		reset: func(st *tracker.State, def tracker.State) { st.LangIndex = def.LangIndex },
	},
	{
		name: FieldDarkMode,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			return json.Unmarshal(raw, &st.DarkMode)
		},
		reset: func(st *tracker.State, def tracker.State) { st.DarkMode = def.DarkMode },
	},
	{
		name:     FieldLastBackup,
		nullable: true,
		decode: func(raw json.RawMessage, st *tracker.State) error {
			var s *string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			if s == nil {
				st.LastBackup = nil
				return nil
			}
			t, err := time.Parse(time.RFC3339Nano, *s)
			if err != nil {
				return err
			}
			st.LastBackup = &t
			return nil
		},
		reset: func(st *tracker.State, def tracker.State) { st.LastBackup = def.LastBackup },
	},
}

// decodeCategories accepts a non-empty list of objects with unique ids.
func decodeCategories(raw json.RawMessage, st *tracker.State) error {
	var in []wireCategory
	if err := json.Unmarshal(raw, &in); err != nil {
		return err
	}
	if len(in) == 0 {
		return fmt.Errorf("empty category list: %w", errShape)
	}
	seen := make(map[string]bool, len(in))
	cats := make(tracker.CategoryList, 0, len(in))
	for i, c := range in {
		if c.ID == "" || seen[c.ID] {
			return fmt.Errorf("category %d id %q: %w", i, c.ID, errShape)
		}
		seen[c.ID] = true
		cats = append(cats, fromWireCategory(c, i))
	}
	st.Categories = cats
	return nil
}

func toDayRecord(day map[int]string) tracker.DayRecord {
	d := make(tracker.DayRecord, len(day))
	for slot, id := range day {
		d[slot] = tracker.CategoryID(id)
	}
	return d
}
