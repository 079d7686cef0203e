package backup

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/tracker"
)

var (
	testNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	jan2024 = calendar.YearMonth{Year: 2024, Month: time.January}
	feb2024 = calendar.YearMonth{Year: 2024, Month: time.February}
)

func sampleState() tracker.State {
	st := tracker.DefaultState()
	st.Title = "Habits"
	st.GridMode = tracker.GridDense
	st.LangIndex = tracker.LangEN
	st.DarkMode = true
	st.Categories.Relabel("green", "Gym")
	st.Categories.Swap("red", "purple")
	st.Records.Toggle("2024-01-01", 0, "red")
	st.Records.Toggle("2024-01-01", 5, "green")
	st.Records.Toggle("2024-02-10", 2, "blue")
	st.SetWeekNote(jan2024, 1, "vacation")
	st.FooterNotes.Add(jan2024, "sleep by 11")
	st.FooterNotes.Update(feb2024, "def-2", "run 5k")
	last := time.Date(2024, time.February, 1, 8, 30, 0, 0, time.UTC)
	st.LastBackup = &last
	return st
}

func assertStateEqual(t *testing.T, want, got tracker.State) {
	t.Helper()
	if want.Title != got.Title || want.GridMode != got.GridMode ||
		want.LangIndex != got.LangIndex || want.DarkMode != got.DarkMode {
		t.Fatalf("scalar mismatch:\nwant %+v\ngot  %+v", want, got)
	}
	if !reflect.DeepEqual(want.Categories, got.Categories) {
		t.Fatalf("categories mismatch:\nwant %v\ngot  %v", want.Categories, got.Categories)
	}
	if !reflect.DeepEqual(want.Records, got.Records) {
		t.Fatalf("records mismatch:\nwant %v\ngot  %v", want.Records, got.Records)
	}
	if !reflect.DeepEqual(want.WeekNotes, got.WeekNotes) {
		t.Fatalf("week notes mismatch:\nwant %v\ngot  %v", want.WeekNotes, got.WeekNotes)
	}
	if !reflect.DeepEqual(want.FooterNotes, got.FooterNotes) {
		t.Fatalf("footer notes mismatch:\nwant %v\ngot  %v", want.FooterNotes, got.FooterNotes)
	}
	switch {
	case want.LastBackup == nil && got.LastBackup == nil:
	case want.LastBackup == nil || got.LastBackup == nil || !want.LastBackup.Equal(*got.LastBackup):
		t.Fatalf("last backup mismatch: want %v got %v", want.LastBackup, got.LastBackup)
	}
}

// ============================================================
// Round trip
// ============================================================

func TestRoundTrip(t *testing.T) {
	st := sampleState()
	data, err := Encode(st, testNow)
	if err != nil {
		t.Fatal(err)
	}

	res, err := Decode(data, tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Invalid) != 0 || len(res.Migrated) != 0 {
		t.Fatalf("clean document reported invalid=%v migrated=%v", res.Invalid, res.Migrated)
	}
	assertStateEqual(t, st, res.State)
	if res.ExportedAt == nil || !res.ExportedAt.Equal(testNow) {
		t.Fatalf("exportedAt not decoded: %v", res.ExportedAt)
	}
}

func TestRoundTripFields(t *testing.T) {
	st := sampleState()
	doc, err := EncodeFields(st)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc[FieldExportedAt]; ok {
		t.Fatal("per-field encoding should not carry exportedAt")
	}
	res := DecodeFields(doc, tracker.DefaultState(), testNow)
	assertStateEqual(t, st, res.State)
}

func TestEncodeFieldNames(t *testing.T) {
	data, err := Encode(tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{FieldTitle, FieldGridMode, FieldCategories, FieldRecords,
		FieldWeekNotes, FieldFooterNotes, FieldLangIndex, FieldDarkMode, FieldLastBackup, FieldExportedAt} {
		if _, ok := m[name]; !ok {
			t.Fatalf("missing field %q in %s", name, data)
		}
	}
	if m[FieldLastBackup] != nil {
		t.Fatal("never backed up should encode as null")
	}
}

// ============================================================
// Defaulting
// ============================================================

func TestMissingFieldsKeepBase(t *testing.T) {
	base := sampleState()
	res, err := Decode([]byte(`{"title": "Imported"}`), base, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.State.Title != "Imported" {
		t.Fatalf("title not applied: %q", res.State.Title)
	}
	want := base.Clone()
	want.Title = "Imported"
	assertStateEqual(t, want, res.State)
}

func TestShapeMismatchDefaultsPerField(t *testing.T) {
	base := sampleState()
	doc := `{
		"title": 42,
		"gridMode": 5,
		"categories": "red",
		"records": {"2024-01-01": {"0": "red"}},
		"langIndex": 7,
		"darkMode": "yes"
	}`
	res, err := Decode([]byte(doc), base, testNow)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{FieldTitle, FieldGridMode, FieldCategories, FieldLangIndex, FieldDarkMode}
	got := slices.Clone(res.Invalid)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Fatalf("expected invalid %v, got %v", want, got)
	}

	def := tracker.DefaultState()
	if res.State.Title != def.Title || res.State.GridMode != def.GridMode ||
		res.State.LangIndex != def.LangIndex || res.State.DarkMode != def.DarkMode {
		t.Fatalf("invalid scalars should take defaults: %+v", res.State)
	}
	if !reflect.DeepEqual(res.State.Categories, def.Categories) {
		t.Fatal("invalid categories should take defaults")
	}
	if len(res.State.Records) != 1 || res.State.Records["2024-01-01"][0] != "red" {
		t.Fatalf("valid records should be applied: %v", res.State.Records)
	}
	if !reflect.DeepEqual(res.State.WeekNotes, base.WeekNotes) {
		t.Fatal("absent week notes should keep base")
	}
}

func TestRecordKeysNormalised(t *testing.T) {
	doc := `{"records": {
		"2024-0-5": {"0": "red"},
		"2024-1-5": {"1": "blue"},
		"2024-02-05": {"0": "green"},
		"2024-01-07": {"2": "red"},
		"2024-13-1": {"0": "red"},
		"yesterday": {"0": "red"}
	}}`
	res, err := Decode([]byte(doc), sampleState(), testNow)
	if err != nil {
		t.Fatal(err)
	}

	want := tracker.Records{
		"2024-01-05": {0: "red"},
		"2024-02-05": {0: "green"},
		"2024-01-07": {2: "red"},
	}
	if !reflect.DeepEqual(res.State.Records, want) {
		t.Fatalf("records = %v, want %v", res.State.Records, want)
	}
	if !slices.Equal(res.Invalid, []string{FieldRecords}) {
		t.Fatalf("dropped keys should be reported, got %v", res.Invalid)
	}
	if !calendar.InMonth("2024-01-05", jan2024) {
		t.Fatal("converted key should fall in january")
	}
}

func TestRecordKeysLegacyOnly(t *testing.T) {
	res, err := Decode([]byte(`{"records": {"2024-0-5": {"0": "red"}}}`), sampleState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Invalid) != 0 {
		t.Fatalf("convertible keys are not invalid: %v", res.Invalid)
	}
	if res.State.Records.Get("2024-01-05")[0] != "red" {
		t.Fatalf("zero-based key not converted: %v", res.State.Records)
	}
}

func TestWeekNoteKeysValidated(t *testing.T) {
	doc := `{"weekNotes": {"2024-0-W2": "busy", "2024-0-W9": "x", "notes": "y", "2024-1-W0": ""}}`
	res, err := Decode([]byte(doc), sampleState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"2024-0-W2": "busy"}
	if !reflect.DeepEqual(res.State.WeekNotes, want) {
		t.Fatalf("week notes = %v, want %v", res.State.WeekNotes, want)
	}
	if !slices.Equal(res.Invalid, []string{FieldWeekNotes}) {
		t.Fatalf("expected weekNotes reported, got %v", res.Invalid)
	}
}

func TestCategoryValidation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		invalid bool
	}{
		{"empty list", `{"categories": []}`, true},
		{"missing id", `{"categories": [{"label": "x"}]}`, true},
		{"duplicate id", `{"categories": [{"id": "a"}, {"id": "a"}]}`, true},
		{"not objects", `{"categories": [1, 2]}`, true},
		{"valid", `{"categories": [{"id": "a", "label": "A", "color": "blue"}]}`, false},
	}
	for _, tt := range tests {
		res, err := Decode([]byte(tt.doc), tracker.DefaultState(), testNow)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		isInvalid := slices.Contains(res.Invalid, FieldCategories)
		if isInvalid != tt.invalid {
			t.Fatalf("%s: expected invalid=%v, got %v", tt.name, tt.invalid, res.Invalid)
		}
	}
}

func TestCategoryLabelAndColorFallbacks(t *testing.T) {
	doc := `{"categories": [
		{"id": "red", "defaultLabel": "Important"},
		{"id": "x1", "label": "Custom", "tw": "bg-emerald-300"},
		{"id": "x2", "label": "Custom 2"}
	]}`
	res, err := Decode([]byte(doc), tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	cats := res.State.Categories
	if cats[0].Label != "Important" || cats[0].Color != tracker.ColorRed {
		t.Fatalf("defaultLabel alias: %+v", cats[0])
	}
	if cats[1].Color != tracker.ColorGreen {
		t.Fatalf("utility class colour: %+v", cats[1])
	}
	if cats[2].Color != tracker.ColorYellow {
		t.Fatalf("positional colour: %+v", cats[2])
	}
}

func TestNullFieldsAreAbsent(t *testing.T) {
	base := sampleState()
	res, err := Decode([]byte(`{"title": null, "lastBackupTimestamp": null}`), base, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.State.Title != base.Title {
		t.Fatal("null title should keep base")
	}
	if res.State.LastBackup != nil {
		t.Fatal("null timestamp should clear last backup")
	}
}

// ============================================================
// Rejection
// ============================================================

func TestDecodeRejectsMalformed(t *testing.T) {
	base := sampleState()
	want := base.Clone()
	for _, input := range []string{`{not json`, `[1,2,3]`, `"text"`, `null`, ``} {
		_, err := Decode([]byte(input), base, testNow)
		if !errors.Is(err, ErrInvalidBackup) {
			t.Fatalf("%q: expected ErrInvalidBackup, got %v", input, err)
		}
	}
	// Base must be untouched.
	assertStateEqual(t, want, base)
}

func TestDecodeDoesNotAliasBase(t *testing.T) {
	base := sampleState()
	res, err := Decode([]byte(`{}`), base, testNow)
	if err != nil {
		t.Fatal(err)
	}
	res.State.Records.Toggle("2030-01-01", 0, "red")
	res.State.Categories.Relabel("red", "changed")
	if _, ok := base.Records["2030-01-01"]; ok {
		t.Fatal("decoded state shares records with base")
	}
	if c, _ := base.Categories.Get("red"); c.Label == "changed" {
		t.Fatal("decoded state shares categories with base")
	}
}

// ============================================================
// Migrations
// ============================================================

func TestLegacyFooterNotes(t *testing.T) {
	doc := `{"footerNotes": [{"id": "a", "text": "one"}, {"id": "b", "text": "two"}]}`
	res, err := Decode([]byte(doc), tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(res.Migrated, MigrateFooterNotes) {
		t.Fatalf("expected footer migration, got %v", res.Migrated)
	}
	notes := res.State.FooterNotes["2024-03"]
	if len(notes) != 2 || notes[1].Text != "two" {
		t.Fatalf("notes should land in the current month: %v", res.State.FooterNotes)
	}
}

func TestLegacyFooterNotesLosesToNewShape(t *testing.T) {
	doc := `{"footerNotes": [{"id": "a", "text": "old"}], "allFooterNotes": {"2024-01": [{"id": "n", "text": "new"}]}}`
	res, err := Decode([]byte(doc), tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.State.FooterNotes["2024-03"]; ok {
		t.Fatal("legacy notes must not be merged when the new shape is present")
	}
	if res.State.FooterNotes["2024-01"][0].Text != "new" {
		t.Fatal("new shape should be applied")
	}
}

func TestAppTitleAlias(t *testing.T) {
	res, err := Decode([]byte(`{"appTitle": "Old Title"}`), tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if res.State.Title != "Old Title" || !slices.Contains(res.Migrated, MigrateAppTitle) {
		t.Fatalf("appTitle not migrated: %q %v", res.State.Title, res.Migrated)
	}
}

func TestV1Document(t *testing.T) {
	doc := `{
		"appTitle": "Log",
		"isDarkMode": true,
		"weekdayLang": "en",
		"calendarData": {"2024-0-5": {"0": 1, "3": 0}, "2023-11-31": {"1": 5}, "junk": {"0": 1}},
		"colors": [
			{"id": "c1", "hex": "#FCA5A5", "darkHex": "#7F1D1D", "label": "Work"},
			{"id": "c2", "hex": "#FDBA74", "darkHex": "#7C2D12", "label": "Sport"},
			{"id": "c3", "label": "Read"},
			{"id": "c4", "label": "Rest"},
			{"id": "c5", "label": "Social"},
			{"id": "c6", "label": "Other"}
		],
		"weeklyNotes": {"2024-0-2": "busy"},
		"bottomNotes": ["a", "", "c"],
		"backupDate": "2024-01-20T00:00:00Z"
	}`
	res, err := Decode([]byte(doc), tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	st := res.State
	if st.Title != "Log" || !st.DarkMode || st.LangIndex != tracker.LangEN {
		t.Fatalf("scalars not migrated: %+v", st)
	}
	if c, ok := st.Categories.Get("c2"); !ok || c.Label != "Sport" || c.Color != tracker.ColorOrange {
		t.Fatalf("colors not migrated: %v", st.Categories)
	}
	if st.Records["2024-01-05"][0] != "c2" || st.Records["2024-01-05"][3] != "c1" {
		t.Fatalf("calendar data not migrated: %v", st.Records)
	}
	if st.Records["2023-12-31"][1] != "c6" {
		t.Fatalf("december key not migrated: %v", st.Records)
	}
	if len(st.Records) != 2 {
		t.Fatalf("junk keys should be dropped: %v", st.Records)
	}
	if st.WeekNote(jan2024, 2) != "busy" {
		t.Fatalf("weekly notes not migrated: %v", st.WeekNotes)
	}
	notes := st.FooterNotes["2024-03"]
	if len(notes) != 3 || notes[2].Text != "c" || notes[0].ID != "def-0" {
		t.Fatalf("bottom notes not migrated: %v", notes)
	}
	if res.ExportedAt == nil || res.ExportedAt.Day() != 20 {
		t.Fatalf("backupDate not read: %v", res.ExportedAt)
	}
	for _, tag := range []string{MigrateAppTitle, MigrateV1Calendar, MigrateFooterNotes} {
		if !slices.Contains(res.Migrated, tag) {
			t.Fatalf("missing migration %q in %v", tag, res.Migrated)
		}
	}
}

func TestV1BadLanguageReported(t *testing.T) {
	res, err := Decode([]byte(`{"calendarData": {}, "weekdayLang": "fr"}`), tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(res.Invalid, "weekdayLang") {
		t.Fatalf("expected weekdayLang reported, got %v", res.Invalid)
	}
}
