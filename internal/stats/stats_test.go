package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/tracker"
)

var jan2024 = calendar.YearMonth{Year: 2024, Month: time.January}

func sampleRecords() tracker.Records {
	return tracker.Records{
		"2024-01-01": {0: "red", 1: "blue"},
		"2024-01-15": {0: "red", 2: "red"},
		"2023-12-31": {0: "red"},
		"2023-12-30": {3: "blue"},
		"2023-06-01": {0: "green"},
		"2024-03-10": {0: "red"},
		"2024-01-20": {0: "deleted"},
		"bogus":      {0: "red"},
	}
}

// ============================================================
// Counts
// ============================================================

func TestComputeCounts(t *testing.T) {
	st := Compute(sampleRecords(), tracker.DefaultCategories(), jan2024)

	tests := []struct {
		id               tracker.CategoryID
		cur, prev, total int
	}{
		{"red", 3, 1, 5},
		{"blue", 1, 1, 2},
		{"green", 0, 0, 1},
		{"purple", 0, 0, 0},
	}
	for _, tt := range tests {
		if st.Current[tt.id] != tt.cur {
			t.Fatalf("%s current: expected %d, got %d", tt.id, tt.cur, st.Current[tt.id])
		}
		if st.Previous[tt.id] != tt.prev {
			t.Fatalf("%s previous: expected %d, got %d", tt.id, tt.prev, st.Previous[tt.id])
		}
		if st.Total[tt.id] != tt.total {
			t.Fatalf("%s total: expected %d, got %d", tt.id, tt.total, st.Total[tt.id])
		}
	}
	if _, ok := st.Total["deleted"]; ok {
		t.Fatal("unknown categories must not be counted")
	}
	if st.MaxCount != 3 {
		t.Fatalf("expected max count 3, got %d", st.MaxCount)
	}
	if st.Diff("red") != 2 {
		t.Fatalf("expected diff +2, got %d", st.Diff("red"))
	}
}

func TestMaxCountFloor(t *testing.T) {
	st := Compute(tracker.Records{}, tracker.DefaultCategories(), jan2024)
	if st.MaxCount != 1 {
		t.Fatalf("expected max count floor of 1, got %d", st.MaxCount)
	}
	if st.Ratio("red") != 0 {
		t.Fatal("ratio should be 0 with no data")
	}
}

func TestPreviousMonthYearRollover(t *testing.T) {
	records := tracker.Records{"2023-12-05": {0: "red"}}
	st := Compute(records, tracker.DefaultCategories(), jan2024)
	if st.Previous["red"] != 1 {
		t.Fatalf("december 2023 should count as previous for january 2024, got %d", st.Previous["red"])
	}
}

func TestConservation(t *testing.T) {
	records := sampleRecords()
	cats := tracker.DefaultCategories()
	st := Compute(records, cats, jan2024)

	outside := 0
	for key, day := range records {
		ym, _, err := calendar.ParseDateKey(key)
		if err != nil || ym == jan2024 {
			continue
		}
		for _, id := range day {
			if cats.Has(id) {
				outside++
			}
		}
	}
	if st.CurrentMarks()+outside != st.TotalMarks() {
		t.Fatalf("current %d + outside %d != total %d", st.CurrentMarks(), outside, st.TotalMarks())
	}
}

// ============================================================
// Ranges and averages
// ============================================================

func TestRanges(t *testing.T) {
	st := Compute(sampleRecords(), tracker.DefaultCategories(), jan2024)

	r := st.Ranges["red"]
	if !r.HasData {
		t.Fatal("red should have data")
	}
	if r.First != (calendar.YearMonth{Year: 2023, Month: time.December}) {
		t.Fatalf("red first: %v", r.First)
	}
	if r.Last != (calendar.YearMonth{Year: 2024, Month: time.March}) {
		t.Fatalf("red last: %v", r.Last)
	}
	if r.MonthsSpanned() != 4 {
		t.Fatalf("expected 4 months spanned, got %d", r.MonthsSpanned())
	}
	if got := st.Average("red"); got != 1.25 {
		t.Fatalf("expected average 1.25, got %v", got)
	}

	// A single month of data spans one month.
	if st.Ranges["green"].MonthsSpanned() != 1 || st.Average("green") != 1 {
		t.Fatal("green should average 1 per month")
	}
}

func TestRangeChronologicalNotLexical(t *testing.T) {
	records := tracker.Records{
		"2023-09-01": {0: "red"},
		"2023-10-01": {0: "red"},
	}
	st := Compute(records, tracker.DefaultCategories(), jan2024)
	r := st.Ranges["red"]
	if r.First.Month != time.September || r.Last.Month != time.October {
		t.Fatalf("unexpected range %v", r)
	}
}

func TestAverageGuard(t *testing.T) {
	st := Compute(tracker.Records{}, tracker.DefaultCategories(), jan2024)
	avg := st.Average("purple")
	if math.IsNaN(avg) || math.IsInf(avg, 0) || avg != 0 {
		t.Fatalf("expected 0 average, got %v", avg)
	}
	if st.Ranges["purple"].HasData {
		t.Fatal("purple should have no data")
	}
	if FormatAverage(avg) != "0.0 / m" {
		t.Fatalf("unexpected format %q", FormatAverage(avg))
	}
	if st.Ranges["purple"].String() != "-" {
		t.Fatal("empty range should render as -")
	}
}

func TestDeterministic(t *testing.T) {
	records := sampleRecords()
	cats := tracker.DefaultCategories()
	a := Compute(records, cats, jan2024)
	b := Compute(records, cats, jan2024)
	for _, c := range cats {
		if a.Total[c.ID] != b.Total[c.ID] || a.Ranges[c.ID] != b.Ranges[c.ID] {
			t.Fatalf("non deterministic result for %s", c.ID)
		}
	}
}

// ============================================================
// Table
// ============================================================

func TestWriteTable(t *testing.T) {
	cats := tracker.DefaultCategories()
	cats.Relabel("red", "読書")
	st := Compute(sampleRecords(), cats, jan2024)

	var buf bytes.Buffer
	if err := WriteTable(&buf, st, cats, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "読書") {
		t.Fatal("table should contain wide label")
	}
	if !strings.Contains(out, "2023-12 ~ 2024-03") {
		t.Fatalf("table should contain red range:\n%s", out)
	}
	if !strings.Contains(out, "4 marks this month, 8 all time") {
		t.Fatalf("unexpected summary line:\n%s", out)
	}
	if FormatDiff(2) != "+2" || FormatDiff(-1) != "-1" {
		t.Fatal("diff formatting")
	}
}
