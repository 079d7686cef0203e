package stats

import (
	"fmt"

	"github.com/sadopc/habitgrid/internal/calendar"
	"github.com/sadopc/habitgrid/internal/tracker"
)

// Range is the first and last month a category was used in.
type Range struct {
	First   calendar.YearMonth
	Last    calendar.YearMonth
	HasData bool
}

// MonthsSpanned is the inclusive month count of the range, at least 1.
func (r Range) MonthsSpanned() int {
	if !r.HasData {
		return 1
	}
	n := r.Last.Index() - r.First.Index() + 1
	if n < 1 {
		return 1
	}
	return n
}

func (r Range) String() string {
	if !r.HasData {
		return "-"
	}
	if r.First == r.Last {
		return r.First.Key()
	}
	return r.First.Key() + " ~ " + r.Last.Key()
}

func (r *Range) observe(ym calendar.YearMonth) {
	if !r.HasData {
		r.First, r.Last, r.HasData = ym, ym, true
		return
	}
	if ym.Before(r.First) {
		r.First = ym
	}
	if r.Last.Before(ym) {
		r.Last = ym
	}
}

// Stats are per-category counts derived from a records snapshot. They are
// recomputed on demand and never persisted.
type Stats struct {
	Month    calendar.YearMonth
	Current  map[tracker.CategoryID]int
	Previous map[tracker.CategoryID]int
	Total    map[tracker.CategoryID]int
	Ranges   map[tracker.CategoryID]Range
	MaxCount int
}

// Compute counts marks per registered category for ym, the month before it,
// and all time. Marks pointing at unknown categories and records with
// malformed keys are ignored.
func Compute(records tracker.Records, cats tracker.CategoryList, ym calendar.YearMonth) Stats {
	prev := ym.Prev()
	st := Stats{
		Month:    ym,
		Current:  make(map[tracker.CategoryID]int, len(cats)),
		Previous: make(map[tracker.CategoryID]int, len(cats)),
		Total:    make(map[tracker.CategoryID]int, len(cats)),
		Ranges:   make(map[tracker.CategoryID]Range, len(cats)),
	}
	for _, c := range cats {
		st.Current[c.ID] = 0
		st.Previous[c.ID] = 0
		st.Total[c.ID] = 0
		st.Ranges[c.ID] = Range{}
	}

	for key, day := range records {
		month, _, err := calendar.ParseDateKey(key)
		if err != nil {
			continue
		}
		for _, id := range day {
			if _, ok := st.Total[id]; !ok {
				continue
			}
			st.Total[id]++
			switch month {
			case ym:
				st.Current[id]++
			case prev:
				st.Previous[id]++
			}
			r := st.Ranges[id]
			r.observe(month)
			st.Ranges[id] = r
		}
	}

	st.MaxCount = 1
	for _, n := range st.Current {
		if n > st.MaxCount {
			st.MaxCount = n
		}
	}
	return st
}

// Average is total marks per month over the category's used span. A category
// with no data averages 0.
func (s Stats) Average(id tracker.CategoryID) float64 {
	r := s.Ranges[id]
	if !r.HasData {
		return 0
	}
	return float64(s.Total[id]) / float64(r.MonthsSpanned())
}

// Diff is the change from the previous month.
func (s Stats) Diff(id tracker.CategoryID) int {
	return s.Current[id] - s.Previous[id]
}

// Ratio is the current count relative to the busiest category this month.
func (s Stats) Ratio(id tracker.CategoryID) float64 {
	return float64(s.Current[id]) / float64(s.MaxCount)
}

func (s Stats) CurrentMarks() int { return sum(s.Current) }
func (s Stats) TotalMarks() int   { return sum(s.Total) }

func sum(m map[tracker.CategoryID]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func FormatAverage(avg float64) string {
	return fmt.Sprintf("%.1f / m", avg)
}

func FormatDiff(d int) string {
	if d > 0 {
		return fmt.Sprintf("+%d", d)
	}
	return fmt.Sprintf("%d", d)
}
