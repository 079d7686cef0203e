package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth normalises month overflow, e.g. (2024, 13) is January 2025.
func NewYearMonth(year int, month time.Month) YearMonth {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Of returns the month containing t.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) Add(months int) YearMonth {
	return NewYearMonth(ym.Year, ym.Month+time.Month(months))
}

func (ym YearMonth) Prev() YearMonth { return ym.Add(-1) }
func (ym YearMonth) Next() YearMonth { return ym.Add(1) }

// Index is a monotonically increasing month number, used for chronological
// comparison and span arithmetic.
func (ym YearMonth) Index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Index() < other.Index()
}

// Key renders the month as YYYY-MM.
func (ym YearMonth) Key() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) String() string {
	return ym.Month.String() + " " + strconv.Itoa(ym.Year)
}

// Grid builds the 42-cell grid for the month.
func (ym YearMonth) Grid() []Cell {
	return BuildMonthGrid(ym.Year, ym.Month)
}

// ParseYearMonth parses a YYYY-MM month key.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return Of(t), nil
}

// DateKey returns the canonical zero-padded YYYY-MM-DD key for a day.
func DateKey(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

// ParseDateKey returns the month and day encoded in a record key.
func ParseDateKey(key string) (YearMonth, int, error) {
	t, err := time.Parse(dateLayout, key)
	if err != nil {
		return YearMonth{}, 0, fmt.Errorf("parse date key %q: %w", key, err)
	}
	return Of(t), t.Day(), nil
}

// InMonth reports whether key is a valid date key inside ym.
func InMonth(key string, ym YearMonth) bool {
	got, _, err := ParseDateKey(key)
	return err == nil && got == ym
}

// WeekNoteKey identifies the note attached to a grid row. The month part is
// zero-based to stay compatible with existing backups.
func WeekNoteKey(ym YearMonth, week int) string {
	return fmt.Sprintf("%d-%d-W%d", ym.Year, int(ym.Month)-1, week)
}

// ParseWeekNoteKey is the inverse of WeekNoteKey.
func ParseWeekNoteKey(key string) (YearMonth, int, bool) {
	parts := strings.Split(key, "-")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "W") {
		return YearMonth{}, 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month0, err2 := strconv.Atoi(parts[1])
	week, err3 := strconv.Atoi(parts[2][1:])
	if err1 != nil || err2 != nil || err3 != nil || month0 < 0 || month0 > 11 ||
		week < 0 || week >= GridCells/daysPerWeek {
		return YearMonth{}, 0, false
	}
	return YearMonth{Year: year, Month: time.Month(month0 + 1)}, week, true
}
