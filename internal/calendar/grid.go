package calendar

import "time"

// GridCells is the fixed size of a month grid: six Monday-start weeks.
const GridCells = 42

const daysPerWeek = 7

// Cell is one day slot of a month grid.
type Cell struct {
	Year    int
	Month   time.Month
	Day     int
	InMonth bool
}

// Key returns the record key for the cell's day.
func (c Cell) Key() string {
	return DateKey(c.Year, c.Month, c.Day)
}

// YearMonth returns the month the cell actually belongs to.
func (c Cell) YearMonth() YearMonth {
	return YearMonth{Year: c.Year, Month: c.Month}
}

// MondayOffset maps a weekday onto a Monday-start column index.
func MondayOffset(wd time.Weekday) int {
	return (int(wd) + 6) % daysPerWeek
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonthGrid lays out a month as 42 cells: the tail of the previous
// month, every day of the target month, then the head of the next month.
// Out-of-range months are normalised, so month 0 is December of year-1.
func BuildMonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := MondayOffset(first.Weekday())
	start := first.AddDate(0, 0, -offset)

	cells := make([]Cell, 0, GridCells)
	for i := 0; i < GridCells; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, Cell{
			Year:    d.Year(),
			Month:   d.Month(),
			Day:     d.Day(),
			InMonth: d.Year() == first.Year() && d.Month() == first.Month(),
		})
	}
	return cells
}

// PartitionWeeks splits cells into consecutive rows of seven.
func PartitionWeeks(cells []Cell) [][]Cell {
	weeks := make([][]Cell, 0, (len(cells)+daysPerWeek-1)/daysPerWeek)
	for i := 0; i < len(cells); i += daysPerWeek {
		end := i + daysPerWeek
		if end > len(cells) {
			end = len(cells)
		}
		weeks = append(weeks, cells[i:end])
	}
	return weeks
}
