package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sadopc/habitgrid/internal/tracker"
)

var tableHeader = []string{"Category", "Month", "Diff", "Total", "Range", "Avg"}

// Rows renders one text row per category in registry order.
func (s Stats) Rows(cats tracker.CategoryList) [][]string {
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			c.Label,
			strconv.Itoa(s.Current[c.ID]),
			FormatDiff(s.Diff(c.ID)),
			strconv.Itoa(s.Total[c.ID]),
			s.Ranges[c.ID].String(),
			FormatAverage(s.Average(c.ID)),
		})
	}
	return rows
}

// WriteTable prints the stats as an aligned text table. Labels may contain
// wide characters, so padding is measured in display cells. Labels are
// truncated when the table would exceed maxWidth (0 means unlimited).
func WriteTable(w io.Writer, s Stats, cats tracker.CategoryList, maxWidth int) error {
	rows := s.Rows(cats)

	widths := make([]int, len(tableHeader))
	for i, h := range tableHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, col := range r {
			if cw := runewidth.StringWidth(col); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	if maxWidth > 0 {
		total := 2 + 2*(len(widths)-1)
		for _, cw := range widths {
			total += cw
		}
		if over := total - maxWidth; over > 0 && widths[0]-over >= 4 {
			widths[0] -= over
		}
	}

	if _, err := fmt.Fprintf(w, "%s\n", s.Month); err != nil {
		return err
	}
	lines := append([][]string{tableHeader}, rows...)
	for li, r := range lines {
		cells := make([]string, len(r))
		for i, col := range r {
			col = runewidth.Truncate(col, widths[i], "…")
			if i == 0 || i == 4 {
				cells[i] = runewidth.FillRight(col, widths[i])
			} else {
				cells[i] = runewidth.FillLeft(col, widths[i])
			}
		}
		if _, err := fmt.Fprintf(w, "  %s\n", strings.Join(cells, "  ")); err != nil {
			return err
		}
		if li == 0 {
			rule := 0
			for _, cw := range widths {
				rule += cw
			}
			rule += 2 * (len(widths) - 1)
			if _, err := fmt.Fprintf(w, "  %s\n", strings.Repeat("─", rule)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "  %d marks this month, %d all time\n", s.CurrentMarks(), s.TotalMarks())
	return err
}
