package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/habitgrid/internal/tracker"
)

// ToCSV writes one row per marked slot, ordered by date then slot.
func ToCSV(st tracker.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Date", "Slot", "Category ID", "Category", "Color"}); err != nil {
		return err
	}

	for _, key := range st.Records.Keys() {
		day := st.Records[key]
		for _, slot := range day.Slots() {
			id := day[slot]
			label, color := "Unknown", ""
			if c, ok := st.Categories.Get(id); ok {
				label, color = c.Label, string(c.Color)
			}
			row := []string{key, strconv.Itoa(slot), string(id), label, color}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
