package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/habitgrid/internal/backup"
	"github.com/sadopc/habitgrid/internal/tracker"
)

var testNow = time.Date(2024, time.April, 9, 18, 30, 0, 0, time.UTC)

func sampleState() tracker.State {
	st := tracker.DefaultState()
	st.Records.Toggle("2024-04-02", 1, "green")
	st.Records.Toggle("2024-04-01", 3, "red")
	st.Records.Toggle("2024-04-01", 0, "blue")
	st.Records.Toggle("2024-04-03", 0, "gone")
	st.Categories.Relabel("red", `Work, "deep"`)
	return st
}

// ============================================================
// File names
// ============================================================

func TestFileName(t *testing.T) {
	if got := FileName(testNow); got != "calendar_backup_20240409.json" {
		t.Fatalf("unexpected file name %q", got)
	}
	if got := CSVFileName(testNow); got != "calendar_records_20240409.csv" {
		t.Fatalf("unexpected csv name %q", got)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	st := sampleState()
	path := filepath.Join(t.TempDir(), FileName(testNow))

	if err := ToJSON(&st, path, testNow); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if st.LastBackup == nil || !st.LastBackup.Equal(testNow) {
		t.Fatalf("last backup not recorded: %v", st.LastBackup)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc["exportedAt"] != "2024-04-09T18:30:00Z" {
		t.Fatalf("unexpected exportedAt %v", doc["exportedAt"])
	}
	if doc["lastBackupTimestamp"] != "2024-04-09T18:30:00Z" {
		t.Fatalf("document should carry the new backup time, got %v", doc["lastBackupTimestamp"])
	}
}

func TestToJSONBadPath(t *testing.T) {
	st := sampleState()
	err := ToJSON(&st, "/nonexistent/dir/file.json", testNow)
	if err == nil {
		t.Fatal("expected error for bad path")
	}
	if st.LastBackup != nil {
		t.Fatal("failed export must not record a backup time")
	}
}

func TestImportRoundTrip(t *testing.T) {
	st := sampleState()
	path := filepath.Join(t.TempDir(), "b.json")
	if err := ToJSON(&st, path, testNow); err != nil {
		t.Fatal(err)
	}

	res, err := Import(path, tracker.DefaultState(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.State.Records) != len(st.Records) {
		t.Fatalf("expected %d records, got %d", len(st.Records), len(res.State.Records))
	}
	if c, _ := res.State.Categories.Get("red"); c.Label != `Work, "deep"` {
		t.Fatalf("label not restored: %q", c.Label)
	}
	if res.State.LastBackup == nil {
		t.Fatal("last backup should be restored")
	}
}

func TestImportMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{oops"), 0o644)

	_, err := Import(path, tracker.DefaultState(), testNow)
	if !errors.Is(err, backup.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "none.json"), tracker.DefaultState(), testNow)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleState(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 4 marks
	if len(records) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(records))
	}

	expectedHeader := []string{"Date", "Slot", "Category ID", "Category", "Color"}
	for i, h := range expectedHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	tests := []struct {
		row                        int
		date, slot, id, label, col string
	}{
		{1, "2024-04-01", "0", "blue", "Work", "blue"},
		{2, "2024-04-01", "3", "red", `Work, "deep"`, "red"},
		{3, "2024-04-02", "1", "green", "Health", "green"},
		{4, "2024-04-03", "0", "gone", "Unknown", ""},
	}
	for _, tt := range tests {
		got := records[tt.row]
		want := []string{tt.date, tt.slot, tt.id, tt.label, tt.col}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("row %d col %d = %q, want %q", tt.row, i, got[i], want[i])
			}
		}
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(tracker.DefaultState(), path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(tracker.DefaultState(), "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}
