package export

import (
	"fmt"
	"os"
	"time"

	"github.com/sadopc/habitgrid/internal/backup"
	"github.com/sadopc/habitgrid/internal/tracker"
)

// FileName is the conventional backup file name for a given day.
func FileName(now time.Time) string {
	return fmt.Sprintf("calendar_backup_%s.json", now.Format("20060102"))
}

// CSVFileName is the record export name for a given day.
func CSVFileName(now time.Time) string {
	return fmt.Sprintf("calendar_records_%s.csv", now.Format("20060102"))
}

// ToJSON writes a full backup of st to path. On success st.LastBackup is set
// to now, and the written document already carries that timestamp.
func ToJSON(st *tracker.State, path string, now time.Time) error {
	snapshot := st.Clone()
	snapshot.LastBackup = &now

	data, err := backup.Encode(snapshot, now)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	st.LastBackup = snapshot.LastBackup
	return nil
}

// Import reads a backup file and decodes it over base. base is never
// modified; a file that cannot be read or parsed yields an error and no
// state.
func Import(path string, base tracker.State, now time.Time) (backup.Result, error) {
	data, err := ReadBackup(path)
	if err != nil {
		return backup.Result{}, err
	}
	res, err := backup.Decode(data, base, now)
	if err != nil {
		return backup.Result{}, fmt.Errorf("import %s: %w", path, err)
	}
	return res, nil
}

// ReadBackup returns the raw contents of a backup file.
func ReadBackup(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	return data, nil
}
