package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sadopc/habitgrid/internal/backup"
	"github.com/sadopc/habitgrid/internal/tracker"
)

// Load builds the application state from the stored fields on top of the
// defaults. Legacy keys are migrated once: the converted state is written
// back and the old keys removed.
func (s *Store) Load(now time.Time) (backup.Result, error) {
	rows, err := s.All()
	if err != nil {
		return backup.Result{}, fmt.Errorf("load state: %w", err)
	}

	doc := make(map[string]json.RawMessage, len(rows))
	for k, v := range rows {
		doc[k] = json.RawMessage(v)
	}
	res := backup.DecodeFields(doc, tracker.DefaultState(), now)

	if len(res.Migrated) > 0 {
		if err := s.Save(res.State); err != nil {
			return res, fmt.Errorf("save migrated state: %w", err)
		}
		if err := s.Delete(backup.LegacyFields...); err != nil {
			return res, fmt.Errorf("drop legacy keys: %w", err)
		}
		return res, nil
	}
	if len(res.Invalid) > 0 {
		if err := s.repair(res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// repair rewrites the rows that failed to decode with the values Load fell
// back to, so the same fields are not reported on every start.
func (s *Store) repair(res backup.Result) error {
	fields, err := backup.EncodeFields(res.State)
	if err != nil {
		return err
	}
	for _, name := range res.Invalid {
		v, ok := fields[name]
		if !ok {
			continue
		}
		if err := s.Set(name, string(v)); err != nil {
			return fmt.Errorf("repair %s: %w", name, err)
		}
	}
	return nil
}

// Save writes every field of st in one transaction.
func (s *Store) Save(st tracker.State) error {
	fields, err := backup.EncodeFields(st)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range fields {
		_, err := tx.Exec(
			`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k, string(v), now,
		)
		if err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
