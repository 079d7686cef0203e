// Package backup converts application state to and from the JSON backup
// document. The same per-field table decodes imported files and the rows of
// the local store, so both share one defaulting policy.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/habitgrid/internal/tracker"
)

// ErrInvalidBackup is returned when a document cannot be parsed at all.
var ErrInvalidBackup = errors.New("invalid backup")

// Result is a decoded state plus what happened while decoding it.
type Result struct {
	State tracker.State
	// Invalid names fields that were present but malformed; each was
	// replaced by its built-in default.
	Invalid []string
	// Migrated lists the legacy migrations that ran.
	Migrated   []string
	ExportedAt *time.Time
}

// Encode renders the full state as an indented backup document.
func Encode(st tracker.State, exportedAt time.Time) ([]byte, error) {
	doc := document{
		Title:          st.Title,
		GridMode:       st.GridMode,
		Categories:     toWireCategories(st.Categories),
		Records:        toWireRecords(st.Records),
		WeekNotes:      st.WeekNotes,
		AllFooterNotes: toWireNotes(st.FooterNotes),
		LangIndex:      st.LangIndex,
		DarkMode:       st.DarkMode,
		LastBackup:     toWireTime(st.LastBackup),
		ExportedAt:     exportedAt.UTC().Format(timeLayout),
	}
	if doc.WeekNotes == nil {
		doc.WeekNotes = map[string]string{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// EncodeFields renders each persisted field separately, keyed by field name.
func EncodeFields(st tracker.State) (map[string]json.RawMessage, error) {
	values := map[string]any{
		FieldTitle:       st.Title,
		FieldGridMode:    st.GridMode,
		FieldCategories:  toWireCategories(st.Categories),
		FieldRecords:     toWireRecords(st.Records),
		FieldWeekNotes:   st.WeekNotes,
		FieldFooterNotes: toWireNotes(st.FooterNotes),
		FieldLangIndex:   st.LangIndex,
		FieldDarkMode:    st.DarkMode,
		FieldLastBackup:  toWireTime(st.LastBackup),
	}
	out := make(map[string]json.RawMessage, len(values))
	for name, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", name, err)
		}
		out[name] = raw
	}
	return out, nil
}

// Decode parses a backup document and applies it over base. A document that
// is not a JSON object is rejected with ErrInvalidBackup and base is left
// untouched. now selects the month that legacy flat notes migrate into.
func Decode(data []byte, base tracker.State, now time.Time) (Result, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if doc == nil {
		return Result{}, fmt.Errorf("%w: document is null", ErrInvalidBackup)
	}
	return DecodeFields(doc, base, now), nil
}

// DecodeFields applies raw field values over a copy of base. Missing fields
// keep the base value; malformed ones fall back to the default.
func DecodeFields(doc map[string]json.RawMessage, base tracker.State, now time.Time) Result {
	res := Result{State: base.Clone()}
	doc = cloneDoc(doc)

	for _, m := range migrations {
		applied, invalid := m.run(doc, now)
		if applied {
			res.Migrated = append(res.Migrated, m.name)
		}
		res.Invalid = append(res.Invalid, invalid...)
	}

	defaults := tracker.DefaultState()
	for _, f := range fields {
		raw, ok := doc[f.name]
		if !ok || (isNull(raw) && !f.nullable) {
			continue
		}
		if err := f.decode(raw, &res.State); err != nil {
			if !errors.Is(err, errPartial) {
				f.reset(&res.State, defaults)
			}
			res.Invalid = append(res.Invalid, f.name)
		}
	}

	for _, name := range []string{FieldExportedAt, legacyBackupDate} {
		var s string
		if raw, ok := doc[name]; ok && json.Unmarshal(raw, &s) == nil {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				res.ExportedAt = &t
				break
			}
		}
	}
	return res
}

func cloneDoc(doc map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
