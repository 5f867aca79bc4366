package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/heymarley/writebot/internal/profile"
	"github.com/heymarley/writebot/internal/scenario"
)

// Persistence keys for the string-keyed record blobs.
const (
	FormRecordKey     = "writebot_form_data"
	ScenarioRecordKey = "writebot_scenario_data"
)

// Records provides access to the persisted form record and scenario
// result. It is the interface the session container depends on.
type Records interface {
	// LoadForm returns the last persisted form record merged over
	// defaults, or defaults if nothing usable is persisted. The bool
	// reports whether a persisted record was found. Unreadable data is
	// treated as absent, never fatal.
	LoadForm(ctx context.Context) (profile.FormRecord, bool)

	// SaveForm persists the form record.
	SaveForm(ctx context.Context, rec profile.FormRecord) error

	// DeleteForm removes the persisted form record.
	DeleteForm(ctx context.Context) error

	// SaveScenario persists the scenario result.
	SaveScenario(ctx context.Context, res scenario.Result) error

	// DeleteScenario removes the persisted scenario result.
	DeleteScenario(ctx context.Context) error
}

var _ Records = (*Store)(nil)

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query record %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("put record %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}

// LoadForm implements Records.
func (s *Store) LoadForm(ctx context.Context) (profile.FormRecord, bool) {
	raw, found, err := s.get(ctx, FormRecordKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: load form record: %v\n", err)
		return profile.Defaults(), false
	}
	if !found {
		return profile.Defaults(), false
	}

	// Unmarshal over defaults so keys absent from the persisted blob
	// keep their default values.
	rec := profile.Defaults()
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		fmt.Fprintf(os.Stderr, "warning: corrupt form record, using defaults: %v\n", err)
		return profile.Defaults(), false
	}
	return rec, true
}

// SaveForm implements Records.
func (s *Store) SaveForm(ctx context.Context, rec profile.FormRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal form record: %w", err)
	}
	return s.put(ctx, FormRecordKey, string(b))
}

// DeleteForm implements Records.
func (s *Store) DeleteForm(ctx context.Context) error {
	return s.delete(ctx, FormRecordKey)
}

// SaveScenario implements Records.
func (s *Store) SaveScenario(ctx context.Context, res scenario.Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal scenario result: %w", err)
	}
	return s.put(ctx, ScenarioRecordKey, string(b))
}

// DeleteScenario implements Records. The scenario entry is also removed
// unconditionally at every startup so a stale scenario is never shown.
func (s *Store) DeleteScenario(ctx context.Context) error {
	return s.delete(ctx, ScenarioRecordKey)
}
