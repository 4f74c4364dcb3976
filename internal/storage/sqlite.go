package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/rutina/internal/models"
)

// SQLite is the default local store: a single file holding the routine blob,
// the append-only session log, and the rest-day set.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the store at the given path. ":memory:" is
// accepted for tests.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS routine (
			id      INTEGER PRIMARY KEY CHECK (id = 1),
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			day     INTEGER NOT NULL,
			date    TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rest_days (
			date TEXT PRIMARY KEY
		)`,
	}
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetRoutine returns the persisted routine, or (nil, nil) when none exists.
func (s *SQLite) GetRoutine(ctx context.Context) (*models.Routine, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM routine WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading routine: %w", err)
	}

	var r models.Routine
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("decoding routine: %w", err)
	}
	return &r, nil
}

// PutRoutine replaces the stored routine wholesale.
func (s *SQLite) PutRoutine(ctx context.Context, r *models.Routine) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding routine: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO routine (id, payload) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`,
		string(payload))
	if err != nil {
		return fmt.Errorf("writing routine: %w", err)
	}
	return nil
}

// AppendSession pushes a session record onto the log.
func (s *SQLite) AppendSession(ctx context.Context, sess models.WorkoutSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (day, date, payload) VALUES (?, ?, ?)`,
		sess.Day, sess.Date, string(payload))
	if err != nil {
		return fmt.Errorf("appending session: %w", err)
	}
	return nil
}

// ListSessions returns every session record in insertion order.
func (s *SQLite) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM sessions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		var sess models.WorkoutSession
		if err := json.Unmarshal([]byte(payload), &sess); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// ListRestDays returns the rest-day date keys in ascending order.
func (s *SQLite) ListRestDays(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date FROM rest_days ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing rest days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning rest day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// AddRestDay marks a date as an intentional non-training day. Idempotent.
func (s *SQLite) AddRestDay(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO rest_days (date) VALUES (?)`, date)
	if err != nil {
		return fmt.Errorf("adding rest day: %w", err)
	}
	return nil
}

// RemoveRestDay clears a rest-day flag. Removing an absent date is a no-op.
func (s *SQLite) RemoveRestDay(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rest_days WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("removing rest day: %w", err)
	}
	return nil
}

// EraseAll wipes routine, sessions, and rest days in one transaction.
func (s *SQLite) EraseAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting erase: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"routine", "sessions", "rest_days"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("erasing %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// ExportSnapshot bundles the whole store into one versioned blob.
func (s *SQLite) ExportSnapshot(ctx context.Context) ([]byte, error) {
	routine, err := s.GetRoutine(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	restDays, err := s.ListRestDays(ctx)
	if err != nil {
		return nil, err
	}
	return encodeSnapshot(routine, sessions, restDays)
}

// ImportSnapshot replaces the whole store state from a snapshot blob. The
// blob is decoded and validated before any write, so a malformed snapshot
// leaves the store untouched.
func (s *SQLite) ImportSnapshot(ctx context.Context, blob []byte) error {
	snap, err := decodeSnapshot(blob)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"routine", "sessions", "rest_days"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if snap.Routine != nil {
		payload, err := json.Marshal(snap.Routine)
		if err != nil {
			return fmt.Errorf("encoding routine: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO routine (id, payload) VALUES (1, ?)`, string(payload)); err != nil {
			return fmt.Errorf("importing routine: %w", err)
		}
	}
	for _, sess := range snap.Sessions {
		payload, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("encoding session: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (day, date, payload) VALUES (?, ?, ?)`,
			sess.Day, sess.Date, string(payload)); err != nil {
			return fmt.Errorf("importing session: %w", err)
		}
	}
	for _, d := range snap.RestDays {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO rest_days (date) VALUES (?)`, d); err != nil {
			return fmt.Errorf("importing rest day: %w", err)
		}
	}

	return tx.Commit()
}
