package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/claude/rutina/internal/models"
)

// Postgres is the alternate store for always-on deployments where the
// tracker runs behind a server instead of on a single machine. Same
// contract as SQLite, backed by a pgx pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// OpenPostgres creates a Postgres store with a connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	p.Pool.Close()
	return nil
}

func (p *Postgres) GetRoutine(ctx context.Context) (*models.Routine, error) {
	var payload []byte
	err := p.Pool.QueryRow(ctx, `SELECT payload FROM routine WHERE id = 1`).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading routine: %w", err)
	}

	var r models.Routine
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("decoding routine: %w", err)
	}
	return &r, nil
}

func (p *Postgres) PutRoutine(ctx context.Context, r *models.Routine) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding routine: %w", err)
	}
	_, err = p.Pool.Exec(ctx,
		`INSERT INTO routine (id, payload) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload`,
		payload)
	if err != nil {
		return fmt.Errorf("writing routine: %w", err)
	}
	return nil
}

func (p *Postgres) AppendSession(ctx context.Context, sess models.WorkoutSession) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	_, err = p.Pool.Exec(ctx,
		`INSERT INTO sessions (day, date, payload) VALUES ($1, $2, $3)`,
		sess.Day, sess.Date, payload)
	if err != nil {
		return fmt.Errorf("appending session: %w", err)
	}
	return nil
}

func (p *Postgres) ListSessions(ctx context.Context) ([]models.WorkoutSession, error) {
	rows, err := p.Pool.Query(ctx, `SELECT payload FROM sessions ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.WorkoutSession
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		var sess models.WorkoutSession
		if err := json.Unmarshal(payload, &sess); err != nil {
			return nil, fmt.Errorf("decoding session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (p *Postgres) ListRestDays(ctx context.Context) ([]string, error) {
	rows, err := p.Pool.Query(ctx, `SELECT date FROM rest_days ORDER BY date ASC`)
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

func (p *Postgres) AddRestDay(ctx context.Context, date string) error {
	_, err := p.Pool.Exec(ctx,
		`INSERT INTO rest_days (date) VALUES ($1) ON CONFLICT DO NOTHING`, date)
	if err != nil {
		return fmt.Errorf("adding rest day: %w", err)
	}
	return nil
}

func (p *Postgres) RemoveRestDay(ctx context.Context, date string) error {
	_, err := p.Pool.Exec(ctx, `DELETE FROM rest_days WHERE date = $1`, date)
	if err != nil {
		return fmt.Errorf("removing rest day: %w", err)
	}
	return nil
}

func (p *Postgres) EraseAll(ctx context.Context) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting erase: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"routine", "sessions", "rest_days"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("erasing %s: %w", table, err)
		}
	}
	return tx.Commit(ctx)
}

func (p *Postgres) ExportSnapshot(ctx context.Context) ([]byte, error) {
	routine, err := p.GetRoutine(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := p.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	restDays, err := p.ListRestDays(ctx)
	if err != nil {
		return nil, err
	}
	return encodeSnapshot(routine, sessions, restDays)
}

func (p *Postgres) ImportSnapshot(ctx context.Context, blob []byte) error {
	snap, err := decodeSnapshot(blob)
	if err != nil {
		return err
	}

	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"routine", "sessions", "rest_days"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if snap.Routine != nil {
		payload, err := json.Marshal(snap.Routine)
		if err != nil {
			return fmt.Errorf("encoding routine: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO routine (id, payload) VALUES (1, $1)`, payload); err != nil {
			return fmt.Errorf("importing routine: %w", err)
		}
	}
	for _, sess := range snap.Sessions {
		payload, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("encoding session: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO sessions (day, date, payload) VALUES ($1, $2, $3)`,
			sess.Day, sess.Date, payload); err != nil {
			return fmt.Errorf("importing session: %w", err)
		}
	}
	for _, d := range snap.RestDays {
		if _, err := tx.Exec(ctx,
			`INSERT INTO rest_days (date) VALUES ($1) ON CONFLICT DO NOTHING`, d); err != nil {
			return fmt.Errorf("importing rest day: %w", err)
		}
	}

	return tx.Commit(ctx)
}
