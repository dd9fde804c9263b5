package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrRunNotFound indicates the requested run ID does not exist.
var ErrRunNotFound = errors.New("run not found")

const idCharset = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func generateID() string {
	return gonanoid.MustGenerate(idCharset, 6)
}

//go:embed schema.sql
var schemaSQL string

// DB is the interface accepted by NewSqlite. It abstracts the database
// operations needed by Sqlite so that callers can supply a real *sql.DB or a
// wrapper that injects faults, records calls, etc.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Sqlite stores launcher runs in a SQLite database. It is an abstraction over
// the storage details; do not access the underlying database directly.
type Sqlite struct {
	db          DB
	idGenerator func() string
}

// NewSqlite initializes and returns a new Sqlite instance backed by the given
// DB. It runs the embedded schema DDL against db before returning. The caller
// is responsible for opening and closing the underlying database connection.
func NewSqlite(ctx context.Context, db DB) (*Sqlite, error) {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Sqlite{
		db:          db,
		idGenerator: generateID,
	}, nil
}

// InitRunStorage opens (creating if needed) the history database at path and
// returns run storage over it together with the owning connection, which the
// caller must close.
func InitRunStorage(ctx context.Context, path string) (*Sqlite, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}
	s, err := NewSqlite(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return s, db, nil
}

// generateUniqueID generates an ID, retrying on the unlikely collision.
func (s *Sqlite) generateUniqueID(ctx context.Context) (string, error) {
	maxAttempts := 10
	for range maxAttempts {
		id := s.idGenerator()

		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check ID collision: %w", err)
		}
		if exists == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique run ID after %d attempts", maxAttempts)
}

// SaveRun stores the run and returns its assigned ID.
func (s *Sqlite) SaveRun(ctx context.Context, run Run) (string, error) {
	id, err := s.generateUniqueID(ctx)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, exit_code, interpreter, script, log_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, run.StartedAt, run.FinishedAt, run.ExitCode, run.Interpreter, run.Script, run.LogBytes,
	)
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// GetRun returns the run with the given ID.
func (s *Sqlite) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, exit_code, interpreter, script, log_bytes
		FROM runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return Run{}, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns runs ordered by start time, newest first unless
// opts.AscendingOrder is set.
func (s *Sqlite) ListRuns(ctx context.Context, opts ListRunsOptions) ([]Run, error) {
	order := "DESC"
	if opts.AscendingOrder {
		order = "ASC"
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, started_at, finished_at, exit_code, interpreter, script, log_bytes
		FROM runs ORDER BY started_at %s, id %s LIMIT ?`, order, order), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DeleteRun removes the run with the given ID.
func (s *Sqlite) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	err := s.Scan(
		&run.ID,
		&run.StartedAt,
		&run.FinishedAt,
		&run.ExitCode,
		&run.Interpreter,
		&run.Script,
		&run.LogBytes,
	)
	return run, err
}
