package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/store"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL,
	folder TEXT,
	workers INTEGER,
	negative_threshold REAL,
	positive_threshold REAL,
	documents INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	filename TEXT NOT NULL,
	path TEXT NOT NULL,
	polarity REAL NOT NULL,
	category TEXT NOT NULL,
	PRIMARY KEY(run_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_results_category ON results(run_id, category);

CREATE TABLE IF NOT EXISTS failures (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	filename TEXT NOT NULL,
	path TEXT NOT NULL,
	stage TEXT NOT NULL,
	error TEXT,
	PRIMARY KEY(run_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun writes a run with its results and failures in one transaction.
// Saving an existing run ID replaces it.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"results", "failures"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", r.ID); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, r.ID); err != nil {
		return err
	}

	const stmt = `
INSERT INTO runs (id, started_at, elapsed_ms, folder, workers, negative_threshold, positive_threshold, documents)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`
	if _, err := tx.ExecContext(
		ctx,
		stmt,
		r.ID,
		r.StartedAt.UTC().Format(timeLayout),
		r.Elapsed.Milliseconds(),
		r.Folder,
		r.Workers,
		r.NegativeThreshold,
		r.PositiveThreshold,
		r.Documents,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := insertResults(ctx, tx, r.ID, r.Results); err != nil {
		return err
	}
	if err := insertFailures(ctx, tx, r.ID, r.Failures); err != nil {
		return err
	}

	return tx.Commit()
}

func insertResults(ctx context.Context, tx *sql.Tx, runID string, results []store.Result) error {
	if len(results) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO results (run_id, seq, filename, path, polarity, category)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, res := range results {
		if _, err := stmt.ExecContext(ctx, runID, i, res.Filename, res.Path, res.Polarity, res.Category); err != nil {
			return fmt.Errorf("insert result %s: %w", res.Filename, err)
		}
	}
	return nil
}

func insertFailures(ctx context.Context, tx *sql.Tx, runID string, failures []store.Failure) error {
	if len(failures) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO failures (run_id, seq, filename, path, stage, error)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, f := range failures {
		if _, err := stmt.ExecContext(ctx, runID, i, f.Filename, f.Path, f.Stage, f.Error); err != nil {
			return fmt.Errorf("insert failure %s: %w", f.Filename, err)
		}
	}
	return nil
}

// GetRun loads a run by ID.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	const stmt = `
SELECT id, started_at, elapsed_ms, folder, workers, negative_threshold, positive_threshold, documents
FROM runs WHERE id = ?
`
	var (
		r         store.Run
		startedAt string
		elapsedMS int64
	)
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(
		&r.ID,
		&startedAt,
		&elapsedMS,
		&r.Folder,
		&r.Workers,
		&r.NegativeThreshold,
		&r.PositiveThreshold,
		&r.Documents,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}
	if t, err := time.Parse(timeLayout, startedAt); err == nil {
		r.StartedAt = t
	}
	r.Elapsed = time.Duration(elapsedMS) * time.Millisecond

	if r.Results, err = s.loadResults(ctx, id); err != nil {
		return store.Run{}, err
	}
	if r.Failures, err = s.loadFailures(ctx, id); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

func (s *sqliteStore) loadResults(ctx context.Context, runID string) ([]store.Result, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT filename, path, polarity, category FROM results
WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Result
	for rows.Next() {
		var res store.Result
		if err := rows.Scan(&res.Filename, &res.Path, &res.Polarity, &res.Category); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (s *sqliteStore) loadFailures(ctx context.Context, runID string) ([]store.Failure, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT filename, path, stage, COALESCE(error, '') FROM failures
WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Failure
	for rows.Next() {
		var f store.Failure
		if err := rows.Scan(&f.Filename, &f.Path, &f.Stage, &f.Error); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListRuns returns the most recent runs first.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.started_at, r.documents,
	(SELECT COUNT(*) FROM results WHERE run_id = r.id),
	(SELECT COUNT(*) FROM failures WHERE run_id = r.id)
FROM runs r
ORDER BY r.started_at DESC, r.id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.RunSummary
	for rows.Next() {
		var (
			sum       store.RunSummary
			startedAt string
		)
		if err := rows.Scan(&sum.ID, &startedAt, &sum.Documents, &sum.Analyzed, &sum.Failed); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, startedAt); err == nil {
			sum.StartedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
