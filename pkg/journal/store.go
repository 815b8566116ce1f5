// Package journal keeps a persistent record of deletion runs.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stale-clean/pkg/core"
)

// Store persists deletion reports inside a SQLite database.
type Store struct {
	db *sql.DB
}

// Open initializes (or reuses) a SQLite database at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("journal path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS deletion_runs (
        id TEXT PRIMARY KEY,
        root_path TEXT NOT NULL,
        dry_run INTEGER NOT NULL DEFAULT 0,
        started_at INTEGER NOT NULL,
        finished_at INTEGER NOT NULL,
        attempted INTEGER NOT NULL,
        deleted INTEGER NOT NULL,
        failed INTEGER NOT NULL,
        freed_bytes INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS deletion_failures (
        run_id TEXT NOT NULL REFERENCES deletion_runs(id) ON DELETE CASCADE,
        seq INTEGER NOT NULL,
        path TEXT NOT NULL,
        reason TEXT NOT NULL,
        PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_deletion_runs_started ON deletion_runs(started_at);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	return nil
}

// Record stores a report together with its failures in one transaction.
func (s *Store) Record(ctx context.Context, report core.DeletionReport) (err error) {
	if report.ID == "" {
		return errors.New("report has no id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO deletion_runs(id, root_path, dry_run, started_at, finished_at, attempted, deleted, failed, freed_bytes)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, report.ID, report.Root, boolToInt(report.DryRun), report.StartedAt.UnixNano(), report.FinishedAt.UnixNano(),
		report.Attempted, report.Deleted, report.Failed, report.FreedBytes)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", report.ID, err)
	}

	for i, failure := range report.Failures {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO deletion_failures(run_id, seq, path, reason) VALUES(?, ?, ?, ?)
`, report.ID, i, failure.Path, failure.Reason); err != nil {
			return fmt.Errorf("insert failure %s: %w", failure.Path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", report.ID, err)
	}
	return nil
}

// Runs returns the most recent runs first. Failures are not loaded; use
// Failures for that. A limit of zero or less returns every run.
func (s *Store) Runs(ctx context.Context, limit int) ([]core.DeletionReport, error) {
	query := `
SELECT id, root_path, dry_run, started_at, finished_at, attempted, deleted, failed, freed_bytes
FROM deletion_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []core.DeletionReport
	for rows.Next() {
		var (
			run      core.DeletionReport
			dryRun   int
			started  int64
			finished int64
		)
		if scanErr := rows.Scan(&run.ID, &run.Root, &dryRun, &started, &finished,
			&run.Attempted, &run.Deleted, &run.Failed, &run.FreedBytes); scanErr != nil {
			return nil, fmt.Errorf("scan run: %w", scanErr)
		}
		run.DryRun = dryRun != 0
		run.StartedAt = time.Unix(0, started)
		run.FinishedAt = time.Unix(0, finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Failures returns the failed paths of one run in the order they occurred.
func (s *Store) Failures(ctx context.Context, runID string) ([]core.DeletionFailure, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT path, reason FROM deletion_failures WHERE run_id = ? ORDER BY seq
`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failures: %w", err)
	}
	defer rows.Close()

	var failures []core.DeletionFailure
	for rows.Next() {
		var f core.DeletionFailure
		if scanErr := rows.Scan(&f.Path, &f.Reason); scanErr != nil {
			return nil, fmt.Errorf("scan failure: %w", scanErr)
		}
		failures = append(failures, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate failures: %w", err)
	}
	return failures, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
