// Package runlog persists task-run results to a SQLite database so that
// repeated validation runs can be compared over time. Entirely optional:
// the runner itself never touches it.
package runlog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/toolbench/internal/task"
)

//go:embed schema.sql
var schemaSQL string

// Log is an open run-log database.
type Log struct {
	db *sql.DB
}

// Open creates or opens a run-log database at the given path and applies
// pragmas and schema. Idempotent: safe to call on an existing database.
//
// SQLite allows only one writer, so the connection pool is capped at a
// single connection; WAL mode keeps reads concurrent with the writer.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect run log: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply run log schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record writes one task result and its per-action rows in a single
// transaction. Re-recording the same run id is silently ignored.
func (l *Log) Record(ctx context.Context, res *task.Result) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, task_file, environment, total, passed, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, res.RunID, res.TaskFile, res.Environment, res.Total, res.Passed, res.Failed, res.Err)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for seq, ar := range res.Actions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_actions (run_id, seq, name, success, error)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_id, seq) DO NOTHING
		`, res.RunID, seq, ar.Name, boolToInt(ar.Success), ar.Error)
		if err != nil {
			return fmt.Errorf("record run action %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}
	return nil
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	RunID       string
	TaskFile    string
	Environment string
	Total       int
	Passed      int
	Failed      int
	Err         string
}

// Runs returns all recorded runs, newest first.
func (l *Log) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, task_file, environment, total, passed, failed, error
		FROM runs ORDER BY logged_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("read runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.RunID, &r.TaskFile, &r.Environment, &r.Total, &r.Passed, &r.Failed, &r.Err); err != nil {
			return nil, fmt.Errorf("read runs: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ActionCount returns the number of action rows recorded for a run.
func (l *Log) ActionCount(ctx context.Context, runID string) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM run_actions WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count run actions: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
