// Package runlog records conversion runs in a local SQLite database, so a
// long batch over many survey years can be audited after the fact.
package runlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Run is one recorded conversion of a single source file.
type Run struct {
	ID            string     `json:"id"`
	Year          int        `json:"year"`
	SourceFile    string     `json:"source_file"`
	OutputFile    string     `json:"output_file,omitempty"`
	Status        string     `json:"status"`
	RowsConverted int64      `json:"rows_converted"`
	RowsSkipped   int64      `json:"rows_skipped"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Year   int
	Status string
	Limit  int
}

// Log provides read/write access to the conversion run table.
type Log struct {
	db *sql.DB
}

// Open opens (or creates) the run log database at the given path and
// applies the schema.
func Open(ctx context.Context, path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "runlog: exec %s", pragma)
		}
	}

	l := &Log{db: db}
	if err := l.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS conversion_runs (
	id             TEXT PRIMARY KEY,
	year           INTEGER NOT NULL,
	source_file    TEXT NOT NULL,
	output_file    TEXT,
	status         TEXT NOT NULL DEFAULT 'running',
	rows_converted INTEGER NOT NULL DEFAULT 0,
	rows_skipped   INTEGER NOT NULL DEFAULT 0,
	error          TEXT,
	started_at     DATETIME NOT NULL,
	completed_at   DATETIME
);

CREATE INDEX IF NOT EXISTS idx_conversion_runs_year ON conversion_runs(year);
CREATE INDEX IF NOT EXISTS idx_conversion_runs_status ON conversion_runs(status);
`

func (l *Log) migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "runlog: migrate")
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Start records the beginning of a conversion run and returns it.
func (l *Log) Start(ctx context.Context, year int, sourceFile string) (*Run, error) {
	r := &Run{
		ID:         uuid.New().String(),
		Year:       year,
		SourceFile: sourceFile,
		Status:     StatusRunning,
		StartedAt:  time.Now().UTC(),
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO conversion_runs (id, year, source_file, status, started_at)
		 VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Year, r.SourceFile, r.Status, r.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "runlog: start run for %d", year)
	}
	return r, nil
}

// Complete marks a run as successful with its row counts and output path.
func (l *Log) Complete(ctx context.Context, runID string, rowsConverted, rowsSkipped int64, outputFile string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE conversion_runs
		 SET status = ?, completed_at = ?, rows_converted = ?, rows_skipped = ?, output_file = ?
		 WHERE id = ?`,
		StatusComplete, time.Now().UTC(), rowsConverted, rowsSkipped, outputFile, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: complete run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

// Fail marks a run as failed with an error message.
func (l *Log) Fail(ctx context.Context, runID string, errMsg string) error {
	res, err := l.db.ExecContext(ctx,
		`UPDATE conversion_runs
		 SET status = ?, completed_at = ?, error = ?
		 WHERE id = ?`,
		StatusFailed, time.Now().UTC(), errMsg, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "runlog: fail run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

// LastSuccess returns the started_at time of the most recent successful run
// for a year, or nil if the year has never converted successfully.
func (l *Log) LastSuccess(ctx context.Context, year int) (*time.Time, error) {
	var t time.Time
	err := l.db.QueryRowContext(ctx,
		`SELECT started_at FROM conversion_runs
		 WHERE year = ? AND status = ?
		 ORDER BY started_at DESC LIMIT 1`,
		year, StatusComplete,
	).Scan(&t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "runlog: last success for %d", year)
	}
	return &t, nil
}

// List returns runs matching the filter, most recent first.
func (l *Log) List(ctx context.Context, filter Filter) ([]Run, error) {
	query := `SELECT id, year, source_file, output_file, status,
	                 rows_converted, rows_skipped, error, started_at, completed_at
	          FROM conversion_runs WHERE 1=1`
	var args []any

	if filter.Year != 0 {
		query += ` AND year = ?`
		args = append(args, filter.Year)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY started_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "runlog: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var outputFile, errStr sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Year, &r.SourceFile, &outputFile, &r.Status,
			&r.RowsConverted, &r.RowsSkipped, &errStr, &r.StartedAt, &completedAt); err != nil {
			return nil, eris.Wrap(err, "runlog: scan run")
		}
		r.OutputFile = outputFile.String
		r.Error = errStr.String
		if completedAt.Valid {
			t := completedAt.Time
			r.CompletedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "runlog: list runs iterate")
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("run not found: %s", id)
	}
	return nil
}
