// Package store persists discovery run history to SQLite so repeated
// invocations against the same input can be audited.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/contact-cli/internal/model"
)

// SQLiteStore records runs using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	input_file     TEXT NOT NULL,
	roles          TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'not_started',
	orgs_total     INTEGER NOT NULL DEFAULT 0,
	orgs_processed INTEGER NOT NULL DEFAULT 0,
	contacts_found INTEGER NOT NULL DEFAULT 0,
	error          TEXT,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_input_file ON runs(input_file);
`

// Migrate applies the schema.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a new run row for an input file.
func (s *SQLiteStore) CreateRun(ctx context.Context, inputFile string, roles []string, orgsTotal int) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal roles")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, roles, status, orgs_total, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, inputFile, string(rolesJSON), string(model.RunStatusRunning), orgsTotal, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		InputFile: inputFile,
		Roles:     roles,
		Status:    model.RunStatusRunning,
		OrgsTotal: orgsTotal,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// FinishRun records a run's final status and counters.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, orgsProcessed, contactsFound int, runErr error) error {
	var errText string
	if runErr != nil {
		errText = runErr.Error()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, orgs_processed = ?, contacts_found = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		string(status), orgsProcessed, contactsFound, errText, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

// GetRun fetches a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, input_file, roles, status, orgs_total, orgs_processed, contacts_found,
		        COALESCE(error, ''), created_at, updated_at
		 FROM runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: run %s not found", runID)
		}
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_file, roles, status, orgs_total, orgs_processed, contacts_found,
		        COALESCE(error, ''), created_at, updated_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, eris.Wrap(scanErr, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: rows iteration")
	}
	return runs, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*model.Run, error) {
	var run model.Run
	var rolesJSON, status string
	err := s.Scan(
		&run.ID, &run.InputFile, &rolesJSON, &status,
		&run.OrgsTotal, &run.OrgsProcessed, &run.ContactsFound,
		&run.Error, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	if err := json.Unmarshal([]byte(rolesJSON), &run.Roles); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal roles")
	}
	return &run, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
