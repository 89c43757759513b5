// Package ledger records one summary row per entity run, so operators can
// audit what a migration did after the fact.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Summary is the outcome of one entity run.
type Summary struct {
	RunID    string
	Entity   string
	Migrated int
	Updated  int
	Skipped  int
	Errors   int
	Total    int
	Extra    map[string]int
	Started  time.Time
	Finished time.Time
}

// Recorder persists run summaries.
type Recorder interface {
	Record(ctx context.Context, s Summary) error
}

// Noop discards summaries. Used when no ledger database is configured.
type Noop struct{}

func (Noop) Record(context.Context, Summary) error { return nil }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const createTable = `IF OBJECT_ID(N'dbo.migration_runs', N'U') IS NULL
CREATE TABLE dbo.migration_runs (
	id BIGINT IDENTITY(1,1) PRIMARY KEY,
	run_id NVARCHAR(64) NOT NULL,
	entity NVARCHAR(64) NOT NULL,
	migrated INT NOT NULL,
	updated INT NOT NULL,
	skipped INT NOT NULL,
	errors INT NOT NULL,
	total INT NOT NULL,
	extra NVARCHAR(MAX) NULL,
	started_at DATETIME2 NOT NULL,
	finished_at DATETIME2 NOT NULL
)`

const insertRun = `INSERT INTO dbo.migration_runs
	(run_id, entity, migrated, updated, skipped, errors, total, extra, started_at, finished_at)
	VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10)`

// SQLRecorder writes summaries to SQL Server.
type SQLRecorder struct {
	db execer
}

// NewSQLRecorder creates the ledger table when missing.
func NewSQLRecorder(ctx context.Context, db *sql.DB) (*SQLRecorder, error) {
	return newSQLRecorder(ctx, db)
}

func newSQLRecorder(ctx context.Context, db execer) (*SQLRecorder, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("failed to create ledger table: %w", err)
	}
	return &SQLRecorder{db: db}, nil
}

func (r *SQLRecorder) Record(ctx context.Context, s Summary) error {
	extra, err := json.Marshal(s.Extra)
	if err != nil {
		return fmt.Errorf("encode extra counters: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err = r.db.ExecContext(ctx, insertRun,
		s.RunID, s.Entity, s.Migrated, s.Updated, s.Skipped, s.Errors, s.Total,
		string(extra), s.Started, s.Finished)
	if err != nil {
		return fmt.Errorf("failed to record %s run: %w", s.Entity, err)
	}
	return nil
}
