// Package ledger keeps a SQLite history of draws and reveal-link views.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Ledger handles SQLite persistence for run metadata.
type Ledger struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY CHECK(length(id) = 36),
    created_at TIMESTAMP NOT NULL,
    participants INTEGER NOT NULL CHECK(participants >= 0),
    families INTEGER NOT NULL CHECK(families >= 0),
    attempts INTEGER NOT NULL CHECK(attempts >= 0),
    intra_family_pairs INTEGER NOT NULL CHECK(intra_family_pairs >= 0),
    max_intra_family INTEGER NOT NULL CHECK(max_intra_family >= 0),
    cap_scope TEXT NOT NULL,
    output_dir TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

CREATE TABLE IF NOT EXISTS reveal_views (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    giver TEXT NOT NULL CHECK(length(giver) > 0 AND length(giver) <= 512),
    viewed_at TIMESTAMP NOT NULL,
    PRIMARY KEY (run_id, giver)
);
`

// Open opens the ledger database at path and initializes the schema.
//
// Parameters:
//   - path: path to the SQLite database file
//   - logger: structured logger instance
//
// Returns a new Ledger instance or an error if initialization fails.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("Ledger initialized", "path", path)

	return &Ledger{
		db:     db,
		logger: logger,
	}, nil
}

// RecordRun stores the metadata of a run.
//
// A zero ID is replaced by a new random UUID and a zero CreatedAt by the
// current time.
//
// Returns the stored run, or an error if the insert fails.
func (l *Ledger) RecordRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, participants, families, attempts,
			intra_family_pairs, max_intra_family, cap_scope, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID.String(), run.CreatedAt, run.Participants, run.Families, run.Attempts,
		run.IntraFamilyPairs, run.MaxIntraFamily, run.CapScope, run.OutputDir)
	if err != nil {
		return Run{}, fmt.Errorf("failed to insert run: %w", err)
	}

	l.logger.Debug("Run recorded", "id", run.ID, "participants", run.Participants)
	return run, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (l *Ledger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, created_at, participants, families, attempts,
			intra_family_pairs, max_intra_family, cap_scope, output_dir
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var id string
		if err := rows.Scan(&id, &run.CreatedAt, &run.Participants, &run.Families, &run.Attempts,
			&run.IntraFamilyPairs, &run.MaxIntraFamily, &run.CapScope, &run.OutputDir); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// Count returns the number of recorded runs.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// RecordView stores the first view of a giver's reveal link. Later views
// of the same link are ignored.
func (l *Ledger) RecordView(ctx context.Context, view View) error {
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO reveal_views (run_id, giver, viewed_at)
		VALUES (?, ?, ?)
	`, view.RunID.String(), view.Giver, view.ViewedAt)
	if err != nil {
		return fmt.Errorf("failed to insert view: %w", err)
	}
	return nil
}

// Views retrieves the recorded views of a run, in view order.
func (l *Ledger) Views(ctx context.Context, runID uuid.UUID) ([]View, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx, `
		SELECT giver, viewed_at
		FROM reveal_views
		WHERE run_id = ?
		ORDER BY viewed_at ASC
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query views: %w", err)
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		view := View{RunID: runID}
		if err := rows.Scan(&view.Giver, &view.ViewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan view: %w", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating views: %w", err)
	}

	return views, nil
}

// Close closes the database connection.
//
// Returns an error if the close operation fails.
func (l *Ledger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}
