// Package history persists one record per completed batch in a local
// SQLite database so past runs can be inspected from the CLI.
package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Entry is one recorded batch
type Entry struct {
	ID         string
	Origin     string // "cli" or "web"
	Format     string
	Quality    int
	Workers    int
	Total      int
	Converted  int
	Skipped    int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

type entryRow struct {
	ID         string `db:"id"`
	Origin     string `db:"origin"`
	Format     string `db:"format"`
	Quality    int    `db:"quality"`
	Workers    int    `db:"workers"`
	Total      int    `db:"total"`
	Converted  int    `db:"converted"`
	Skipped    int    `db:"skipped"`
	Failed     int    `db:"failed"`
	StartedAt  string `db:"started_at"`
	FinishedAt string `db:"finished_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id          TEXT PRIMARY KEY,
	origin      TEXT NOT NULL,
	format      TEXT NOT NULL,
	quality     INTEGER NOT NULL,
	workers     INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	converted   INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_batches_started_at ON batches(started_at);
`

// Store manages batch history backed by SQLite
type Store struct {
	db   *sqlx.DB
	path string
}

// Open initializes or connects to the history database
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts one batch entry
func (s *Store) Record(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO batches (
			id, origin, format, quality, workers,
			total, converted, skipped, failed,
			started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Origin,
		entry.Format,
		entry.Quality,
		entry.Workers,
		entry.Total,
		entry.Converted,
		entry.Skipped,
		entry.Failed,
		entry.StartedAt.UTC().Format(time.RFC3339Nano),
		entry.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record batch: %w", err)
	}

	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []entryRow
	query := `
		SELECT
			id, origin, format, quality, workers,
			total, converted, skipped, failed,
			started_at, finished_at
		FROM batches
		ORDER BY started_at DESC
		LIMIT ?
	`

	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{
			ID:        row.ID,
			Origin:    row.Origin,
			Format:    row.Format,
			Quality:   row.Quality,
			Workers:   row.Workers,
			Total:     row.Total,
			Converted: row.Converted,
			Skipped:   row.Skipped,
			Failed:    row.Failed,
		}
		if ts, err := time.Parse(time.RFC3339Nano, row.StartedAt); err == nil {
			entry.StartedAt = ts
		}
		if ts, err := time.Parse(time.RFC3339Nano, row.FinishedAt); err == nil {
			entry.FinishedAt = ts
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
