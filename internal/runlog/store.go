package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry describes one published canonical image from one update run.
type Entry struct {
	ID            int64
	RunID         string
	TestPath      string
	ExecMode      string
	Image         string
	BestCandidate int
	NumRenders    int
	Warn          float64
	Fail          float64
	HardFail      float64
	Duration      time.Duration
	CreatedAt     time.Time
}

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the run-history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure run log directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
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

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS runs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            run_id TEXT NOT NULL,
            test_path TEXT NOT NULL,
            exec_mode TEXT NOT NULL,
            image TEXT NOT NULL,
            best_candidate INTEGER NOT NULL,
            num_renders INTEGER NOT NULL,
            warn REAL NOT NULL,
            fail REAL NOT NULL,
            hardfail REAL NOT NULL,
            duration_ms INTEGER NOT NULL,
            created_at TEXT NOT NULL
        )`)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Record inserts one entry.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            run_id, test_path, exec_mode, image, best_candidate,
            num_renders, warn, fail, hardfail, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.TestPath,
		entry.ExecMode,
		entry.Image,
		entry.BestCandidate,
		entry.NumRenders,
		entry.Warn,
		entry.Fail,
		entry.HardFail,
		entry.Duration.Milliseconds(),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, test_path, exec_mode, image, best_candidate,
                num_renders, warn, fail, hardfail, duration_ms, created_at
         FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query run entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var durationMS int64
		var createdAt string
		if err := rows.Scan(
			&entry.ID,
			&entry.RunID,
			&entry.TestPath,
			&entry.ExecMode,
			&entry.Image,
			&entry.BestCandidate,
			&entry.NumRenders,
			&entry.Warn,
			&entry.Fail,
			&entry.HardFail,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan run entry: %w", err)
		}
		entry.Duration = time.Duration(durationMS) * time.Millisecond
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			entry.CreatedAt = parsed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
