// Package store persists quiz history and LLM request logs in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the database handle and hands out repositories.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer keeps pragmas applied and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, mu: &s.mu}
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS session_events (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	sequence         INTEGER NOT NULL UNIQUE,
	timestamp        INTEGER NOT NULL,
	session_id       TEXT NOT NULL,
	action           TEXT NOT NULL,
	source_dir       TEXT NOT NULL DEFAULT '',
	questions_total  INTEGER NOT NULL DEFAULT 0,
	questions_answered INTEGER NOT NULL DEFAULT 0,
	correct_answers  INTEGER NOT NULL DEFAULT 0,
	duration_secs    INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id);
CREATE INDEX IF NOT EXISTS idx_session_events_action ON session_events(action);

CREATE TABLE IF NOT EXISTS answer_events (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	sequence       INTEGER NOT NULL UNIQUE,
	timestamp      INTEGER NOT NULL,
	session_id     TEXT NOT NULL,
	source_file    TEXT NOT NULL DEFAULT '',
	question_text  TEXT NOT NULL,
	selected       TEXT NOT NULL,
	correct_answer TEXT NOT NULL,
	correct        INTEGER NOT NULL,
	time_ms        INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_answer_events_session ON answer_events(session_id);

CREATE TABLE IF NOT EXISTS llm_request_events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	sequence      INTEGER NOT NULL UNIQUE,
	timestamp     INTEGER NOT NULL,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_llm_request_events_purpose ON llm_request_events(purpose);
`

func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, sequenceSchema); err != nil {
		return fmt.Errorf("create sequence: %w", err)
	}
	return nil
}
