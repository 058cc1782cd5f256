package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"
)

const sequenceSchema = `
CREATE TABLE IF NOT EXISTS global_sequence (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	next_val INTEGER NOT NULL DEFAULT 1
);
INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1);
`

// eventRepo implements EventRepo over database/sql. Every event row carries
// a sequence number drawn from one counter shared by all event tables, so
// events of different kinds can be ordered against each other.
type eventRepo struct {
	db *sql.DB
	mu *sync.Mutex // serializes appends within the process
}

// appendEvent inserts one event row into table. The sequence number and
// timestamp columns are filled in; cols and args describe the rest. Taking
// the sequence number and inserting happen in one transaction.
func (r *eventRepo) appendEvent(ctx context.Context, table string, cols []string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	err = tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	all := append([]string{"sequence", "timestamp"}, cols...)
	values := append([]any{seq, time.Now().UnixMilli()}, args...)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(all, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", "))

	if _, err := tx.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return tx.Commit()
}
