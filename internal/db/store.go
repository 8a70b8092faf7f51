// Package db implements the optional SQLite journal of hook invocations.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// DefaultHistoryLimit is how many entries Recent returns when asked for a
// non-positive number.
const DefaultHistoryLimit = 20

// Entry is one recorded hook invocation.
type Entry struct {
	ID            int64
	RunID         string
	Hook          string
	SessionID     string
	HookEventName string
	ToolName      string
	Message       string
	Outcome       string
	Detail        string
	CreatedAt     time.Time
}

// Recorder persists hook invocations.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// Store is the journal backed by a SQLite database.
type Store struct {
	db    *sql.DB
	retry retryOptions
}

// Open opens the journal at path, creating and migrating it as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}

	if err := migrateJournal(ctx, db, LatestMigrationVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	return &Store{db: db, retry: defaultRetryOptions()}, nil
}

// Record inserts entry. A zero CreatedAt is replaced by the current time.
// Parallel sessions share one journal, so a write that finds the database
// busy is retried with backoff.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.RunID == "" || entry.Hook == "" {
		return errors.New("journal entry needs a run id and hook")
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	err := s.retry.withRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO hook_runs (
				run_id, hook, session_id, hook_event_name,
				tool_name, message, outcome, detail, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.RunID, entry.Hook, entry.SessionID,
			entry.HookEventName, entry.ToolName, entry.Message,
			entry.Outcome, entry.Detail, createdAt.UnixMicro(),
		)

		return err
	})
	if err != nil {
		return err
	}

	log.TraceS(ctx, "Recorded hook run", "run_id", entry.RunID,
		"hook", entry.Hook)

	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, hook, session_id, hook_event_name,
			tool_name, message, outcome, detail, created_at
		FROM hook_runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, MapSQLError(err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			createdAt int64
		)
		err := rows.Scan(
			&e.ID, &e.RunID, &e.Hook, &e.SessionID,
			&e.HookEventName, &e.ToolName, &e.Message, &e.Outcome,
			&e.Detail, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		e.CreatedAt = time.UnixMicro(createdAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Prune deletes entries created before cutoff and reports how many went.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var res sql.Result
	err := s.retry.withRetry(ctx, func() error {
		var err error
		res, err = s.db.ExecContext(
			ctx, "DELETE FROM hook_runs WHERE created_at < ?",
			cutoff.UnixMicro(),
		)

		return err
	})
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements Recorder at compile time.
var _ Recorder = (*Store)(nil)
