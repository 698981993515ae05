package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/edgesentry/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements DecisionStore on SQLite, letting callers inspect a
// finished comparison run with plain SQL.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, runs the
// schema migration and returns the store. Use ":memory:" to keep the log
// ephemeral.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL improves concurrent read performance on file-backed logs.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// AppendDecision implements DecisionStore.
func (s *SQLiteStore) AppendDecision(ctx context.Context, d model.Decision) error {
	s.logger.Debug("sql", "op", "insert", "table", "decisions", "task_id", d.TaskID)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (task_id, action, policy, tick, projected_load, rationale, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.TaskID, string(d.Action), d.Policy, d.Tick, d.ProjectedLoad, d.Rationale,
		d.DecidedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListDecisions implements DecisionStore.
func (s *SQLiteStore) ListDecisions(ctx context.Context, policy string) ([]model.Decision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, action, policy, tick, projected_load, rationale, decided_at
		 FROM decisions WHERE policy = ? ORDER BY seq`, policy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Decision
	for rows.Next() {
		var d model.Decision
		var action, decidedAt string
		if err := rows.Scan(&d.TaskID, &action, &d.Policy, &d.Tick, &d.ProjectedLoad, &d.Rationale, &decidedAt); err != nil {
			return nil, err
		}
		d.Action = model.Action(action)
		if d.DecidedAt, err = time.Parse(time.RFC3339Nano, decidedAt); err != nil {
			return nil, fmt.Errorf("parse decided_at: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CountDecisions implements DecisionStore.
func (s *SQLiteStore) CountDecisions(ctx context.Context, policy string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decisions WHERE policy = ?`, policy).Scan(&n)
	return n, err
}

// Reset implements DecisionStore.
func (s *SQLiteStore) Reset(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM decisions`)
	return err
}
