package store

import (
	"context"
	"fmt"
)

// schema contains the DDL for the decision log.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS decisions (
		seq            INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id        TEXT NOT NULL,
		action         TEXT NOT NULL,
		policy         TEXT NOT NULL,
		tick           INTEGER NOT NULL,
		projected_load REAL NOT NULL,
		rationale      TEXT NOT NULL DEFAULT '',
		decided_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_decisions_policy ON decisions(policy)`,
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	for i, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
