package store

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS solutions (
		id            TEXT PRIMARY KEY,
		sequence      INTEGER NOT NULL,
		created_at    INTEGER NOT NULL,
		problem       TEXT NOT NULL,
		normalized    TEXT NOT NULL,
		topic         TEXT NOT NULL,
		answer        TEXT NOT NULL,
		explanation   TEXT NOT NULL,
		failed        INTEGER NOT NULL DEFAULT 0,
		error_kind    TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		solve_time_us INTEGER NOT NULL DEFAULT 0,
		source        TEXT NOT NULL DEFAULT 'text',
		payload       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_solutions_sequence ON solutions (sequence)`,
	`CREATE INDEX IF NOT EXISTS idx_solutions_topic ON solutions (topic)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		created_at    INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_sequence ON llm_request_events (sequence)`,
}

// migrate creates every table and index that does not exist yet.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec schema: %w", err)
		}
	}
	return nil
}
