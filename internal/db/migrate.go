package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// full list is re-applied on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		effort_level INTEGER NOT NULL DEFAULT 5,
		created_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS timetables (
		id         TEXT PRIMARY KEY,
		date       TEXT NOT NULL UNIQUE,
		mode       TEXT NOT NULL DEFAULT 'chill'
		           CHECK(mode IN ('chill','locked_in')),
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS timetable_entries (
		id           TEXT PRIMARY KEY,
		timetable_id TEXT NOT NULL REFERENCES timetables(id) ON DELETE CASCADE,
		activity_id  TEXT REFERENCES activities(id) ON DELETE SET NULL,
		start_time   TEXT NOT NULL,
		end_time     TEXT NOT NULL,
		note         TEXT NOT NULL DEFAULT '',
		position     INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_timetable_entries_timetable
		ON timetable_entries(timetable_id)`,

	`CREATE TABLE IF NOT EXISTS activity_sessions (
		id               TEXT PRIMARY KEY,
		activity_id      TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		started_at       TEXT NOT NULL,
		ended_at         TEXT,
		duration_seconds INTEGER,
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activity_sessions_activity
		ON activity_sessions(activity_id)`,

	`CREATE INDEX IF NOT EXISTS idx_activity_sessions_started
		ON activity_sessions(started_at)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
