package sqlite

import (
	"context"
	"fmt"
)

// The check-in active column is intentionally nullable: documents written
// before the soft-delete feature carry no flag, and readers treat NULL as
// active. student_id carries no foreign key; orphaned check-ins stay in
// storage and are filtered from derived views instead.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		email              TEXT NOT NULL,
		lessons_signed_up  INTEGER NOT NULL DEFAULT 0,
		lesson_rate_hkd    REAL NOT NULL DEFAULT 0,
		lessons_completed  INTEGER NOT NULL DEFAULT 0,
		last_invoice_month TEXT NOT NULL DEFAULT '',
		next_month_request INTEGER NOT NULL DEFAULT 0,
		rollover_lessons   INTEGER NOT NULL DEFAULT 0,
		active             INTEGER NOT NULL DEFAULT 1,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS checkins (
		id           TEXT PRIMARY KEY,
		student_id   TEXT NOT NULL,
		lesson_type  TEXT NOT NULL DEFAULT '',
		lesson_cost  REAL NOT NULL DEFAULT 0,
		timestamp_ms INTEGER NOT NULL,
		classroom_id TEXT NOT NULL DEFAULT '',
		active       INTEGER,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_checkins_student ON checkins (student_id)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id         TEXT PRIMARY KEY,
		classroom  TEXT NOT NULL,
		name       TEXT NOT NULL,
		teacher    TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS class_recurrence (
		class_id    TEXT NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		day         TEXT NOT NULL,
		time_of_day TEXT NOT NULL,
		PRIMARY KEY (class_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS class_students (
		class_id   TEXT NOT NULL REFERENCES classes (id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		student_id TEXT NOT NULL,
		PRIMARY KEY (class_id, student_id)
	)`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classrooms (
		id           TEXT PRIMARY KEY,
		classroom_id TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,
}

// Migrate creates the schema when it does not exist yet.
func (p *Pool) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: apply schema: %w", err)
		}
	}
	return nil
}
