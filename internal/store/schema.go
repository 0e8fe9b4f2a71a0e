package store

import (
	"context"
	"database/sql"
	"fmt"
)

// tables lists the DDL applied on Open. Statements are idempotent.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS degrees (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS subjects (
		degree_id TEXT NOT NULL REFERENCES degrees(id) ON DELETE CASCADE,
		id        TEXT NOT NULL,
		name      TEXT NOT NULL,
		term      INTEGER NOT NULL CHECK (term > 0),
		position  INTEGER NOT NULL,
		PRIMARY KEY (degree_id, id)
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		degree_id       TEXT NOT NULL REFERENCES degrees(id) ON DELETE CASCADE,
		position        INTEGER NOT NULL,
		subject_id      TEXT NOT NULL,
		prerequisite_id TEXT NOT NULL,
		class           TEXT NOT NULL,
		min_state       TEXT NOT NULL,
		PRIMARY KEY (degree_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		degree_id  TEXT NOT NULL REFERENCES degrees(id),
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS progress_records (
		id         TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		subject_id TEXT NOT NULL,
		state      TEXT NOT NULL,
		version    INTEGER NOT NULL CHECK (version > 0),
		updated_at TEXT NOT NULL,
		UNIQUE (student_id, subject_id)
	)`,
	`CREATE TABLE IF NOT EXISTS transitions (
		sequence   INTEGER PRIMARY KEY,
		student_id TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		from_state TEXT NOT NULL,
		to_state   TEXT NOT NULL,
		version    INTEGER NOT NULL,
		at         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS transitions_student ON transitions (student_id, sequence)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range tables {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
