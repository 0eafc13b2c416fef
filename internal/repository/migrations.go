package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied at startup. Statements are idempotent so the server can
// run against an already-migrated database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		role          TEXT NOT NULL DEFAULT 'user',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'not_started',
		priority    TEXT NOT NULL DEFAULT 'normal',
		deadline    TIMESTAMPTZ,
		leader_id   TEXT NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS project_members (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL REFERENCES users(id),
		added_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (project_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title         TEXT NOT NULL,
		details       TEXT NOT NULL DEFAULT '',
		assignee_id   TEXT NOT NULL REFERENCES users(id),
		created_by_id TEXT NOT NULL REFERENCES users(id),
		urgency       TEXT NOT NULL DEFAULT 'normal',
		status        TEXT NOT NULL DEFAULT 'todo',
		start_date    TIMESTAMPTZ,
		deadline      TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS bugs (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title           TEXT NOT NULL,
		details         TEXT NOT NULL DEFAULT '',
		assignee_id     TEXT NOT NULL REFERENCES users(id),
		created_by_id   TEXT NOT NULL REFERENCES users(id),
		severity        TEXT NOT NULL DEFAULT 'medium',
		status          TEXT NOT NULL DEFAULT 'open',
		solution        TEXT NOT NULL DEFAULT '',
		resolved_by_id  TEXT REFERENCES users(id),
		resolved_at     TIMESTAMPTZ,
		approval_status TEXT NOT NULL DEFAULT 'pending',
		reviewer_id     TEXT REFERENCES users(id),
		review_comment  TEXT NOT NULL DEFAULT '',
		reviewed_at     TIMESTAMPTZ,
		start_date      TIMESTAMPTZ,
		deadline        TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		sender_id  TEXT NOT NULL REFERENCES users(id),
		content    TEXT NOT NULL,
		type       TEXT NOT NULL DEFAULT 'text',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project_status ON tasks (project_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks (assignee_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bugs_project_status ON bugs (project_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_bugs_assignee ON bugs (assignee_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_project ON messages (project_id, created_at)`,
}

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
