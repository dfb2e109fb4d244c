package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          TEXT PRIMARY KEY,
		external_id TEXT NOT NULL UNIQUE,
		email       TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email) WHERE email != ''`,

	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name            TEXT NOT NULL,
		key             TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL,
		UNIQUE(organization_id, key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_org ON projects(organization_id)`,

	`CREATE TABLE IF NOT EXISTS stages (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		key          TEXT NOT NULL,
		order_index  INTEGER NOT NULL,
		is_protected INTEGER NOT NULL DEFAULT 0,
		is_terminal  INTEGER NOT NULL DEFAULT 0,
		-- key is derived from name; resolving a stage by key needs it unique.
		UNIQUE(project_id, name),
		UNIQUE(project_id, key),
		UNIQUE(project_id, order_index)
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id            TEXT PRIMARY KEY,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		reorder_value INTEGER NOT NULL DEFAULT 0 CHECK(reorder_value >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'PLANNED'
		           CHECK(status IN ('PLANNED','ACTIVE','COMPLETED')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id)`,

	`CREATE TABLE IF NOT EXISTS issues (
		id          TEXT PRIMARY KEY,
		item_id     TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		description TEXT NOT NULL DEFAULT '',
		status_id   TEXT NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
		order_index INTEGER NOT NULL DEFAULT 0,
		priority    TEXT NOT NULL DEFAULT 'MEDIUM'
		            CHECK(priority IN ('LOW','MEDIUM','HIGH','URGENT')),
		assignee_id TEXT REFERENCES users(id) ON DELETE SET NULL,
		reporter_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		sprint_id   TEXT REFERENCES sprints(id) ON DELETE SET NULL,
		track       TEXT NOT NULL DEFAULT '[]',
		quantity    INTEGER NOT NULL CHECK(quantity > 0),
		unit        TEXT NOT NULL DEFAULT 'PIECES'
		            CHECK(unit IN ('PIECES','KILOGRAM','UNITS','GRAM','TONNE')),
		parent_id   TEXT REFERENCES issues(id) ON DELETE SET NULL,
		is_split    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS status_order_idx ON issues(status_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS item_status_idx ON issues(item_id, status_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_sprint ON issues(sprint_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_parent ON issues(parent_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_assignee ON issues(assignee_id)`,
	`CREATE INDEX IF NOT EXISTS idx_issues_reporter ON issues(reporter_id)`,
}
