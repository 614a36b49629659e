package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every open.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateSeedIndexState(db); err != nil {
		return fmt.Errorf("seeding index state: %w", err)
	}
	return nil
}

// migrateSeedIndexState makes sure the single index_state row exists so
// syncs can always UPDATE it.
func migrateSeedIndexState(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(),
		`INSERT OR IGNORE INTO index_state (id, content_hash, synced_at, task_count) VALUES (1, '', '', 0)`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS index_state (
		id           INTEGER PRIMARY KEY CHECK(id = 1),
		content_hash TEXT NOT NULL DEFAULT '',
		synced_at    TEXT NOT NULL DEFAULT '',
		task_count   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		seq       INTEGER PRIMARY KEY,
		id        TEXT NOT NULL,
		parent_id TEXT,
		section   TEXT NOT NULL,
		title     TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
		priority  INTEGER,
		assignee  TEXT NOT NULL DEFAULT '',
		due_date  TEXT NOT NULL DEFAULT '',
		effort    INTEGER,
		milestone TEXT NOT NULL DEFAULT '',
		tags      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_id ON tasks(id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_milestone ON tasks(milestone)`,
	`ALTER TABLE tasks ADD COLUMN depth INTEGER NOT NULL DEFAULT 0`,
	`CREATE TABLE IF NOT EXISTS milestones (
		id              TEXT NOT NULL,
		name            TEXT NOT NULL,
		target          TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL CHECK(status IN ('open','completed')),
		task_count      INTEGER NOT NULL DEFAULT 0,
		completed_count INTEGER NOT NULL DEFAULT 0,
		progress        INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS ideas (
		id       TEXT NOT NULL,
		title    TEXT NOT NULL,
		status   TEXT NOT NULL DEFAULT 'new',
		category TEXT NOT NULL DEFAULT '',
		created  TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id          TEXT NOT NULL,
		number      TEXT NOT NULL DEFAULT '',
		customer_id TEXT NOT NULL DEFAULT '',
		title       TEXT NOT NULL,
		status      TEXT NOT NULL,
		due_date    TEXT NOT NULL DEFAULT '',
		total       REAL NOT NULL DEFAULT 0,
		paid_amount REAL NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status, due_date)`,
	`CREATE TABLE IF NOT EXISTS deals (
		id             TEXT NOT NULL,
		title          TEXT NOT NULL,
		company_id     TEXT NOT NULL DEFAULT '',
		stage          TEXT NOT NULL,
		value          REAL NOT NULL DEFAULT 0,
		probability    REAL NOT NULL DEFAULT 0,
		expected_close TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS time_entries (
		id          TEXT NOT NULL,
		task_id     TEXT NOT NULL,
		date        TEXT NOT NULL,
		hours       REAL NOT NULL,
		person      TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_time_entries_task ON time_entries(task_id)`,
}

// IndexTables lists the mirrored tables in the order a sync refills them.
var IndexTables = []string{"tasks", "milestones", "ideas", "invoices", "deals", "time_entries"}
