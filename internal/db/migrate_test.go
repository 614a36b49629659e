package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM index_state`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range append([]string{"index_state"}, IndexTables...) {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_tasks_id",
		"idx_tasks_assignee",
		"idx_tasks_milestone",
		"idx_invoices_status",
		"idx_time_entries_task",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_AddsDepthToLegacyTasks(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE tasks (
		seq       INTEGER PRIMARY KEY,
		id        TEXT NOT NULL,
		parent_id TEXT,
		section   TEXT NOT NULL,
		title     TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		priority  INTEGER,
		assignee  TEXT NOT NULL DEFAULT '',
		due_date  TEXT NOT NULL DEFAULT '',
		effort    INTEGER,
		milestone TEXT NOT NULL DEFAULT '',
		tags      TEXT NOT NULL DEFAULT ''
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO tasks (seq, id, section, title) VALUES (1, '7', 'Todo', 'Legacy row')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var (
		title string
		depth int
	)
	require.NoError(t, db.QueryRow(`SELECT title, depth FROM tasks WHERE id = '7'`).Scan(&title, &depth))
	assert.Equal(t, "Legacy row", title)
	assert.Equal(t, 0, depth)
}

func TestMigrate_ChecksRejectBadValues(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO tasks (seq, id, section, title, completed) VALUES (1, '1', 'Todo', 'x', 2)`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO milestones (id, name, status) VALUES ('a', 'A', 'someday')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO index_state (id) VALUES (2)`)
	assert.Error(t, err)
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite reports "memory"; WAL only applies to file databases.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}
