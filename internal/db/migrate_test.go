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

const ts = "2025-01-01T00:00:00Z"

// seedProjectStageItem inserts the minimum rows an issue needs.
func seedProjectStageItem(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO users (id, external_id, created_at, updated_at) VALUES ('u1', 'ext-1', '` + ts + `', '` + ts + `')`,
		`INSERT INTO projects (id, organization_id, name, key, created_at, updated_at) VALUES ('p1', 'org1', 'Plant', 'PLT', '` + ts + `', '` + ts + `')`,
		`INSERT INTO stages (id, project_id, name, key, order_index, is_protected) VALUES ('s1', 'p1', 'TODO', 'TODO', 0, 1)`,
		`INSERT INTO items (id, project_id, name) VALUES ('it1', 'p1', 'Bolt')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
}

func insertIssue(db *sql.DB, id string, quantity int, parentID any) error {
	_, err := db.Exec(`INSERT INTO issues (id, item_id, status_id, reporter_id, project_id, quantity, parent_id, created_at, updated_at)
		VALUES (?, 'it1', 's1', 'u1', 'p1', ?, ?, ?, ?)`, id, quantity, parentID, ts, ts)
	return err
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time — should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"users", "projects", "stages", "items", "sprints", "issues"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"status_order_idx",
		"item_status_idx",
		"idx_issues_project",
		"idx_issues_sprint",
		"idx_issues_parent",
		"idx_projects_org",
		"idx_users_email",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite uses "memory" journal mode; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	err := db.QueryRow(`PRAGMA journal_mode`).Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
}

func TestOpenDB_FileBackedUsesWAL(t *testing.T) {
	db, err := OpenDB(t.TempDir() + "/nested/lotline.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)

	var timeout int
	require.NoError(t, db.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	assert.Equal(t, busyTimeoutMS, timeout)
}

func TestMigrate_StagesTerminalColumn(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(stages)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		if name == "is_terminal" {
			found = true
		}
	}
	assert.True(t, found, "stages table should have is_terminal column")
}

func TestMigrate_IssueQuantityCheckConstraint(t *testing.T) {
	db := openTestDB(t)
	seedProjectStageItem(t, db)

	assert.Error(t, insertIssue(db, "i0", 0, nil), "zero quantity should be rejected")
	assert.Error(t, insertIssue(db, "i-neg", -4, nil), "negative quantity should be rejected")
	assert.NoError(t, insertIssue(db, "i1", 1, nil))
}

func TestMigrate_IssueEnumCheckConstraints(t *testing.T) {
	db := openTestDB(t)
	seedProjectStageItem(t, db)

	_, err := db.Exec(`INSERT INTO issues (id, item_id, status_id, reporter_id, project_id, quantity, priority, created_at, updated_at)
		VALUES ('i1', 'it1', 's1', 'u1', 'p1', 5, 'SOMEDAY', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown priority should be rejected")

	_, err = db.Exec(`INSERT INTO issues (id, item_id, status_id, reporter_id, project_id, quantity, unit, created_at, updated_at)
		VALUES ('i1', 'it1', 's1', 'u1', 'p1', 5, 'BUSHEL', ?, ?)`, ts, ts)
	assert.Error(t, err, "unknown unit should be rejected")
}

func TestMigrate_IssueDefaults(t *testing.T) {
	db := openTestDB(t)
	seedProjectStageItem(t, db)
	require.NoError(t, insertIssue(db, "i1", 5, nil))

	var priority, unit, track string
	var isSplit int
	err := db.QueryRow(`SELECT priority, unit, track, is_split FROM issues WHERE id = 'i1'`).Scan(&priority, &unit, &track, &isSplit)
	require.NoError(t, err)
	assert.Equal(t, "MEDIUM", priority)
	assert.Equal(t, "PIECES", unit)
	assert.Equal(t, "[]", track)
	assert.Equal(t, 0, isSplit)
}

func TestMigrate_DeletingParentKeepsChildren(t *testing.T) {
	db := openTestDB(t)
	seedProjectStageItem(t, db)
	require.NoError(t, insertIssue(db, "parent", 10, nil))
	require.NoError(t, insertIssue(db, "child", 5, "parent"))

	_, err := db.Exec(`DELETE FROM issues WHERE id = 'parent'`)
	require.NoError(t, err)

	var parentID sql.NullString
	err = db.QueryRow(`SELECT parent_id FROM issues WHERE id = 'child'`).Scan(&parentID)
	require.NoError(t, err, "child should survive parent deletion")
	assert.False(t, parentID.Valid)
}

func TestMigrate_DeletingStageCascadesIssues(t *testing.T) {
	db := openTestDB(t)
	seedProjectStageItem(t, db)
	require.NoError(t, insertIssue(db, "i1", 10, nil))

	_, err := db.Exec(`DELETE FROM stages WHERE id = 's1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM issues`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestMigrate_ReporterRestrict(t *testing.T) {
	db := openTestDB(t)
	seedProjectStageItem(t, db)
	require.NoError(t, insertIssue(db, "i1", 10, nil))

	_, err := db.Exec(`DELETE FROM users WHERE id = 'u1'`)
	assert.Error(t, err, "a user who reported a batch cannot be removed")
}

func TestMigrate_StageUniqueness(t *testing.T) {
	db := openTestDB(t)
	seedProjectStageItem(t, db)

	_, err := db.Exec(`INSERT INTO stages (id, project_id, name, key, order_index) VALUES ('s2', 'p1', 'Other', 'OTHER', 0)`)
	assert.Error(t, err, "duplicate order should violate unique constraint")

	_, err = db.Exec(`INSERT INTO stages (id, project_id, name, key, order_index) VALUES ('s3', 'p1', 'TODO', 'TODO', 7)`)
	assert.Error(t, err, "duplicate name should violate unique constraint")

	_, err = db.Exec(`INSERT INTO stages (id, project_id, name, key, order_index) VALUES ('s5', 'p1', 'todo', 'TODO', 8)`)
	assert.Error(t, err, "names that differ only in case share a key")

	_, err = db.Exec(`INSERT INTO stages (id, project_id, name, key, order_index) VALUES ('s4', 'p1', 'Buffing', 'BUFFING', 3)`)
	assert.NoError(t, err)
}

func TestMigrate_UsersEmailPartialUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	// Empty emails are allowed repeatedly due to the partial unique index predicate.
	_, err := db.Exec(`INSERT INTO users (id, external_id, email, created_at, updated_at) VALUES ('u1', 'e1', '', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, external_id, email, created_at, updated_at) VALUES ('u2', 'e2', '', ?, ?)`, ts, ts)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO users (id, external_id, email, created_at, updated_at) VALUES ('u3', 'e3', 'a@x.io', ?, ?)`, ts, ts)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (id, external_id, email, created_at, updated_at) VALUES ('u4', 'e4', 'a@x.io', ?, ?)`, ts, ts)
	assert.Error(t, err)
}
