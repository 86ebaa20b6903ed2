package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRaw(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "raw.db"))
	require.NoError(t, err)

	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })

	return db
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	require.NoError(t, err)

	defer func() { _ = rows.Close() }()

	var names []string

	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))

		names = append(names, name)
	}

	require.NoError(t, rows.Err())

	return names
}

func TestMigrator_LoadMigrations(t *testing.T) {
	migrations, err := NewMigrator(nil).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 3)

	for i, mig := range migrations {
		assert.Equal(t, i+1, mig.Version)
		assert.NotEmpty(t, mig.UpSQL, "migration %d up", mig.Version)
		assert.NotEmpty(t, mig.DownSQL, "migration %d down", mig.Version)
	}

	assert.Equal(t, "create todos", migrations[0].Description)
}

func TestMigrator_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openRaw(t)
	m := NewMigrator(db)

	version, err := m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	pending, err := m.PendingMigrations(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	require.NoError(t, m.MigrateUp(ctx))
	require.NoError(t, m.MigrateUp(ctx))

	version, err = m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, version)

	var title string
	require.NoError(t, db.QueryRow(`SELECT title FROM project_meta WHERE id = 1`).Scan(&title))
	assert.Equal(t, "Todo Project", title)

	require.NoError(t, m.MigrateDown(ctx))

	version, err = m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	pending, err = m.PendingMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].Version)
}

func TestMigrator_DownWithNothingApplied(t *testing.T) {
	err := NewMigrator(openRaw(t)).MigrateDown(context.Background())
	assert.Error(t, err)
}

func TestMigrator_UpgradeLegacySchema(t *testing.T) {
	ctx := context.Background()
	db := openRaw(t)

	_, err := db.Exec(`CREATE TABLE todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		completed BOOLEAN DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO todos (text, created_at) VALUES ('old', '2024-05-01 10:00:00')`)
	require.NoError(t, err)

	m := NewMigrator(db)
	require.NoError(t, m.UpgradeLegacySchema(ctx))
	require.NoError(t, m.UpgradeLegacySchema(ctx))
	require.NoError(t, m.MigrateUp(ctx))

	assert.Subset(t, columnNames(t, db, "todos"),
		[]string{"updated_at", "completed_at", "sort_order", "notes"})

	s := &Store{db: db}

	item, err := s.GetTodo(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "old", item.Text)
	assert.Equal(t, 0, item.SortOrder)
	assert.Empty(t, item.Notes)
	assert.Nil(t, item.CompletedAt)
	assert.True(t, item.UpdatedAt.Equal(item.CreatedAt))
	assert.Equal(t, 2024, item.CreatedAt.Year())
}

func TestMigrator_UpgradeWithoutTable(t *testing.T) {
	db := openRaw(t)
	require.NoError(t, NewMigrator(db).UpgradeLegacySchema(context.Background()))
	assert.Empty(t, columnNames(t, db, "todos"))
}
