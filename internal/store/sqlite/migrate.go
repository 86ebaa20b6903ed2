package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var migrationName = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// Migration represents a database migration.
type Migration struct {
	Version     int
	Description string
	UpSQL       string
	DownSQL     string
}

// Migrator handles database migrations.
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new migration handler.
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// LoadMigrations loads all migrations from the embedded filesystem.
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	migrations := make(map[int]*Migration)

	err := fs.WalkDir(migrationsFS, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		// 001_description.up.sql or 001_description.down.sql
		matches := migrationName.FindStringSubmatch(filepath.Base(path))
		if len(matches) != 4 {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		description := strings.ReplaceAll(matches[2], "_", " ")

		content, err := migrationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", path, err)
		}

		if _, exists := migrations[version]; !exists {
			migrations[version] = &Migration{
				Version:     version,
				Description: description,
			}
		}

		if matches[3] == "up" {
			migrations[version].UpSQL = string(content)
		} else {
			migrations[version].DownSQL = string(content)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking migrations: %w", err)
	}

	result := make([]Migration, 0, len(migrations))
	for _, mig := range migrations {
		result = append(result, *mig)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	return nil
}

// CurrentVersion returns the current schema version.
func (m *Migrator) CurrentVersion(ctx context.Context) (int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return 0, err
	}

	var version int

	err := m.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}

	return version, nil
}

// PendingMigrations returns migrations that have not been applied.
func (m *Migrator) PendingMigrations(ctx context.Context) ([]Migration, error) {
	migrations, err := m.LoadMigrations()
	if err != nil {
		return nil, err
	}

	currentVersion, err := m.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration

	for _, mig := range migrations {
		if mig.Version > currentVersion {
			pending = append(pending, mig)
		}
	}

	return pending, nil
}

// MigrateUp applies all pending migrations.
func (m *Migrator) MigrateUp(ctx context.Context) error {
	pending, err := m.PendingMigrations(ctx)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	for _, mig := range pending {
		if mig.UpSQL == "" {
			return fmt.Errorf("migration %d has no up SQL", mig.Version)
		}

		record := func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
				mig.Version, mig.Description)
			return err
		}

		if err := m.runMigration(ctx, mig.UpSQL, record); err != nil {
			return fmt.Errorf("applying migration %d (%s): %w", mig.Version, mig.Description, err)
		}
	}

	return nil
}

// MigrateDown rolls back the last migration.
func (m *Migrator) MigrateDown(ctx context.Context) error {
	migrations, err := m.LoadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	currentVersion, err := m.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	if currentVersion == 0 {
		return errors.New("no migrations to rollback")
	}

	var current *Migration

	for i := range migrations {
		if migrations[i].Version == currentVersion {
			current = &migrations[i]
			break
		}
	}

	if current == nil {
		return fmt.Errorf("migration %d not found", currentVersion)
	}

	if current.DownSQL == "" {
		return fmt.Errorf("migration %d has no down SQL", currentVersion)
	}

	forget := func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = ?`, currentVersion)
		return err
	}

	if err := m.runMigration(ctx, current.DownSQL, forget); err != nil {
		return fmt.Errorf("rolling back migration %d (%s): %w", currentVersion, current.Description, err)
	}

	return nil
}

// runMigration executes a migration script and its bookkeeping in one transaction.
func (m *Migrator) runMigration(ctx context.Context, script string, bookkeeping func(*sql.Tx) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}

	if err = bookkeeping(tx); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// legacyColumns are added to todos tables created before the column existed.
var legacyColumns = []struct {
	name     string
	ddl      string
	backfill string
}{
	{"updated_at", "ALTER TABLE todos ADD COLUMN updated_at DATETIME NULL", "UPDATE todos SET updated_at = created_at WHERE updated_at IS NULL"},
	{"completed_at", "ALTER TABLE todos ADD COLUMN completed_at DATETIME NULL", ""},
	{"sort_order", "ALTER TABLE todos ADD COLUMN sort_order INTEGER DEFAULT 0", ""},
	{"notes", "ALTER TABLE todos ADD COLUMN notes TEXT DEFAULT ''", ""},
}

// UpgradeLegacySchema adds columns missing from a pre-existing todos table.
// "duplicate column" failures are ignored so the upgrade is idempotent.
func (m *Migrator) UpgradeLegacySchema(ctx context.Context) error {
	var name string

	err := m.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'todos'`).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("checking todos table: %w", err)
	}

	for _, col := range legacyColumns {
		if _, err := m.db.ExecContext(ctx, col.ddl); err != nil {
			if strings.Contains(err.Error(), "duplicate column") {
				continue
			}

			return fmt.Errorf("adding %s column: %w", col.name, err)
		}

		if col.backfill != "" {
			if _, err := m.db.ExecContext(ctx, col.backfill); err != nil {
				return fmt.Errorf("backfilling %s column: %w", col.name, err)
			}
		}
	}

	return nil
}
