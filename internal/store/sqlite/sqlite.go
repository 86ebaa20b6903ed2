// Package sqlite provides SQLite database storage for todo.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inovacc/todo/internal/model"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const todoColumns = `id, text, completed, notes, sort_order, created_at, updated_at, completed_at`

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store implements the store.Store interface using SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// New creates a new SQLite store with the given database path.
func New(dbPath string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't handle multiple writers well
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, path: dbPath, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrator := NewMigrator(db)

	if err := migrator.UpgradeLegacySchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("upgrading legacy schema: %w", err)
	}

	if err := migrator.MigrateUp(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks if the database is accessible.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// ============================================================================
// Todo Operations
// ============================================================================

func (s *Store) ListTodos(ctx context.Context) ([]model.TodoItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+`
		FROM todos
		ORDER BY sort_order ASC, created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	defer func() { _ = rows.Close() }()

	todos := []model.TodoItem{}

	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}

		todos = append(todos, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

func (s *Store) GetTodo(ctx context.Context, id int64) (*model.TodoItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)

	item, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return item, nil
}

func (s *Store) CreateTodo(ctx context.Context, text string) (*model.TodoItem, error) {
	now := s.timestamp()

	item := &model.TodoItem{
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The max lookup and the insert run as one statement.
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO todos (text, completed, notes, sort_order, created_at, updated_at)
		SELECT ?, 0, '', COALESCE(MAX(sort_order), 0) + 1, ?, ? FROM todos
		RETURNING id, sort_order
	`, text, formatTime(now), formatTime(now)).Scan(&item.ID, &item.SortOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return item, nil
}

func (s *Store) UpdateTodo(ctx context.Context, id int64, cmds ...model.Command) error {
	if len(cmds) == 0 {
		return nil
	}

	now := formatTime(s.timestamp())

	var (
		sets []string
		args []any
	)

	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case model.RenameCommand:
			sets = append(sets, "text = ?")
			args = append(args, c.Text)
		case model.SetNotesCommand:
			sets = append(sets, "notes = ?")
			args = append(args, c.Notes)
		case model.SetCompletedCommand:
			var completedAt any
			if c.Completed {
				completedAt = now
			}

			sets = append(sets, "completed = ?", "completed_at = ?")
			args = append(args, boolToInt(c.Completed), completedAt)
		default:
			return fmt.Errorf("unsupported todo command %T", cmd)
		}
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	query := `UPDATE todos SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

// ReorderTodos runs the whole batch in one transaction; a failure leaves the
// previous order intact.
func (s *Store) ReorderTodos(ctx context.Context, ids []int64) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin reorder: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `UPDATE todos SET sort_order = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare reorder: %w", err)
	}

	defer func() { _ = stmt.Close() }()

	for i, id := range ids {
		if _, err = stmt.ExecContext(ctx, i, id); err != nil {
			return fmt.Errorf("failed to reorder todo %d: %w", id, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	return nil
}

func (s *Store) DeleteTodo(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

// ============================================================================
// Project Operations
// ============================================================================

func (s *Store) GetProject(ctx context.Context) (*model.ProjectMeta, error) {
	var (
		meta      model.ProjectMeta
		title     sql.NullString
		desc      sql.NullString
		createdAt timestamp
		updatedAt timestamp
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, created_at, updated_at
		FROM project_meta WHERE id = ?
	`, model.ProjectID).Scan(&meta.ID, &title, &desc, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	meta.Title = title.String
	meta.Description = desc.String
	meta.CreatedAt = createdAt.Time
	meta.UpdatedAt = updatedAt.Time

	return &meta, nil
}

func (s *Store) UpdateProject(ctx context.Context, patch model.ProjectPatch) error {
	if patch.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}

	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(s.timestamp()), model.ProjectID)

	query := `UPDATE project_meta SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*model.TodoItem, error) {
	var (
		item        model.TodoItem
		completed   sql.NullBool
		notes       sql.NullString
		sortOrder   sql.NullInt64
		createdAt   timestamp
		updatedAt   timestamp
		completedAt timestamp
	)

	if err := row.Scan(&item.ID, &item.Text, &completed, &notes, &sortOrder,
		&createdAt, &updatedAt, &completedAt); err != nil {
		return nil, err
	}

	item.Completed = completed.Bool
	item.Notes = notes.String
	item.SortOrder = int(sortOrder.Int64)
	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	if completedAt.Valid {
		t := completedAt.Time
		item.CompletedAt = &t
	}

	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
