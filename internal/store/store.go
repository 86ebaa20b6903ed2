package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/inovacc/todo/internal/model"
	"github.com/inovacc/todo/internal/store/bolt"
	"github.com/inovacc/todo/internal/store/sqlite"
)

// Supported backend drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// TodoStore holds the todo items.
type TodoStore interface {
	// ListTodos returns every item ordered by sort order, newest first on ties.
	ListTodos(ctx context.Context) ([]model.TodoItem, error)
	// GetTodo returns nil, nil when the item does not exist.
	GetTodo(ctx context.Context, id int64) (*model.TodoItem, error)
	// CreateTodo appends an item after the current maximum sort order.
	CreateTodo(ctx context.Context, text string) (*model.TodoItem, error)
	// UpdateTodo applies cmds to the item. Missing ids are not an error.
	UpdateTodo(ctx context.Context, id int64, cmds ...model.Command) error
	// ReorderTodos assigns each listed id its position as sort order.
	ReorderTodos(ctx context.Context, ids []int64) error
	// DeleteTodo removes the item if present.
	DeleteTodo(ctx context.Context, id int64) error
}

// ProjectStore holds the singleton project row.
type ProjectStore interface {
	// GetProject returns nil, nil when the row is missing.
	GetProject(ctx context.Context) (*model.ProjectMeta, error)
	UpdateProject(ctx context.Context, patch model.ProjectPatch) error
}

// Store defines the database operations used by the app.
type Store interface {
	TodoStore
	ProjectStore
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*sqlite.Store)(nil)
	_ Store = (*bolt.Store)(nil)
)

// Open opens the backend named by driver at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return sqlite.New(path)
	case DriverBolt:
		return bolt.New(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
