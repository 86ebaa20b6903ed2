// Package service holds the todo and project repositories used by the HTTP
// layer, the exporter and the CLI. Both services read through to the store on
// every call and keep no cached state.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/inovacc/todo/internal/model"
	"github.com/inovacc/todo/internal/store"
)

const (
	msgTextRequired = "Text is required"
	msgEmptyPatch   = "Either text, notes, or completed must be provided"
	msgEmptyRename  = "Text cannot be empty"
	msgEmptyProject = "Title or description must be provided"
)

// TodoService provides the todo list operations.
type TodoService struct {
	store store.TodoStore
}

// NewTodoService creates a new TodoService backed by s.
func NewTodoService(s store.TodoStore) *TodoService {
	return &TodoService{store: s}
}

// List returns every item in display order.
func (ts *TodoService) List(ctx context.Context) ([]model.TodoItem, error) {
	items, err := ts.store.ListTodos(ctx)
	if err != nil {
		return nil, storeErr("list todos", err)
	}

	return items, nil
}

// Get returns a single item.
func (ts *TodoService) Get(ctx context.Context, id int64) (*model.TodoItem, error) {
	item, err := ts.store.GetTodo(ctx, id)
	if err != nil {
		return nil, storeErr("get todo", err)
	}

	if item == nil {
		return nil, ErrTodoNotFound
	}

	return item, nil
}

// Create appends a new item at the end of the list.
func (ts *TodoService) Create(ctx context.Context, text string) (*model.TodoItem, error) {
	if strings.TrimSpace(text) == "" {
		return nil, invalid(msgTextRequired)
	}

	item, err := ts.store.CreateTodo(ctx, text)
	if err != nil {
		return nil, storeErr("create todo", err)
	}

	return item, nil
}

// Update applies a partial update. Unknown ids succeed without effect.
func (ts *TodoService) Update(ctx context.Context, id int64, patch model.TodoPatch) error {
	cmds, err := patch.Commands()
	if errors.Is(err, model.ErrEmptyPatch) {
		return invalid(msgEmptyPatch)
	}

	if err != nil {
		return err
	}

	for _, cmd := range cmds {
		if r, ok := cmd.(model.RenameCommand); ok && strings.TrimSpace(r.Text) == "" {
			return invalid(msgEmptyRename)
		}
	}

	return storeErr("update todo", ts.store.UpdateTodo(ctx, id, cmds...))
}

// Reorder gives each listed id its position as sort order.
func (ts *TodoService) Reorder(ctx context.Context, ids []int64) error {
	return storeErr("reorder todos", ts.store.ReorderTodos(ctx, ids))
}

// Delete removes an item. Unknown ids succeed.
func (ts *TodoService) Delete(ctx context.Context, id int64) error {
	return storeErr("delete todo", ts.store.DeleteTodo(ctx, id))
}

// ProjectService provides access to the singleton project record.
type ProjectService struct {
	store store.ProjectStore
}

// NewProjectService creates a new ProjectService backed by s.
func NewProjectService(s store.ProjectStore) *ProjectService {
	return &ProjectService{store: s}
}

// Get returns the project, or the defaults when the row is missing.
func (ps *ProjectService) Get(ctx context.Context) (*model.ProjectMeta, error) {
	meta, err := ps.store.GetProject(ctx)
	if err != nil {
		return nil, storeErr("get project", err)
	}

	if meta == nil {
		def := model.DefaultProject()
		return &def, nil
	}

	return meta, nil
}

// Update changes the provided project fields.
func (ps *ProjectService) Update(ctx context.Context, patch model.ProjectPatch) error {
	if patch.Empty() {
		return invalid(msgEmptyProject)
	}

	return storeErr("update project", ps.store.UpdateProject(ctx, patch))
}
