// Package bolt provides BoltDB storage for todo.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/inovacc/todo/internal/model"
	"go.etcd.io/bbolt"
)

const (
	bucketTodos   = "todos"   // key: big-endian id -> TodoItem JSON
	bucketProject = "project" // key: "meta" -> ProjectMeta JSON
)

var keyProject = []byte("meta")

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store implements the store.Store interface using BoltDB.
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// New opens (or creates) the bolt file at path and seeds the project row.
func New(path string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketTodos)); err != nil {
			return err
		}

		project, err := tx.CreateBucketIfNotExists([]byte(bucketProject))
		if err != nil {
			return err
		}

		if project.Get(keyProject) != nil {
			return nil
		}

		now := s.timestamp()
		meta := model.DefaultProject()
		meta.CreatedAt = now
		meta.UpdatedAt = now

		return putJSON(project, keyProject, &meta)
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return s, nil
}

// Close closes the bolt file.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that a read transaction can be opened.
func (s *Store) Ping(_ context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Store) ListTodos(_ context.Context) ([]model.TodoItem, error) {
	out := []model.TodoItem{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketTodos)).ForEach(func(_, v []byte) error {
			var item model.TodoItem

			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}

			out = append(out, item)

			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	model.SortTodos(out)

	return out, nil
}

func (s *Store) GetTodo(_ context.Context, id int64) (*model.TodoItem, error) {
	var item *model.TodoItem

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(bucketTodos)).Get(itob(id))
		if v == nil {
			return nil
		}

		item = &model.TodoItem{}

		return json.Unmarshal(v, item)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return item, nil
}

func (s *Store) CreateTodo(_ context.Context, text string) (*model.TodoItem, error) {
	now := s.timestamp()

	item := &model.TodoItem{
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		todos := tx.Bucket([]byte(bucketTodos))

		maxOrder := 0
		if err := todos.ForEach(func(_, v []byte) error {
			var existing model.TodoItem

			if err := json.Unmarshal(v, &existing); err != nil {
				return err
			}

			maxOrder = max(maxOrder, existing.SortOrder)

			return nil
		}); err != nil {
			return err
		}

		seq, err := todos.NextSequence()
		if err != nil {
			return err
		}

		item.ID = int64(seq)
		item.SortOrder = maxOrder + 1

		return putJSON(todos, itob(item.ID), item)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return item, nil
}

func (s *Store) UpdateTodo(_ context.Context, id int64, cmds ...model.Command) error {
	if len(cmds) == 0 {
		return nil
	}

	now := s.timestamp()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		todos := tx.Bucket([]byte(bucketTodos))

		item, err := getTodo(todos, id)
		if err != nil || item == nil {
			return err
		}

		updated := model.ApplyCommands(*item, now, cmds...)

		return putJSON(todos, itob(id), &updated)
	})
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

// ReorderTodos applies the whole batch in a single bolt transaction.
func (s *Store) ReorderTodos(_ context.Context, ids []int64) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		todos := tx.Bucket([]byte(bucketTodos))

		for i, id := range ids {
			item, err := getTodo(todos, id)
			if err != nil {
				return err
			}

			if item == nil {
				continue
			}

			item.SortOrder = i

			if err := putJSON(todos, itob(id), item); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to reorder todos: %w", err)
	}

	return nil
}

func (s *Store) DeleteTodo(_ context.Context, id int64) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketTodos)).Delete(itob(id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return nil
}

func (s *Store) GetProject(_ context.Context) (*model.ProjectMeta, error) {
	var meta *model.ProjectMeta

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(bucketProject)).Get(keyProject)
		if v == nil {
			return nil
		}

		meta = &model.ProjectMeta{}

		return json.Unmarshal(v, meta)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return meta, nil
}

func (s *Store) UpdateProject(_ context.Context, patch model.ProjectPatch) error {
	if patch.Empty() {
		return nil
	}

	now := s.timestamp()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		project := tx.Bucket([]byte(bucketProject))

		v := project.Get(keyProject)
		if v == nil {
			// matches an UPDATE on a missing row
			return nil
		}

		var meta model.ProjectMeta
		if err := json.Unmarshal(v, &meta); err != nil {
			return err
		}

		meta = patch.Apply(meta, now)

		return putJSON(project, keyProject, &meta)
	})
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

func getTodo(todos *bbolt.Bucket, id int64) (*model.TodoItem, error) {
	if id < 0 {
		return nil, nil
	}

	v := todos.Get(itob(id))
	if v == nil {
		return nil, nil
	}

	var item model.TodoItem
	if err := json.Unmarshal(v, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

func putJSON(b *bbolt.Bucket, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return b.Put(key, data)
}

// itob encodes ids big-endian so bucket iteration follows creation order.
func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))

	return b
}
