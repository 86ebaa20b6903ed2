// Package storetest holds the behavioural suite every store backend must pass.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/inovacc/todo/internal/model"
	"github.com/inovacc/todo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock frozen at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// Factory opens a fresh, empty store driven by clock.
type Factory func(t *testing.T, clock func() time.Time) store.Store

// Run executes the suite against the backend built by open.
func Run(t *testing.T, open Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store, clock *Clock)
	}{
		{"CreateAssignsOrder", testCreateAssignsOrder},
		{"CreateAfterReorderToZero", testCreateAfterReorderToZero},
		{"ListOrdering", testListOrdering},
		{"GetMissing", testGetMissing},
		{"CompleteAndReopen", testCompleteAndReopen},
		{"RenameKeepsCompletion", testRenameKeepsCompletion},
		{"UpdateNotes", testUpdateNotes},
		{"UpdateMissingIsNoop", testUpdateMissingIsNoop},
		{"Reorder", testReorder},
		{"ReorderSkipsUnknownAndKeepsOmitted", testReorderSkipsUnknownAndKeepsOmitted},
		{"Delete", testDelete},
		{"ProjectDefaults", testProjectDefaults},
		{"ProjectUpdate", testProjectUpdate},
		{"Ping", testPing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := NewClock(time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC))
			s := open(t, clock.Now)

			t.Cleanup(func() {
				if err := s.Close(); err != nil {
					t.Logf("failed to close store: %v", err)
				}
			})

			tt.fn(t, s, clock)
		})
	}
}

func create(t *testing.T, s store.Store, text string) *model.TodoItem {
	t.Helper()

	item, err := s.CreateTodo(context.Background(), text)
	require.NoError(t, err)
	require.NotNil(t, item)

	return item
}

func get(t *testing.T, s store.Store, id int64) *model.TodoItem {
	t.Helper()

	item, err := s.GetTodo(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, item, "todo %d not found", id)

	return item
}

func ids(items []model.TodoItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}

	return out
}

func testCreateAssignsOrder(t *testing.T, s store.Store, clock *Clock) {
	first := create(t, s, "first")
	assert.NotZero(t, first.ID)
	assert.Equal(t, "first", first.Text)
	assert.Equal(t, 1, first.SortOrder)
	assert.False(t, first.Completed)
	assert.Empty(t, first.Notes)
	assert.Nil(t, first.CompletedAt)
	assert.True(t, first.CreatedAt.Equal(clock.Now()))
	assert.True(t, first.UpdatedAt.Equal(first.CreatedAt))

	clock.Advance(time.Second)

	second := create(t, s, "second")
	assert.Equal(t, 2, second.SortOrder)
	assert.NotEqual(t, first.ID, second.ID)

	stored := get(t, s, second.ID)
	assert.Equal(t, second.SortOrder, stored.SortOrder)
	assert.True(t, stored.CreatedAt.Equal(second.CreatedAt))
}

func testCreateAfterReorderToZero(t *testing.T, s store.Store, _ *Clock) {
	only := create(t, s, "only")
	require.NoError(t, s.ReorderTodos(context.Background(), []int64{only.ID}))
	assert.Equal(t, 0, get(t, s, only.ID).SortOrder)

	next := create(t, s, "next")
	assert.Equal(t, 1, next.SortOrder)
}

func testListOrdering(t *testing.T, s store.Store, clock *Clock) {
	ctx := context.Background()

	empty, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a := create(t, s, "a")
	clock.Advance(time.Second)
	b := create(t, s, "b")
	clock.Advance(time.Second)
	c := create(t, s, "c")

	require.NoError(t, s.ReorderTodos(ctx, []int64{a.ID, b.ID}))
	require.NoError(t, s.ReorderTodos(ctx, []int64{b.ID}))

	// a and b now share order 0; the tie goes to the newer item
	list, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, a.ID, c.ID}, ids(list))
}

func testGetMissing(t *testing.T, s store.Store, _ *Clock) {
	item, err := s.GetTodo(context.Background(), 4242)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func testCompleteAndReopen(t *testing.T, s store.Store, clock *Clock) {
	ctx := context.Background()
	item := create(t, s, "task")

	clock.Advance(time.Minute)
	require.NoError(t, s.UpdateTodo(ctx, item.ID, model.SetCompletedCommand{Completed: true}))

	done := get(t, s, item.ID)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(clock.Now()))
	assert.True(t, done.UpdatedAt.Equal(clock.Now()))
	assert.True(t, done.CreatedAt.Equal(item.CreatedAt))

	clock.Advance(time.Minute)
	require.NoError(t, s.UpdateTodo(ctx, item.ID, model.SetCompletedCommand{Completed: false}))

	reopened := get(t, s, item.ID)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
	assert.True(t, reopened.UpdatedAt.Equal(clock.Now()))
}

func testRenameKeepsCompletion(t *testing.T, s store.Store, clock *Clock) {
	ctx := context.Background()
	item := create(t, s, "before")

	require.NoError(t, s.UpdateTodo(ctx, item.ID, model.SetCompletedCommand{Completed: true}))
	done := get(t, s, item.ID)

	clock.Advance(time.Minute)
	require.NoError(t, s.UpdateTodo(ctx, item.ID, model.RenameCommand{Text: "after"}))

	renamed := get(t, s, item.ID)
	assert.Equal(t, "after", renamed.Text)
	assert.True(t, renamed.Completed)
	require.NotNil(t, renamed.CompletedAt)
	assert.True(t, renamed.CompletedAt.Equal(*done.CompletedAt))
	assert.True(t, renamed.UpdatedAt.Equal(clock.Now()))
}

func testUpdateNotes(t *testing.T, s store.Store, _ *Clock) {
	ctx := context.Background()
	item := create(t, s, "task")

	notes := "<ul><li>one</li><li>two</li></ul>"
	require.NoError(t, s.UpdateTodo(ctx, item.ID,
		model.RenameCommand{Text: "renamed"}, model.SetNotesCommand{Notes: notes}))

	got := get(t, s, item.ID)
	assert.Equal(t, "renamed", got.Text)
	assert.Equal(t, notes, got.Notes)
	assert.False(t, got.Completed)
}

func testUpdateMissingIsNoop(t *testing.T, s store.Store, _ *Clock) {
	ctx := context.Background()

	require.NoError(t, s.UpdateTodo(ctx, 999, model.RenameCommand{Text: "ghost"}))
	require.NoError(t, s.UpdateTodo(ctx, 999, model.SetCompletedCommand{Completed: true}))

	list, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testReorder(t *testing.T, s store.Store, clock *Clock) {
	ctx := context.Background()

	one := create(t, s, "one")
	clock.Advance(time.Second)
	two := create(t, s, "two")
	clock.Advance(time.Second)
	three := create(t, s, "three")

	require.NoError(t, s.ReorderTodos(ctx, []int64{three.ID, one.ID, two.ID}))

	assert.Equal(t, 0, get(t, s, three.ID).SortOrder)
	assert.Equal(t, 1, get(t, s, one.ID).SortOrder)
	assert.Equal(t, 2, get(t, s, two.ID).SortOrder)

	list, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{three.ID, one.ID, two.ID}, ids(list))
}

func testReorderSkipsUnknownAndKeepsOmitted(t *testing.T, s store.Store, clock *Clock) {
	ctx := context.Background()

	one := create(t, s, "one")
	clock.Advance(time.Second)
	two := create(t, s, "two")
	clock.Advance(time.Second)
	three := create(t, s, "three")

	require.NoError(t, s.ReorderTodos(ctx, []int64{777, two.ID, one.ID}))

	assert.Equal(t, 2, get(t, s, one.ID).SortOrder)
	assert.Equal(t, 1, get(t, s, two.ID).SortOrder)
	// the omitted item keeps its previous order
	assert.Equal(t, 3, get(t, s, three.ID).SortOrder)

	missing, err := s.GetTodo(ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.ReorderTodos(ctx, nil))
}

func testDelete(t *testing.T, s store.Store, _ *Clock) {
	ctx := context.Background()

	keep := create(t, s, "keep")
	drop := create(t, s, "drop")

	require.NoError(t, s.DeleteTodo(ctx, drop.ID))
	require.NoError(t, s.DeleteTodo(ctx, drop.ID))
	require.NoError(t, s.DeleteTodo(ctx, 12345))

	list, err := s.ListTodos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{keep.ID}, ids(list))
}

func testProjectDefaults(t *testing.T, s store.Store, _ *Clock) {
	meta, err := s.GetProject(context.Background())
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, int64(model.ProjectID), meta.ID)
	assert.Equal(t, model.DefaultProjectTitle, meta.Title)
	assert.Empty(t, meta.Description)
	assert.False(t, meta.CreatedAt.IsZero())
}

func testProjectUpdate(t *testing.T, s store.Store, clock *Clock) {
	ctx := context.Background()

	desc := "<p>Quarterly goals</p>"
	require.NoError(t, s.UpdateProject(ctx, model.ProjectPatch{Description: &desc}))

	clock.Advance(time.Hour)

	title := "T"
	require.NoError(t, s.UpdateProject(ctx, model.ProjectPatch{Title: &title}))

	meta, err := s.GetProject(ctx)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "T", meta.Title)
	assert.Equal(t, desc, meta.Description)
	assert.True(t, meta.UpdatedAt.Equal(clock.Now()))
}

func testPing(t *testing.T, s store.Store, _ *Clock) {
	assert.NoError(t, s.Ping(context.Background()))
}
