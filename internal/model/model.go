package model

import (
	"cmp"
	"slices"
	"time"
)

// TodoItem is a single entry of the todo list.
type TodoItem struct {
	// ID is assigned by the store on creation
	ID int64 `json:"id"`

	// Text is the item label
	Text string `json:"text"`

	// Completed is the completion state
	Completed bool `json:"completed"`

	// Notes holds rich-text notes as HTML
	Notes string `json:"notes"`

	// SortOrder defines the manual display order
	SortOrder int `json:"sort_order"`

	// CreatedAt is set once at creation
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is refreshed whenever text, notes or completion change
	UpdatedAt time.Time `json:"updated_at"`

	// CompletedAt is set while the item is completed and nil otherwise
	CompletedAt *time.Time `json:"completed_at"`
}

// CompareTodos orders items by sort order ascending, newest first on ties.
func CompareTodos(a, b TodoItem) int {
	if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
		return c
	}

	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}

	return cmp.Compare(b.ID, a.ID)
}

// SortTodos sorts items in place into the default list order.
func SortTodos(items []TodoItem) {
	slices.SortStableFunc(items, CompareTodos)
}

// CountCompleted returns how many items are completed.
func CountCompleted(items []TodoItem) int {
	n := 0

	for _, it := range items {
		if it.Completed {
			n++
		}
	}

	return n
}
