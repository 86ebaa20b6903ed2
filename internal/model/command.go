package model

import (
	"errors"
	"time"
)

// ErrEmptyPatch is returned when a todo patch carries none of the known fields.
var ErrEmptyPatch = errors.New("either text, notes, or completed must be provided")

// Command is one resolved change to a todo item.
type Command interface {
	apply(item *TodoItem, now time.Time)
}

// RenameCommand replaces the item text.
type RenameCommand struct {
	Text string
}

// SetNotesCommand replaces the item notes.
type SetNotesCommand struct {
	Notes string
}

// SetCompletedCommand changes the completion state and its timestamp.
type SetCompletedCommand struct {
	Completed bool
}

func (c RenameCommand) apply(item *TodoItem, now time.Time) {
	item.Text = c.Text
	item.UpdatedAt = now
}

func (c SetNotesCommand) apply(item *TodoItem, now time.Time) {
	item.Notes = c.Notes
	item.UpdatedAt = now
}

func (c SetCompletedCommand) apply(item *TodoItem, now time.Time) {
	item.Completed = c.Completed
	item.UpdatedAt = now

	if c.Completed {
		t := now
		item.CompletedAt = &t
	} else {
		item.CompletedAt = nil
	}
}

// ApplyCommands applies cmds to a copy of item at the given time.
func ApplyCommands(item TodoItem, now time.Time, cmds ...Command) TodoItem {
	for _, c := range cmds {
		c.apply(&item, now)
	}

	return item
}

// TodoPatch is the partial update accepted by PUT /api/todos/{id}.
type TodoPatch struct {
	Text      *string `json:"text"`
	Notes     *string `json:"notes"`
	Completed *bool   `json:"completed"`
}

// Commands resolves the patch. Text and notes win: when either is present,
// Completed is ignored.
func (p TodoPatch) Commands() ([]Command, error) {
	if p.Text != nil || p.Notes != nil {
		var cmds []Command

		if p.Text != nil {
			cmds = append(cmds, RenameCommand{Text: *p.Text})
		}

		if p.Notes != nil {
			cmds = append(cmds, SetNotesCommand{Notes: *p.Notes})
		}

		return cmds, nil
	}

	if p.Completed != nil {
		return []Command{SetCompletedCommand{Completed: *p.Completed}}, nil
	}

	return nil, ErrEmptyPatch
}
