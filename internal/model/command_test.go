package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestTodoPatch_Commands(t *testing.T) {
	tests := []struct {
		name    string
		patch   TodoPatch
		want    []Command
		wantErr error
	}{
		{
			name:  "text only",
			patch: TodoPatch{Text: strPtr("buy milk")},
			want:  []Command{RenameCommand{Text: "buy milk"}},
		},
		{
			name:  "notes only",
			patch: TodoPatch{Notes: strPtr("<p>2 liters</p>")},
			want:  []Command{SetNotesCommand{Notes: "<p>2 liters</p>"}},
		},
		{
			name:  "text and notes",
			patch: TodoPatch{Text: strPtr("a"), Notes: strPtr("b")},
			want:  []Command{RenameCommand{Text: "a"}, SetNotesCommand{Notes: "b"}},
		},
		{
			name:  "completed only",
			patch: TodoPatch{Completed: boolPtr(true)},
			want:  []Command{SetCompletedCommand{Completed: true}},
		},
		{
			name:  "completed dropped when text present",
			patch: TodoPatch{Text: strPtr("x"), Completed: boolPtr(true)},
			want:  []Command{RenameCommand{Text: "x"}},
		},
		{
			name:  "completed dropped when notes present",
			patch: TodoPatch{Notes: strPtr(""), Completed: boolPtr(false)},
			want:  []Command{SetNotesCommand{Notes: ""}},
		},
		{
			name:    "empty patch",
			patch:   TodoPatch{},
			wantErr: ErrEmptyPatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.patch.Commands()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Commands() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyCommands_CompletionTimestamp(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now := created.Add(time.Hour)

	item := TodoItem{ID: 1, Text: "t", CreatedAt: created, UpdatedAt: created}

	done := ApplyCommands(item, now, SetCompletedCommand{Completed: true})
	require.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)
	require.True(t, done.CompletedAt.Equal(now))
	require.True(t, done.UpdatedAt.Equal(now))

	undone := ApplyCommands(done, now.Add(time.Minute), SetCompletedCommand{Completed: false})
	require.False(t, undone.Completed)
	require.Nil(t, undone.CompletedAt)

	// the original value is untouched
	require.False(t, item.Completed)
	require.True(t, item.UpdatedAt.Equal(created))
}

func TestApplyCommands_RenameKeepsCompletion(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	item := TodoItem{Text: "old", Completed: true, CompletedAt: &at}

	got := ApplyCommands(item, at.Add(time.Hour), RenameCommand{Text: "new"}, SetNotesCommand{Notes: "n"})

	require.Equal(t, "new", got.Text)
	require.Equal(t, "n", got.Notes)
	require.True(t, got.Completed)
	require.Equal(t, &at, got.CompletedAt)
}
