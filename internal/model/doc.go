// Package model defines the data structures used throughout todo.
//
// These models are shared by the store backends, the services and the HTTP
// layer. JSON tags follow the stored column names.
//
// # TodoItem
//
// The [TodoItem] struct is a single entry of the list:
//
//	type TodoItem struct {
//	    ID          int64      // Store-assigned identifier
//	    Text        string     // Non-empty label
//	    Completed   bool       // Completion state
//	    Notes       string     // Rich-text notes (HTML)
//	    SortOrder   int        // Manual display rank
//	    CreatedAt   time.Time  // Set once at creation
//	    UpdatedAt   time.Time  // Refreshed on text, notes or completion changes
//	    CompletedAt *time.Time // Non-nil iff Completed
//	}
//
// # Update commands
//
// Partial updates arrive as a [TodoPatch] and are resolved into a list of
// [Command] values ([RenameCommand], [SetNotesCommand], [SetCompletedCommand]).
// Content edits take priority: a patch carrying text or notes never produces a
// [SetCompletedCommand].
//
// # ProjectMeta
//
// The [ProjectMeta] struct is the singleton project record with a title and a
// rich-text description.
package model
