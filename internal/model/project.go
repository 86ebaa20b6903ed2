package model

import "time"

const (
	// DefaultProjectTitle is used when the project row has never been edited or is missing
	DefaultProjectTitle = "Todo Project"

	// ProjectID is the primary key of the singleton project row
	ProjectID = 1
)

// ProjectMeta is the singleton project record.
type ProjectMeta struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultProject returns the in-memory project used when no row exists.
func DefaultProject() ProjectMeta {
	return ProjectMeta{
		ID:    ProjectID,
		Title: DefaultProjectTitle,
	}
}

// ProjectPatch carries a partial project update. Nil fields are left untouched.
type ProjectPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Empty reports whether the patch carries no field.
func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}

// Apply returns a copy of meta with the patch applied.
func (p ProjectPatch) Apply(meta ProjectMeta, now time.Time) ProjectMeta {
	if p.Title != nil {
		meta.Title = *p.Title
	}

	if p.Description != nil {
		meta.Description = *p.Description
	}

	meta.UpdatedAt = now

	return meta
}
