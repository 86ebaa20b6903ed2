// Package export renders the todo list as a paginated PDF report.
//
// The layout pass (Render) draws onto a Canvas; RenderPDF backs it with fpdf.
// Exporter gathers the data from the todo and project services and names the
// resulting file after the project title and the export date.
package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/inovacc/todo/internal/model"
)

// TodoLister is the read side of the todo service used by the exporter.
type TodoLister interface {
	List(ctx context.Context) ([]model.TodoItem, error)
}

// ProjectGetter is the read side of the project service used by the exporter.
type ProjectGetter interface {
	Get(ctx context.Context) (*model.ProjectMeta, error)
}

// File is a rendered export.
type File struct {
	Name  string
	Pages int
	Data  []byte
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLocation sets the time zone used for dates in the report and filename.
func WithLocation(loc *time.Location) Option {
	return func(e *Exporter) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// WithClock overrides the time source used for the generation date.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// WithLogger sets the logger used to report a missing project.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// WithoutCompression leaves PDF content streams uncompressed.
func WithoutCompression() Option {
	return func(e *Exporter) {
		e.compress = false
	}
}

// Exporter builds PDF reports of the current list.
type Exporter struct {
	todos    TodoLister
	project  ProjectGetter
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
	compress bool
}

// New creates an Exporter reading from the given services.
func New(todos TodoLister, project ProjectGetter, opts ...Option) *Exporter {
	e := &Exporter{
		todos:    todos,
		project:  project,
		loc:      time.Local,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
		compress: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Document collects the items and project data for one report. A failing
// project lookup is not fatal; the report falls back to the default title.
func (e *Exporter) Document(ctx context.Context) (Document, error) {
	items, err := e.todos.List(ctx)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		Todos:       items,
		GeneratedAt: e.now(),
		Location:    e.loc,
	}

	meta, err := e.project.Get(ctx)
	if err != nil {
		e.logger.Warn("project lookup failed, using defaults", "error", err)
	}

	if err == nil && meta != nil {
		doc.Title = meta.Title
		doc.Description = meta.Description
	}

	return doc, nil
}

// Export renders the current list.
func (e *Exporter) Export(ctx context.Context) (*File, error) {
	doc, err := e.Document(ctx)
	if err != nil {
		return nil, err
	}

	data, pages, err := RenderPDF(doc, e.compress)
	if err != nil {
		return nil, err
	}

	return &File{
		Name:  Filename(doc.title(), doc.GeneratedAt.In(e.loc)),
		Pages: pages,
		Data:  data,
	}, nil
}
