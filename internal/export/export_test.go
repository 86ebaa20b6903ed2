package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/inovacc/todo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTodos struct {
	items []model.TodoItem
	err   error
}

func (f fakeTodos) List(context.Context) ([]model.TodoItem, error) { return f.items, f.err }

type fakeProject struct {
	meta *model.ProjectMeta
	err  error
}

func (f fakeProject) Get(context.Context) (*model.ProjectMeta, error) { return f.meta, f.err }

func newTestExporter(todos TodoLister, project ProjectGetter) *Exporter {
	return New(todos, project,
		WithLocation(time.UTC),
		WithClock(func() time.Time { return exportTime }),
		WithoutCompression(),
	)
}

func TestExporter_Export(t *testing.T) {
	done := exportTime.Add(-time.Minute)
	todos := fakeTodos{items: []model.TodoItem{
		{ID: 1, Text: "Write report", CreatedAt: exportTime, UpdatedAt: exportTime},
		{ID: 2, Text: "Ship it", Completed: true, CreatedAt: exportTime, UpdatedAt: done, CompletedAt: &done},
	}}
	project := fakeProject{meta: &model.ProjectMeta{ID: 1, Title: "My Project!"}}

	file, err := newTestExporter(todos, project).Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "my_project_-2026-10-18.pdf", file.Name)
	assert.Equal(t, 1, file.Pages)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF-")))
	assert.Contains(t, string(file.Data), "Total items: 2 | Completed: 1 | Pending: 1")
	assert.Contains(t, string(file.Data), "1. Write report")
	assert.Contains(t, string(file.Data), "/ZapfDingbats")
}

func TestExporter_ManyItemsPaginate(t *testing.T) {
	var items []model.TodoItem
	for i := range 25 {
		items = append(items, model.TodoItem{ID: int64(i + 1), Text: "task", CreatedAt: exportTime, UpdatedAt: exportTime})
	}

	file, err := newTestExporter(fakeTodos{items: items}, fakeProject{meta: &model.ProjectMeta{Title: "T"}}).
		Export(context.Background())
	require.NoError(t, err)

	// 8 items fit on the first page, 9 on each following one
	assert.Equal(t, 3, file.Pages)
}

func TestExporter_ProjectFailureFallsBack(t *testing.T) {
	e := newTestExporter(fakeTodos{}, fakeProject{err: errors.New("no such table: project_meta")})

	doc, err := e.Document(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Title)

	file, err := e.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "todo_list_export-2026-10-18.pdf", file.Name)
	assert.Contains(t, string(file.Data), "Total items: 0 | Completed: 0 | Pending: 0")
}

func TestExporter_ListFailure(t *testing.T) {
	cause := errors.New("disk I/O error")

	_, err := newTestExporter(fakeTodos{err: cause}, fakeProject{}).Export(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestExporter_FilenameUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	late := time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

	e := New(fakeTodos{}, fakeProject{meta: &model.ProjectMeta{Title: "Plan"}},
		WithLocation(tokyo),
		WithClock(func() time.Time { return late }),
	)

	file, err := e.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "plan-2026-10-19.pdf", file.Name)
}

func TestRenderPDF_LongAndNonLatinText(t *testing.T) {
	var words []string
	for i := range 60 {
		words = append(words, fmt.Sprintf("w%d", i+1))
	}

	doc := Document{
		Title:       "Купить 买",
		GeneratedAt: exportTime,
		Location:    time.UTC,
		Todos: []model.TodoItem{
			{ID: 1, Text: strings.Join(words, " "), CreatedAt: exportTime, UpdatedAt: exportTime},
			{ID: 2, Text: "Café crème", CreatedAt: exportTime, UpdatedAt: exportTime},
		},
	}

	data, pages, err := RenderPDF(doc, false)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
	assert.Contains(t, string(data), "w60")
}
