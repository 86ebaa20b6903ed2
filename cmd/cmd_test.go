package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/inovacc/todo/internal/application"
	"github.com/inovacc/todo/internal/config"
	"github.com/inovacc/todo/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCLI struct {
	t  *testing.T
	db string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	for _, key := range []string{
		"PORT", "TODO_PORT", "TODO_HOST", "TODO_STORE_DRIVER", "TODO_STORE_PATH",
		"TODO_LOG_LEVEL", "TODO_LOG_FORMAT", "TODO_EXPORT_TIMEZONE",
	} {
		t.Setenv(key, "")
	}

	return &testCLI{t: t, db: filepath.Join(t.TempDir(), "todos.db")}
}

func (c *testCLI) runWithInput(stdin string, args ...string) (string, error) {
	c.t.Helper()

	root := NewRootCmd()

	var out bytes.Buffer

	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", c.db}, args...))

	err := root.Execute()

	return out.String(), err
}

func (c *testCLI) run(args ...string) string {
	c.t.Helper()

	out, err := c.runWithInput("", args...)
	require.NoError(c.t, err, "todo %s", strings.Join(args, " "))

	return out
}

func TestAddAndList(t *testing.T) {
	c := newTestCLI(t)

	out := c.run("list")
	assert.Contains(t, out, "Todo Project")
	assert.Contains(t, out, "No todos yet.")

	assert.Equal(t, "Added #1: Buy milk\n", c.run("add", "Buy", "milk"))
	assert.Equal(t, "Added #2: Walk dog\n", c.run("add", "Walk dog"))
	assert.Equal(t, "Completed #1: Buy milk\n", c.run("done", "1"))

	out = c.run("list")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "[x]")
	assert.Contains(t, out, "[ ]")
	assert.Contains(t, out, "Total items: 2 | Completed: 1 | Pending: 1")
	assert.Less(t, strings.Index(out, "Buy milk"), strings.Index(out, "Walk dog"))

	assert.Equal(t, "Reopened #1: Buy milk\n", c.run("reopen", "1"))
	assert.Contains(t, c.run("list"), "Completed: 0")
}

func TestListJSON(t *testing.T) {
	c := newTestCLI(t)
	c.run("add", "first")
	c.run("project", "--title", "Errands", "--description", "<p>Saturday</p>")

	var got listOutput
	require.NoError(t, json.Unmarshal([]byte(c.run("list", "--json")), &got))

	require.NotNil(t, got.Project)
	assert.Equal(t, "Errands", got.Project.Title)
	assert.Equal(t, "<p>Saturday</p>", got.Project.Description)
	require.Len(t, got.Todos, 1)
	assert.Equal(t, "first", got.Todos[0].Text)
}

func TestListRendersNotes(t *testing.T) {
	c := newTestCLI(t)
	c.run("project", "--description", "<p>Quarterly <b>goals</b></p>")

	out := c.run("list")
	assert.Contains(t, out, "Quarterly goals")
}

func TestReorder(t *testing.T) {
	c := newTestCLI(t)
	c.run("add", "a")
	c.run("add", "b")
	c.run("add", "c")

	assert.Equal(t, "Reordered 3 todos\n", c.run("reorder", "3", "1", "2"))

	out := c.run("list")
	assert.Less(t, strings.Index(out, " c "), strings.Index(out, " a "))
	assert.Less(t, strings.Index(out, " a "), strings.Index(out, " b "))
}

func TestRemove(t *testing.T) {
	c := newTestCLI(t)
	c.run("add", "keep")
	c.run("add", "drop")

	out, err := c.runWithInput("n\n", "remove", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	out, err = c.runWithInput("y\n", "rm", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed #2")

	assert.Equal(t, "Removed #1\n", c.run("remove", "--yes", "1"))
	assert.Contains(t, c.run("list"), "No todos yet.")
}

func TestProject(t *testing.T) {
	c := newTestCLI(t)

	out := c.run("project")
	assert.Contains(t, out, "Title:       Todo Project")

	assert.Equal(t, "Project updated.\n", c.run("project", "--title", "Launch"))
	assert.Contains(t, c.run("project"), "Title:       Launch")
}

func TestExport(t *testing.T) {
	c := newTestCLI(t)
	c.run("add", "ship it")

	path := filepath.Join(t.TempDir(), "list.pdf")
	assert.Equal(t, "Exported "+path+" (1 pages)\n", c.run("export", "-o", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	out := c.run("export", "-o", "-")
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
}

func TestBoltDriver(t *testing.T) {
	c := newTestCLI(t)
	c.db = filepath.Join(t.TempDir(), "todos.bolt")

	c.run("--driver", "bolt", "add", "stored in bolt")
	assert.Contains(t, c.run("--driver", "bolt", "list"), "stored in bolt")
}

func TestErrors(t *testing.T) {
	c := newTestCLI(t)

	_, err := c.runWithInput("", "done", "abc")
	assert.ErrorContains(t, err, `invalid todo id "abc"`)

	_, err = c.runWithInput("", "done", "42")
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	_, err = c.runWithInput("", "add", "   ")
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Text is required", verr.Message)

	_, err = c.runWithInput("", "--driver", "mongo", "list")
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = c.runWithInput("", "--config", filepath.Join(t.TempDir(), "missing.ini"), "list")
	assert.Error(t, err)

	_, err = c.runWithInput("", "reorder")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	c := newTestCLI(t)

	path := filepath.Join(t.TempDir(), "todo.toml")
	content := "[store]\ndriver = \"bolt\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c.db = filepath.Join(t.TempDir(), "from-config.bolt")
	c.run("--config", path, "add", "configured")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bolt", cfg.Store.Driver)
	assert.Contains(t, c.run("--config", path, "list"), "configured")
}

func TestVersion(t *testing.T) {
	c := newTestCLI(t)

	out := c.run("version")
	assert.True(t, strings.HasPrefix(out, application.AppName+" "+application.Version+" "))
}
