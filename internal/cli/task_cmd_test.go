package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskList(t *testing.T) {
	app, _ := testApp(t, boardDoc)

	out := mustExecute(t, app, "task", "list")
	assert.Contains(t, out, "Todo (3)")
	assert.Contains(t, out, "Done (1)")
	assert.Contains(t, out, "Pick palette")
	assert.Contains(t, out, "In Progress (0)")
}

func TestTaskList_Filters(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "by assignee keeps matching roots only",
			args:    []string{"--assignee", "ana"},
			want:    []string{"Design landing page", "Todo (1)"},
			notWant: []string{"Write docs", "Pick palette"},
		},
		{
			name:    "open hides completed tasks",
			args:    []string{"--open"},
			want:    []string{"Write docs", "Done (0)"},
			notWant: []string{"Kickoff"},
		},
		{
			name:    "single section",
			args:    []string{"--section", "Done"},
			want:    []string{"Kickoff"},
			notWant: []string{"Write docs"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := testApp(t, boardDoc)
			out := mustExecute(t, app, append([]string{"task", "list"}, tc.args...)...)
			for _, w := range tc.want {
				assert.Contains(t, out, w)
			}
			for _, nw := range tc.notWant {
				assert.NotContains(t, out, nw)
			}
		})
	}
}

func TestTaskAdd_WritesDocument(t *testing.T) {
	app, store := testApp(t, boardDoc)

	out := mustExecute(t, app, "task", "add", "Ship beta",
		"--priority", "1", "--assignee", "Bo", "--due", "2025-03-20", "--tags", "web,launch")
	assert.Equal(t, "Created task (5) Ship beta\n", out)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "- [ ] (5) Ship beta")
	assert.Contains(t, string(data), "assignee: Bo")

	show := mustExecute(t, app, "task", "show", "5")
	assert.Contains(t, show, "Ship beta")
	assert.Contains(t, show, "Bo")
}

func TestTaskAdd_UnderParent(t *testing.T) {
	app, _ := testApp(t, boardDoc)

	mustExecute(t, app, "task", "add", "Check contrast", "--parent", "2", "--note", "WCAG AA")

	got, err := app.Tasks.GetByID(t.Context(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Check contrast", got.Title)
	assert.Equal(t, []string{"WCAG AA"}, got.Description)
}

func TestTaskAdd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"bad due date", []string{"task", "add", "X", "--due", "next week"}, domain.ErrInvalidInput},
		{"missing parent", []string{"task", "add", "X", "--parent", "99"}, domain.ErrNotFound},
		{"no title without a terminal", []string{"task", "add"}, domain.ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := testApp(t, boardDoc)
			_, err := executeCmd(t, app, tc.args...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTaskUpdate_OnlyChangedFlags(t *testing.T) {
	app, _ := testApp(t, boardDoc)

	mustExecute(t, app, "task", "update", "3", "--assignee", "Cy")

	got, err := app.Tasks.GetByID(t.Context(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Cy", got.Config.Assignee)
	assert.Equal(t, "Write docs", got.Title)
	require.NotNil(t, got.Config.Priority)
	assert.Equal(t, 2, *got.Config.Priority)

	_, err = executeCmd(t, app, "task", "update", "3", "--title", "Renamed", "--due", "soon")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	got, err = app.Tasks.GetByID(t.Context(), "3")
	require.NoError(t, err)
	assert.Equal(t, "Write docs", got.Title, "a rejected update must not write anything")
}

func TestTaskDoneMoveRemove(t *testing.T) {
	app, _ := testApp(t, boardDoc)
	ctx := t.Context()

	assert.Equal(t, "Task 3 marked done\n", mustExecute(t, app, "task", "done", "3"))
	got, err := app.Tasks.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.True(t, got.Completed)

	mustExecute(t, app, "task", "done", "3", "--undo")
	got, err = app.Tasks.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.False(t, got.Completed)

	mustExecute(t, app, "task", "move", "3", "In Progress")
	got, err = app.Tasks.GetByID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "In Progress", got.Section)

	mustExecute(t, app, "task", "rm", "1")
	_, err = app.Tasks.GetByID(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrNotFound, "subtasks go with their parent")

	_, err = executeCmd(t, app, "task", "rm", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskAppend_FromStdin(t *testing.T) {
	app, _ := testApp(t, boardDoc)

	root := NewRootCmd(app)
	t.Setenv("HOME", t.TempDir())
	var out strings.Builder
	root.SetOut(&out)
	root.SetIn(strings.NewReader("- [ ] Outline\n  - [ ] Intro\n- [x] Research\n"))
	root.SetArgs([]string{"task", "append", "Todo"})
	require.NoError(t, root.Execute())
	assert.Equal(t, "Appended 2 task(s) to Todo\n", out.String())

	board, err := app.Tasks.Board(t.Context())
	require.NoError(t, err)
	var titles []string
	for _, task := range board.Tasks {
		titles = append(titles, task.Title)
	}
	assert.Contains(t, titles, "Outline")
	assert.Contains(t, titles, "Research")
}

func TestTaskExportImport_RoundTrip(t *testing.T) {
	app, _ := testApp(t, boardDoc)
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "tasks.csv")

	mustExecute(t, app, "task", "export", "--out", csvPath)
	f, err := os.Open(csvPath)
	require.NoError(t, err)
	rows, err := importer.ReadTaskRows(f)
	f.Close()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Pick palette", rows[1].Title)
	assert.Equal(t, "1", rows[1].ParentID)

	out := mustExecute(t, app, "task", "export", "--format", "json")
	var decoded []importer.TaskRow
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 4)

	_, err = executeCmd(t, app, "task", "export", "--format", "xml")
	assert.Error(t, err)

	fresh, _ := testApp(t, "")
	out = mustExecute(t, fresh, "task", "import", csvPath)
	assert.Equal(t, "Imported 4 task(s) under 3 root(s)\n", out)
	board, err := fresh.Tasks.Board(t.Context())
	require.NoError(t, err)
	assert.Len(t, board.Tasks, 3)
}
