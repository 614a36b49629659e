package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/tasktree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheet = `id,title,section,completed,priority,assignee,due_date,effort,tags,blocked_by,milestone,description,parent_id
1,Launch site,Todo,false,1,Ana,2025-03-01,8,web;launch,,Beta,,
2,Write copy,Todo,true,,,,,,1,Beta,"Hero text
Footer",1
3,Stray,Done,x,,,,,,,,,99
`

func TestReadTaskRows(t *testing.T) {
	rows, err := ReadTaskRows(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Launch site", rows[0].Title)
	require.NotNil(t, rows[0].Priority)
	assert.Equal(t, 1, *rows[0].Priority)
	assert.Equal(t, []string{"web", "launch"}, rows[0].Tags)
	assert.True(t, rows[1].Completed)
	assert.Nil(t, rows[1].Priority)
	assert.Equal(t, []string{"1"}, rows[1].BlockedBy)
	assert.Equal(t, "Hero text\nFooter", rows[1].Description)
	assert.True(t, rows[2].Completed)
}

func TestReadTaskRows_HeaderOrderAndMissingTitle(t *testing.T) {
	rows, err := ReadTaskRows(strings.NewReader("title,id\nFirst,7\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "7", rows[0].ID)

	_, err = ReadTaskRows(strings.NewReader("id,name\n1,x\n"))
	assert.Error(t, err)

	rows, err = ReadTaskRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowsBuildTreeWithUnknownParentAtRoot(t *testing.T) {
	rows, err := ReadTaskRows(strings.NewReader(sheet))
	require.NoError(t, err)

	roots := tasktree.Build(ToFlat(rows))
	require.Len(t, roots, 2)
	assert.Equal(t, "1", roots[0].ID)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, []string{"Hero text", "Footer"}, roots[0].Children[0].Description)
	assert.Equal(t, "3", roots[1].ID)
}

func TestWriteReadRoundTrip(t *testing.T) {
	p := 2
	tree := []*domain.Task{{
		ID: "1", Title: "Parent, with comma", Section: "Todo",
		Config:   domain.TaskConfig{Priority: &p, Tags: []string{"a", "b"}},
		Children: []*domain.Task{{ID: "2", Title: "Child", Section: "Todo", Completed: true}},
	}}
	rows := FromFlat(tasktree.Flatten(tree))

	var buf bytes.Buffer
	require.NoError(t, WriteTaskRows(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(Columns, ",")+"\n"))

	back, err := ReadTaskRows(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, back)
}

func TestLoadRows_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"1","title":"From JSON","tags":["x"]},{"title":"Child","parent_id":"1"}]`), 0o644))

	rows, err := LoadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"x"}, rows[0].Tags)
	assert.Equal(t, "1", rows[1].ParentID)
}

func TestValidateRows(t *testing.T) {
	bad := -1
	errs := ValidateRows([]TaskRow{
		{ID: "1", Title: "ok"},
		{ID: "1", Title: ""},
		{Title: "late", DueDate: "03/01/2025"},
		{Title: "neg", Priority: &bad},
		{Title: "orphan", ParentID: "missing"},
	})
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "duplicate id")
	assert.Contains(t, errs[1].Error(), "title is required")
	assert.Contains(t, errs[2].Error(), "invalid due_date")
	assert.Contains(t, errs[3].Error(), "priority")
}
