package tasktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/mdplan/internal/domain"
)

func task(id string, children ...*domain.Task) *domain.Task {
	return &domain.Task{ID: id, Title: "Task " + id, Children: children}
}

func TestBuild_AttachesChildrenInOrder(t *testing.T) {
	rows := []FlatTask{
		{Task: task("2"), ParentID: "1"},
		{Task: task("1")},
		{Task: task("3"), ParentID: "1"},
		{Task: task("4"), ParentID: "3"},
	}

	roots := Build(rows)

	require.Len(t, roots, 1)
	assert.Equal(t, "1", roots[0].ID)
	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "2", roots[0].Children[0].ID)
	assert.Equal(t, "3", roots[0].Children[1].ID)
	require.Len(t, roots[0].Children[1].Children, 1)
	assert.Equal(t, "4", roots[0].Children[1].Children[0].ID)
}

func TestBuild_UnknownParentLandsAtRoot(t *testing.T) {
	roots := Build([]FlatTask{
		{Task: task("1")},
		{Task: task("2"), ParentID: "missing"},
	})

	require.Len(t, roots, 2)
	assert.Equal(t, "2", roots[1].ID)
}

func TestBuild_SelfParentLandsAtRoot(t *testing.T) {
	roots := Build([]FlatTask{{Task: task("1"), ParentID: "1"}})
	require.Len(t, roots, 1)
	assert.Empty(t, roots[0].Children)
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	parent := task("1")
	Build([]FlatTask{{Task: parent}, {Task: task("2"), ParentID: "1"}})
	assert.Empty(t, parent.Children)
}

func TestFlattenBuildRoundTrip(t *testing.T) {
	forest := []*domain.Task{
		task("1", task("2", task("3")), task("4")),
		task("5"),
	}

	rows := Flatten(forest)
	require.Len(t, rows, 5)
	assert.Equal(t, "", rows[0].ParentID)
	assert.Equal(t, "1", rows[1].ParentID)
	assert.Equal(t, "2", rows[2].ParentID)
	assert.Equal(t, "1", rows[3].ParentID)

	assert.Equal(t, forest, Build(rows))
}

func TestNextTaskID(t *testing.T) {
	assert.Equal(t, "1", NextTaskID(nil))
	assert.Equal(t, "8", NextTaskID([]*domain.Task{task("3", task("7")), task("abc")}))
}

func TestIndex(t *testing.T) {
	forest := []*domain.Task{task("1", task("2", task("3"))), task("4")}
	idx := NewIndex(forest)

	assert.Equal(t, []string{"1", "2", "3", "4"}, idx.Order)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, "2", idx.Parent("3"))
	assert.Equal(t, "", idx.Parent("1"))
	assert.Equal(t, []string{"2", "1"}, idx.Ancestors("3"))

	got, ok := idx.Get("3")
	require.True(t, ok)
	assert.Same(t, forest[0].Children[0].Children[0], got)
	assert.False(t, idx.Has("9"))
}

func TestIndex_Blocked(t *testing.T) {
	done := task("1")
	done.Completed = true
	open := task("2")
	blocked := task("3")
	blocked.Config.BlockedBy = []string{"1", "2"}
	dangling := task("4")
	dangling.Config.BlockedBy = []string{"1", "gone"}

	idx := NewIndex([]*domain.Task{done, open, blocked, dangling})

	assert.True(t, idx.Blocked(blocked))
	assert.False(t, idx.Blocked(dangling))
}
