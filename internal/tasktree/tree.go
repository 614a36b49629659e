// Package tasktree converts between the nested task tree of the board and
// flat rows that reference their parent by id, and provides an indexed view
// for lookups across the tree.
package tasktree

import (
	"strconv"

	"github.com/alexanderramin/mdplan/internal/domain"
)

// FlatTask is one task without its children. ParentID is empty for roots.
type FlatTask struct {
	Task     *domain.Task
	ParentID string
}

// Build assembles a forest from flat rows in two passes: first every task is
// registered by id, then each row is attached to its parent. Rows whose
// parent is unknown (or themselves) become roots. Input order is kept among
// siblings.
func Build(rows []FlatTask) []*domain.Task {
	byID := make(map[string]*domain.Task, len(rows))
	nodes := make([]*domain.Task, len(rows))
	for i, r := range rows {
		t := *r.Task
		t.Children = nil
		nodes[i] = &t
		if t.ID != "" {
			if _, dup := byID[t.ID]; !dup {
				byID[t.ID] = &t
			}
		}
	}

	var roots []*domain.Task
	for i, r := range rows {
		node := nodes[i]
		parent, ok := byID[r.ParentID]
		if !ok || r.ParentID == "" || parent == node || isDescendant(node, parent) {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots
}

// isDescendant reports whether candidate already sits in node's subtree, so
// attaching node under it would create a cycle.
func isDescendant(node, candidate *domain.Task) bool {
	found := false
	domain.Walk(node.Children, func(t, _ *domain.Task) bool {
		if t == candidate {
			found = true
			return false
		}
		return true
	})
	return found
}

// Flatten lists every task of the forest in pre-order together with its
// parent id. Returned tasks are copies without children.
func Flatten(tasks []*domain.Task) []FlatTask {
	var out []FlatTask
	domain.Walk(tasks, func(t, parent *domain.Task) bool {
		c := *t
		c.Children = nil
		row := FlatTask{Task: &c}
		if parent != nil {
			row.ParentID = parent.ID
		}
		out = append(out, row)
		return true
	})
	return out
}

// NextTaskID returns one more than the largest numeric id in the forest.
// Non-numeric ids are ignored.
func NextTaskID(tasks []*domain.Task) string {
	highest := 0
	domain.Walk(tasks, func(t, _ *domain.Task) bool {
		if n, err := strconv.Atoi(t.ID); err == nil && n > highest {
			highest = n
		}
		return true
	})
	return strconv.Itoa(highest + 1)
}
