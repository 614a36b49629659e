package tasktree

import "github.com/alexanderramin/mdplan/internal/domain"

// Index is a read view over a task forest: id to node, id to parent and the
// pre-order id sequence. The forest keeps ownership of its nodes; an Index
// must be rebuilt after the forest changes shape.
type Index struct {
	Order  []string
	nodes  map[string]*domain.Task
	parent map[string]string
}

// NewIndex walks the forest once. When ids repeat, the first occurrence in
// pre-order wins.
func NewIndex(tasks []*domain.Task) *Index {
	idx := &Index{
		nodes:  make(map[string]*domain.Task),
		parent: make(map[string]string),
	}
	domain.Walk(tasks, func(t, parent *domain.Task) bool {
		if _, dup := idx.nodes[t.ID]; dup {
			return true
		}
		idx.nodes[t.ID] = t
		idx.Order = append(idx.Order, t.ID)
		if parent != nil {
			idx.parent[t.ID] = parent.ID
		}
		return true
	})
	return idx
}

// Get returns the node with the given id.
func (x *Index) Get(id string) (*domain.Task, bool) {
	t, ok := x.nodes[id]
	return t, ok
}

// Parent returns the parent id, or "" for roots and unknown ids.
func (x *Index) Parent(id string) string { return x.parent[id] }

// Has reports whether id is present.
func (x *Index) Has(id string) bool {
	_, ok := x.nodes[id]
	return ok
}

// Ancestors returns the chain of parent ids from the nearest upwards.
func (x *Index) Ancestors(id string) []string {
	var out []string
	for p := x.parent[id]; p != ""; p = x.parent[p] {
		out = append(out, p)
	}
	return out
}

// Len is the number of distinct ids.
func (x *Index) Len() int { return len(x.Order) }

// Blocked reports whether any blocker of t refers to a task that exists and
// is still open. Unknown blockers count as satisfied.
func (x *Index) Blocked(t *domain.Task) bool {
	for _, id := range t.Config.BlockedBy {
		if b, ok := x.nodes[id]; ok && !b.Completed {
			return true
		}
	}
	return false
}
