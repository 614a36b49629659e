package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
	"github.com/alexanderramin/mdplan/internal/tasktree"
)

var snippetIDRe = regexp.MustCompile(`^\s*- \[[ xX]\] \(([^)]+)\)`)

// DefaultColumns seeds the board when the document has none.
var DefaultColumns = []string{"Ideas", "Todo", "In Progress", "Done"}

type boardTaskRepo struct {
	store   DocumentStore
	columns []string
}

// NewTaskRepo returns a TaskRepo over the Board section. columns is used
// when the board has no column headings yet.
func NewTaskRepo(store DocumentStore, columns []string) TaskRepo {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	return &boardTaskRepo{store: store, columns: columns}
}

func (r *boardTaskRepo) Board(ctx context.Context) (codec.Board, error) {
	lines, err := r.store.Read(ctx)
	if err != nil {
		return codec.Board{}, fmt.Errorf("reading board: %w", err)
	}
	return codec.ParseBoard(lines), nil
}

func (r *boardTaskRepo) SaveBoard(ctx context.Context, b codec.Board) error {
	return r.mutate(ctx, func(cur *codec.Board) error {
		*cur = b
		return nil
	})
}

// mutate runs fn on the parsed board and writes it back.
func (r *boardTaskRepo) mutate(ctx context.Context, fn func(b *codec.Board) error) error {
	err := r.store.Update(ctx, func(lines []string) ([]string, error) {
		return r.rewrite(lines, fn)
	})
	if err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	return nil
}

// Edit returns a Step that rewrites the Board section after fn.
func (r *boardTaskRepo) Edit(fn func(b *codec.Board) error) Step {
	return func(lines []string) ([]string, error) {
		return r.rewrite(lines, fn)
	}
}

// rewrite re-serializes the whole Board section after fn.
func (r *boardTaskRepo) rewrite(lines []string, fn func(b *codec.Board) error) ([]string, error) {
	b := codec.ParseBoard(lines)
	if len(b.Columns) == 0 {
		b.Columns = append([]string(nil), r.columns...)
	}
	if err := fn(&b); err != nil {
		return nil, err
	}
	return markdown.Replace(lines, codec.BoardSection, codec.BoardLines(b)), nil
}

func (r *boardTaskRepo) List(ctx context.Context) ([]*domain.Task, error) {
	b, err := r.Board(ctx)
	if err != nil {
		return nil, err
	}
	return b.Tasks, nil
}

// FindByID searches the tree in pre-order.
func (r *boardTaskRepo) FindByID(ctx context.Context, id string) (*domain.Task, bool, error) {
	tasks, err := r.List(ctx)
	if err != nil {
		return nil, false, err
	}
	t, ok := tasktree.NewIndex(tasks).Get(id)
	return t, ok, nil
}

// prepareNew assigns an id and a column to a task about to be inserted.
func prepareNew(b *codec.Board, x *tasktree.Index, t *domain.Task) error {
	switch {
	case t.ID == "":
		t.ID = tasktree.NextTaskID(b.Tasks)
	case x.Has(t.ID):
		return fmt.Errorf("task id %q already exists: %w", t.ID, domain.ErrInvalidInput)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required: %w", domain.ErrInvalidInput)
	}
	if t.Section == "" && len(b.Columns) > 0 {
		t.Section = b.Columns[0]
	}
	return nil
}

func (r *boardTaskRepo) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	created := t.Clone()
	err := r.mutate(ctx, func(b *codec.Board) error {
		if err := prepareNew(b, tasktree.NewIndex(b.Tasks), created); err != nil {
			return err
		}
		codec.SetSection(created, created.Section)
		b.Tasks = append(b.Tasks, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddChild appends t under the parent task. The child takes the parent's
// column.
func (r *boardTaskRepo) AddChild(ctx context.Context, parentID string, t *domain.Task) (*domain.Task, bool, error) {
	created := t.Clone()
	found := false
	err := r.mutate(ctx, func(b *codec.Board) error {
		x := tasktree.NewIndex(b.Tasks)
		parent, ok := x.Get(parentID)
		if !ok {
			return errUnchanged
		}
		found = true
		created.Section = parent.Section
		if err := prepareNew(b, x, created); err != nil {
			return err
		}
		codec.SetSection(created, parent.Section)
		parent.Children = append(parent.Children, created)
		return nil
	})
	if err = ignoreUnchanged(err); err != nil || !found {
		return nil, found, err
	}
	return created, true, nil
}

func (r *boardTaskRepo) Update(ctx context.Context, id string, fn func(*domain.Task)) (bool, error) {
	found := false
	err := r.mutate(ctx, func(b *codec.Board) error {
		t, ok := tasktree.NewIndex(b.Tasks).Get(id)
		if !ok {
			return errUnchanged
		}
		found = true
		children := t.Children
		fn(t)
		t.ID = id
		t.Children = children
		codec.SetSection(t, t.Section)
		return nil
	})
	return found, ignoreUnchanged(err)
}

// Delete removes the task with its subtree.
func (r *boardTaskRepo) Delete(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.mutate(ctx, func(b *codec.Board) error {
		b.Tasks, found = removeTask(b.Tasks, id)
		if !found {
			return errUnchanged
		}
		return nil
	})
	return found, ignoreUnchanged(err)
}

func removeTask(tasks []*domain.Task, id string) ([]*domain.Task, bool) {
	for i, t := range tasks {
		if t.ID == id {
			return append(tasks[:i:i], tasks[i+1:]...), true
		}
		if rest, ok := removeTask(t.Children, id); ok {
			t.Children = rest
			return tasks, true
		}
	}
	return tasks, false
}

// Move puts the task into another column. A nested task is detached from its
// parent and becomes a root of the target column.
func (r *boardTaskRepo) Move(ctx context.Context, id, section string) (bool, error) {
	found := false
	err := r.mutate(ctx, func(b *codec.Board) error {
		t, ok := tasktree.NewIndex(b.Tasks).Get(id)
		if !ok {
			return errUnchanged
		}
		found = true
		b.Tasks, _ = removeTask(b.Tasks, id)
		codec.SetSection(t, section)
		b.Tasks = append(b.Tasks, t)
		return nil
	})
	return found, ignoreUnchanged(err)
}

// AppendMarkdown parses a snippet of checkbox lines and appends its tasks to
// the named column, creating the column when needed. Ids in the snippet that
// collide with the board or with each other are replaced. The new lines are
// spliced into the column; the rest of the board is left as written.
func (r *boardTaskRepo) AppendMarkdown(ctx context.Context, section, snippet string) ([]*domain.Task, error) {
	var keep []string
	for _, l := range markdown.SplitLines(snippet) {
		if !markdown.IsBlank(l) {
			keep = append(keep, l)
		}
	}
	added := parseSnippet(keep, section)
	if len(added) == 0 {
		return nil, fmt.Errorf("no tasks in markdown: %w", domain.ErrInvalidInput)
	}

	err := r.store.Update(ctx, func(lines []string) ([]string, error) {
		rng := markdown.Locate(lines, codec.BoardSection)
		if !rng.Found() {
			return r.rewrite(lines, func(b *codec.Board) error {
				prepareAppend(b, added)
				b.Tasks = append(b.Tasks, added...)
				return nil
			})
		}
		b := codec.ParseBoard(lines)
		prepareAppend(&b, added)
		var block []string
		for i, t := range added {
			if i > 0 {
				block = append(block, "")
			}
			block = append(block, codec.TaskLines(t, 0)...)
		}
		return insertIntoColumn(lines, rng, added[0].Section, block), nil
	})
	if err != nil {
		return nil, fmt.Errorf("saving board: %w", err)
	}
	return added, nil
}

func columnHeading(line string) (string, bool) {
	if markdown.Indent(line) > 0 || !strings.HasPrefix(line, "## ") {
		return "", false
	}
	return strings.TrimSpace(line[3:]), true
}

// insertIntoColumn splices block after the last non-blank line of the column
// inside the board range. A missing column is added at the end of the board.
func insertIntoColumn(lines []string, rng markdown.Range, column string, block []string) []string {
	start, end := -1, rng.End
	for i := rng.Start; i < rng.End; i++ {
		name, ok := columnHeading(lines[i])
		if !ok {
			continue
		}
		if start >= 0 {
			end = i
			break
		}
		if column != "" && name == column {
			start = i
		}
	}

	lo := rng.Start
	if start >= 0 {
		lo = start
	} else if column != "" {
		block = append([]string{"## " + column, ""}, block...)
	}
	at := end
	for at-1 > lo && markdown.IsBlank(lines[at-1]) {
		at--
	}

	ins := append([]string{""}, block...)
	if at == end {
		ins = append(ins, "")
	}
	out := make([]string, 0, len(lines)+len(ins))
	out = append(out, lines[:at]...)
	out = append(out, ins...)
	return append(out, lines[at:]...)
}

// parseSnippet decodes tasks without the numeric fallback ids ParseTasks
// would assign, so they can be renumbered against the board.
func parseSnippet(lines []string, section string) []*domain.Task {
	explicit := map[string]bool{}
	for _, l := range lines {
		if m := snippetIDRe.FindStringSubmatch(l); m != nil {
			explicit[m[1]] = true
		}
	}
	tasks := codec.ParseTasks(lines, section, nil)
	domain.Walk(tasks, func(t, _ *domain.Task) bool {
		if !explicit[t.ID] {
			t.ID = ""
		}
		return true
	})
	return tasks
}

// AppendTasks appends task subtrees to the board. Missing or colliding ids
// are renumbered and blocked_by references inside the batch follow.
func (r *boardTaskRepo) AppendTasks(ctx context.Context, tasks []*domain.Task) ([]*domain.Task, error) {
	added := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		added = append(added, t.Clone())
	}
	err := r.mutate(ctx, func(b *codec.Board) error {
		prepareAppend(b, added)
		b.Tasks = append(b.Tasks, added...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// prepareAppend gives every task of the batch an id that is unique across the
// board and the batch, and puts column-less tasks into the first column. When
// an id clashes with the board, blocked_by references to it inside the batch
// follow the new id.
func prepareAppend(b *codec.Board, added []*domain.Task) {
	x := tasktree.NewIndex(b.Tasks)
	taken := make(map[string]bool, x.Len())
	for _, id := range x.Order {
		taken[id] = true
	}
	renamed := map[string]string{}
	next := nextNumeric(b.Tasks, added)
	domain.Walk(added, func(t, _ *domain.Task) bool {
		if t.ID == "" || taken[t.ID] {
			old := t.ID
			t.ID = fmt.Sprint(next)
			next++
			if _, seen := renamed[old]; old != "" && x.Has(old) && !seen {
				renamed[old] = t.ID
			}
		}
		taken[t.ID] = true
		if t.Section == "" && len(b.Columns) > 0 {
			t.Section = b.Columns[0]
		}
		return true
	})
	domain.Walk(added, func(t, _ *domain.Task) bool {
		for i, dep := range t.Config.BlockedBy {
			if to, ok := renamed[dep]; ok {
				t.Config.BlockedBy[i] = to
			}
		}
		return true
	})
}

func nextNumeric(groups ...[]*domain.Task) int {
	var all []*domain.Task
	for _, g := range groups {
		all = append(all, g...)
	}
	var n int
	fmt.Sscan(tasktree.NextTaskID(all), &n)
	return n
}
