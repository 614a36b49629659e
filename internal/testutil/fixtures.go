package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/mdplan/internal/document"
	"github.com/alexanderramin/mdplan/internal/domain"
)

var testTaskCounter atomic.Int64

// Task options
type TaskOption func(*domain.Task)

func WithTaskID(id string) TaskOption {
	return func(t *domain.Task) { t.ID = id }
}

func WithSection(s string) TaskOption {
	return func(t *domain.Task) { t.Section = s }
}

func WithCompleted() TaskOption {
	return func(t *domain.Task) { t.Completed = true }
}

func WithPriority(p int) TaskOption {
	return func(t *domain.Task) { t.Config.Priority = &p }
}

func WithEffort(h int) TaskOption {
	return func(t *domain.Task) { t.Config.Effort = &h }
}

func WithAssignee(a string) TaskOption {
	return func(t *domain.Task) { t.Config.Assignee = a }
}

func WithMilestone(m string) TaskOption {
	return func(t *domain.Task) { t.Config.Milestone = m }
}

func WithDueDate(d string) TaskOption {
	return func(t *domain.Task) { t.Config.DueDate = d }
}

func WithBlockedBy(ids ...string) TaskOption {
	return func(t *domain.Task) { t.Config.BlockedBy = ids }
}

func WithTags(tags ...string) TaskOption {
	return func(t *domain.Task) { t.Config.Tags = tags }
}

func WithChildren(children ...*domain.Task) TaskOption {
	return func(t *domain.Task) { t.Children = children }
}

// NewTestTask returns an open task in the Todo column with a unique numeric
// id.
func NewTestTask(title string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:      fmt.Sprint(1000 + testTaskCounter.Add(1)),
		Title:   title,
		Section: "Todo",
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestDocument writes content to a temporary project.md and returns a
// store for it. Backups go to a sibling directory.
func NewTestDocument(t *testing.T, content string, opts ...document.Option) *document.Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "project.md")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write test document: %v", err)
		}
	}
	return document.NewStore(path, opts...)
}

// SeqIDs returns an id generator yielding prefix1, prefix2, ...
func SeqIDs(prefix string) domain.IDGen {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("%s%d", prefix, n.Add(1)) }
}
