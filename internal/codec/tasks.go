// Package codec decodes and encodes the entity sections of the planning
// document. Each family is a schema over markdown.ScanRecords plus a writer;
// the task board has its own indentation-based grammar.
package codec

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
	"github.com/alexanderramin/mdplan/internal/tasktree"
)

// BoardSection is the name of the task board section.
const BoardSection = "Board"

// Board is the decoded task board: its column headings in document order and
// the root tasks of every column.
type Board struct {
	Columns []string
	Tasks   []*domain.Task
}

var (
	taskLineRe   = regexp.MustCompile(`^(\s*)- \[([ xX])\] (?:\(([^)]+)\))?\s*(.+?)(?:\s*\{([^}]+)\})?\s*$`)
	taskPrefixRe = regexp.MustCompile(`^\s*- \[[ xX]\]`)
)

// IsTaskLine reports whether line is a checkbox item.
func IsTaskLine(line string) bool { return taskPrefixRe.MatchString(line) }

type openTask struct {
	indent int
	depth  int
	task   *domain.Task
}

// ParseBoard decodes the Board section. Tasks found before the first column
// heading have an empty section. Tasks without an id get the next free
// numeric id.
func ParseBoard(lines []string) Board {
	r := markdown.Locate(lines, BoardSection)
	if !r.Found() {
		return Board{}
	}
	var b Board
	b.Tasks = ParseTasks(lines[r.Start:r.End], "", func(col string) {
		b.Columns = append(b.Columns, col)
	})
	return b
}

// ParseTasks decodes checkbox items from a run of lines. A "## Column" line
// switches the section of the tasks that follow and is reported to onColumn
// when it is non-nil.
func ParseTasks(lines []string, section string, onColumn func(string)) []*domain.Task {
	var (
		roots []*domain.Task
		stack []openTask
	)
	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		switch {
		case trimmed == "":
			continue
		case markdown.Indent(raw) == 0 && strings.HasPrefix(trimmed, "## "):
			section = strings.TrimSpace(trimmed[3:])
			if onColumn != nil {
				onColumn(section)
			}
			stack = stack[:0]
			continue
		case markdown.Indent(raw) == 0 && (strings.HasPrefix(trimmed, "#") || markdown.IsComment(trimmed)):
			stack = stack[:0]
			continue
		}

		indent := markdown.Indent(raw)
		if m := taskLineRe.FindStringSubmatch(raw); m != nil {
			t := &domain.Task{
				ID:        strings.TrimSpace(m[3]),
				Title:     strings.TrimSpace(m[4]),
				Section:   section,
				Completed: m[2] != " ",
				Config:    parseTaskConfig(m[5]),
			}
			depth := indent / 2
			for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				roots = append(roots, t)
			} else {
				parent := stack[len(stack)-1].task
				parent.Children = append(parent.Children, t)
			}
			stack = append(stack, openTask{indent: indent, depth: depth, task: t})
			continue
		}

		// Description lines belong to the innermost open task indented less
		// than the line.
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			owner := stack[len(stack)-1].task
			owner.Description = append(owner.Description, trimmed)
		}
	}
	assignMissingIDs(roots)
	return roots
}

func assignMissingIDs(roots []*domain.Task) {
	next, _ := strconv.Atoi(tasktree.NextTaskID(roots))
	domain.Walk(roots, func(t, _ *domain.Task) bool {
		if t.ID == "" {
			t.ID = strconv.Itoa(next)
			next++
		}
		return true
	})
}

func parseTaskConfig(block string) domain.TaskConfig {
	var c domain.TaskConfig
	for key, value := range markdown.ParseConfigBlock(block) {
		switch key {
		case "tag":
			c.Tags = markdown.ParseList(value)
		case "due_date":
			c.DueDate = value
		case "assignee":
			c.Assignee = value
		case "priority":
			c.Priority = markdown.ParseInt(value)
		case "effort":
			c.Effort = markdown.ParseInt(value)
		case "milestone":
			c.Milestone = value
		case "blocked_by":
			c.BlockedBy = markdown.ParseList(value)
		case "planned_start":
			c.PlannedStart = value
		case "planned_end":
			c.PlannedEnd = value
		}
	}
	return c
}

// FormatTaskConfig renders the inline config block of a task in the fixed
// key order.
func FormatTaskConfig(c domain.TaskConfig) string {
	list := func(items []string) string {
		if len(items) == 0 {
			return ""
		}
		return markdown.FormatList(items)
	}
	num := func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	}
	return markdown.FormatConfigBlock([]markdown.KV{
		{Key: "tag", Value: list(c.Tags)},
		{Key: "due_date", Value: c.DueDate},
		{Key: "assignee", Value: c.Assignee},
		{Key: "priority", Value: num(c.Priority)},
		{Key: "effort", Value: num(c.Effort)},
		{Key: "milestone", Value: c.Milestone},
		{Key: "blocked_by", Value: list(c.BlockedBy)},
		{Key: "planned_start", Value: c.PlannedStart},
		{Key: "planned_end", Value: c.PlannedEnd},
	})
}

// TaskLines renders t and its subtree starting at the given depth.
func TaskLines(t *domain.Task, depth int) []string {
	indent := strings.Repeat("  ", depth)
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	id := ""
	if t.ID != "" {
		id = " (" + t.ID + ")"
	}
	out := []string{indent + "- " + box + id + " " + t.Title + FormatTaskConfig(t.Config)}
	for _, d := range t.Description {
		if !markdown.IsBlank(d) {
			out = append(out, indent+"  "+strings.TrimSpace(d))
		}
	}
	for _, c := range t.Children {
		out = append(out, TaskLines(c, depth+1)...)
	}
	return out
}

// BoardLines renders the Board section. Columns keep their order; sections
// used by tasks but missing from Columns are appended so no task is lost.
func BoardLines(b Board) []string {
	columns := append([]string(nil), b.Columns...)
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[c] = true
	}
	bySection := make(map[string][]*domain.Task)
	for _, t := range b.Tasks {
		if t.Section != "" && !seen[t.Section] {
			seen[t.Section] = true
			columns = append(columns, t.Section)
		}
		bySection[t.Section] = append(bySection[t.Section], t)
	}

	out := markdown.SectionHeader(BoardSection)
	for _, t := range bySection[""] {
		out = append(out, TaskLines(t, 0)...)
		out = append(out, "")
	}
	for _, col := range columns {
		out = append(out, "## "+col, "")
		for _, t := range bySection[col] {
			out = append(out, TaskLines(t, 0)...)
			out = append(out, "")
		}
	}
	return out
}

// SetSection moves t and its subtree to section.
func SetSection(t *domain.Task, section string) {
	domain.Walk([]*domain.Task{t}, func(n, _ *domain.Task) bool {
		n.Section = section
		return true
	})
}
