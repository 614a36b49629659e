package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/mdplan/internal/codec"
	"github.com/alexanderramin/mdplan/internal/domain"
)

// TaskTreeItems flattens tasks into tree lines in pre-order.
func TaskTreeItems(tasks []*domain.Task) []TreeItem {
	var items []TreeItem
	var walk func(ts []*domain.Task, level int)
	walk = func(ts []*domain.Task, level int) {
		for i, t := range ts {
			items = append(items, TreeItem{
				ID:        t.ID,
				Title:     t.Title,
				Level:     level,
				IsLast:    i == len(ts)-1,
				Completed: t.Completed,
				Detail:    taskBadge(t.Config),
			})
			walk(t.Children, level+1)
		}
	}
	walk(tasks, 0)
	return items
}

func taskBadge(c domain.TaskConfig) string {
	var parts []string
	if c.Priority != nil {
		parts = append(parts, "P"+strconv.Itoa(*c.Priority))
	}
	if c.Assignee != "" {
		parts = append(parts, "@"+c.Assignee)
	}
	if c.DueDate != "" {
		parts = append(parts, "due "+c.DueDate)
	}
	return strings.Join(parts, " · ")
}

// FormatBoard renders every column with its task tree. Columns without tasks
// show a placeholder.
func FormatBoard(b codec.Board) string {
	bySection := map[string][]*domain.Task{}
	for _, t := range b.Tasks {
		bySection[t.Section] = append(bySection[t.Section], t)
	}
	columns := b.Columns
	if len(bySection[""]) > 0 {
		columns = append([]string{""}, columns...)
	}

	var sb strings.Builder
	for i, col := range columns {
		if i > 0 {
			sb.WriteString("\n")
		}
		tasks := bySection[col]
		title := col
		if title == "" {
			title = "Unsorted"
		}
		sb.WriteString(Header(fmt.Sprintf("%s (%d)", title, countTasks(tasks))) + "\n")
		if len(tasks) == 0 {
			sb.WriteString(Dim("  no tasks") + "\n")
			continue
		}
		sb.WriteString(RenderTree(TaskTreeItems(tasks)))
	}
	return sb.String()
}

func countTasks(tasks []*domain.Task) int {
	n := 0
	domain.Walk(tasks, func(*domain.Task, *domain.Task) bool { n++; return true })
	return n
}

// FormatTaskDetail renders one task with its configuration and subtasks.
func FormatTaskDetail(t *domain.Task, now time.Time) string {
	c := t.Config
	state := StyleBlue.Render("○ open")
	if t.Completed {
		state = StyleGreen.Render("✔ done")
	}
	rows := [][]string{
		{"ID", t.ID},
		{"Section", OrDash(t.Section)},
		{"State", state},
		{"Priority", OrDash(intString(c.Priority))},
		{"Effort", OrDash(hoursString(c.Effort))},
		{"Assignee", OrDash(c.Assignee)},
		{"Due", DueLabel(c.DueDate, now)},
		{"Milestone", OrDash(c.Milestone)},
		{"Tags", OrDash(strings.Join(c.Tags, ", "))},
		{"Blocked by", OrDash(strings.Join(c.BlockedBy, ", "))},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(Dim(fmt.Sprintf("%-11s", r[0])) + r[1] + "\n")
	}
	if len(t.Description) > 0 {
		b.WriteString("\n" + strings.Join(t.Description, "\n") + "\n")
	}
	if len(t.Children) > 0 {
		b.WriteString("\n" + RenderTree(TaskTreeItems(t.Children)))
	}
	return RenderBox(t.Title, strings.TrimRight(b.String(), "\n"))
}

func intString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func hoursString(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p) + "h"
}
