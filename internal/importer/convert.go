package importer

import (
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/tasktree"
)

// ToFlat converts rows into tree input. Description cells split on newlines.
func ToFlat(rows []TaskRow) []tasktree.FlatTask {
	out := make([]tasktree.FlatTask, 0, len(rows))
	for _, r := range rows {
		t := &domain.Task{
			ID:        r.ID,
			Title:     r.Title,
			Section:   r.Section,
			Completed: r.Completed,
			Config: domain.TaskConfig{
				Tags:      r.Tags,
				DueDate:   r.DueDate,
				Assignee:  r.Assignee,
				Priority:  r.Priority,
				Effort:    r.Effort,
				Milestone: r.Milestone,
				BlockedBy: r.BlockedBy,
			},
		}
		if d := strings.TrimSpace(r.Description); d != "" {
			t.Description = strings.Split(d, "\n")
		}
		out = append(out, tasktree.FlatTask{Task: t, ParentID: r.ParentID})
	}
	return out
}

// FromFlat converts flattened tasks back into rows.
func FromFlat(flat []tasktree.FlatTask) []TaskRow {
	out := make([]TaskRow, 0, len(flat))
	for _, f := range flat {
		t := f.Task
		out = append(out, TaskRow{
			ID:          t.ID,
			Title:       t.Title,
			Section:     t.Section,
			Completed:   t.Completed,
			Priority:    t.Config.Priority,
			Assignee:    t.Config.Assignee,
			DueDate:     t.Config.DueDate,
			Effort:      t.Config.Effort,
			Tags:        t.Config.Tags,
			BlockedBy:   t.Config.BlockedBy,
			Milestone:   t.Config.Milestone,
			Description: strings.Join(t.Description, "\n"),
			ParentID:    f.ParentID,
		})
	}
	return out
}
