package codec

import (
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

var milestoneSchema = markdown.Schema{
	Section: "Milestones",
	Fields:  []string{"Target", "Status"},
}

// Milestones is keyed by the slug of the milestone name.
var Milestones = Family[domain.Milestone]{
	Section: milestoneSchema.Section,
	Parse:   parseMilestones,
	Format:  formatMilestones,
	ID:      func(m *domain.Milestone) *string { return &m.ID },
}

func parseMilestones(lines []string) []domain.Milestone {
	var out []domain.Milestone
	for _, r := range markdown.ScanRecords(lines, milestoneSchema) {
		status := parseEnumField(r.Field("Status"), domain.ValidMilestoneStatuses, domain.MilestoneOpen)
		out = append(out, domain.Milestone{
			ID:          markdown.Slug(r.Title),
			Name:        r.Title,
			Target:      r.Field("Target"),
			Status:      status,
			Description: r.Notes(),
		})
	}
	return out
}

func formatMilestones(ms []domain.Milestone) []string {
	w := markdown.NewSectionWriter(milestoneSchema.Section)
	for _, m := range ms {
		w.Line("## "+m.Name).
			Field("Target", m.Target).
			Field("Status", string(domain.CoalesceStatus(m.Status, domain.MilestoneOpen))).
			Text(notesLines(m.Description)...).
			Blank()
	}
	return w.Lines()
}
