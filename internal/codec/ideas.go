package codec

import (
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

var ideaSchema = markdown.Schema{
	Section: "Ideas",
	Fields:  []string{"Status", "Category", "Created"},
}

var Ideas = Family[domain.Idea]{
	Section: ideaSchema.Section,
	Parse:   parseIdeas,
	Format:  formatIdeas,
	ID:      func(i *domain.Idea) *string { return &i.ID },
}

func parseIdeas(lines []string) []domain.Idea {
	var out []domain.Idea
	for _, r := range markdown.ScanRecords(lines, ideaSchema) {
		status := parseEnumField(r.Field("Status"), domain.ValidIdeaStatuses, domain.IdeaNew)
		out = append(out, domain.Idea{
			ID:          r.ID,
			Title:       r.Title,
			Status:      status,
			Category:    r.Field("Category"),
			Created:     r.Field("Created"),
			Description: r.Notes(),
			Links:       markdown.ParseList(r.Meta["links"]),
		})
	}
	return out
}

func formatIdeas(ideas []domain.Idea) []string {
	w := markdown.NewSectionWriter(ideaSchema.Section)
	for _, i := range ideas {
		w.Line("## "+i.Title).
			Meta("id", i.ID).
			Meta("links", markdown.JoinIDs(i.Links)).
			Field("Status", string(domain.CoalesceStatus(i.Status, domain.IdeaNew))).
			Field("Category", i.Category).
			Field("Created", i.Created)
		if desc := notesLines(i.Description); len(desc) > 0 {
			w.Blank().Text(desc...)
		}
		w.Blank()
	}
	return w.Lines()
}
