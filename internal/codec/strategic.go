package codec

import (
	"sort"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

var strategicSchema = markdown.Schema{
	Section: "Strategic Levels",
	Fields:  []string{"Date"},
}

var StrategicBuilders = Family[domain.StrategicLevelsBuilder]{
	Section: strategicSchema.Section,
	Parse:   parseStrategic,
	Format:  formatStrategic,
	ID:      func(b *domain.StrategicLevelsBuilder) *string { return &b.ID },
}

// LevelHeader is the subsection heading of a level type ("Vision").
func LevelHeader(t domain.StrategicLevelType) string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func parseStrategic(lines []string) []domain.StrategicLevelsBuilder {
	var out []domain.StrategicLevelsBuilder
	for _, r := range markdown.ScanRecords(lines, strategicSchema) {
		b := domain.StrategicLevelsBuilder{ID: r.ID, Title: r.Title, Date: r.Field("Date")}
		for _, lt := range domain.StrategicLevelOrder {
			for i, g := range r.Sub(LevelHeader(lt)).Groups() {
				id, parent := splitLevelMeta(g.Meta["level-id"])
				b.Levels = append(b.Levels, domain.StrategicLevel{
					ID:               id,
					Title:            g.Item,
					Description:      strings.Join(g.Text, " "),
					Level:            lt,
					ParentID:         parent,
					Order:            i,
					LinkedTasks:      markdown.ParseList(g.Meta["linked-tasks"]),
					LinkedMilestones: markdown.ParseList(g.Meta["linked-milestones"]),
				})
			}
		}
		out = append(out, b)
	}
	return out
}

// splitLevelMeta decodes the "X, parent: Y" value of a level-id comment.
func splitLevelMeta(v string) (id, parent string) {
	id, rest, ok := strings.Cut(v, ",")
	id = strings.TrimSpace(id)
	if !ok {
		return id, ""
	}
	if key, val, ok := strings.Cut(rest, ":"); ok && strings.TrimSpace(key) == "parent" {
		parent = strings.TrimSpace(val)
	}
	return id, parent
}

func formatStrategic(builders []domain.StrategicLevelsBuilder) []string {
	w := markdown.NewSectionWriter(strategicSchema.Section)
	for _, b := range builders {
		w.Line("## "+b.Title).Meta("id", b.ID).Field("Date", b.Date).Blank()
		for _, lt := range domain.StrategicLevelOrder {
			var levels []domain.StrategicLevel
			for _, l := range b.Levels {
				if l.Level == lt {
					levels = append(levels, l)
				}
			}
			if len(levels) == 0 {
				continue
			}
			sort.SliceStable(levels, func(i, j int) bool { return levels[i].Order < levels[j].Order })
			w.Line("### " + LevelHeader(lt))
			for _, l := range levels {
				meta := "level-id: " + l.ID
				if l.ParentID != "" {
					meta += ", parent: " + l.ParentID
				}
				w.Line("- " + l.Title).
					Line("<!-- " + meta + " -->").
					Text(strings.Join(strings.Fields(l.Description), " ")).
					Meta("linked-tasks", markdown.JoinIDs(l.LinkedTasks)).
					Meta("linked-milestones", markdown.JoinIDs(l.LinkedMilestones))
			}
			w.Blank()
		}
	}
	return w.Lines()
}
