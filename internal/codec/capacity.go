package codec

import (
	"regexp"
	"sort"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

var capacitySchema = markdown.Schema{
	Section: "Capacity Planning",
	Fields:  []string{"Date", "Budget Hours", "Role", "Hours Per Day", "Working Days"},
}

var CapacityPlans = Family[domain.CapacityPlan]{
	Section: capacitySchema.Section,
	Parse:   parseCapacityPlans,
	Format:  formatCapacityPlans,
	ID:      func(p *domain.CapacityPlan) *string { return &p.ID },
}

var allocationRe = regexp.MustCompile(`^(\S+?):\s+([\d.]+)h\s+(project|task|milestone)(?::(\S+))?\s*(?:"([^"]*)")?$`)

func parseCapacityPlans(lines []string) []domain.CapacityPlan {
	var out []domain.CapacityPlan
	for _, r := range markdown.ScanRecords(lines, capacitySchema) {
		p := domain.CapacityPlan{
			ID:          r.ID,
			Title:       r.Title,
			Date:        r.Field("Date"),
			BudgetHours: optFloatPtr(r.Field("Budget Hours")),
		}
		if members := r.Sub("Team Members"); members != nil {
			for _, e := range members.Entries {
				p.TeamMembers = append(p.TeamMembers, parseMember(e))
			}
		}
		if allocs := r.Sub("Allocations"); allocs != nil {
			for _, week := range allocs.Entries {
				for _, item := range week.Items() {
					if a, ok := parseAllocation(week.Title, item); ok {
						p.Allocations = append(p.Allocations, a)
					}
				}
			}
		}
		out = append(out, p)
	}
	return out
}

func parseMember(e *markdown.Block) domain.TeamMember {
	m := domain.TeamMember{
		ID:          e.Meta("member-id"),
		Name:        e.Title,
		Role:        e.Field("Role"),
		HoursPerDay: markdown.FloatOr(e.Field("Hours Per Day"), domain.DefaultHoursPerDay),
		WorkingDays: markdown.ParseList(e.Field("Working Days")),
	}
	if len(m.WorkingDays) == 0 {
		m.WorkingDays = append([]string(nil), domain.DefaultWorkingDays...)
	}
	return m
}

func parseAllocation(week, item string) (domain.WeeklyAllocation, bool) {
	rest, id := markdown.StripInlineID(item)
	m := allocationRe.FindStringSubmatch(strings.TrimSpace(rest))
	if m == nil {
		return domain.WeeklyAllocation{}, false
	}
	hours, ok := markdown.ParseFloat(m[2])
	if !ok {
		return domain.WeeklyAllocation{}, false
	}
	return domain.WeeklyAllocation{
		ID:             id,
		MemberID:       m[1],
		WeekStart:      week,
		AllocatedHours: hours,
		TargetType:     domain.AllocationTarget(m[3]),
		TargetID:       m[4],
		Notes:          m[5],
	}, true
}

// AllocationLine renders one allocation item without the leading dash.
func AllocationLine(a domain.WeeklyAllocation) string {
	var b strings.Builder
	b.WriteString(a.MemberID + ": " + markdown.FormatFloat(a.AllocatedHours) + "h ")
	target := a.TargetType
	if target == "" {
		target = domain.TargetProject
	}
	b.WriteString(string(target))
	if a.TargetID != "" {
		b.WriteString(":" + a.TargetID)
	}
	if a.Notes != "" {
		b.WriteString(` "` + strings.ReplaceAll(a.Notes, `"`, "'") + `"`)
	}
	return markdown.WithInlineID(b.String(), a.ID)
}

func formatCapacityPlans(plans []domain.CapacityPlan) []string {
	w := markdown.NewSectionWriter(capacitySchema.Section)
	for _, p := range plans {
		w.Line("## "+p.Title).
			Meta("id", p.ID).
			Field("Date", p.Date).
			Field("Budget Hours", optFloat(p.BudgetHours)).
			Blank()

		w.Line("### Team Members").Blank()
		for _, m := range p.TeamMembers {
			days := m.WorkingDays
			if len(days) == 0 {
				days = domain.DefaultWorkingDays
			}
			w.Line("#### "+m.Name).
				Meta("member-id", m.ID).
				Field("Role", m.Role).
				Field("Hours Per Day", floatField(m.HoursPerDay)).
				Field("Working Days", strings.Join(days, ", ")).
				Blank()
		}

		w.Line("### Allocations").Blank()
		byWeek := make(map[string][]domain.WeeklyAllocation)
		for _, a := range p.Allocations {
			byWeek[a.WeekStart] = append(byWeek[a.WeekStart], a)
		}
		weeks := make([]string, 0, len(byWeek))
		for wk := range byWeek {
			weeks = append(weeks, wk)
		}
		sort.Strings(weeks)
		for _, wk := range weeks {
			w.Line("#### " + wk)
			for _, a := range byWeek[wk] {
				w.Line("- " + AllocationLine(a))
			}
			w.Blank()
		}
	}
	return w.Lines()
}
