package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/scheduler"
)

func FormatMilestones(ms []domain.MilestoneProgress) string {
	rows := make([][]string, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, []string{
			m.ID,
			m.Name,
			OrDash(m.Target),
			StatusPill(string(m.Status)),
			fmt.Sprintf("%d/%d", m.CompletedCount, m.TaskCount),
			RenderProgress(m.Progress, 12),
		})
	}
	return RenderTable([]string{"ID", "NAME", "TARGET", "STATUS", "TASKS", "PROGRESS"}, rows)
}

func FormatIdeas(ideas []domain.IdeaWithBacklinks) string {
	rows := make([][]string, 0, len(ideas))
	for _, i := range ideas {
		rows = append(rows, []string{
			i.ID,
			i.Title,
			StatusPill(string(i.Status)),
			OrDash(i.Category),
			OrDash(strings.Join(i.Links, ", ")),
			OrDash(strings.Join(i.Backlinks, ", ")),
		})
	}
	return RenderTable([]string{"ID", "TITLE", "STATUS", "CATEGORY", "LINKS", "BACKLINKS"}, rows)
}

// FormatStrategy renders the levels of a builder as a tree following parent
// links. Levels whose parent is missing are shown at the top.
func FormatStrategy(b domain.StrategicLevelsBuilder) string {
	children := map[string][]domain.StrategicLevel{}
	known := map[string]bool{}
	for _, l := range b.Levels {
		known[l.ID] = true
	}
	for _, l := range b.Levels {
		parent := l.ParentID
		if !known[parent] {
			parent = ""
		}
		children[parent] = append(children[parent], l)
	}

	var items []TreeItem
	var walk func(parent string, level int)
	walk = func(parent string, level int) {
		kids := children[parent]
		for i, l := range kids {
			items = append(items, TreeItem{
				Title:  StylePurple.Render(strings.ToUpper(string(l.Level))) + " " + l.Title,
				Level:  level,
				IsLast: i == len(kids)-1,
			})
			walk(l.ID, level+1)
		}
	}
	walk("", 0)
	if len(items) == 0 {
		return Header(b.Title) + "\n" + Dim("  no levels") + "\n"
	}
	return Header(b.Title) + "\n" + RenderTree(items)
}

func FormatCapacityPlans(plans []domain.CapacityPlan) string {
	rows := make([][]string, 0, len(plans))
	for _, p := range plans {
		budget := ""
		if p.BudgetHours != nil {
			budget = Hours(*p.BudgetHours)
		}
		rows = append(rows, []string{p.ID, p.Title, OrDash(p.Date), fmt.Sprint(len(p.TeamMembers)), fmt.Sprint(len(p.Allocations)), OrDash(budget)})
	}
	return RenderTable([]string{"ID", "TITLE", "DATE", "MEMBERS", "ALLOCATIONS", "BUDGET"}, rows)
}

func FormatUtilization(us []scheduler.MemberUtilization) string {
	rows := make([][]string, 0, len(us))
	for _, u := range us {
		rows = append(rows, []string{
			u.MemberName,
			Hours(u.WeeklyCapacity),
			Hours(u.TotalAllocated),
			Hours(u.ActualHours),
			RenderProgress(u.Percent, 12),
		})
	}
	return RenderTable([]string{"MEMBER", "CAPACITY/WK", "ALLOCATED", "LOGGED", "UTILIZATION"}, rows)
}

func FormatSuggestions(sugs []scheduler.Suggestion) string {
	rows := make([][]string, 0, len(sugs))
	for _, s := range sugs {
		rows = append(rows, []string{s.TaskID, s.TaskTitle, s.MemberName, Hours(s.Hours), s.WeekStart})
	}
	return RenderTable([]string{"TASK", "TITLE", "ASSIGNEE", "HOURS", "WEEK"}, rows)
}

func FormatTimeEntries(entries []domain.TaskTimeEntry) string {
	rows := make([][]string, 0, len(entries))
	total := 0.0
	for _, e := range entries {
		total += e.Hours
		rows = append(rows, []string{e.TaskID, e.ID, e.Date, Hours(e.Hours), OrDash(e.Person), OrDash(e.Description)})
	}
	return RenderTable([]string{"TASK", "ID", "DATE", "HOURS", "PERSON", "DESCRIPTION"}, rows) +
		Dim("total ") + Bold(Hours(total)) + "\n"
}

// DatedRecord is the common list view of the analysis and canvas families.
type DatedRecord struct {
	ID     string
	Title  string
	Date   string
	Status string
}

func FormatDatedRecords(recs []DatedRecord) string {
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{r.ID, r.Title, OrDash(r.Date), StatusPill(r.Status)})
	}
	return RenderTable([]string{"ID", "TITLE", "DATE", "STATUS"}, rows)
}
