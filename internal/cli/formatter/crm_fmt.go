package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/domain"
)

func FormatCompanies(cs []domain.Company) string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.ID, c.Name, OrDash(c.Industry), OrDash(c.Website)})
	}
	return RenderTable([]string{"ID", "NAME", "INDUSTRY", "WEBSITE"}, rows)
}

func FormatContacts(cs []domain.Contact) string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		name := c.FullName()
		if c.IsPrimary {
			name += " " + StyleGreen.Render("★")
		}
		rows = append(rows, []string{c.ID, name, OrDash(c.CompanyID), OrDash(c.Email), OrDash(c.Title)})
	}
	return RenderTable([]string{"ID", "NAME", "COMPANY", "EMAIL", "TITLE"}, rows)
}

func FormatDeals(ds []domain.Deal) string {
	rows := make([][]string, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, []string{d.ID, d.Title, OrDash(d.CompanyID), StatusPill(string(d.Stage)), Money(d.Value), fmt.Sprintf("%g%%", d.Probability)})
	}
	return RenderTable([]string{"ID", "TITLE", "COMPANY", "STAGE", "VALUE", "PROB"}, rows)
}

func FormatInteractions(is []domain.Interaction) string {
	rows := make([][]string, 0, len(is))
	for _, i := range is {
		rows = append(rows, []string{i.ID, i.Date, string(i.Type), i.Summary, OrDash(i.NextFollowUp)})
	}
	return RenderTable([]string{"ID", "DATE", "TYPE", "SUMMARY", "FOLLOW-UP"}, rows)
}

func FormatCRMSummary(s domain.CRMSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d companies · %d contacts · %d deals\n", Dim("Totals     "), s.TotalCompanies, s.TotalContacts, s.TotalDeals)
	fmt.Fprintf(&b, "%s %s\n", Dim("Pipeline   "), StyleYellow.Render(Money(s.PipelineValue)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Won        "), StyleGreen.Render(Money(s.WonValue)))
	fmt.Fprintf(&b, "%s %s\n", Dim("Lost       "), StyleRed.Render(Money(s.LostValue)))
	fmt.Fprintf(&b, "%s %d in the last 7 days\n\n", Dim("Activity   "), s.RecentInteractions)

	rows := make([][]string, 0, len(domain.DealStages))
	for _, st := range domain.DealStages {
		t := s.DealsByStage[st]
		rows = append(rows, []string{StatusPill(string(st)), fmt.Sprint(t.Count), Money(t.Value)})
	}
	b.WriteString(RenderTable([]string{"STAGE", "DEALS", "VALUE"}, rows))
	return RenderBox("CRM", strings.TrimRight(b.String(), "\n"))
}
