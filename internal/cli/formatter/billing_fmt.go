package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/mdplan/internal/billing"
	"github.com/alexanderramin/mdplan/internal/domain"
)

func FormatCustomers(cs []domain.Customer) string {
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.ID, c.Name, OrDash(c.Company), OrDash(c.Email), OrDash(c.Created)})
	}
	return RenderTable([]string{"ID", "NAME", "COMPANY", "EMAIL", "CREATED"}, rows)
}

func FormatRates(rs []domain.BillingRate) string {
	rows := make([][]string, 0, len(rs))
	for _, r := range rs {
		def := ""
		if r.IsDefault {
			def = StyleGreen.Render("default")
		}
		rows = append(rows, []string{r.ID, r.Name, Money(r.HourlyRate), OrDash(r.Assignee), def})
	}
	return RenderTable([]string{"ID", "NAME", "RATE/H", "ASSIGNEE", ""}, rows)
}

func FormatQuotes(qs []domain.Quote) string {
	rows := make([][]string, 0, len(qs))
	for _, q := range qs {
		rows = append(rows, []string{q.ID, q.Number, q.Title, q.CustomerID, StatusPill(string(q.Status)), Money(q.Total), OrDash(q.ValidUntil)})
	}
	return RenderTable([]string{"ID", "NUMBER", "TITLE", "CUSTOMER", "STATUS", "TOTAL", "VALID UNTIL"}, rows)
}

// FormatInvoices marks sent invoices past due as overdue.
func FormatInvoices(invs []domain.Invoice, now time.Time) string {
	today := now.Format("2006-01-02")
	rows := make([][]string, 0, len(invs))
	for _, inv := range invs {
		status := string(inv.Status)
		if billing.IsOverdue(inv, today) {
			status = string(domain.InvoiceOverdue)
		}
		rows = append(rows, []string{
			inv.ID, inv.Number, inv.Title, inv.CustomerID, StatusPill(status),
			Money(inv.Total), Money(inv.Outstanding()), DueLabel(inv.DueDate, now),
		})
	}
	return RenderTable([]string{"ID", "NUMBER", "TITLE", "CUSTOMER", "STATUS", "TOTAL", "OPEN", "DUE"}, rows)
}

// FormatLineItems renders the items and totals of a quote or invoice.
func FormatLineItems(items []domain.LineItem, subtotal, tax, total float64) string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{it.Description, fmt.Sprintf("%g", it.Quantity), Money(it.Rate), Money(it.Amount)})
	}
	var b strings.Builder
	b.WriteString(RenderTable([]string{"DESCRIPTION", "QTY", "RATE", "AMOUNT"}, rows))
	fmt.Fprintf(&b, "%s %s\n", Dim("subtotal"), Money(subtotal))
	if tax != 0 {
		fmt.Fprintf(&b, "%s %s\n", Dim("tax     "), Money(tax))
	}
	fmt.Fprintf(&b, "%s %s\n", Dim("total   "), Bold(Money(total)))
	return b.String()
}

func FormatBillingSummary(s domain.BillingSummary) string {
	lines := []string{
		fmt.Sprintf("%s %s", Dim("Invoiced    "), Money(s.TotalInvoiced)),
		fmt.Sprintf("%s %s", Dim("Paid        "), StyleGreen.Render(Money(s.TotalPaid))),
		fmt.Sprintf("%s %s", Dim("Outstanding "), StyleYellow.Render(Money(s.TotalOutstanding))),
		fmt.Sprintf("%s %s", Dim("Overdue     "), StyleRed.Render(Money(s.TotalOverdue))),
		"",
		fmt.Sprintf("%s %d draft · %d sent · %d paid · %d overdue", Dim("Invoices    "), s.DraftInvoices, s.SentInvoices, s.PaidInvoices, s.OverdueInvoices),
		fmt.Sprintf("%s %d pending · %d accepted", Dim("Quotes      "), s.PendingQuotes, s.AcceptedQuotes),
	}
	return RenderBox("Billing", strings.Join(lines, "\n"))
}
