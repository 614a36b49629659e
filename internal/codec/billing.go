package codec

import (
	"strings"

	"github.com/alexanderramin/mdplan/internal/billing"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/markdown"
)

var addressFields = []string{"Street", "City", "State", "Postal Code", "Country"}

func parseAddress(b *markdown.Block) *domain.Address {
	if b == nil {
		return nil
	}
	a := domain.Address{
		Street:     b.Field("Street"),
		City:       b.Field("City"),
		State:      b.Field("State"),
		PostalCode: b.Field("Postal Code"),
		Country:    b.Field("Country"),
	}
	if a.IsZero() {
		return nil
	}
	return &a
}

func writeAddress(w *markdown.Writer, title string, a *domain.Address) {
	if a == nil || a.IsZero() {
		return
	}
	w.Blank().Line("### "+title).
		Field("Street", a.Street).
		Field("City", a.City).
		Field("State", a.State).
		Field("Postal Code", a.PostalCode).
		Field("Country", a.Country)
}

var customerSchema = markdown.Schema{
	Section: "Customers",
	Fields:  append([]string{"Email", "Phone", "Company", "Created"}, addressFields...),
}

var Customers = Family[domain.Customer]{
	Section: customerSchema.Section,
	Parse: func(lines []string) []domain.Customer {
		var out []domain.Customer
		for _, r := range markdown.ScanRecords(lines, customerSchema) {
			out = append(out, domain.Customer{
				ID:             r.ID,
				Name:           r.Title,
				Email:          r.Field("Email"),
				Phone:          r.Field("Phone"),
				Company:        r.Field("Company"),
				Created:        r.Field("Created"),
				BillingAddress: parseAddress(r.Sub("Billing Address")),
				Notes:          r.Sub("Notes").Body(),
			})
		}
		return out
	},
	Format: func(cs []domain.Customer) []string {
		w := markdown.NewSectionWriter(customerSchema.Section)
		for _, c := range cs {
			w.Line("## "+c.Name).
				Meta("id", c.ID).
				Field("Email", c.Email).
				Field("Phone", c.Phone).
				Field("Company", c.Company).
				Field("Created", c.Created)
			writeAddress(w, "Billing Address", c.BillingAddress)
			writeNotesSub(w, "Notes", c.Notes)
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(c *domain.Customer) *string { return &c.ID },
}

var rateSchema = markdown.Schema{
	Section: "Billing Rates",
	Fields:  []string{"Hourly Rate", "Assignee", "Default"},
}

var BillingRates = Family[domain.BillingRate]{
	Section: rateSchema.Section,
	Parse: func(lines []string) []domain.BillingRate {
		var out []domain.BillingRate
		for _, r := range markdown.ScanRecords(lines, rateSchema) {
			out = append(out, domain.BillingRate{
				ID:         r.ID,
				Name:       r.Title,
				HourlyRate: markdown.FloatOr(r.Field("Hourly Rate"), 0),
				Assignee:   r.Field("Assignee"),
				IsDefault:  markdown.ParseBool(r.Field("Default")),
			})
		}
		return out
	},
	Format: func(rates []domain.BillingRate) []string {
		w := markdown.NewSectionWriter(rateSchema.Section)
		for _, r := range rates {
			w.Line("## "+r.Name).
				Meta("id", r.ID).
				Field("Hourly Rate", floatField(r.HourlyRate)).
				Field("Assignee", r.Assignee)
			if r.IsDefault {
				w.Field("Default", "true")
			}
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(r *domain.BillingRate) *string { return &r.ID },
}

// ParseLineItem decodes "[id] desc | Qty: n | Rate: n | Amount: n" with the
// optional "| Task: id | TimeEntries: a,b" tail used by invoices.
func ParseLineItem(s string) (domain.LineItem, bool) {
	s = strings.TrimSpace(s)
	var it domain.LineItem
	if strings.HasPrefix(s, "[") {
		end := strings.Index(s, "]")
		if end < 0 {
			return it, false
		}
		it.ID = strings.TrimSpace(s[1:end])
		s = strings.TrimSpace(s[end+1:])
	}
	var (
		desc      []string
		hasAmount bool
	)
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		key, value, ok := strings.Cut(p, ":")
		if !ok {
			desc = append(desc, p)
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Qty":
			it.Quantity = markdown.FloatOr(value, 0)
		case "Rate":
			it.Rate = markdown.FloatOr(value, 0)
		case "Amount":
			it.Amount, hasAmount = markdown.ParseFloat(value)
		case "Task":
			it.TaskID = value
		case "TimeEntries":
			it.TimeEntryIDs = markdown.ParseList(value)
		default:
			desc = append(desc, p)
		}
	}
	it.Description = strings.TrimSpace(strings.Join(desc, " | "))
	if it.Description == "" {
		return it, false
	}
	if !hasAmount {
		it.Amount = it.Quantity * it.Rate
	}
	return it, true
}

// LineItemText renders an item in the form ParseLineItem reads.
func LineItemText(it domain.LineItem) string {
	s := "[" + it.ID + "] " + it.Description +
		" | Qty: " + floatField(it.Quantity) +
		" | Rate: " + floatField(it.Rate) +
		" | Amount: " + floatField(it.Amount)
	if it.TaskID != "" {
		s += " | Task: " + it.TaskID
	}
	if len(it.TimeEntryIDs) > 0 {
		s += " | TimeEntries: " + markdown.JoinIDs(it.TimeEntryIDs)
	}
	return s
}

func parseLineItems(b *markdown.Block) []domain.LineItem {
	var out []domain.LineItem
	for _, raw := range b.Items() {
		if it, ok := ParseLineItem(raw); ok {
			out = append(out, it)
		}
	}
	return out
}

func writeLineItems(w *markdown.Writer, items []domain.LineItem) {
	if len(items) == 0 {
		return
	}
	w.Blank().Line("### Line Items")
	for _, it := range items {
		w.Line("- " + LineItemText(it))
	}
}

var quoteSchema = markdown.Schema{
	Section: "Quotes",
	Fields:  []string{"Number", "Customer", "Status", "Valid Until", "Tax Rate", "Created", "Sent At", "Accepted At"},
}

var Quotes = Family[domain.Quote]{
	Section: quoteSchema.Section,
	Parse: func(lines []string) []domain.Quote {
		var out []domain.Quote
		for _, r := range markdown.ScanRecords(lines, quoteSchema) {
			status := parseEnumField(r.Field("Status"), domain.ValidQuoteStatuses, domain.QuoteDraft)
			q := domain.Quote{
				ID:         r.ID,
				Number:     r.Field("Number"),
				CustomerID: r.Field("Customer"),
				Title:      r.Title,
				Status:     status,
				ValidUntil: r.Field("Valid Until"),
				TaxRate:    optFloatPtr(r.Field("Tax Rate")),
				LineItems:  parseLineItems(r.Sub("Line Items")),
				Notes:      r.Sub("Notes").Body(),
				Created:    r.Field("Created"),
				SentAt:     r.Field("Sent At"),
				AcceptedAt: r.Field("Accepted At"),
			}
			billing.ApplyToQuote(&q)
			out = append(out, q)
		}
		return out
	},
	Format: func(qs []domain.Quote) []string {
		w := markdown.NewSectionWriter(quoteSchema.Section)
		for _, q := range qs {
			w.Line("## "+q.Title).
				Meta("id", q.ID).
				Field("Number", q.Number).
				Field("Customer", q.CustomerID).
				Field("Status", string(domain.CoalesceStatus(q.Status, domain.QuoteDraft))).
				Field("Valid Until", q.ValidUntil).
				Field("Tax Rate", optFloat(q.TaxRate)).
				Field("Created", q.Created).
				Field("Sent At", q.SentAt).
				Field("Accepted At", q.AcceptedAt)
			writeLineItems(w, q.LineItems)
			writeNotesSub(w, "Notes", q.Notes)
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(q *domain.Quote) *string { return &q.ID },
}

var invoiceSchema = markdown.Schema{
	Section: "Invoices",
	Fields:  []string{"Number", "Customer", "Status", "Due Date", "Tax Rate", "Paid Amount", "Created", "Sent At", "Paid At"},
}

var Invoices = Family[domain.Invoice]{
	Section: invoiceSchema.Section,
	Parse: func(lines []string) []domain.Invoice {
		var out []domain.Invoice
		for _, r := range markdown.ScanRecords(lines, invoiceSchema) {
			status := parseEnumField(r.Field("Status"), domain.ValidInvoiceStatuses, domain.InvoiceDraft)
			inv := domain.Invoice{
				ID:         r.ID,
				Number:     r.Field("Number"),
				CustomerID: r.Field("Customer"),
				QuoteID:    r.Meta["quoteId"],
				Title:      r.Title,
				Status:     status,
				DueDate:    r.Field("Due Date"),
				TaxRate:    optFloatPtr(r.Field("Tax Rate")),
				LineItems:  parseLineItems(r.Sub("Line Items")),
				PaidAmount: markdown.FloatOr(r.Field("Paid Amount"), 0),
				Notes:      r.Sub("Notes").Body(),
				Created:    r.Field("Created"),
				SentAt:     r.Field("Sent At"),
				PaidAt:     r.Field("Paid At"),
			}
			billing.ApplyToInvoice(&inv)
			out = append(out, inv)
		}
		return out
	},
	Format: func(invs []domain.Invoice) []string {
		w := markdown.NewSectionWriter(invoiceSchema.Section)
		for _, inv := range invs {
			w.Line("## "+inv.Title).
				Meta("id", inv.ID).
				Meta("quoteId", inv.QuoteID).
				Field("Number", inv.Number).
				Field("Customer", inv.CustomerID).
				Field("Status", string(domain.CoalesceStatus(inv.Status, domain.InvoiceDraft))).
				Field("Due Date", inv.DueDate).
				Field("Tax Rate", optFloat(inv.TaxRate)).
				Field("Paid Amount", floatField(inv.PaidAmount)).
				Field("Created", inv.Created).
				Field("Sent At", inv.SentAt).
				Field("Paid At", inv.PaidAt)
			writeLineItems(w, inv.LineItems)
			writeNotesSub(w, "Notes", inv.Notes)
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(inv *domain.Invoice) *string { return &inv.ID },
}

var paymentSchema = markdown.Schema{
	Section: "Payments",
	Fields:  []string{"Invoice", "Amount", "Date", "Method", "Reference"},
	Required: func(r markdown.Record) bool {
		return r.Field("Invoice") != ""
	},
}

var Payments = Family[domain.Payment]{
	Section: paymentSchema.Section,
	Parse: func(lines []string) []domain.Payment {
		var out []domain.Payment
		for _, r := range markdown.ScanRecords(lines, paymentSchema) {
			method := parseEnumField(r.Field("Method"), domain.ValidPaymentMethods, "")
			id := r.ID
			if id == "" {
				id = strings.TrimSpace(strings.TrimPrefix(r.Title, "Payment"))
			}
			out = append(out, domain.Payment{
				ID:        id,
				InvoiceID: r.Field("Invoice"),
				Amount:    markdown.FloatOr(r.Field("Amount"), 0),
				Date:      r.Field("Date"),
				Method:    method,
				Reference: r.Field("Reference"),
				Notes:     r.Notes(),
			})
		}
		return out
	},
	Format: func(ps []domain.Payment) []string {
		w := markdown.NewSectionWriter(paymentSchema.Section)
		for _, p := range ps {
			w.Line("## Payment "+p.ID).
				Meta("id", p.ID).
				Field("Invoice", p.InvoiceID).
				Field("Amount", floatField(p.Amount)).
				Field("Date", p.Date).
				Field("Method", string(p.Method)).
				Field("Reference", p.Reference)
			if notes := notesLines(p.Notes); len(notes) > 0 {
				w.Blank().Text(notes...)
			}
			w.Blank()
		}
		return w.Lines()
	},
	ID: func(p *domain.Payment) *string { return &p.ID },
}
