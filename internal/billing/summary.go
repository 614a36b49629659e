package billing

import "github.com/alexanderramin/mdplan/internal/domain"

// Summarize aggregates invoices and quotes. Sent invoices past their due date
// (compared against today as YYYY-MM-DD) count as overdue.
func Summarize(invoices []domain.Invoice, quotes []domain.Quote, today string) domain.BillingSummary {
	var s domain.BillingSummary
	for _, inv := range invoices {
		s.TotalInvoiced += inv.Total
		s.TotalPaid += inv.PaidAmount
		switch inv.Status {
		case domain.InvoiceDraft:
			s.DraftInvoices++
		case domain.InvoiceSent:
			s.SentInvoices++
			s.TotalOutstanding += inv.Outstanding()
			if inv.DueDate != "" && inv.DueDate < today {
				s.OverdueInvoices++
				s.TotalOverdue += inv.Outstanding()
			}
		case domain.InvoicePaid:
			s.PaidInvoices++
		case domain.InvoiceOverdue:
			s.OverdueInvoices++
			s.TotalOverdue += inv.Outstanding()
			s.TotalOutstanding += inv.Outstanding()
		}
	}
	for _, q := range quotes {
		switch q.Status {
		case domain.QuoteSent:
			s.PendingQuotes++
		case domain.QuoteAccepted:
			s.AcceptedQuotes++
		}
	}
	return s
}

// IsOverdue reports whether a sent invoice is past its due date.
func IsOverdue(inv domain.Invoice, today string) bool {
	if inv.Status == domain.InvoiceOverdue {
		return true
	}
	return inv.Status == domain.InvoiceSent && inv.DueDate != "" && inv.DueDate < today
}
