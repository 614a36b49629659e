package billing

import (
	"errors"

	"github.com/alexanderramin/mdplan/internal/domain"
)

// ErrNoTimeEntries is returned when no entry matches the generation request.
var ErrNoTimeEntries = errors.New("no time entries found for the specified criteria")

// GenerateRequest selects time entries to bill. Empty dates leave that side
// of the range open; bounds are inclusive.
type GenerateRequest struct {
	TaskIDs    []string
	StartDate  string
	EndDate    string
	HourlyRate float64
}

// LineItemsFromTimeEntries builds one line item per requested task that has
// entries in range. Task titles come from titles, falling back to
// "Task <id>".
func LineItemsFromTimeEntries(req GenerateRequest, log *domain.TimeLog, titles map[string]string, newID domain.IDGen) ([]domain.LineItem, error) {
	var items []domain.LineItem
	for _, taskID := range req.TaskIDs {
		var (
			hours float64
			ids   []string
		)
		for _, e := range log.For(taskID) {
			if req.StartDate != "" && e.Date < req.StartDate {
				continue
			}
			if req.EndDate != "" && e.Date > req.EndDate {
				continue
			}
			hours += e.Hours
			ids = append(ids, e.ID)
		}
		if len(ids) == 0 {
			continue
		}
		title := titles[taskID]
		if title == "" {
			title = "Task " + taskID
		}
		item := NewLineItem(newID(), title, hours, req.HourlyRate)
		item.TaskID = taskID
		item.TimeEntryIDs = ids
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, ErrNoTimeEntries
	}
	return items, nil
}

// InvoiceFromTimeEntries builds a draft invoice billing the matching time
// entries. The caller assigns id and number.
func InvoiceFromTimeEntries(req GenerateRequest, customerID, title, today string, log *domain.TimeLog, titles map[string]string, newID domain.IDGen) (domain.Invoice, error) {
	items, err := LineItemsFromTimeEntries(req, log, titles, newID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if title == "" {
		title = "Time Entry Invoice - " + today
	}
	inv := domain.Invoice{
		CustomerID: customerID,
		Title:      title,
		Status:     domain.InvoiceDraft,
		LineItems:  items,
		Created:    today,
	}
	ApplyToInvoice(&inv)
	return inv, nil
}

// InvoiceFromQuote copies an accepted quote into a new draft invoice with
// fresh line item ids.
func InvoiceFromQuote(q domain.Quote, today string, newID domain.IDGen) domain.Invoice {
	items := make([]domain.LineItem, len(q.LineItems))
	for i, it := range q.LineItems {
		it.ID = newID()
		it.TimeEntryIDs = append([]string(nil), it.TimeEntryIDs...)
		items[i] = it
	}
	var tax *float64
	if q.TaxRate != nil {
		tax = domain.Float64Ptr(*q.TaxRate)
	}
	inv := domain.Invoice{
		CustomerID: q.CustomerID,
		QuoteID:    q.ID,
		Title:      q.Title,
		Status:     domain.InvoiceDraft,
		LineItems:  items,
		TaxRate:    tax,
		Notes:      q.Notes,
		Created:    today,
	}
	ApplyToInvoice(&inv)
	return inv
}

// ApplyPayment adds amount to the paid amount and marks the invoice paid
// once it covers the total.
func ApplyPayment(inv *domain.Invoice, amount float64, today string) {
	inv.PaidAmount += amount
	if inv.PaidAmount >= inv.Total {
		inv.Status = domain.InvoicePaid
		inv.PaidAt = today
	}
}
