// Package billing holds the pure calculations behind quotes and invoices:
// totals, sequence numbers, invoice generation from time entries and the
// billing summary.
package billing

import "github.com/alexanderramin/mdplan/internal/domain"

// Totals is the derived money block of a quote or invoice.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Recompute sums line item amounts and applies taxRate percent. A nil or zero
// rate means no tax.
func Recompute(items []domain.LineItem, taxRate *float64) Totals {
	var t Totals
	for _, it := range items {
		t.Subtotal += it.Amount
	}
	if taxRate != nil && *taxRate != 0 {
		t.Tax = t.Subtotal * (*taxRate / 100)
	}
	t.Total = t.Subtotal + t.Tax
	return t
}

// ApplyToQuote refreshes the totals of q from its line items.
func ApplyToQuote(q *domain.Quote) {
	t := Recompute(q.LineItems, q.TaxRate)
	q.Subtotal, q.Tax, q.Total = t.Subtotal, t.Tax, t.Total
}

// ApplyToInvoice refreshes the totals of inv from its line items.
func ApplyToInvoice(inv *domain.Invoice) {
	t := Recompute(inv.LineItems, inv.TaxRate)
	inv.Subtotal, inv.Tax, inv.Total = t.Subtotal, t.Tax, t.Total
}

// NewLineItem builds an item whose amount is quantity times rate.
func NewLineItem(id, description string, quantity, rate float64) domain.LineItem {
	return domain.LineItem{
		ID:          id,
		Description: description,
		Quantity:    quantity,
		Rate:        rate,
		Amount:      quantity * rate,
	}
}
