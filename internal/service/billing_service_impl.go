package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/billing"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/repository"
)

type billingService struct {
	repos    *repository.Repos
	clock    Clock
	newID    domain.IDGen
	observer UseCaseObserver
}

func NewBillingService(repos *repository.Repos, clock Clock, newID domain.IDGen, observers ...UseCaseObserver) BillingService {
	return &billingService{repos: repos, clock: clock, newID: idGenOrDefault(newID), observer: useCaseObserverOrNoop(observers)}
}

func (s *billingService) year() int { return s.clock.now().Year() }

func (s *billingService) customerExists(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("customer is required: %w", domain.ErrInvalidInput)
	}
	_, ok, err := s.repos.Customers.FindByID(ctx, id)
	return foundOr(ok, err, "customer", id)
}

func (s *billingService) fillItemIDs(items []domain.LineItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = s.newID()
		}
		if items[i].Amount == 0 {
			items[i].Amount = items[i].Quantity * items[i].Rate
		}
	}
}

// CreateQuote stores a draft quote with the next quote number of the year.
func (s *billingService) CreateQuote(ctx context.Context, q domain.Quote) (created domain.Quote, err error) {
	fields := map[string]any{"customer_id": q.CustomerID}
	done := track(ctx, s.observer, "quote-create", fields)
	defer func() { done(err) }()

	if err = requireText("quote", "title", q.Title); err != nil {
		return q, err
	}
	if err = s.customerExists(ctx, q.CustomerID); err != nil {
		return q, err
	}
	q.Status = domain.CoalesceStatus(q.Status, domain.QuoteDraft)
	q.Created = domain.CoalesceStr(q.Created, s.clock.today())
	s.fillItemIDs(q.LineItems)
	billing.ApplyToQuote(&q)

	err = s.repos.Quotes.Mutate(ctx, func(quotes []domain.Quote) ([]domain.Quote, error) {
		numbers := make([]string, 0, len(quotes))
		taken := map[string]bool{}
		for _, x := range quotes {
			numbers = append(numbers, x.Number)
			taken[x.ID] = true
		}
		q.ID = domain.UniqueID(s.newID, func(id string) bool { return taken[id] })
		if q.Number == "" {
			q.Number = billing.NextNumber(billing.QuotePrefix, s.year(), numbers)
		}
		return append(quotes, q), nil
	})
	if err != nil {
		return q, fmt.Errorf("creating quote: %w", err)
	}
	fields["number"] = q.Number
	return q, nil
}

func (s *billingService) updateQuote(ctx context.Context, id string, fn func(*domain.Quote) error) (domain.Quote, error) {
	var out domain.Quote
	err := s.repos.Quotes.Mutate(ctx, func(quotes []domain.Quote) ([]domain.Quote, error) {
		for i := range quotes {
			if quotes[i].ID != id {
				continue
			}
			if err := fn(&quotes[i]); err != nil {
				return nil, err
			}
			billing.ApplyToQuote(&quotes[i])
			out = quotes[i]
			return quotes, nil
		}
		return nil, notFound("quote", id)
	})
	return out, err
}

// AddQuoteItem appends a line item and recomputes the totals.
func (s *billingService) AddQuoteItem(ctx context.Context, quoteID string, item domain.LineItem) (q domain.Quote, err error) {
	done := track(ctx, s.observer, "quote-add-item", map[string]any{"quote_id": quoteID})
	defer func() { done(err) }()

	if err = requireText("line item", "description", item.Description); err != nil {
		return q, err
	}
	items := []domain.LineItem{item}
	s.fillItemIDs(items)
	return s.updateQuote(ctx, quoteID, func(q *domain.Quote) error {
		q.LineItems = append(q.LineItems, items[0])
		return nil
	})
}

// SetQuoteStatus moves a quote through draft, sent, accepted and rejected.
// Sending stamps sentAt and accepting stamps acceptedAt.
func (s *billingService) SetQuoteStatus(ctx context.Context, quoteID string, status domain.QuoteStatus) (q domain.Quote, err error) {
	done := track(ctx, s.observer, "quote-set-status", map[string]any{"quote_id": quoteID, "status": string(status)})
	defer func() { done(err) }()

	if !domain.ValidQuoteStatuses[status] {
		return q, fmt.Errorf("unknown quote status %q: %w", status, domain.ErrInvalidInput)
	}
	today := s.clock.today()
	return s.updateQuote(ctx, quoteID, func(q *domain.Quote) error {
		q.Status = status
		switch status {
		case domain.QuoteSent:
			q.SentAt = today
		case domain.QuoteAccepted:
			q.AcceptedAt = today
		}
		return nil
	})
}

func (s *billingService) appendInvoice(ctx context.Context, inv *domain.Invoice) error {
	return s.repos.Invoices.Mutate(ctx, func(invoices []domain.Invoice) ([]domain.Invoice, error) {
		numbers := make([]string, 0, len(invoices))
		taken := map[string]bool{}
		for _, x := range invoices {
			numbers = append(numbers, x.Number)
			taken[x.ID] = true
		}
		inv.ID = domain.UniqueID(s.newID, func(id string) bool { return taken[id] })
		if inv.Number == "" {
			inv.Number = billing.NextNumber(billing.InvoicePrefix, s.year(), numbers)
		}
		return append(invoices, *inv), nil
	})
}

// QuoteToInvoice copies an accepted quote into a new draft invoice.
func (s *billingService) QuoteToInvoice(ctx context.Context, quoteID string) (inv domain.Invoice, err error) {
	fields := map[string]any{"quote_id": quoteID}
	done := track(ctx, s.observer, "quote-to-invoice", fields)
	defer func() { done(err) }()

	q, ok, err := s.repos.Quotes.FindByID(ctx, quoteID)
	if err = foundOr(ok, err, "quote", quoteID); err != nil {
		return inv, err
	}
	if q.Status != domain.QuoteAccepted {
		return inv, fmt.Errorf("quote %s is %s, only accepted quotes can be invoiced: %w", q.Number, q.Status, domain.ErrInvalidInput)
	}
	inv = billing.InvoiceFromQuote(q, s.clock.today(), s.newID)
	if err = s.appendInvoice(ctx, &inv); err != nil {
		return inv, fmt.Errorf("creating invoice: %w", err)
	}
	fields["number"] = inv.Number
	return inv, nil
}

func (s *billingService) CreateInvoice(ctx context.Context, inv domain.Invoice) (created domain.Invoice, err error) {
	fields := map[string]any{"customer_id": inv.CustomerID}
	done := track(ctx, s.observer, "invoice-create", fields)
	defer func() { done(err) }()

	if err = requireText("invoice", "title", inv.Title); err != nil {
		return inv, err
	}
	if err = s.customerExists(ctx, inv.CustomerID); err != nil {
		return inv, err
	}
	inv.Status = domain.CoalesceStatus(inv.Status, domain.InvoiceDraft)
	inv.Created = domain.CoalesceStr(inv.Created, s.clock.today())
	s.fillItemIDs(inv.LineItems)
	billing.ApplyToInvoice(&inv)
	if err = s.appendInvoice(ctx, &inv); err != nil {
		return inv, fmt.Errorf("creating invoice: %w", err)
	}
	fields["number"] = inv.Number
	return inv, nil
}

func (s *billingService) SetInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (inv domain.Invoice, err error) {
	done := track(ctx, s.observer, "invoice-set-status", map[string]any{"invoice_id": invoiceID, "status": string(status)})
	defer func() { done(err) }()

	if !domain.ValidInvoiceStatuses[status] {
		return inv, fmt.Errorf("unknown invoice status %q: %w", status, domain.ErrInvalidInput)
	}
	today := s.clock.today()
	found, err := s.repos.Invoices.Update(ctx, invoiceID, func(i *domain.Invoice) {
		i.Status = status
		switch status {
		case domain.InvoiceSent:
			i.SentAt = today
		case domain.InvoicePaid:
			i.PaidAt = today
		}
		inv = *i
	})
	return inv, foundOr(found, err, "invoice", invoiceID)
}

// GenerateInvoice bills the time logged on the given tasks. Without an
// explicit hourly rate the default billing rate applies.
func (s *billingService) GenerateInvoice(ctx context.Context, customerID, title string, req billing.GenerateRequest) (inv domain.Invoice, err error) {
	fields := map[string]any{"customer_id": customerID, "task_count": len(req.TaskIDs)}
	done := track(ctx, s.observer, "invoice-generate", fields)
	defer func() { done(err) }()

	if err = s.customerExists(ctx, customerID); err != nil {
		return inv, err
	}
	if len(req.TaskIDs) == 0 {
		return inv, fmt.Errorf("at least one task is required: %w", domain.ErrInvalidInput)
	}
	if req.HourlyRate <= 0 {
		if req.HourlyRate, err = s.defaultRate(ctx); err != nil {
			return inv, err
		}
	}
	log, err := s.repos.TimeLog.Read(ctx)
	if err != nil {
		return inv, err
	}
	tasks, err := s.repos.Tasks.List(ctx)
	if err != nil {
		return inv, err
	}
	titles := map[string]string{}
	domain.Walk(tasks, func(t, _ *domain.Task) bool {
		titles[t.ID] = t.Title
		return true
	})

	inv, err = billing.InvoiceFromTimeEntries(req, customerID, strings.TrimSpace(title), s.clock.today(), log, titles, s.newID)
	if err != nil {
		return inv, err
	}
	if err = s.appendInvoice(ctx, &inv); err != nil {
		return inv, fmt.Errorf("creating invoice: %w", err)
	}
	fields["number"] = inv.Number
	return inv, nil
}

func (s *billingService) defaultRate(ctx context.Context) (float64, error) {
	rates, err := s.repos.Rates.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range rates {
		if r.IsDefault {
			return r.HourlyRate, nil
		}
	}
	return 0, fmt.Errorf("no hourly rate given and no default billing rate: %w", domain.ErrInvalidInput)
}

// RecordPayment stores the payment and applies it to its invoice in one
// write.
func (s *billingService) RecordPayment(ctx context.Context, p domain.Payment) (inv domain.Invoice, err error) {
	done := track(ctx, s.observer, "invoice-record-payment", map[string]any{"invoice_id": p.InvoiceID, "amount": p.Amount})
	defer func() { done(err) }()

	if p.Amount <= 0 {
		return inv, fmt.Errorf("payment amount must be positive: %w", domain.ErrInvalidInput)
	}
	today := s.clock.today()
	p.Date = domain.CoalesceStr(p.Date, today)
	p.Method = domain.CoalesceStatus(p.Method, domain.PaymentBank)

	applyToInvoice := s.repos.Invoices.Edit(func(invoices []domain.Invoice) ([]domain.Invoice, error) {
		for i := range invoices {
			if invoices[i].ID == p.InvoiceID {
				billing.ApplyPayment(&invoices[i], p.Amount, p.Date)
				inv = invoices[i]
				return invoices, nil
			}
		}
		return nil, notFound("invoice", p.InvoiceID)
	})
	addPayment := s.repos.Payments.Edit(func(payments []domain.Payment) ([]domain.Payment, error) {
		taken := map[string]bool{}
		for _, x := range payments {
			taken[x.ID] = true
		}
		p.ID = domain.UniqueID(s.newID, func(id string) bool { return taken[id] })
		return append(payments, p), nil
	})
	if err = s.repos.Apply(ctx, applyToInvoice, addPayment); err != nil {
		return inv, err
	}
	return inv, nil
}

func (s *billingService) Summary(ctx context.Context) (domain.BillingSummary, error) {
	invoices, err := s.repos.Invoices.ReadAll(ctx)
	if err != nil {
		return domain.BillingSummary{}, err
	}
	quotes, err := s.repos.Quotes.ReadAll(ctx)
	if err != nil {
		return domain.BillingSummary{}, err
	}
	return billing.Summarize(invoices, quotes, s.clock.today()), nil
}
