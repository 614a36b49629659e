package domain

type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// IsZero reports whether no address field is set.
func (a Address) IsZero() bool { return a == Address{} }

type Customer struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Company        string
	Created        string
	BillingAddress *Address
	Notes          string
}

type BillingRate struct {
	ID         string
	Name       string
	HourlyRate float64
	Assignee   string
	IsDefault  bool
}

// LineItem is one billable row of a quote or invoice. TaskID and
// TimeEntryIDs trace items generated from time tracking.
type LineItem struct {
	ID           string
	Description  string
	Quantity     float64
	Rate         float64
	Amount       float64
	TaskID       string
	TimeEntryIDs []string
}

type Quote struct {
	ID         string
	Number     string
	CustomerID string
	Title      string
	Status     QuoteStatus
	ValidUntil string
	LineItems  []LineItem
	Subtotal   float64
	TaxRate    *float64
	Tax        float64
	Total      float64
	Notes      string
	Created    string
	SentAt     string
	AcceptedAt string
}

type Invoice struct {
	ID         string
	Number     string
	CustomerID string
	QuoteID    string
	Title      string
	Status     InvoiceStatus
	DueDate    string
	LineItems  []LineItem
	Subtotal   float64
	TaxRate    *float64
	Tax        float64
	Total      float64
	PaidAmount float64
	Notes      string
	Created    string
	SentAt     string
	PaidAt     string
}

// Outstanding is the unpaid part of the total.
func (i Invoice) Outstanding() float64 { return i.Total - i.PaidAmount }

type Payment struct {
	ID        string
	InvoiceID string
	Amount    float64
	Date      string
	Method    PaymentMethod
	Reference string
	Notes     string
}

// BillingSummary aggregates invoice and quote state.
type BillingSummary struct {
	TotalOutstanding float64
	TotalOverdue     float64
	TotalPaid        float64
	TotalInvoiced    float64
	PendingQuotes    int
	AcceptedQuotes   int
	DraftInvoices    int
	SentInvoices     int
	PaidInvoices     int
	OverdueInvoices  int
}
