package cli

import (
	"testing"

	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseItemSpec(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    domain.LineItem
		wantErr bool
	}{
		{"valid", "Design | 2 | 50", domain.LineItem{Description: "Design", Quantity: 2, Rate: 50, Amount: 100}, false},
		{"fractional quantity", "Support|1.5|80", domain.LineItem{Description: "Support", Quantity: 1.5, Rate: 80, Amount: 120}, false},
		{"too few parts", "Design|2", domain.LineItem{}, true},
		{"bad quantity", "Design|two|50", domain.LineItem{}, true},
		{"bad rate", "Design|2|cheap", domain.LineItem{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseItemSpec(tc.spec)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want.Description, got.Description)
			assert.InDelta(t, tc.want.Quantity, got.Quantity, 1e-9)
			assert.InDelta(t, tc.want.Rate, got.Rate, 1e-9)
			assert.InDelta(t, tc.want.Amount, got.Amount, 1e-9)
		})
	}
}

func TestBillingFlow_QuoteToPaidInvoice(t *testing.T) {
	app, _ := testApp(t, boardDoc)

	cust := createdID(t, mustExecute(t, app, "customer", "add", "Globex", "--email", "ap@globex.test"))
	assert.Contains(t, mustExecute(t, app, "customer", "list"), "ap@globex.test")

	out := mustExecute(t, app, "quote", "add", "Website", "--customer", cust, "--tax", "10", "--item", "Design|1|100")
	assert.Contains(t, out, "Q-2025-001")
	quote := createdID(t, out)

	out = mustExecute(t, app, "quote", "item", quote, "Copy", "2", "25")
	assert.Equal(t, "Quote Q-2025-001 total is now 165.00\n", out)

	show := mustExecute(t, app, "quote", "show", quote)
	assert.Contains(t, show, "Design")
	assert.Contains(t, show, "165.00")

	_, err := executeCmd(t, app, "quote", "to-invoice", quote)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "only accepted quotes convert")

	assert.Equal(t, "Quote Q-2025-001 is sent\n", mustExecute(t, app, "quote", "send", quote))
	assert.Equal(t, "Quote Q-2025-001 is accepted\n", mustExecute(t, app, "quote", "accept", quote))

	out = mustExecute(t, app, "quote", "to-invoice", quote)
	assert.Contains(t, out, "INV-2025-001 for 165.00")
	inv := createdID(t, out)

	mustExecute(t, app, "invoice", "send", inv)
	out = mustExecute(t, app, "invoice", "pay", inv, "100", "--method", "card")
	assert.Equal(t, "Invoice INV-2025-001: paid 100.00 of 165.00 (sent)\n", out)
	out = mustExecute(t, app, "invoice", "pay", inv, "65")
	assert.Equal(t, "Invoice INV-2025-001: paid 165.00 of 165.00 (paid)\n", out)

	_, err = executeCmd(t, app, "invoice", "pay", inv, "5", "--method", "barter")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = executeCmd(t, app, "invoice", "pay", "missing", "5")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out = mustExecute(t, app, "invoice", "summary")
	assert.Contains(t, out, "1 paid")
	assert.Contains(t, out, "1 accepted")
}

func TestInvoiceCommands_AddAndOverdue(t *testing.T) {
	app, _ := testApp(t, boardDoc)
	cust := createdID(t, mustExecute(t, app, "customer", "add", "Initech"))

	late := createdID(t, mustExecute(t, app, "invoice", "add", "February", "--customer", cust,
		"--due", "2025-03-01", "--item", "Retainer|1|500"))
	mustExecute(t, app, "invoice", "send", late)
	mustExecute(t, app, "invoice", "add", "March", "--customer", cust, "--due", "2025-04-01", "--item", "Retainer|1|500")

	all := mustExecute(t, app, "invoice", "list")
	assert.Contains(t, all, "February")
	assert.Contains(t, all, "March")

	overdue := mustExecute(t, app, "invoice", "list", "--overdue")
	assert.Contains(t, overdue, "February")
	assert.NotContains(t, overdue, "March")

	_, err := executeCmd(t, app, "invoice", "add", "Bad", "--customer", cust, "--item", "Retainer")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = executeCmd(t, app, "invoice", "add", "Nobody", "--customer", "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceGenerate_FromLoggedTime(t *testing.T) {
	app, _ := testApp(t, boardDoc)
	cust := createdID(t, mustExecute(t, app, "customer", "add", "Initech"))
	mustExecute(t, app, "rate", "add", "Standard", "80", "--default")
	mustExecute(t, app, "time", "log", "1", "3", "--person", "Ana")
	mustExecute(t, app, "time", "log", "1", "1", "--date", "2025-01-02")

	out := mustExecute(t, app, "invoice", "generate", "--customer", cust, "--tasks", "1,3", "--from", "2025-03-01")
	assert.Contains(t, out, "with 1 item(s) for 240.00")

	_, err := executeCmd(t, app, "invoice", "generate", "--customer", cust)
	assert.Error(t, err, "--tasks is required")
}
