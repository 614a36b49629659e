package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/mdplan/internal/billing"
	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/service"
	"github.com/spf13/cobra"
)

// parseItemSpec reads a "DESCRIPTION|QUANTITY|RATE" line item.
func parseItemSpec(spec string) (domain.LineItem, error) {
	parts := strings.Split(spec, "|")
	if len(parts) != 3 {
		return domain.LineItem{}, fmt.Errorf("line item %q must look like DESCRIPTION|QUANTITY|RATE: %w", spec, domain.ErrInvalidInput)
	}
	qty, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("line item quantity %q: %w", parts[1], domain.ErrInvalidInput)
	}
	rate, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("line item rate %q: %w", parts[2], domain.ErrInvalidInput)
	}
	return billing.NewLineItem("", strings.TrimSpace(parts[0]), qty, rate), nil
}

func parseItemSpecs(specs []string) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(specs))
	for _, s := range specs {
		it, err := parseItemSpec(s)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func newCustomerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage billing customers",
	}

	var c domain.Customer
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Name = args[0]
			created, err := app.Customers.Create(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created customer %s [%s]\n", created.Name, created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&c.Email, "email", "", "Email")
	add.Flags().StringVar(&c.Phone, "phone", "", "Phone")
	add.Flags().StringVar(&c.Company, "company", "", "Company")
	add.Flags().StringVar(&c.Notes, "notes", "", "Notes")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List customers",
			RunE: func(cmd *cobra.Command, args []string) error {
				cs, err := app.Customers.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCustomers(cs))
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "rm ID",
			Short: "Delete a customer",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Customers.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted customer %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

func newRateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Manage hourly billing rates",
	}

	var r domain.BillingRate
	add := &cobra.Command{
		Use:   "add NAME HOURLY_RATE",
		Short: "Add a billing rate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid hourly rate %q: %w", args[1], domain.ErrInvalidInput)
			}
			r.Name, r.HourlyRate = args[0], rate
			created, err := app.Rates.Create(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created rate %s %s/h [%s]\n", created.Name, formatter.Money(created.HourlyRate), created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&r.Assignee, "assignee", "", "Assignee the rate applies to")
	add.Flags().BoolVar(&r.IsDefault, "default", false, "Use when no rate is given")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List billing rates",
			RunE: func(cmd *cobra.Command, args []string) error {
				rs, err := app.Rates.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRates(rs))
				return nil
			},
		},
		add,
		removeCmd("billing rate", func() service.RecordService[domain.BillingRate] { return app.Rates }),
	)

	return cmd
}

func newQuoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Manage quotes",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List quotes",
			RunE: func(cmd *cobra.Command, args []string) error {
				qs, err := app.Quotes.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatQuotes(qs))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show ID",
			Short: "Show a quote with its line items",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				q, err := app.Quotes.GetByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n\n", formatter.Bold(q.Number), q.Title, formatter.StatusPill(string(q.Status)))
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLineItems(q.LineItems, q.Subtotal, q.Tax, q.Total))
				return nil
			},
		},
		newQuoteAddCmd(app),
		newQuoteItemCmd(app),
		newQuoteStatusCmd(app, "send", "Mark a quote sent", domain.QuoteSent),
		newQuoteStatusCmd(app, "accept", "Mark a quote accepted", domain.QuoteAccepted),
		newQuoteStatusCmd(app, "reject", "Mark a quote rejected", domain.QuoteRejected),
		&cobra.Command{
			Use:   "to-invoice ID",
			Short: "Create a draft invoice from an accepted quote",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				inv, err := app.Billing.QuoteToInvoice(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created invoice %s for %s [%s]\n", inv.Number, formatter.Money(inv.Total), inv.ID)
				return nil
			},
		},
	)

	return cmd
}

func newQuoteAddCmd(app *App) *cobra.Command {
	var customer, validUntil, notes string
	var tax float64
	var items []string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a draft quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOptionalDate(validUntil); err != nil {
				return fmt.Errorf("invalid valid-until date %q: %w", validUntil, err)
			}
			lineItems, err := parseItemSpecs(items)
			if err != nil {
				return err
			}
			q := domain.Quote{CustomerID: customer, Title: args[0], ValidUntil: validUntil, Notes: notes, LineItems: lineItems}
			if cmd.Flags().Changed("tax") {
				q.TaxRate = domain.Float64Ptr(tax)
			}
			created, err := app.Billing.CreateQuote(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created quote %s [%s]\n", created.Number, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer id")
	cmd.Flags().StringVar(&validUntil, "valid-until", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&tax, "tax", 0, "Tax rate in percent")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Line item DESCRIPTION|QUANTITY|RATE, repeatable")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func newQuoteItemCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "item ID DESCRIPTION QUANTITY RATE",
		Short: "Add a line item to a quote",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := parseItemSpec(strings.Join(args[1:], "|"))
			if err != nil {
				return err
			}
			q, err := app.Billing.AddQuoteItem(cmd.Context(), args[0], item)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quote %s total is now %s\n", q.Number, formatter.Money(q.Total))
			return nil
		},
	}
}

func newQuoteStatusCmd(app *App, use, short string, status domain.QuoteStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := app.Billing.SetQuoteStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quote %s is %s\n", q.Number, q.Status)
			return nil
		},
	}
}

func newInvoiceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoice",
		Aliases: []string{"inv"},
		Short:   "Manage invoices and payments",
	}

	var overdueOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			invs, err := app.Invoices.List(cmd.Context())
			if err != nil {
				return err
			}
			if overdueOnly {
				today := app.now().Format("2006-01-02")
				kept := invs[:0]
				for _, inv := range invs {
					if billing.IsOverdue(inv, today) {
						kept = append(kept, inv)
					}
				}
				invs = kept
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInvoices(invs, app.now()))
			return nil
		},
	}
	list.Flags().BoolVar(&overdueOnly, "overdue", false, "Only overdue invoices")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "show ID",
			Short: "Show an invoice with its line items",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				inv, err := app.Invoices.GetByID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n\n", formatter.Bold(inv.Number), inv.Title, formatter.StatusPill(string(inv.Status)))
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLineItems(inv.LineItems, inv.Subtotal, inv.Tax, inv.Total))
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.Dim("paid    "), formatter.Money(inv.PaidAmount))
				return nil
			},
		},
		newInvoiceAddCmd(app),
		newInvoiceGenerateCmd(app),
		&cobra.Command{
			Use:   "send ID",
			Short: "Mark an invoice sent",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				inv, err := app.Billing.SetInvoiceStatus(cmd.Context(), args[0], domain.InvoiceSent)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s is %s\n", inv.Number, inv.Status)
				return nil
			},
		},
		newInvoicePayCmd(app),
		&cobra.Command{
			Use:   "summary",
			Short: "Show invoiced, paid and outstanding totals",
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := app.Billing.Summary(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBillingSummary(s))
				return nil
			},
		},
	)

	return cmd
}

func newInvoiceAddCmd(app *App) *cobra.Command {
	var customer, due, notes string
	var tax float64
	var items []string

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a draft invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOptionalDate(due); err != nil {
				return fmt.Errorf("invalid due date %q: %w", due, err)
			}
			lineItems, err := parseItemSpecs(items)
			if err != nil {
				return err
			}
			inv := domain.Invoice{CustomerID: customer, Title: args[0], DueDate: due, Notes: notes, LineItems: lineItems}
			if cmd.Flags().Changed("tax") {
				inv.TaxRate = domain.Float64Ptr(tax)
			}
			created, err := app.Billing.CreateInvoice(cmd.Context(), inv)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created invoice %s for %s [%s]\n", created.Number, formatter.Money(created.Total), created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer id")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&tax, "tax", 0, "Tax rate in percent")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Line item DESCRIPTION|QUANTITY|RATE, repeatable")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

func newInvoiceGenerateCmd(app *App) *cobra.Command {
	var customer, title, from, to string
	var rate float64
	var tasks []string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Bill the time logged on tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range []string{from, to} {
				if err := validateOptionalDate(d); err != nil {
					return fmt.Errorf("invalid date %q: %w", d, err)
				}
			}
			inv, err := app.Billing.GenerateInvoice(cmd.Context(), customer, title, billing.GenerateRequest{
				TaskIDs: tasks, StartDate: from, EndDate: to, HourlyRate: rate,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created invoice %s with %d item(s) for %s [%s]\n",
				inv.Number, len(inv.LineItems), formatter.Money(inv.Total), inv.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer id")
	cmd.Flags().StringSliceVar(&tasks, "tasks", nil, "Task ids to bill")
	cmd.Flags().StringVar(&title, "title", "", "Invoice title (default dated title)")
	cmd.Flags().StringVar(&from, "from", "", "First day of entries to bill")
	cmd.Flags().StringVar(&to, "to", "", "Last day of entries to bill")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Hourly rate (default the default billing rate)")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("tasks")
	return cmd
}

func newInvoicePayCmd(app *App) *cobra.Command {
	var date, method, reference, notes string

	cmd := &cobra.Command{
		Use:   "pay ID AMOUNT",
		Short: "Record a payment against an invoice",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], domain.ErrInvalidInput)
			}
			if err := validateOptionalDate(date); err != nil {
				return fmt.Errorf("invalid payment date %q: %w", date, err)
			}
			m, ok := domain.ParseEnum(method, domain.ValidPaymentMethods, domain.PaymentBank)
			if !ok && method != "" {
				return fmt.Errorf("unknown payment method %q: %w", method, domain.ErrInvalidInput)
			}
			inv, err := app.Billing.RecordPayment(cmd.Context(), domain.Payment{
				InvoiceID: args[0], Amount: amount, Date: date, Method: m, Reference: reference, Notes: notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s: paid %s of %s (%s)\n",
				inv.Number, formatter.Money(inv.PaidAmount), formatter.Money(inv.Total), inv.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Payment date (default today)")
	cmd.Flags().StringVar(&method, "method", "", "bank, card, cash or other (default bank)")
	cmd.Flags().StringVar(&reference, "reference", "", "Payment reference")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	return cmd
}
