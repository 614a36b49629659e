package cli

import (
	"fmt"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/service"
	"github.com/spf13/cobra"
)

func newCRMCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crm",
		Short: "Track companies, contacts, deals and interactions",
	}

	cmd.AddCommand(
		newCompanyCmd(app),
		newContactCmd(app),
		newDealCmd(app),
		newInteractionCmd(app),
		&cobra.Command{
			Use:   "summary",
			Short: "Show the pipeline and recent activity",
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := app.CRM.Summary(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCRMSummary(s))
				return nil
			},
		},
	)

	return cmd
}

// removeCmd is the shared "rm ID" subcommand of the billing and CRM families.
func removeCmd[T any](kind string, svc func() service.RecordService[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := svc().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", kind, args[0])
			return nil
		},
	}
}

func newCompanyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Manage companies",
	}

	var c domain.Company
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Name = args[0]
			created, err := app.Companies.Create(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created company %s [%s]\n", created.Name, created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&c.Industry, "industry", "", "Industry")
	add.Flags().StringVar(&c.Website, "website", "", "Website")
	add.Flags().StringVar(&c.Phone, "phone", "", "Phone")
	add.Flags().StringVar(&c.Notes, "notes", "", "Notes")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List companies",
			RunE: func(cmd *cobra.Command, args []string) error {
				cs, err := app.Companies.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCompanies(cs))
				return nil
			},
		},
		add,
		removeCmd("company", func() service.RecordService[domain.Company] { return app.Companies }),
	)

	return cmd
}

func newContactCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage contacts",
	}

	var c domain.Contact
	add := &cobra.Command{
		Use:   "add FIRST_NAME [LAST_NAME]",
		Short: "Add a contact",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.FirstName = args[0]
			if len(args) == 2 {
				c.LastName = args[1]
			}
			created, err := app.Contacts.Create(cmd.Context(), c)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created contact %s [%s]\n", created.FullName(), created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&c.CompanyID, "company", "", "Company id")
	add.Flags().StringVar(&c.Email, "email", "", "Email")
	add.Flags().StringVar(&c.Phone, "phone", "", "Phone")
	add.Flags().StringVar(&c.Title, "title", "", "Job title")
	add.Flags().BoolVar(&c.IsPrimary, "primary", false, "Primary contact of the company")

	var company string
	list := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := app.Contacts.List(cmd.Context())
			if err != nil {
				return err
			}
			if company != "" {
				kept := cs[:0]
				for _, c := range cs {
					if c.CompanyID == company {
						kept = append(kept, c)
					}
				}
				cs = kept
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatContacts(cs))
			return nil
		},
	}
	list.Flags().StringVar(&company, "company", "", "Only contacts of this company")

	cmd.AddCommand(
		list,
		add,
		removeCmd("contact", func() service.RecordService[domain.Contact] { return app.Contacts }),
	)

	return cmd
}

func parseStage(s string) (domain.DealStage, error) {
	stage, ok := domain.ParseEnum(s, domain.ValidDealStages, domain.StageLead)
	if !ok && s != "" {
		return stage, fmt.Errorf("unknown deal stage %q: %w", s, domain.ErrInvalidInput)
	}
	return stage, nil
}

func newDealCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Manage deals",
	}

	var d domain.Deal
	var stage string
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a deal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if d.Stage, err = parseStage(stage); err != nil {
				return err
			}
			if err := validateOptionalDate(d.ExpectedClose); err != nil {
				return fmt.Errorf("invalid close date %q: %w", d.ExpectedClose, err)
			}
			d.Title = args[0]
			created, err := app.Deals.Create(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created deal %s [%s]\n", created.Title, created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&d.CompanyID, "company", "", "Company id")
	add.Flags().StringVar(&d.ContactID, "contact", "", "Contact id")
	add.Flags().Float64Var(&d.Value, "value", 0, "Deal value")
	add.Flags().Float64Var(&d.Probability, "probability", 0, "Win probability in percent")
	add.Flags().StringVar(&stage, "stage", "", "lead, qualified, proposal, negotiation, won or lost")
	add.Flags().StringVar(&d.ExpectedClose, "close", "", "Expected close date (YYYY-MM-DD)")

	stageCmd := &cobra.Command{
		Use:   "stage ID STAGE",
		Short: "Move a deal to another pipeline stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := parseStage(args[1])
			if err != nil {
				return err
			}
			today := app.now().Format("2006-01-02")
			err = app.Deals.Update(cmd.Context(), args[0], func(d *domain.Deal) {
				d.Stage = st
				switch st {
				case domain.StageWon, domain.StageLost:
					d.ClosedAt = domain.CoalesceStr(d.ClosedAt, today)
				default:
					d.ClosedAt = ""
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deal %s is %s\n", args[0], st)
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List deals",
			RunE: func(cmd *cobra.Command, args []string) error {
				ds, err := app.Deals.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDeals(ds))
				return nil
			},
		},
		add,
		stageCmd,
		removeCmd("deal", func() service.RecordService[domain.Deal] { return app.Deals }),
	)

	return cmd
}

func newInteractionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interaction",
		Short: "Log calls, meetings, emails and notes",
	}

	var i domain.Interaction
	var kind string
	var duration int
	add := &cobra.Command{
		Use:   "add SUMMARY",
		Short: "Log an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := domain.ParseEnum(kind, domain.ValidInteractionTypes, domain.InteractionNote)
			if !ok && kind != "" {
				return fmt.Errorf("unknown interaction type %q: %w", kind, domain.ErrInvalidInput)
			}
			for _, d := range []string{i.Date, i.NextFollowUp} {
				if err := validateOptionalDate(d); err != nil {
					return fmt.Errorf("invalid date %q: %w", d, err)
				}
			}
			i.Summary, i.Type = args[0], t
			if cmd.Flags().Changed("minutes") {
				i.Duration = domain.IntPtr(duration)
			}
			created, err := app.Interactions.Create(cmd.Context(), i)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on %s [%s]\n", created.Type, created.Date, created.ID)
			return nil
		},
	}
	add.Flags().StringVar(&kind, "type", "", "email, call, meeting or note (default note)")
	add.Flags().StringVar(&i.CompanyID, "company", "", "Company id")
	add.Flags().StringVar(&i.ContactID, "contact", "", "Contact id")
	add.Flags().StringVar(&i.DealID, "deal", "", "Deal id")
	add.Flags().StringVar(&i.Date, "date", "", "Date (default today)")
	add.Flags().StringVar(&i.NextFollowUp, "follow-up", "", "Next follow-up date")
	add.Flags().IntVar(&duration, "minutes", 0, "Duration in minutes")
	add.Flags().StringVar(&i.Notes, "notes", "", "Notes")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List interactions",
			RunE: func(cmd *cobra.Command, args []string) error {
				is, err := app.Interactions.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatInteractions(is))
				return nil
			},
		},
		add,
		removeCmd("interaction", func() service.RecordService[domain.Interaction] { return app.Interactions }),
	)

	return cmd
}
