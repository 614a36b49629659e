package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/service"
	"github.com/spf13/cobra"
)

// recordFamily describes a dated list-of-items family such as retrospectives
// or canvases.
type recordFamily[T any] struct {
	use   string
	short string
	kind  string
	svc   func() service.RecordService[T]
	// head exposes the shared id, title and date of a record.
	head func(*T) (id, title, date *string)
	// items maps --item keys to the list fields of a record.
	items  map[string]func(*T) *[]string
	status func(T) string
}

func newRecordCmds(app *App) []*cobra.Command {
	return []*cobra.Command{
		newRecordFamilyCmd(recordFamily[domain.Retrospective]{
			use: "retro", short: "Retrospectives", kind: "retrospective",
			svc:  func() service.RecordService[domain.Retrospective] { return app.Retros },
			head: func(r *domain.Retrospective) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
			items: map[string]func(*domain.Retrospective) *[]string{
				"continue": func(r *domain.Retrospective) *[]string { return &r.Continue },
				"stop":     func(r *domain.Retrospective) *[]string { return &r.Stop },
				"start":    func(r *domain.Retrospective) *[]string { return &r.Start },
			},
			status: func(r domain.Retrospective) string {
				return string(domain.CoalesceStatus(r.Status, domain.RetroOpen))
			},
		}),
		newRecordFamilyCmd(recordFamily[domain.SwotAnalysis]{
			use: "swot", short: "SWOT analyses", kind: "swot analysis",
			svc:  func() service.RecordService[domain.SwotAnalysis] { return app.Swots },
			head: func(r *domain.SwotAnalysis) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
			items: map[string]func(*domain.SwotAnalysis) *[]string{
				"strengths":     func(r *domain.SwotAnalysis) *[]string { return &r.Strengths },
				"weaknesses":    func(r *domain.SwotAnalysis) *[]string { return &r.Weaknesses },
				"opportunities": func(r *domain.SwotAnalysis) *[]string { return &r.Opportunities },
				"threats":       func(r *domain.SwotAnalysis) *[]string { return &r.Threats },
			},
		}),
		newRecordFamilyCmd(recordFamily[domain.RiskAnalysis]{
			use: "risk", short: "Risk analyses", kind: "risk analysis",
			svc:  func() service.RecordService[domain.RiskAnalysis] { return app.Risks },
			head: func(r *domain.RiskAnalysis) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
			items: map[string]func(*domain.RiskAnalysis) *[]string{
				"high-high": func(r *domain.RiskAnalysis) *[]string { return &r.HighImpactHighProb },
				"high-low":  func(r *domain.RiskAnalysis) *[]string { return &r.HighImpactLowProb },
				"low-high":  func(r *domain.RiskAnalysis) *[]string { return &r.LowImpactHighProb },
				"low-low":   func(r *domain.RiskAnalysis) *[]string { return &r.LowImpactLowProb },
			},
		}),
		newRecordFamilyCmd(recordFamily[domain.LeanCanvas]{
			use: "lean", short: "Lean canvases", kind: "lean canvas",
			svc:  func() service.RecordService[domain.LeanCanvas] { return app.LeanCanvases },
			head: func(r *domain.LeanCanvas) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
			items: map[string]func(*domain.LeanCanvas) *[]string{
				"problem":               func(r *domain.LeanCanvas) *[]string { return &r.Problem },
				"solution":              func(r *domain.LeanCanvas) *[]string { return &r.Solution },
				"value-proposition":     func(r *domain.LeanCanvas) *[]string { return &r.UniqueValueProposition },
				"unfair-advantage":      func(r *domain.LeanCanvas) *[]string { return &r.UnfairAdvantage },
				"customer-segments":     func(r *domain.LeanCanvas) *[]string { return &r.CustomerSegments },
				"existing-alternatives": func(r *domain.LeanCanvas) *[]string { return &r.ExistingAlternatives },
				"key-metrics":           func(r *domain.LeanCanvas) *[]string { return &r.KeyMetrics },
				"high-level-concept":    func(r *domain.LeanCanvas) *[]string { return &r.HighLevelConcept },
				"channels":              func(r *domain.LeanCanvas) *[]string { return &r.Channels },
				"early-adopters":        func(r *domain.LeanCanvas) *[]string { return &r.EarlyAdopters },
				"cost-structure":        func(r *domain.LeanCanvas) *[]string { return &r.CostStructure },
				"revenue-streams":       func(r *domain.LeanCanvas) *[]string { return &r.RevenueStreams },
			},
		}),
		newRecordFamilyCmd(recordFamily[domain.BusinessModelCanvas]{
			use: "bmc", short: "Business model canvases", kind: "business model canvas",
			svc:  func() service.RecordService[domain.BusinessModelCanvas] { return app.BMCs },
			head: func(r *domain.BusinessModelCanvas) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
			items: map[string]func(*domain.BusinessModelCanvas) *[]string{
				"key-partners":           func(r *domain.BusinessModelCanvas) *[]string { return &r.KeyPartners },
				"key-activities":         func(r *domain.BusinessModelCanvas) *[]string { return &r.KeyActivities },
				"key-resources":          func(r *domain.BusinessModelCanvas) *[]string { return &r.KeyResources },
				"value-proposition":      func(r *domain.BusinessModelCanvas) *[]string { return &r.ValueProposition },
				"customer-relationships": func(r *domain.BusinessModelCanvas) *[]string { return &r.CustomerRelationships },
				"channels":               func(r *domain.BusinessModelCanvas) *[]string { return &r.Channels },
				"customer-segments":      func(r *domain.BusinessModelCanvas) *[]string { return &r.CustomerSegments },
				"cost-structure":         func(r *domain.BusinessModelCanvas) *[]string { return &r.CostStructure },
				"revenue-streams":        func(r *domain.BusinessModelCanvas) *[]string { return &r.RevenueStreams },
			},
		}),
		newRecordFamilyCmd(recordFamily[domain.ProjectValueBoard]{
			use: "value", short: "Project value boards", kind: "value board",
			svc:  func() service.RecordService[domain.ProjectValueBoard] { return app.ValueBoards },
			head: func(r *domain.ProjectValueBoard) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
			items: map[string]func(*domain.ProjectValueBoard) *[]string{
				"customer-segments": func(r *domain.ProjectValueBoard) *[]string { return &r.CustomerSegments },
				"problem":           func(r *domain.ProjectValueBoard) *[]string { return &r.Problem },
				"solution":          func(r *domain.ProjectValueBoard) *[]string { return &r.Solution },
				"benefit":           func(r *domain.ProjectValueBoard) *[]string { return &r.Benefit },
			},
		}),
		newRecordFamilyCmd(recordFamily[domain.Brief]{
			use: "brief", short: "Project briefs", kind: "brief",
			svc:  func() service.RecordService[domain.Brief] { return app.Briefs },
			head: func(r *domain.Brief) (*string, *string, *string) { return &r.ID, &r.Title, &r.Date },
			items: map[string]func(*domain.Brief) *[]string{
				"summary":            func(r *domain.Brief) *[]string { return &r.Summary },
				"mission":            func(r *domain.Brief) *[]string { return &r.Mission },
				"responsible":        func(r *domain.Brief) *[]string { return &r.Responsible },
				"accountable":        func(r *domain.Brief) *[]string { return &r.Accountable },
				"consulted":          func(r *domain.Brief) *[]string { return &r.Consulted },
				"informed":           func(r *domain.Brief) *[]string { return &r.Informed },
				"budget":             func(r *domain.Brief) *[]string { return &r.HighLevelBudget },
				"timeline":           func(r *domain.Brief) *[]string { return &r.HighLevelTimeline },
				"culture":            func(r *domain.Brief) *[]string { return &r.Culture },
				"change-capacity":    func(r *domain.Brief) *[]string { return &r.ChangeCapacity },
				"guiding-principles": func(r *domain.Brief) *[]string { return &r.GuidingPrinciples },
			},
		}),
	}
}

func newRecordFamilyCmd[T any](f recordFamily[T]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   f.use,
		Short: "Manage " + strings.ToLower(f.short),
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + strings.ToLower(f.short),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := f.svc().List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([]formatter.DatedRecord, 0, len(recs))
			for _, r := range recs {
				id, title, date := f.head(&r)
				row := formatter.DatedRecord{ID: *id, Title: *title, Date: *date}
				if f.status != nil {
					row.Status = f.status(r)
				}
				rows = append(rows, row)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDatedRecords(rows))
			return nil
		},
	}

	var date string
	var items []string
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a " + f.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOptionalDate(date); err != nil {
				return fmt.Errorf("invalid date %q: %w", date, err)
			}
			var rec T
			_, title, d := f.head(&rec)
			*title, *d = args[0], date
			for _, item := range items {
				key, text, ok := strings.Cut(item, "=")
				field, known := f.items[strings.TrimSpace(key)]
				if !ok || !known {
					return fmt.Errorf("invalid item %q, use KEY=TEXT with KEY one of %s: %w",
						item, strings.Join(keys, ", "), domain.ErrInvalidInput)
				}
				list := field(&rec)
				*list = append(*list, strings.TrimSpace(text))
			}
			created, err := f.svc().Create(cmd.Context(), rec)
			if err != nil {
				return err
			}
			id, _, _ := f.head(&created)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s [%s]\n", f.kind, args[0], *id)
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	add.Flags().StringArrayVar(&items, "item", nil, "KEY=TEXT list item, repeatable; keys: "+strings.Join(keys, ", "))

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a " + f.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.svc().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", f.kind, args[0])
			return nil
		},
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}
