package cli

import (
	"fmt"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/spf13/cobra"
)

func newCapacityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "capacity",
		Aliases: []string{"cap"},
		Short:   "Plan team capacity and assignments",
	}

	cmd.AddCommand(
		newCapacityListCmd(app),
		newCapacityAddCmd(app),
		newCapacityMemberCmd(app),
		newCapacityAllocateCmd(app),
		newCapacityUtilizationCmd(app),
		newCapacitySuggestCmd(app),
		newCapacityApplyCmd(app),
	)

	return cmd
}

func newCapacityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List capacity plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Capacity.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCapacityPlans(plans))
			return nil
		},
	}
}

func newCapacityAddCmd(app *App) *cobra.Command {
	var date string
	var budget float64

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a capacity plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.CapacityPlan{Title: args[0], Date: date}
			if cmd.Flags().Changed("budget") {
				p.BudgetHours = domain.Float64Ptr(budget)
			}
			created, err := app.Capacity.Create(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created capacity plan %s [%s]\n", created.Title, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Budget in hours")
	return cmd
}

func newCapacityMemberCmd(app *App) *cobra.Command {
	var role string
	var hoursPerDay float64
	var days []string

	cmd := &cobra.Command{
		Use:   "member PLAN NAME",
		Short: "Add a team member to a plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Capacity.AddMember(cmd.Context(), args[0], domain.TeamMember{
				Name: args[1], Role: role, HoursPerDay: hoursPerDay, WorkingDays: days,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s [%s] with %s per week\n", m.Name, m.ID, formatter.Hours(m.WeeklyCapacity()))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role")
	cmd.Flags().Float64Var(&hoursPerDay, "hours", 0, "Hours per working day (default 8)")
	cmd.Flags().StringSliceVar(&days, "days", nil, "Working days, e.g. Mon,Tue,Wed (default weekdays)")
	return cmd
}

func newCapacityAllocateCmd(app *App) *cobra.Command {
	var week, target, targetID, notes string
	var hours float64

	cmd := &cobra.Command{
		Use:   "allocate PLAN MEMBER",
		Short: "Book hours of a member for a week",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Capacity.Allocate(cmd.Context(), args[0], domain.WeeklyAllocation{
				MemberID:       args[1],
				WeekStart:      week,
				AllocatedHours: hours,
				TargetType:     domain.AllocationTarget(target),
				TargetID:       targetID,
				Notes:          notes,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Allocated %s for week of %s [%s]\n", formatter.Hours(a.AllocatedHours), a.WeekStart, a.ID)
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", 0, "Hours to book")
	cmd.Flags().StringVar(&week, "week", "", "Any date in the week (default this week)")
	cmd.Flags().StringVar(&target, "target", "", "project, task or milestone (default project)")
	cmd.Flags().StringVar(&targetID, "target-id", "", "Id of the task or milestone")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	_ = cmd.MarkFlagRequired("hours")
	return cmd
}

func newCapacityUtilizationCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "utilization PLAN",
		Short: "Show allocated and logged hours per member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			us, err := app.Capacity.Utilization(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUtilization(us))
			return nil
		},
	}
}

func newCapacitySuggestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest PLAN",
		Short: "Suggest assignees for unassigned tasks this week",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sugs, err := app.Capacity.SuggestAssignments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(sugs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No suggestions: every task is assigned or nobody has hours left."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSuggestions(sugs))
			return nil
		},
	}
}

func newCapacityApplyCmd(app *App) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "apply PLAN",
		Short: "Book the current suggestions and assign their tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sugs, err := app.Capacity.SuggestAssignments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(only) > 0 {
				keep := map[string]bool{}
				for _, id := range only {
					keep[id] = true
				}
				filtered := sugs[:0]
				for _, s := range sugs {
					if keep[s.TaskID] {
						filtered = append(filtered, s)
					}
				}
				sugs = filtered
			}
			n, err := app.Capacity.ApplyAssignments(cmd.Context(), args[0], sugs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d assignment(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&only, "tasks", nil, "Only apply suggestions for these task ids")
	return cmd
}
