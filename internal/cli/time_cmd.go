package cli

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/spf13/cobra"
)

func newTimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Track hours against tasks",
	}

	var task string
	list := &cobra.Command{
		Use:   "list",
		Short: "List time entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Time.List(cmd.Context(), task)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeEntries(entries))
			return nil
		},
	}
	list.Flags().StringVar(&task, "task", "", "Only entries of this task")

	var e domain.TimeEntry
	logCmd := &cobra.Command{
		Use:   "log TASK HOURS",
		Short: "Log hours against a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil || hours <= 0 {
				return fmt.Errorf("hours must be a positive number, got %q: %w", args[1], domain.ErrInvalidInput)
			}
			if err := validateOptionalDate(e.Date); err != nil {
				return fmt.Errorf("invalid date %q: %w", e.Date, err)
			}
			e.Hours = hours
			logged, err := app.Time.Log(cmd.Context(), args[0], e)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s on task %s for %s [%s]\n", formatter.Hours(logged.Hours), args[0], logged.Date, logged.ID)
			return nil
		},
	}
	logCmd.Flags().StringVar(&e.Date, "date", "", "Date (default today)")
	logCmd.Flags().StringVar(&e.Person, "person", "", "Who did the work")
	logCmd.Flags().StringVar(&e.Description, "description", "", "What was done")

	cmd.AddCommand(
		list,
		logCmd,
		&cobra.Command{
			Use:   "rm TASK ENTRY",
			Short: "Delete a time entry",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Time.Delete(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted time entry %s\n", args[1])
				return nil
			},
		},
	)

	return cmd
}
