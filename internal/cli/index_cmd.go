package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/index"
	"github.com/alexanderramin/mdplan/internal/watch"
	"github.com/spf13/cobra"
)

var errNoIndex = errors.New("index is not configured")

func newIndexCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Query the SQLite mirror of the document",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			if app.Index == nil {
				return errNoIndex
			}
			return nil
		},
	}

	cmd.AddCommand(
		newIndexSyncCmd(app),
		newIndexStatusCmd(app),
		newIndexSearchCmd(app),
		newIndexAssignedCmd(app),
		newIndexOverdueCmd(app),
		newIndexWatchCmd(app),
	)

	return cmd
}

func printSyncResult(cmd *cobra.Command, res index.Result) {
	if res.Skipped {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Index already up to date."))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d tasks, %d milestones, %d ideas, %d invoices, %d deals, %d time entries\n",
		res.Tasks, res.Milestones, res.Ideas, res.Invoices, res.Deals, res.TimeEntries)
}

func newIndexSyncCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Bring the index up to date with the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			sync := app.Index.Sync
			if force {
				sync = app.Index.Rebuild
			}
			res, err := sync(cmd.Context())
			if err != nil {
				return err
			}
			printSyncResult(cmd, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Rebuild even when the document is unchanged")
	return cmd
}

func newIndexStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show when the index was last synced",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Queries.State(cmd.Context())
			if err != nil {
				return err
			}
			rows := [][]string{
				{"Synced", formatter.OrDash(st.SyncedAt)},
				{"Tasks", fmt.Sprint(st.TaskCount)},
				{"Hash", formatter.OrDash(st.ContentHash)},
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"INDEX", ""}, rows))
			return nil
		},
	}
}

// freshQuery syncs before reading so edits made outside mdplan show up.
func freshQuery(ctx context.Context, app *App) error {
	_, err := app.Index.Sync(ctx)
	return err
}

func newIndexSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search TERM",
		Short: "Find tasks, milestones, ideas, invoices and deals by title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := freshQuery(cmd.Context(), app); err != nil {
				return err
			}
			hits, err := app.Queries.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(hits))
			for _, h := range hits {
				rows = append(rows, []string{h.Kind, h.ID, h.Title})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"KIND", "ID", "TITLE"}, rows))
			return nil
		},
	}
}

func newIndexAssignedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assigned NAME",
		Short: "List the tasks of one assignee across all columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := freshQuery(cmd.Context(), app); err != nil {
				return err
			}
			tasks, err := app.Queries.TasksByAssignee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			items := make([]formatter.TreeItem, 0, len(tasks))
			for _, t := range tasks {
				items = append(items, formatter.TreeItem{
					ID:        t.ID,
					Title:     t.Title,
					Completed: t.Completed,
					Detail:    formatter.OrDash(t.Section),
				})
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No tasks assigned to "+args[0]+"."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(items))
			return nil
		},
	}
}

func newIndexOverdueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List overdue invoices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := freshQuery(cmd.Context(), app); err != nil {
				return err
			}
			invs, err := app.Queries.OverdueInvoices(cmd.Context(), app.now().Format("2006-01-02"))
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(invs))
			for _, inv := range invs {
				rows = append(rows, []string{inv.Number, inv.Title, inv.CustomerID, formatter.DueLabel(inv.DueDate, app.now()), formatter.Money(inv.Outstanding())})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"NUMBER", "TITLE", "CUSTOMER", "DUE", "OPEN"}, rows))
			return nil
		},
	}
}

func newIndexWatchCmd(app *App) *cobra.Command {
	var debounceMs int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the index in sync while the document changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := app.logger()
			w, err := watch.New(&watch.Config{
				Path:       app.DocumentPath,
				Logger:     logger,
				DebounceMs: debounceMs,
				OnChange: func(ctx context.Context) {
					res, err := app.Index.Sync(ctx)
					if err != nil {
						logger.Error("index sync failed", "error", err)
						return
					}
					logger.Info("index synced", "tasks", res.Tasks, "skipped", res.Skipped)
				},
			})
			if err != nil {
				return err
			}

			res, err := app.Index.Sync(ctx)
			if err != nil {
				w.Stop()
				return err
			}
			printSyncResult(cmd, res)
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, press Ctrl+C to stop.\n", app.DocumentPath)

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&debounceMs, "debounce", 300, "Milliseconds to wait for writes to settle")
	return cmd
}
