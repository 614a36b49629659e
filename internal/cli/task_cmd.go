package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/alexanderramin/mdplan/internal/importer"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage board tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskShowCmd(app),
		newTaskAddCmd(app),
		newTaskUpdateCmd(app),
		newTaskDoneCmd(app),
		newTaskRemoveCmd(app),
		newTaskMoveCmd(app),
		newTaskAppendCmd(app),
		newTaskImportCmd(app),
		newTaskExportCmd(app),
	)

	return cmd
}

// taskFields are the flag-backed task properties shared by add and update.
type taskFields struct {
	title     string
	priority  int
	effort    int
	assignee  string
	due       string
	milestone string
	tags      []string
	blockedBy []string
}

func (f *taskFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	cmd.Flags().IntVar(&f.priority, "priority", 0, "Priority, 1 is highest")
	cmd.Flags().IntVar(&f.effort, "effort", 0, "Effort estimate in hours")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "Assignee name")
	cmd.Flags().StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.milestone, "milestone", "", "Milestone name")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "Comma separated tags")
	cmd.Flags().StringSliceVar(&f.blockedBy, "blocked-by", nil, "Ids of blocking tasks")
}

func (f *taskFields) validate() error {
	if err := validateOptionalDate(f.due); err != nil {
		return fmt.Errorf("invalid due date %q: %w", f.due, err)
	}
	return nil
}

// apply copies the flags the user set onto t.
func (f *taskFields) apply(cmd *cobra.Command, t *domain.Task) {
	changed := cmd.Flags().Changed
	if changed("due") {
		t.Config.DueDate = f.due
	}
	if changed("title") {
		t.Title = f.title
	}
	if changed("priority") {
		t.Config.Priority = optionalInt(f.priority)
	}
	if changed("effort") {
		t.Config.Effort = optionalInt(f.effort)
	}
	if changed("assignee") {
		t.Config.Assignee = f.assignee
	}
	if changed("milestone") {
		t.Config.Milestone = f.milestone
	}
	if changed("tags") {
		t.Config.Tags = f.tags
	}
	if changed("blocked-by") {
		t.Config.BlockedBy = f.blockedBy
	}
}

// optionalInt maps zero to unset.
func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func newTaskListCmd(app *App) *cobra.Command {
	var section, assignee string
	var open bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := app.Tasks.Board(cmd.Context())
			if err != nil {
				return err
			}
			if section != "" {
				board.Columns = []string{section}
			}
			if assignee != "" || open {
				board.Tasks = filterTasks(board.Tasks, func(t *domain.Task) bool {
					return (assignee == "" || strings.EqualFold(t.Config.Assignee, assignee)) && (!open || !t.Completed)
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(board))
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "Only show this column")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Only show tasks of this assignee")
	cmd.Flags().BoolVar(&open, "open", false, "Hide completed tasks")

	return cmd
}

// filterTasks keeps matching tasks and the ancestors needed to reach them.
func filterTasks(tasks []*domain.Task, keep func(*domain.Task) bool) []*domain.Task {
	var out []*domain.Task
	for _, t := range tasks {
		children := filterTasks(t.Children, keep)
		if !keep(t) && len(children) == 0 {
			continue
		}
		c := *t
		c.Children = children
		out = append(out, &c)
	}
	return out
}

func newTaskShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := app.Tasks.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskDetail(t, app.now()))
			return nil
		},
	}
}

func newTaskAddCmd(app *App) *cobra.Command {
	var fields taskFields
	var section, parent string
	var description []string

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Add a task to a column or under a parent task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := &domain.Task{Section: section, Description: description}
			if len(args) == 1 {
				t.Title = args[0]
			}
			if err := fields.validate(); err != nil {
				return err
			}
			fields.apply(cmd, t)

			if t.Title == "" && app.IsInteractive != nil && app.IsInteractive() {
				if err := runTaskForm(cmd, app, t); err != nil {
					return err
				}
			}
			if t.Section == "" && parent == "" {
				t.Section = firstColumn(app.Config.DefaultSections)
			}

			created, err := app.Tasks.Create(cmd.Context(), t, parent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task (%s) %s\n", created.ID, created.Title)
			return nil
		},
	}

	fields.register(cmd)
	cmd.Flags().StringVar(&section, "section", "", "Column heading (default the first configured column)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task id")
	cmd.Flags().StringArrayVar(&description, "note", nil, "Description line, repeatable")

	return cmd
}

func firstColumn(sections []string) string {
	for _, s := range sections {
		if s != "Ideas" {
			return s
		}
	}
	return "Todo"
}

func runTaskForm(cmd *cobra.Command, app *App, t *domain.Task) error {
	v := taskFormValues{Section: domain.CoalesceStr(t.Section, firstColumn(app.Config.DefaultSections))}
	if err := taskForm(&v, app.Config.DefaultSections).RunWithContext(cmd.Context()); err != nil {
		return fmt.Errorf("task form: %w", err)
	}
	t.Title = strings.TrimSpace(v.Title)
	t.Section = v.Section
	if v.Priority != "" {
		p, _ := strconv.Atoi(v.Priority)
		t.Config.Priority = &p
	}
	if v.Effort != "" {
		e, _ := strconv.Atoi(v.Effort)
		t.Config.Effort = &e
	}
	t.Config.Assignee = strings.TrimSpace(v.Assignee)
	t.Config.DueDate = v.Due
	return nil
}

func newTaskUpdateCmd(app *App) *cobra.Command {
	var fields taskFields

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change task fields; only the given flags are touched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fields.validate(); err != nil {
				return err
			}
			err := app.Tasks.Update(cmd.Context(), args[0], func(t *domain.Task) {
				fields.apply(cmd, t)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", args[0])
			return nil
		},
	}

	fields.register(cmd)
	return cmd
}

func newTaskDoneCmd(app *App) *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done ID",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.SetCompleted(cmd.Context(), args[0], !undo); err != nil {
				return err
			}
			state := "done"
			if undo {
				state = "open"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s marked %s\n", args[0], state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "Reopen the task instead")
	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a task and its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}
}

func newTaskMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move ID COLUMN",
		Short: "Move a root task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.Move(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newTaskAppendCmd(app *App) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "append COLUMN",
		Short: "Append checkbox markdown to a column",
		Long:  "Reads a markdown task list from --from or stdin and appends it to COLUMN.\nIds are assigned to items that have none.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if from != "" {
				f, err := os.Open(from)
				if err != nil {
					return fmt.Errorf("opening %s: %w", from, err)
				}
				defer f.Close()
				r = f
			}
			snippet, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("reading markdown: %w", err)
			}
			added, err := app.Tasks.AppendMarkdown(cmd.Context(), args[0], string(snippet))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Appended %d task(s) to %s\n", len(added), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Markdown file (default stdin)")
	return cmd
}

func newTaskImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import tasks from a CSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d task(s) under %d root(s)\n", res.TaskCount, res.Roots)
			return nil
		},
	}
}

func newTaskExportCmd(app *App) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board as flat rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			flat, err := app.Import.ExportRows(cmd.Context())
			if err != nil {
				return err
			}
			rows := importer.FromFlat(flat)

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return importer.WriteTaskRows(w, rows)
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			default:
				return fmt.Errorf("unknown format %q (use csv or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
