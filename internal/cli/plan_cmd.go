package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/mdplan/internal/cli/formatter"
	"github.com/alexanderramin/mdplan/internal/domain"
	"github.com/spf13/cobra"
)

func newMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "milestone",
		Aliases: []string{"ms"},
		Short:   "Manage milestones",
	}

	var target, description string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOptionalDate(target); err != nil {
				return fmt.Errorf("invalid target date %q: %w", target, err)
			}
			m, err := app.Milestones.Create(cmd.Context(), domain.Milestone{Name: args[0], Target: target, Description: description})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created milestone %s [%s]\n", m.Name, m.ID)
			return nil
		},
	}
	add.Flags().StringVar(&target, "target", "", "Target date (YYYY-MM-DD)")
	add.Flags().StringVar(&description, "description", "", "Description")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List milestones with progress",
			RunE: func(cmd *cobra.Command, args []string) error {
				ms, err := app.Milestones.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMilestones(ms))
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "rm ID",
			Short: "Delete a milestone",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Milestones.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted milestone %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "progress NAME",
			Short: "Show the progress of one milestone",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := app.Milestones.Progress(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %d/%d tasks  %s\n",
					formatter.Bold(p.Name), p.CompletedCount, p.TaskCount, formatter.RenderProgress(p.Progress, 20))
				return nil
			},
		},
	)

	return cmd
}

func newIdeaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea",
		Short: "Manage ideas",
	}

	var status, category, description string
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, ok := domain.ParseEnum(status, domain.ValidIdeaStatuses, domain.IdeaNew)
			if !ok && status != "" {
				return fmt.Errorf("unknown idea status %q: %w", status, domain.ErrInvalidInput)
			}
			idea, err := app.Ideas.Create(cmd.Context(), domain.Idea{
				Title: args[0], Status: st, Category: category, Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created idea %s [%s]\n", idea.Title, idea.ID)
			return nil
		},
	}
	add.Flags().StringVar(&status, "status", "", "new, considering, planned, approved or rejected")
	add.Flags().StringVar(&category, "category", "", "Category")
	add.Flags().StringVar(&description, "description", "", "Description")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List ideas with their links and backlinks",
			RunE: func(cmd *cobra.Command, args []string) error {
				ideas, err := app.Ideas.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIdeas(ideas))
				return nil
			},
		},
		add,
		&cobra.Command{
			Use:   "link FROM TO",
			Short: "Link one idea to another",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Ideas.Link(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Linked %s -> %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm ID",
			Short: "Delete an idea",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Ideas.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted idea %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

func newStrategyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Build vision to tactics cascades",
	}

	var date string
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Start a strategy builder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := app.Strategy.Create(cmd.Context(), domain.StrategicLevelsBuilder{Title: args[0], Date: date})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created strategy %s [%s]\n", b.Title, b.ID)
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")

	var levelType, parent, levelDescription string
	level := &cobra.Command{
		Use:   "level BUILDER TITLE",
		Short: "Add a level to a strategy builder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lt, ok := domain.ParseEnum(levelType, domain.ValidLevels, "")
			if !ok {
				return fmt.Errorf("unknown level %q: %w", levelType, domain.ErrInvalidInput)
			}
			l, err := app.Strategy.AddLevel(cmd.Context(), args[0], domain.StrategicLevel{
				Title: args[1], Level: lt, ParentID: parent, Description: levelDescription,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s [%s]\n", l.Level, l.Title, l.ID)
			return nil
		},
	}
	level.Flags().StringVar(&levelType, "type", "", "vision, mission, goals, objectives, strategies or tactics")
	level.Flags().StringVar(&parent, "parent", "", "Parent level id")
	level.Flags().StringVar(&levelDescription, "description", "", "Description")
	_ = level.MarkFlagRequired("type")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show every strategy builder as a tree",
			RunE: func(cmd *cobra.Command, args []string) error {
				builders, err := app.Strategy.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(builders) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No strategy builders."))
					return nil
				}
				for i, b := range builders {
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStrategy(b))
				}
				return nil
			},
		},
		add,
		level,
	)

	return cmd
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show or change project settings",
	}

	var start string
	var daysPerWeek int
	var assignees, tags []string
	set := &cobra.Command{
		Use:   "set",
		Short: "Change project settings; only the given flags are touched",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOptionalDate(start); err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}
			changed := cmd.Flags().Changed
			cfg, err := app.Project.Update(cmd.Context(), func(c *domain.ProjectConfig) {
				if changed("start") {
					c.StartDate = start
				}
				if changed("days-per-week") {
					c.WorkingDaysPerWeek = daysPerWeek
				}
				if changed("assignees") {
					c.Assignees = assignees
				}
				if changed("tags") {
					c.Tags = tags
				}
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project updated %s\n", cfg.LastUpdated)
			return nil
		},
	}
	set.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	set.Flags().IntVar(&daysPerWeek, "days-per-week", 0, "Working days per week")
	set.Flags().StringSliceVar(&assignees, "assignees", nil, "Known assignees")
	set.Flags().StringSliceVar(&tags, "tags", nil, "Known tags")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show project settings",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := app.Project.Get(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Start", formatter.OrDash(cfg.StartDate)},
					{"Days/week", fmt.Sprint(cfg.WorkingDaysPerWeek)},
					{"Working days", formatter.OrDash(strings.Join(cfg.WorkingDays, ", "))},
					{"Assignees", formatter.OrDash(strings.Join(cfg.Assignees, ", "))},
					{"Tags", formatter.OrDash(strings.Join(cfg.Tags, ", "))},
					{"Updated", formatter.OrDash(cfg.LastUpdated)},
				}
				for _, l := range cfg.Links {
					rows = append(rows, []string{"Link", l.Title + " " + formatter.Dim(l.URL)})
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"SETTING", "VALUE"}, rows))
				return nil
			},
		},
		set,
	)

	return cmd
}
