package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/cli/formatter"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/spf13/cobra"
)

func newSprintCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Plan and run sprints",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project key or id")

	cmd.AddCommand(
		newSprintAddCmd(app, &project),
		newSprintListCmd(app, &project),
		newSprintStatusCmd(app, &project, "start", domain.SprintActive),
		newSprintStatusCmd(app, &project, "complete", domain.SprintCompleted),
	)

	return cmd
}

func newSprintAddCmd(a *App, project *string) *cobra.Command {
	var name, start, end string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Plan a sprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := a.actor(cmd)
			if err != nil {
				return err
			}
			p, err := resolveProject(ctx, a, actor, *project)
			if err != nil {
				return err
			}

			if (start == "" || end == "") && a.IsInteractive != nil && a.IsInteractive() {
				if err := sprintWindowForm(&start, &end).Run(); err != nil {
					return err
				}
			}
			if start == "" || end == "" {
				return fmt.Errorf("--start and --end are required")
			}
			startDate, err := parseDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDate("end", end)
			if err != nil {
				return err
			}

			sp, err := a.Sprints.Create(ctx, actor, p.ID, app.CreateSprintRequest{
				Name:      name,
				StartDate: startDate,
				// The end date is inclusive.
				EndDate: endDate.Add(24*time.Hour - time.Second),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Planned sprint %s (%s)\n", sp.Name, sp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Sprint name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newSprintListCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			p, err := resolveProject(ctx, app, actor, *project)
			if err != nil {
				return err
			}
			sprints, err := app.Sprints.List(ctx, actor, p.ID)
			if err != nil {
				return err
			}
			if len(sprints) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sprints found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSprintList(sprints, app.now()))
			return nil
		},
	}
}

func newSprintStatusCmd(app *App, project *string, verb string, target domain.SprintStatus) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " SPRINT",
		Short: fmt.Sprintf("Move a sprint to %s (admin)", target),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			projectID := ""
			if *project != "" {
				p, err := resolveProject(ctx, app, actor, *project)
				if err != nil {
					return err
				}
				projectID = p.ID
			}
			sp, err := resolveSprint(ctx, app, actor, projectID, args[0])
			if err != nil {
				return err
			}
			sp, err = app.Sprints.UpdateStatus(ctx, actor, sp.ID, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sprint %s is now %s\n", sp.Name, formatter.SprintStatusPill(sp.Status))
			return nil
		},
	}
}
