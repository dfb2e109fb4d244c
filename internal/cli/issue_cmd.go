package cli

import (
	"fmt"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/cli/formatter"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/spf13/cobra"
)

func newIssueCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:     "issue",
		Aliases: []string{"batch"},
		Short:   "Open, move, split and consume batches",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project key or id")

	cmd.AddCommand(
		newIssueAddCmd(app, &project),
		newIssueMoveCmd(app, &project),
		newIssueShowCmd(app, &project),
		newIssueRemoveCmd(app, &project),
		newIssueListCmd(app, &project),
		newIssueMineCmd(app),
		newIssueLineageCmd(app, &project),
	)

	return cmd
}

func newIssueAddCmd(a *App, project *string) *cobra.Command {
	var item, stage, assignee, sprint, note string
	var qty int
	var priority priorityValue
	var unit unitValue

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a batch at a stage",
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
			it, err := resolveItem(ctx, a, actor, p.ID, item)
			if err != nil {
				return err
			}
			st, err := a.Stages.Resolve(ctx, actor, p.ID, stage)
			if err != nil {
				return fmt.Errorf("stage %q: %w", stage, err)
			}
			assigneeID, err := resolveAssignee(ctx, a, assignee)
			if err != nil {
				return err
			}
			req := app.CreateIssueRequest{
				ItemID:      it.ID,
				StageID:     st.ID,
				Priority:    domain.Priority(priority),
				AssigneeID:  assigneeID,
				Description: note,
				Quantity:    qty,
				Unit:        domain.Unit(unit),
			}
			if sprint != "" {
				sp, err := resolveSprint(ctx, a, actor, p.ID, sprint)
				if err != nil {
					return err
				}
				req.SprintID = &sp.ID
			}

			v, err := a.Issues.Create(ctx, actor, p.ID, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Opened batch %s: %s of %s at %s\n",
				v.ID, formatter.Quantity(v.Quantity, v.Unit), it.Name, st.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&item, "item", "", "Item name or id")
	cmd.Flags().StringVar(&stage, "stage", "TODO", "Stage key or id")
	cmd.Flags().IntVarP(&qty, "qty", "q", 0, "Quantity")
	addUnitFlag(cmd.Flags(), &unit, domain.UnitPieces, "PIECES, KILOGRAM, UNITS, GRAM or TONNE")
	addPriorityFlag(cmd.Flags(), &priority, domain.PriorityMedium, "LOW, MEDIUM, HIGH or URGENT")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee external user id")
	cmd.Flags().StringVar(&sprint, "sprint", "", "Sprint id or name")
	cmd.Flags().StringVar(&note, "note", "", "Description")
	_ = cmd.MarkFlagRequired("item")
	_ = cmd.MarkFlagRequired("qty")

	return cmd
}

func newIssueMoveCmd(a *App, project *string) *cobra.Command {
	var to, assignee string
	var qty int
	var priority priorityValue

	cmd := &cobra.Command{
		Use:   "move BATCH",
		Short: "Move some or all of a batch to another stage",
		Long: `Move some or all of a batch to another stage.

Moving the whole batch relocates it; moving it whole into the consuming stage
deletes it. Moving part of a batch splits off a child batch at the target
stage, or only shrinks the batch when the target consumes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := a.actor(cmd)
			if err != nil {
				return err
			}
			v, err := resolveIssue(ctx, a, actor, *project, args[0])
			if err != nil {
				return err
			}
			dest, err := a.Stages.Resolve(ctx, actor, v.ProjectID, to)
			if err != nil {
				return fmt.Errorf("stage %q: %w", to, err)
			}

			req := app.UpdateIssueRequest{
				StatusID:   dest.ID,
				Priority:   domain.Priority(priority),
				AssigneeID: v.AssigneeID,
				Quantity:   qty,
			}
			if !cmd.Flags().Changed("qty") {
				req.Quantity = v.Quantity
			}
			if cmd.Flags().Changed("assignee") {
				if req.AssigneeID, err = resolveAssignee(ctx, a, assignee); err != nil {
					return err
				}
			}

			res, err := a.transitionIssueUseCase().UpdateIssue(ctx, actor, v.ID, req)
			if err != nil {
				return err
			}
			names, err := stageNames(ctx, a, actor, v.ProjectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTransition(res, req.Quantity, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Target stage key or id")
	cmd.Flags().IntVarP(&qty, "qty", "q", 0, "Quantity to move (default: the whole batch)")
	addPriorityFlag(cmd.Flags(), &priority, "", "New priority (default: keep)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "New assignee external id, or none (default: keep)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newIssueShowCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show BATCH",
		Short: "Show a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			v, err := resolveIssue(ctx, app, actor, *project, args[0])
			if err != nil {
				return err
			}
			names, err := stageNames(ctx, app, actor, v.ProjectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatIssue(v, names))
			return nil
		},
	}
}

func newIssueRemoveCmd(app *App, project *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm BATCH",
		Short: "Delete a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			v, err := resolveIssue(ctx, app, actor, *project, args[0])
			if err != nil {
				return err
			}
			if err := app.confirm(fmt.Sprintf("Delete batch %s?", v.ID), yes); err != nil {
				return err
			}
			if err := app.Issues.Delete(ctx, actor, v.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed batch %s\n", v.ID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newIssueListCmd(app *App, project *string) *cobra.Command {
	var sprint string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's board, or one sprint's batches",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}

			var projectID string
			var views []*domain.IssueView
			if sprint != "" {
				if *project != "" {
					p, err := resolveProject(ctx, app, actor, *project)
					if err != nil {
						return err
					}
					projectID = p.ID
				}
				sp, err := resolveSprint(ctx, app, actor, projectID, sprint)
				if err != nil {
					return err
				}
				projectID = sp.ProjectID
				views, err = app.Issues.ListForSprint(ctx, actor, sp.ID)
				if err != nil {
					return err
				}
			} else {
				p, err := resolveProject(ctx, app, actor, *project)
				if err != nil {
					return err
				}
				projectID = p.ID
				views, err = app.Issues.ListByProject(ctx, actor, p.ID)
				if err != nil {
					return err
				}
			}

			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batches found.")
				return nil
			}
			names, err := stageNames(ctx, app, actor, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIssueList(views, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&sprint, "sprint", "", "Sprint id or name")

	return cmd
}

func newIssueMineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List batches you reported or are assigned to",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			views, err := app.Issues.ListForUser(ctx, actor)
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batches found.")
				return nil
			}
			projectIDs := make([]string, len(views))
			for i, v := range views {
				projectIDs[i] = v.ProjectID
			}
			names, err := stageNames(ctx, app, actor, projectIDs...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIssueList(views, names))
			return nil
		},
	}
}

func newIssueLineageCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "lineage BATCH",
		Short: "Show the batches a batch was split from and split into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			v, err := resolveIssue(ctx, app, actor, *project, args[0])
			if err != nil {
				return err
			}
			lineage, err := app.Issues.Lineage(ctx, actor, v.ID)
			if err != nil {
				return err
			}
			names, err := stageNames(ctx, app, actor, v.ProjectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLineage(lineage, names))
			return nil
		},
	}
}
