package cli

import (
	"fmt"

	"github.com/alexanderramin/lotline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStageCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "stage",
		Short: "Manage a project's stage pipeline",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project key or id")

	cmd.AddCommand(
		newStageAddCmd(app, &project),
		newStageListCmd(app, &project),
		newStageRemoveCmd(app, &project),
	)

	return cmd
}

func newStageAddCmd(app *App, project *string) *cobra.Command {
	var name string
	var order int
	var terminal bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a stage at the given order",
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
			s, err := app.Stages.Create(ctx, actor, p.ID, name, order, terminal)
			if err != nil {
				return err
			}
			if s.IsTerminal {
				fmt.Fprintf(cmd.OutOrStdout(), "Added consuming stage %s at order %d\n", s.Key, s.Order)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added stage %s at order %d\n", s.Key, s.Order)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Stage name")
	cmd.Flags().IntVar(&order, "order", 0, "Position in the pipeline (unique per project)")
	cmd.Flags().BoolVar(&terminal, "terminal", false, "Batches moved here are consumed (sale or exit)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("order")

	return cmd
}

func newStageListCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stages in pipeline order",
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
			stages, err := app.Stages.List(ctx, actor, p.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStageList(stages))
			return nil
		},
	}
}

func newStageRemoveCmd(app *App, project *string) *cobra.Command {
	var force, yes bool

	cmd := &cobra.Command{
		Use:   "rm STAGE",
		Short: "Delete a stage and every batch at it",
		Args:  cobra.ExactArgs(1),
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
			s, err := app.Stages.Resolve(ctx, actor, p.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.confirm(fmt.Sprintf("Delete stage %s and every batch at it?", s.Key), yes); err != nil {
				return err
			}
			n, err := app.Stages.Delete(ctx, actor, s.ID, p.ID, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed stage %s (%d batches deleted)\n", s.Key, n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Allow deleting a protected stage (admin)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
