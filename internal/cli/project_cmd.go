package cli

import (
	"fmt"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(a *App) *cobra.Command {
	var name, key, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project with the default stage pipeline (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.actor(cmd)
			if err != nil {
				return err
			}
			p, err := a.Projects.Create(cmd.Context(), actor, app.CreateProjectRequest{
				Name:        name,
				Key:         key,
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&key, "key", "", "Project key (2-10 uppercase letters or digits, e.g. PLT)")
	cmd.Flags().StringVar(&description, "description", "", "Optional description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the organization's projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			projects, err := app.Projects.List(cmd.Context(), actor)
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show KEY",
		Short: "Show a project's stages and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			p, err := resolveProject(ctx, app, actor, args[0])
			if err != nil {
				return err
			}
			stages, err := app.Stages.List(ctx, actor, p.ID)
			if err != nil {
				return err
			}
			items, err := app.Items.List(ctx, actor, p.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", formatter.Bold(p.Name), formatter.StylePurple.Render(p.Key))
			if p.Description != "" {
				fmt.Fprintln(out, formatter.Dim(p.Description))
			}
			fmt.Fprintf(out, "\n%s\n%s\n", formatter.Header("Stages"), formatter.FormatStageList(stages))
			fmt.Fprintf(out, "%s\n", formatter.Header("Items"))
			if len(items) == 0 {
				fmt.Fprintln(out, formatter.Dim("No items yet."))
				return nil
			}
			fmt.Fprint(out, formatter.FormatItemList(items))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm KEY",
		Short: "Delete a project with all its stages, items, sprints and batches (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			p, err := resolveProject(ctx, app, actor, args[0])
			if err != nil {
				return err
			}
			if err := app.confirm(fmt.Sprintf("Delete project %s and everything in it?", p.Key), yes); err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, actor, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.Key)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
