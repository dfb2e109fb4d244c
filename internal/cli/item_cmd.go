package cli

import (
	"fmt"

	"github.com/alexanderramin/lotline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the item catalog",
	}
	cmd.PersistentFlags().StringVarP(&project, "project", "p", "", "Project key or id")

	cmd.AddCommand(
		newItemAddCmd(app, &project),
		newItemListCmd(app, &project),
		newItemRemoveCmd(app, &project),
	)

	return cmd
}

func newItemAddCmd(app *App, project *string) *cobra.Command {
	var name string
	var reorder int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item",
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
			it, err := app.Items.Create(ctx, actor, p.ID, name, reorder)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added item %s (reorder at %d)\n", it.Name, it.ReorderValue)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Item name")
	cmd.Flags().IntVar(&reorder, "reorder", 0, "Stock level at or below which the item is flagged")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newItemListCmd(app *App, project *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List items",
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
			items, err := app.Items.List(ctx, actor, p.ID)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items found.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItemList(items))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App, project *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm ITEM",
		Short: "Delete an item and every batch of it",
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
			it, err := resolveItem(ctx, app, actor, p.ID, args[0])
			if err != nil {
				return err
			}
			if err := app.confirm(fmt.Sprintf("Delete item %s and all its batches?", it.Name), yes); err != nil {
				return err
			}
			if err := app.Items.Delete(ctx, actor, it.ID, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed item %s\n", it.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
