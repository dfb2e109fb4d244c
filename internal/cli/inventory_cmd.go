package cli

import (
	"fmt"

	"github.com/alexanderramin/lotline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newInventoryCmd(app *App) *cobra.Command {
	var project, sprint string
	var lowOnly bool

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Show per-item quantities by stage and flag low stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			actor, err := app.actor(cmd)
			if err != nil {
				return err
			}
			p, err := resolveProject(ctx, app, actor, project)
			if err != nil {
				return err
			}
			var sprintID *string
			if sprint != "" {
				sp, err := resolveSprint(ctx, app, actor, p.ID, sprint)
				if err != nil {
					return err
				}
				sprintID = &sp.ID
			}

			report, err := app.inventoryUseCase().Inventory(ctx, actor, p.ID, sprintID)
			if err != nil {
				return err
			}
			if lowOnly {
				report.Items = report.LowStock()
			}
			if len(report.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items to report.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatInventory(report))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project key or id")
	cmd.Flags().StringVar(&sprint, "sprint", "", "Limit to one sprint (id or name)")
	cmd.Flags().BoolVar(&lowOnly, "low", false, "Only show items at or below their reorder value")

	return cmd
}
