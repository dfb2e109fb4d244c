package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Users     service.UserService
	Projects  service.ProjectService
	Stages    service.StageService
	Items     service.ItemService
	Sprints   service.SprintService
	Issues    service.IssueService
	Reorder   service.ReorderService
	Inventory service.InventoryService

	// Optional use-case overrides; nil falls back to the services above.
	TransitionIssue app.TransitionIssueUseCase
	ReorderIssues   app.ReorderIssuesUseCase
	InventoryReport app.InventoryUseCase

	// Actor is the configured identity. The --user, --org and --role flags
	// override it per invocation.
	Actor domain.Actor

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh form when interactive.
	Confirm func(title string) (bool, error)
	// Now is the display clock. Nil means time.Now.
	Now func() time.Time

	flags globalFlags
}

type globalFlags struct {
	user string
	org  string
	role string
}

// NewRootCmd creates the top-level "lotline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "lotline",
		Short:         "Batch lifecycle and split tracking for production stages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.flags = globalFlags{}
	pf := root.PersistentFlags()
	pf.StringVar(&app.flags.user, "user", "", "Act as this external user id (overrides identity.user)")
	pf.StringVar(&app.flags.org, "org", "", "Act within this organization (overrides identity.org)")
	pf.StringVar(&app.flags.role, "role", "", "Act with this role: member or admin (overrides identity.role)")

	root.AddCommand(
		newProjectCmd(app),
		newStageCmd(app),
		newItemCmd(app),
		newSprintCmd(app),
		newIssueCmd(app),
		newReorderCmd(app),
		newInventoryCmd(app),
	)

	return root
}

// actor resolves the identity for one command from config and flags.
func (a *App) actor(cmd *cobra.Command) (domain.Actor, error) {
	actor := a.Actor
	if a.flags.user != "" {
		u, err := a.Users.EnsureUser(cmd.Context(), a.flags.user, "", "")
		if err != nil {
			return domain.Actor{}, fmt.Errorf("resolving --user %q: %w", a.flags.user, err)
		}
		actor.UserID = u.ID
	}
	if a.flags.org != "" {
		actor.OrganizationID = a.flags.org
	}
	switch domain.Role(a.flags.role) {
	case "":
	case domain.RoleAdmin, domain.RoleMember:
		actor.Role = domain.Role(a.flags.role)
	default:
		return domain.Actor{}, fmt.Errorf("invalid --role %q: must be member or admin", a.flags.role)
	}
	if err := actor.Validate(); err != nil {
		return domain.Actor{}, fmt.Errorf("no identity configured (set identity.user and identity.org, or pass --user and --org): %w", err)
	}
	return actor, nil
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// confirm gates destructive commands. --yes skips the question; without it a
// non-interactive session refuses.
func (a *App) confirm(title string, yes bool) error {
	if yes {
		return nil
	}
	ask := a.Confirm
	if ask == nil {
		if a.IsInteractive == nil || !a.IsInteractive() {
			return fmt.Errorf("%s: refusing without --yes in a non-interactive session", title)
		}
		ask = runConfirmForm
	}
	ok, err := ask(title)
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return nil
}
