package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alexanderramin/lotline/internal/cli"
	"github.com/alexanderramin/lotline/internal/config"
	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/alexanderramin/lotline/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir, err := config.DefaultDir()
	if err != nil {
		return err
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()
	logger.Debug("database opened", "path", cfg.DBPath)

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	projectRepo := repository.NewSQLiteProjectRepo(database)
	stageRepo := repository.NewSQLiteStageRepo(database)
	itemRepo := repository.NewSQLiteItemRepo(database)
	sprintRepo := repository.NewSQLiteSprintRepo(database)
	issueRepo := repository.NewSQLiteIssueRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.Log.UseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	issueSvc := service.NewIssueService(projectRepo, issueRepo, sprintRepo, uow, observer)
	reorderSvc := service.NewReorderService(uow, cfg.Reorder.Strict, observer)
	inventorySvc := service.NewInventoryService(projectRepo, stageRepo, sprintRepo, issueRepo, cfg.Inventory.StockStage)

	app := &cli.App{
		Users:     service.NewUserService(userRepo, uow, observer),
		Projects:  service.NewProjectService(projectRepo, uow, observer),
		Stages:    service.NewStageService(projectRepo, stageRepo, uow, observer),
		Items:     service.NewItemService(projectRepo, itemRepo, uow, observer),
		Sprints:   service.NewSprintService(projectRepo, sprintRepo, uow, observer),
		Issues:    issueSvc,
		Reorder:   reorderSvc,
		Inventory: inventorySvc,

		TransitionIssue: issueSvc,
		ReorderIssues:   reorderSvc,
		InventoryReport: inventorySvc,
	}

	// Resolve the configured identity; flags may still override it per command.
	app.Actor = domain.Actor{
		OrganizationID: cfg.Identity.Org,
		Role:           domain.Role(strings.ToLower(cfg.Identity.Role)),
	}
	if cfg.Identity.User != "" {
		u, err := app.Users.EnsureUser(context.Background(), cfg.Identity.User, cfg.Identity.Email, cfg.Identity.Name)
		if err != nil {
			return fmt.Errorf("resolving identity.user: %w", err)
		}
		app.Actor.UserID = u.ID
	}

	// Detect interactive terminal for confirmation prompts and forms.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
