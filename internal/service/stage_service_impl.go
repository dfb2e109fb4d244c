package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/google/uuid"
)

type stageService struct {
	projects repository.ProjectRepo
	stages   repository.StageRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewStageService(projects repository.ProjectRepo, stages repository.StageRepo, uow db.UnitOfWork, observers ...UseCaseObserver) StageService {
	return &stageService{projects: projects, stages: stages, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *stageService) Create(ctx context.Context, actor domain.Actor, projectID, name string, order int, terminal bool) (stage *domain.Stage, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"project_id": projectID, "name": name, "order": order, "terminal": terminal}
	defer func() { observe(ctx, s.observer, "create-stage", startedAt, fields, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("stage name is required")
	}
	if order < 0 {
		return nil, invalidInput("stage order must not be negative")
	}
	stage = &domain.Stage{
		ID:         uuid.New().String(),
		ProjectID:  projectID,
		Name:       name,
		Key:        domain.StageKey(name),
		Order:      order,
		IsTerminal: terminal,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := authorizeProject(ctx, repository.NewSQLiteProjectRepo(tx), actor, projectID); err != nil {
			return err
		}
		return repository.NewSQLiteStageRepo(tx).Create(ctx, stage)
	})
	if err != nil {
		return nil, classify("creating stage", err)
	}
	return stage, nil
}

func (s *stageService) List(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.Stage, error) {
	if _, err := authorizeProject(ctx, s.projects, actor, projectID); err != nil {
		return nil, classify("listing stages", err)
	}
	stages, err := s.stages.ListByProject(ctx, projectID)
	return stages, classify("listing stages", err)
}

func (s *stageService) Resolve(ctx context.Context, actor domain.Actor, projectID, ref string) (*domain.Stage, error) {
	if _, err := authorizeProject(ctx, s.projects, actor, projectID); err != nil {
		return nil, classify("resolving stage", err)
	}
	st, err := s.stages.GetByKey(ctx, projectID, ref)
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, classify("resolving stage", err)
	}
	st, err = stageInProject(ctx, s.stages, projectID, ref)
	return st, classify("resolving stage", err)
}

// Delete is admin only. Protected stages additionally need force.
func (s *stageService) Delete(ctx context.Context, actor domain.Actor, stageID, projectID string, force bool) (deleted int, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"stage_id": stageID, "project_id": projectID, "force": force}
	defer func() { observe(ctx, s.observer, "delete-stage", startedAt, fields, err) }()

	if err := actor.RequireAdmin(); err != nil {
		return 0, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		stages := repository.NewSQLiteStageRepo(tx)
		issues := repository.NewSQLiteIssueRepo(tx)

		if _, err := authorizeProject(ctx, repository.NewSQLiteProjectRepo(tx), actor, projectID); err != nil {
			return err
		}
		stage, err := stageInProject(ctx, stages, projectID, stageID)
		if err != nil {
			return err
		}
		if stage.IsProtected && !force {
			return fmt.Errorf("stage %s: %w", stage.Key, domain.ErrProtectedStage)
		}

		deleted, err = issues.CountByStage(ctx, stageID)
		if err != nil {
			return err
		}
		return stages.Delete(ctx, stageID)
	})
	if err != nil {
		return 0, classify("deleting stage", err)
	}
	fields["deleted_issues"] = deleted
	return deleted, nil
}
