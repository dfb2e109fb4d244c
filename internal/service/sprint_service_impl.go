package service

import (
	"context"
	"strings"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/google/uuid"
)

type sprintService struct {
	projects repository.ProjectRepo
	sprints  repository.SprintRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSprintService(projects repository.ProjectRepo, sprints repository.SprintRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SprintService {
	return &sprintService{projects: projects, sprints: sprints, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *sprintService) Create(ctx context.Context, actor domain.Actor, projectID string, req app.CreateSprintRequest) (sprint *domain.Sprint, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"project_id": projectID, "name": req.Name}
	defer func() { observe(ctx, s.observer, "create-sprint", startedAt, fields, err) }()

	now := nowUTC()
	sprint = &domain.Sprint{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      strings.TrimSpace(req.Name),
		StartDate: req.StartDate.UTC(),
		EndDate:   req.EndDate.UTC(),
		Status:    domain.SprintPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if sprint.Name == "" {
		return nil, invalidInput("sprint name is required")
	}
	if err := sprint.ValidateWindow(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := authorizeProject(ctx, repository.NewSQLiteProjectRepo(tx), actor, projectID); err != nil {
			return err
		}
		return repository.NewSQLiteSprintRepo(tx).Create(ctx, sprint)
	})
	if err != nil {
		return nil, classify("creating sprint", err)
	}
	return sprint, nil
}

func (s *sprintService) GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.Sprint, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	sp, err := s.sprints.GetByID(ctx, id)
	if err != nil {
		return nil, classify("loading sprint", err)
	}
	if _, err := authorizeProject(ctx, s.projects, actor, sp.ProjectID); err != nil {
		return nil, classify("loading sprint", err)
	}
	return sp, nil
}

func (s *sprintService) List(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.Sprint, error) {
	if _, err := authorizeProject(ctx, s.projects, actor, projectID); err != nil {
		return nil, classify("listing sprints", err)
	}
	sprints, err := s.sprints.ListByProject(ctx, projectID)
	return sprints, classify("listing sprints", err)
}

// UpdateStatus moves the sprint forward. Only admins may start or close a
// sprint.
func (s *sprintService) UpdateStatus(ctx context.Context, actor domain.Actor, sprintID string, status domain.SprintStatus) (sprint *domain.Sprint, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"sprint_id": sprintID, "status": string(status)}
	defer func() { observe(ctx, s.observer, "update-sprint-status", startedAt, fields, err) }()

	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sprints := repository.NewSQLiteSprintRepo(tx)
		sp, err := sprints.GetByID(ctx, sprintID)
		if err != nil {
			return err
		}
		if _, err := authorizeProject(ctx, repository.NewSQLiteProjectRepo(tx), actor, sp.ProjectID); err != nil {
			return err
		}
		if err := sp.TransitionTo(status, nowUTC()); err != nil {
			return err
		}
		sprint = sp
		return sprints.UpdateStatus(ctx, sp)
	})
	if err != nil {
		return nil, classify("updating sprint status", err)
	}
	return sprint, nil
}
