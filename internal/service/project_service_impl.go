package service

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create inserts the project together with its seed stages.
func (s *projectService) Create(ctx context.Context, actor domain.Actor, req app.CreateProjectRequest) (project *domain.Project, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"key": req.Key}
	defer func() { observe(ctx, s.observer, "create-project", startedAt, fields, err) }()

	if err := actor.RequireAdmin(); err != nil {
		return nil, err
	}
	now := nowUTC()
	project = &domain.Project{
		ID:             uuid.New().String(),
		OrganizationID: actor.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Key:            strings.ToUpper(strings.TrimSpace(req.Key)),
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if project.Name == "" {
		return nil, invalidInput("project name is required")
	}
	if err := project.ValidateKey(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, project); err != nil {
			return err
		}
		stages := repository.NewSQLiteStageRepo(tx)
		for _, st := range domain.DefaultStages(project.ID) {
			st.ID = uuid.New().String()
			if err := stages.Create(ctx, st); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classify("creating project", err)
	}
	fields["project_id"] = project.ID
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error) {
	p, err := authorizeProject(ctx, s.projects, actor, id)
	return p, classify("loading project", err)
}

func (s *projectService) Resolve(ctx context.Context, actor domain.Actor, ref string) (*domain.Project, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	p, err := s.projects.GetByKey(ctx, actor.OrganizationID, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, classify("resolving project", err)
	}
	return s.GetByID(ctx, actor, ref)
}

func (s *projectService) List(ctx context.Context, actor domain.Actor) ([]*domain.Project, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	projects, err := s.projects.ListByOrganization(ctx, actor.OrganizationID)
	return projects, classify("listing projects", err)
}

// Delete removes the project; its stages, items, sprints and batches cascade.
func (s *projectService) Delete(ctx context.Context, actor domain.Actor, id string) (err error) {
	startedAt := nowUTC()
	fields := map[string]any{"project_id": id}
	defer func() { observe(ctx, s.observer, "delete-project", startedAt, fields, err) }()

	if err := actor.RequireAdmin(); err != nil {
		return err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		if _, err := authorizeProject(ctx, projects, actor, id); err != nil {
			return err
		}
		return projects.Delete(ctx, id)
	})
	return classify("deleting project", err)
}
