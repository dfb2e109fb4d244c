package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
)

// authorizeProject loads the project and checks that the actor's tenant
// owns it.
func authorizeProject(ctx context.Context, projects repository.ProjectRepo, actor domain.Actor, projectID string) (*domain.Project, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	p, err := projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(p.OrganizationID) {
		return nil, fmt.Errorf("project %s belongs to another organization: %w", p.ID, domain.ErrUnauthorized)
	}
	return p, nil
}

// projectAuthorizer memoizes authorizeProject across the rows of one
// bulk operation.
type projectAuthorizer struct {
	projects repository.ProjectRepo
	actor    domain.Actor
	seen     map[string]bool
}

func newProjectAuthorizer(projects repository.ProjectRepo, actor domain.Actor) *projectAuthorizer {
	return &projectAuthorizer{projects: projects, actor: actor, seen: make(map[string]bool)}
}

func (a *projectAuthorizer) check(ctx context.Context, projectID string) error {
	if a.seen[projectID] {
		return nil
	}
	if _, err := authorizeProject(ctx, a.projects, a.actor, projectID); err != nil {
		return err
	}
	a.seen[projectID] = true
	return nil
}

// stageInProject loads a stage and reports ErrNotFound when it belongs to
// another project.
func stageInProject(ctx context.Context, stages repository.StageRepo, projectID, stageID string) (*domain.Stage, error) {
	s, err := stages.GetByID(ctx, stageID)
	if err != nil {
		return nil, err
	}
	if s.ProjectID != projectID {
		return nil, fmt.Errorf("stage %s in project %s: %w", stageID, projectID, domain.ErrNotFound)
	}
	return s, nil
}

// sprintGate loads the batch's sprint, if any, and applies check to it.
func sprintGate(ctx context.Context, sprints repository.SprintRepo, sprintID *string, check func(*domain.Sprint) error) error {
	if sprintID == nil {
		return nil
	}
	sp, err := sprints.GetByID(ctx, *sprintID)
	if err != nil {
		return err
	}
	return check(sp)
}
