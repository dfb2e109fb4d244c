package service

import (
	"context"
	"time"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/domain"
)

type UserService interface {
	// EnsureUser returns the user with externalID, creating it on first sight
	// and refreshing email and name when they change.
	EnsureUser(ctx context.Context, externalID, email, name string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}

type ProjectService interface {
	Create(ctx context.Context, actor domain.Actor, req app.CreateProjectRequest) (*domain.Project, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.Project, error)
	// Resolve accepts a project id or key.
	Resolve(ctx context.Context, actor domain.Actor, ref string) (*domain.Project, error)
	List(ctx context.Context, actor domain.Actor) ([]*domain.Project, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type StageService interface {
	// Create adds a stage. A terminal stage consumes batches moved into it.
	Create(ctx context.Context, actor domain.Actor, projectID, name string, order int, terminal bool) (*domain.Stage, error)
	List(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.Stage, error)
	// Resolve accepts a stage id or key within the project.
	Resolve(ctx context.Context, actor domain.Actor, projectID, ref string) (*domain.Stage, error)
	// Delete removes the stage and every batch at it, returning how many
	// batches went with it. Admin only; protected stages also need force.
	Delete(ctx context.Context, actor domain.Actor, stageID, projectID string, force bool) (int, error)
}

type ItemService interface {
	Create(ctx context.Context, actor domain.Actor, projectID, name string, reorderValue int) (*domain.Item, error)
	List(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.Item, error)
	Delete(ctx context.Context, actor domain.Actor, itemID, projectID string) error
}

type SprintService interface {
	Create(ctx context.Context, actor domain.Actor, projectID string, req app.CreateSprintRequest) (*domain.Sprint, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.Sprint, error)
	List(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.Sprint, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, sprintID string, status domain.SprintStatus) (*domain.Sprint, error)
}

type IssueService interface {
	app.TransitionIssueUseCase
	Create(ctx context.Context, actor domain.Actor, projectID string, req app.CreateIssueRequest) (*domain.IssueView, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.IssueView, error)
	Delete(ctx context.Context, actor domain.Actor, issueID string) error
	ListForSprint(ctx context.Context, actor domain.Actor, sprintID string) ([]*domain.IssueView, error)
	ListByProject(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.IssueView, error)
	ListForUser(ctx context.Context, actor domain.Actor) ([]*domain.IssueView, error)
	Lineage(ctx context.Context, actor domain.Actor, issueID string) (*app.Lineage, error)
}

type ReorderService interface {
	app.ReorderIssuesUseCase
}

type InventoryService interface {
	app.InventoryUseCase
}

// nowUTC is the service clock, truncated to the storage precision.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
