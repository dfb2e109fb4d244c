package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/lotline/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByKey(ctx context.Context, organizationID, key string) (*domain.Project, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type StageRepo interface {
	Create(ctx context.Context, s *domain.Stage) error
	GetByID(ctx context.Context, id string) (*domain.Stage, error)
	GetByKey(ctx context.Context, projectID, key string) (*domain.Stage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Stage, error)
	Delete(ctx context.Context, id string) error
}

type ItemRepo interface {
	Create(ctx context.Context, it *domain.Item) error
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Item, error)
	Delete(ctx context.Context, id string) error
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Sprint, error)
	UpdateStatus(ctx context.Context, s *domain.Sprint) error
}

// IssuePosition is one row of a bulk reorder.
type IssuePosition struct {
	ID       string
	StatusID string
	Order    int
	Track    []string
}

type IssueRepo interface {
	Create(ctx context.Context, i *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	GetView(ctx context.Context, id string) (*domain.IssueView, error)
	// MaxOrder returns the highest order in the (project, stage) column, or
	// -1 when the column is empty.
	MaxOrder(ctx context.Context, projectID, stageID string) (int, error)
	// Update writes the mutable transition fields: stage, priority, assignee,
	// track and updated_at.
	Update(ctx context.Context, i *domain.Issue) error
	// DecrementQuantity sets quantity to i.Quantity and marks the batch split,
	// provided the stored quantity still equals expected. Otherwise it
	// returns domain.ErrConcurrentUpdate.
	DecrementQuantity(ctx context.Context, i *domain.Issue, expected int) error
	UpdatePosition(ctx context.Context, pos IssuePosition, updatedAt time.Time) error
	ListColumnOrders(ctx context.Context, projectID, stageID string) ([]int, error)
	Delete(ctx context.Context, id string) error
	CountByStage(ctx context.Context, stageID string) (int, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Issue, error)
	ListViewsBySprint(ctx context.Context, sprintID string) ([]*domain.IssueView, error)
	ListViewsByProject(ctx context.Context, projectID string) ([]*domain.IssueView, error)
	ListViewsForUser(ctx context.Context, userID, organizationID string) ([]*domain.IssueView, error)
	// InventoryRows sums quantity per (item, stage) for the project, optionally
	// restricted to one sprint. Items with no batches yield one row with an
	// empty stage.
	InventoryRows(ctx context.Context, projectID string, sprintID *string) ([]domain.InventoryRow, error)
}
