package app

import (
	"context"

	"github.com/alexanderramin/lotline/internal/domain"
)

// TransitionIssueUseCase moves, splits or consumes a batch.
type TransitionIssueUseCase interface {
	UpdateIssue(ctx context.Context, actor domain.Actor, issueID string, req UpdateIssueRequest) (*TransitionResult, error)
}

// ReorderIssuesUseCase re-sequences batches on the board atomically.
type ReorderIssuesUseCase interface {
	ReorderIssues(ctx context.Context, actor domain.Actor, rows []ReorderRow) error
}

// InventoryUseCase reads the stock picture of a project.
type InventoryUseCase interface {
	Inventory(ctx context.Context, actor domain.Actor, projectID string, sprintID *string) (*InventoryReport, error)
}
