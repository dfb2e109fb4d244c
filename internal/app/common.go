package app

import (
	"time"

	"github.com/alexanderramin/lotline/internal/domain"
)

type CreateProjectRequest struct {
	Name        string
	Key         string
	Description string
}

type CreateSprintRequest struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// CreateIssueRequest opens a new batch at StageID.
type CreateIssueRequest struct {
	ItemID      string
	StageID     string
	Priority    domain.Priority
	AssigneeID  *string
	Description string
	Quantity    int
	Unit        domain.Unit
	SprintID    *string
}

// UpdateIssueRequest moves Quantity units of a batch to StatusID. An empty
// Priority keeps the current one. AssigneeID replaces the current assignee;
// nil unassigns.
type UpdateIssueRequest struct {
	StatusID   string
	Priority   domain.Priority
	AssigneeID *string
	Quantity   int
}

// TransitionResult reports what a move did. Issue is the batch the caller
// should now display: the moved batch, the new child of a split, or the
// shrunken source of a partial sale. It is nil when the batch was consumed,
// in which case DeletedID names it.
type TransitionResult struct {
	Kind      domain.TransitionKind
	Issue     *domain.IssueView
	DeletedID string
}

// Deleted reports whether the move consumed the batch.
func (r TransitionResult) Deleted() bool {
	return r.Kind == domain.TransitionConsumed
}

// ReorderRow is one batch's new position on the board. A nil Track keeps
// the stored one.
type ReorderRow struct {
	ID       string   `json:"id"`
	StatusID string   `json:"statusId"`
	Order    int      `json:"order"`
	Track    []string `json:"track,omitempty"`
}

// Lineage is a batch with the chain of batches it was split from and the
// batches split from it.
type Lineage struct {
	Issue *domain.IssueView
	// Ancestors runs from the direct parent up to the root.
	Ancestors []*domain.Issue
	Children  []*domain.Issue
}

// InventoryReport is the per-item stock picture of a project.
type InventoryReport struct {
	ProjectID  string
	SprintID   *string
	StockStage string
	Stages     []*domain.Stage
	Rows       []domain.InventoryRow
	Items      []domain.ItemStock
}

// LowStock returns the items at or below their reorder value.
func (r *InventoryReport) LowStock() []domain.ItemStock {
	var low []domain.ItemStock
	for _, it := range r.Items {
		if it.LowStock {
			low = append(low, it)
		}
	}
	return low
}
