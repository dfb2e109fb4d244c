package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/google/uuid"
)

type issueService struct {
	projects repository.ProjectRepo
	issues   repository.IssueRepo
	sprints  repository.SprintRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewIssueService(
	projects repository.ProjectRepo,
	issues repository.IssueRepo,
	sprints repository.SprintRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) IssueService {
	return &issueService{
		projects: projects,
		issues:   issues,
		sprints:  sprints,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// txRepos are the repositories scoped to one transaction.
type txRepos struct {
	projects repository.ProjectRepo
	stages   repository.StageRepo
	items    repository.ItemRepo
	sprints  repository.SprintRepo
	users    repository.UserRepo
	issues   repository.IssueRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		projects: repository.NewSQLiteProjectRepo(tx),
		stages:   repository.NewSQLiteStageRepo(tx),
		items:    repository.NewSQLiteItemRepo(tx),
		sprints:  repository.NewSQLiteSprintRepo(tx),
		users:    repository.NewSQLiteUserRepo(tx),
		issues:   repository.NewSQLiteIssueRepo(tx),
	}
}

// Create opens a batch at the bottom of its stage column.
func (s *issueService) Create(ctx context.Context, actor domain.Actor, projectID string, req app.CreateIssueRequest) (view *domain.IssueView, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"project_id": projectID, "item_id": req.ItemID, "stage_id": req.StageID, "quantity": req.Quantity}
	defer func() { observe(ctx, s.observer, "create-issue", startedAt, fields, err) }()

	now := nowUTC()
	issue := &domain.Issue{
		ID:          uuid.New().String(),
		ItemID:      req.ItemID,
		Description: req.Description,
		StatusID:    req.StageID,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		ReporterID:  actor.UserID,
		ProjectID:   projectID,
		SprintID:    req.SprintID,
		Track:       []string{req.StageID},
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if issue.Priority == "" {
		issue.Priority = domain.PriorityMedium
	}
	if issue.Unit == "" {
		issue.Unit = domain.UnitPieces
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		if _, err := authorizeProject(ctx, r.projects, actor, projectID); err != nil {
			return err
		}
		item, err := r.items.GetByID(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if item.ProjectID != projectID {
			return fmt.Errorf("item %s in project %s: %w", req.ItemID, projectID, domain.ErrNotFound)
		}
		if _, err := stageInProject(ctx, r.stages, projectID, req.StageID); err != nil {
			return err
		}
		if req.SprintID != nil {
			sp, err := r.sprints.GetByID(ctx, *req.SprintID)
			if err != nil {
				return err
			}
			if sp.ProjectID != projectID {
				return fmt.Errorf("sprint %s in project %s: %w", sp.ID, projectID, domain.ErrNotFound)
			}
			if err := sp.CheckAcceptsNewBatches(); err != nil {
				return err
			}
		}
		if err := checkAssignee(ctx, r.users, req.AssigneeID); err != nil {
			return err
		}
		if err := issue.Validate(); err != nil {
			return err
		}

		last, err := r.issues.MaxOrder(ctx, projectID, req.StageID)
		if err != nil {
			return err
		}
		issue.Order = last + 1
		if err := r.issues.Create(ctx, issue); err != nil {
			return err
		}
		view, err = r.issues.GetView(ctx, issue.ID)
		return err
	})
	if err != nil {
		return nil, classify("creating issue", err)
	}
	fields["issue_id"] = issue.ID
	fields["order"] = issue.Order
	return view, nil
}

// UpdateIssue moves req.Quantity units of the batch to req.StatusID. A full
// move relocates the batch, or deletes it when the destination is terminal.
// A partial move shrinks the batch and, unless the destination is terminal,
// opens a child batch there. Everything happens in one transaction.
func (s *issueService) UpdateIssue(ctx context.Context, actor domain.Actor, issueID string, req app.UpdateIssueRequest) (result *app.TransitionResult, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"issue_id": issueID, "status_id": req.StatusID, "quantity": req.Quantity}
	defer func() { observe(ctx, s.observer, "update-issue", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)

		issue, err := r.issues.GetByID(ctx, issueID)
		if err != nil {
			return err
		}
		if _, err := authorizeProject(ctx, r.projects, actor, issue.ProjectID); err != nil {
			return err
		}
		if err := sprintGate(ctx, r.sprints, issue.SprintID, (*domain.Sprint).CheckMutable); err != nil {
			return err
		}
		dest, err := stageInProject(ctx, r.stages, issue.ProjectID, req.StatusID)
		if err != nil {
			return err
		}
		if err := checkAssignee(ctx, r.users, req.AssigneeID); err != nil {
			return err
		}

		outcome, err := issue.ApplyMove(domain.Move{
			Destination: dest,
			Priority:    req.Priority,
			AssigneeID:  req.AssigneeID,
			Quantity:    req.Quantity,
		}, uuid.New().String(), nowUTC())
		if err != nil {
			return err
		}

		result = &app.TransitionResult{Kind: outcome.Kind}
		var shown string
		switch outcome.Kind {
		case domain.TransitionConsumed:
			result.DeletedID = issue.ID
			return r.issues.Delete(ctx, issue.ID)
		case domain.TransitionMoved:
			if err := r.issues.Update(ctx, issue); err != nil {
				return err
			}
			shown = issue.ID
		case domain.TransitionPartiallyConsumed:
			if err := r.issues.DecrementQuantity(ctx, issue, outcome.PreviousQuantity); err != nil {
				return err
			}
			shown = issue.ID
		case domain.TransitionSplit:
			if err := r.issues.DecrementQuantity(ctx, issue, outcome.PreviousQuantity); err != nil {
				return err
			}
			if err := r.issues.Create(ctx, outcome.Child); err != nil {
				return err
			}
			shown = outcome.Child.ID
		}
		result.Issue, err = r.issues.GetView(ctx, shown)
		return err
	})
	if err != nil {
		return nil, classify("updating issue", err)
	}
	fields["kind"] = string(result.Kind)
	return result, nil
}

// Delete removes a batch. Split parents are kept while they carry lineage.
func (s *issueService) Delete(ctx context.Context, actor domain.Actor, issueID string) (err error) {
	startedAt := nowUTC()
	fields := map[string]any{"issue_id": issueID}
	defer func() { observe(ctx, s.observer, "delete-issue", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		r := newTxRepos(tx)
		issue, err := r.issues.GetByID(ctx, issueID)
		if err != nil {
			return err
		}
		if _, err := authorizeProject(ctx, r.projects, actor, issue.ProjectID); err != nil {
			return err
		}
		if err := issue.CheckDeletable(); err != nil {
			return err
		}
		if err := sprintGate(ctx, r.sprints, issue.SprintID, (*domain.Sprint).CheckMutable); err != nil {
			return err
		}
		return r.issues.Delete(ctx, issueID)
	})
	return classify("deleting issue", err)
}

func (s *issueService) GetByID(ctx context.Context, actor domain.Actor, id string) (*domain.IssueView, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	v, err := s.issues.GetView(ctx, id)
	if err != nil {
		return nil, classify("loading issue", err)
	}
	if _, err := authorizeProject(ctx, s.projects, actor, v.ProjectID); err != nil {
		return nil, classify("loading issue", err)
	}
	return v, nil
}

func (s *issueService) ListForSprint(ctx context.Context, actor domain.Actor, sprintID string) ([]*domain.IssueView, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	sp, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return nil, classify("listing sprint issues", err)
	}
	if _, err := authorizeProject(ctx, s.projects, actor, sp.ProjectID); err != nil {
		return nil, classify("listing sprint issues", err)
	}
	views, err := s.issues.ListViewsBySprint(ctx, sprintID)
	return views, classify("listing sprint issues", err)
}

func (s *issueService) ListByProject(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.IssueView, error) {
	if _, err := authorizeProject(ctx, s.projects, actor, projectID); err != nil {
		return nil, classify("listing project issues", err)
	}
	views, err := s.issues.ListViewsByProject(ctx, projectID)
	return views, classify("listing project issues", err)
}

func (s *issueService) ListForUser(ctx context.Context, actor domain.Actor) ([]*domain.IssueView, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	views, err := s.issues.ListViewsForUser(ctx, actor.UserID, actor.OrganizationID)
	return views, classify("listing user issues", err)
}

func (s *issueService) Lineage(ctx context.Context, actor domain.Actor, issueID string) (*app.Lineage, error) {
	view, err := s.GetByID(ctx, actor, issueID)
	if err != nil {
		return nil, err
	}
	lineage := &app.Lineage{Issue: view}

	seen := map[string]bool{view.ID: true}
	parentID := view.ParentID
	for parentID != nil && !seen[*parentID] {
		seen[*parentID] = true
		parent, err := s.issues.GetByID(ctx, *parentID)
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, classify("loading lineage", err)
		}
		lineage.Ancestors = append(lineage.Ancestors, parent)
		parentID = parent.ParentID
	}

	lineage.Children, err = s.issues.ListChildren(ctx, issueID)
	if err != nil {
		return nil, classify("loading lineage", err)
	}
	return lineage, nil
}

func checkAssignee(ctx context.Context, users repository.UserRepo, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	if _, err := users.GetByID(ctx, *assigneeID); err != nil {
		return fmt.Errorf("assignee: %w", err)
	}
	return nil
}
