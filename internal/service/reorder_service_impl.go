package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
)

type reorderService struct {
	uow      db.UnitOfWork
	strict   bool
	observer UseCaseObserver
}

// NewReorderService builds the board re-sequencer. In strict mode a row may
// only extend a batch's track, and every column it touches must end up
// holding orders 0..n-1.
func NewReorderService(uow db.UnitOfWork, strict bool, observers ...UseCaseObserver) ReorderService {
	return &reorderService{uow: uow, strict: strict, observer: useCaseObserverOrNoop(observers)}
}

type column struct {
	projectID, stageID string
}

// ReorderIssues writes rows in the order given, all or nothing.
func (s *reorderService) ReorderIssues(ctx context.Context, actor domain.Actor, rows []app.ReorderRow) (err error) {
	startedAt := nowUTC()
	fields := map[string]any{"rows": len(rows), "strict": s.strict}
	defer func() { observe(ctx, s.observer, "reorder-issues", startedAt, fields, err) }()

	if err := actor.Validate(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		issues := repository.NewSQLiteIssueRepo(tx)
		stages := repository.NewSQLiteStageRepo(tx)
		sprints := repository.NewSQLiteSprintRepo(tx)
		auth := newProjectAuthorizer(repository.NewSQLiteProjectRepo(tx), actor)
		now := nowUTC()

		touched := make(map[column]bool)
		var order []column
		touch := func(c column) {
			if !touched[c] {
				touched[c] = true
				order = append(order, c)
			}
		}

		for _, row := range rows {
			issue, err := issues.GetByID(ctx, row.ID)
			if err != nil {
				return err
			}
			if err := auth.check(ctx, issue.ProjectID); err != nil {
				return err
			}
			if err := sprintGate(ctx, sprints, issue.SprintID, (*domain.Sprint).CheckMutable); err != nil {
				return err
			}
			if _, err := stageInProject(ctx, stages, issue.ProjectID, row.StatusID); err != nil {
				return err
			}

			track := row.Track
			if track == nil {
				track = issue.Track
			}
			if s.strict {
				if row.Order < 0 {
					return fmt.Errorf("batch %s order %d: %w", row.ID, row.Order, domain.ErrInvalidOrder)
				}
				if !domain.IsTrackPrefix(issue.Track, track) {
					return fmt.Errorf("batch %s track would lose history: %w", row.ID, domain.ErrInvalidOrder)
				}
			}

			pos := repository.IssuePosition{ID: row.ID, StatusID: row.StatusID, Order: row.Order, Track: track}
			if err := issues.UpdatePosition(ctx, pos, now); err != nil {
				return err
			}
			touch(column{issue.ProjectID, issue.StatusID})
			touch(column{issue.ProjectID, row.StatusID})
		}

		if !s.strict {
			return nil
		}
		for _, c := range order {
			orders, err := issues.ListColumnOrders(ctx, c.projectID, c.stageID)
			if err != nil {
				return err
			}
			for i, o := range orders {
				if o != i {
					return fmt.Errorf("stage %s holds orders %v: %w", c.stageID, orders, domain.ErrInvalidOrder)
				}
			}
		}
		return nil
	})
	return classify("reordering issues", err)
}
