package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/lotline/internal/app"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
)

// DefaultStockStage is the stage whose quantity counts as stock on hand.
const DefaultStockStage = "STORE"

type inventoryService struct {
	projects   repository.ProjectRepo
	stages     repository.StageRepo
	sprints    repository.SprintRepo
	issues     repository.IssueRepo
	stockStage string
}

func NewInventoryService(
	projects repository.ProjectRepo,
	stages repository.StageRepo,
	sprints repository.SprintRepo,
	issues repository.IssueRepo,
	stockStage string,
) InventoryService {
	if stockStage == "" {
		stockStage = DefaultStockStage
	}
	return &inventoryService{
		projects:   projects,
		stages:     stages,
		sprints:    sprints,
		issues:     issues,
		stockStage: domain.StageKey(stockStage),
	}
}

func (s *inventoryService) Inventory(ctx context.Context, actor domain.Actor, projectID string, sprintID *string) (*app.InventoryReport, error) {
	if _, err := authorizeProject(ctx, s.projects, actor, projectID); err != nil {
		return nil, classify("reading inventory", err)
	}
	if sprintID != nil {
		sp, err := s.sprints.GetByID(ctx, *sprintID)
		if err != nil {
			return nil, classify("reading inventory", err)
		}
		if sp.ProjectID != projectID {
			return nil, fmt.Errorf("sprint %s in project %s: %w", sp.ID, projectID, domain.ErrNotFound)
		}
	}

	stages, err := s.stages.ListByProject(ctx, projectID)
	if err != nil {
		return nil, classify("reading inventory", err)
	}
	rows, err := s.issues.InventoryRows(ctx, projectID, sprintID)
	if err != nil {
		return nil, classify("reading inventory", err)
	}
	return &app.InventoryReport{
		ProjectID:  projectID,
		SprintID:   sprintID,
		StockStage: s.stockStage,
		Stages:     stages,
		Rows:       rows,
		Items:      domain.RollUpInventory(rows, s.stockStage),
	}, nil
}
