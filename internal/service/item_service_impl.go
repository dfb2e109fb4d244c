package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/google/uuid"
)

type itemService struct {
	projects repository.ProjectRepo
	items    repository.ItemRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewItemService(projects repository.ProjectRepo, items repository.ItemRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ItemService {
	return &itemService{projects: projects, items: items, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *itemService) Create(ctx context.Context, actor domain.Actor, projectID, name string, reorderValue int) (item *domain.Item, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"project_id": projectID, "name": name}
	defer func() { observe(ctx, s.observer, "create-item", startedAt, fields, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("item name is required")
	}
	if reorderValue < 0 {
		return nil, invalidInput("reorder value must not be negative")
	}
	item = &domain.Item{ID: uuid.New().String(), ProjectID: projectID, Name: name, ReorderValue: reorderValue}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := authorizeProject(ctx, repository.NewSQLiteProjectRepo(tx), actor, projectID); err != nil {
			return err
		}
		return repository.NewSQLiteItemRepo(tx).Create(ctx, item)
	})
	if err != nil {
		return nil, classify("creating item", err)
	}
	return item, nil
}

func (s *itemService) List(ctx context.Context, actor domain.Actor, projectID string) ([]*domain.Item, error) {
	if _, err := authorizeProject(ctx, s.projects, actor, projectID); err != nil {
		return nil, classify("listing items", err)
	}
	items, err := s.items.ListByProject(ctx, projectID)
	return items, classify("listing items", err)
}

// Delete removes the item and every batch of it.
func (s *itemService) Delete(ctx context.Context, actor domain.Actor, itemID, projectID string) (err error) {
	startedAt := nowUTC()
	fields := map[string]any{"item_id": itemID, "project_id": projectID}
	defer func() { observe(ctx, s.observer, "delete-item", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		items := repository.NewSQLiteItemRepo(tx)
		if _, err := authorizeProject(ctx, repository.NewSQLiteProjectRepo(tx), actor, projectID); err != nil {
			return err
		}
		item, err := items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item.ProjectID != projectID {
			return fmt.Errorf("item %s in project %s: %w", itemID, projectID, domain.ErrNotFound)
		}
		return items.Delete(ctx, itemID)
	})
	return classify("deleting item", err)
}
