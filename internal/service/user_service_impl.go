package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/lotline/internal/db"
	"github.com/alexanderramin/lotline/internal/domain"
	"github.com/alexanderramin/lotline/internal/repository"
	"github.com/google/uuid"
)

type userService struct {
	users    repository.UserRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewUserService(users repository.UserRepo, uow db.UnitOfWork, observers ...UseCaseObserver) UserService {
	return &userService{users: users, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *userService) EnsureUser(ctx context.Context, externalID, email, name string) (user *domain.User, err error) {
	startedAt := nowUTC()
	fields := map[string]any{"external_id": externalID}
	defer func() { observe(ctx, s.observer, "ensure-user", startedAt, fields, err) }()

	if externalID == "" {
		return nil, invalidInput("external user id is required")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		now := nowUTC()

		existing, err := users.GetByExternalID(ctx, externalID)
		if errors.Is(err, domain.ErrNotFound) {
			user = &domain.User{
				ID:         uuid.New().String(),
				ExternalID: externalID,
				Email:      email,
				Name:       name,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			fields["created"] = true
			return users.Create(ctx, user)
		}
		if err != nil {
			return err
		}

		changed := false
		if email != "" && email != existing.Email {
			existing.Email = email
			changed = true
		}
		if name != "" && name != existing.Name {
			existing.Name = name
			changed = true
		}
		user = existing
		if !changed {
			return nil
		}
		existing.UpdatedAt = now
		return users.Update(ctx, existing)
	})
	if err != nil {
		return nil, classify("ensuring user", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	return u, classify("loading user", err)
}

func (s *userService) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	u, err := s.users.GetByExternalID(ctx, externalID)
	return u, classify("loading user", err)
}
