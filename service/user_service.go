package service

import (
	"context"
	"fmt"

	"arena-backend/events"
	"arena-backend/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	hooks      []UserPostSaveHook
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// RegisterPostSaveHook registers a hook invoked on every user save.
// Hooks run synchronously inside the saving transaction, in registration order.
func (s *userService) RegisterPostSaveHook(hook UserPostSaveHook) {
	s.hooks = append(s.hooks, hook)
}

// RegisterUser creates a new user identity and runs post-save hooks with
// created=true inside the same transaction
func (s *userService) RegisterUser(ctx context.Context, username, email, firstName, lastName string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := s.createUser(ctx, uow, username, email, firstName, lastName)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// GetOrCreateUser returns the existing user for a username, creating one
// when absent. Hooks run with created=false on the existing path, so
// per-user provisioning stays idempotent.
func (s *userService) GetOrCreateUser(ctx context.Context, username, email, firstName, lastName string) (*models.User, bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUsername(ctx, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing user: %w", err)
	}

	created := false
	if user == nil {
		user, err = s.createUser(ctx, uow, username, email, firstName, lastName)
		if err != nil {
			return nil, false, err
		}
		created = true
	} else {
		if err := s.runHooks(ctx, uow, user, false); err != nil {
			return nil, false, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, created, nil
}

// createUser inserts the user row, runs hooks with created=true and
// queues the creation event for publication after commit
func (s *userService) createUser(ctx context.Context, uow UnitOfWork, username, email, firstName, lastName string) (*models.User, error) {
	user, err := uow.UserRepository().Create(ctx, username, email, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.runHooks(ctx, uow, user, true); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})

	return user, nil
}

func (s *userService) runHooks(ctx context.Context, uow UnitOfWork, user *models.User, created bool) error {
	for _, hook := range s.hooks {
		if err := hook(ctx, uow, user, created); err != nil {
			return fmt.Errorf("post-save hook failed for user %d: %w", user.ID, err)
		}
	}
	return nil
}
