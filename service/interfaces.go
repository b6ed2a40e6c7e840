package service

import (
	"context"

	"arena-backend/events"
	"arena-backend/models"
)

// UserRepository defines the interface for user identity data access
type UserRepository interface {
	// Create creates a new user identity
	Create(ctx context.Context, username, email, firstName, lastName string) (*models.User, error)

	// GetByID retrieves a user by id, nil when not found
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername retrieves a user by username, nil when not found
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// DeleteGenerated removes users whose usernames match the generated
	// test-data pattern, returning the number deleted
	DeleteGenerated(ctx context.Context) (int64, error)

	// CountAll returns the total number of users
	CountAll(ctx context.Context) (int64, error)
}

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create inserts a new account and fills the generated fields
	Create(ctx context.Context, account *models.Account) error

	// GetByUserID retrieves the account linked to a user, nil when not found
	GetByUserID(ctx context.Context, userID int64) (*models.Account, error)

	// Update persists an account's mutable fields and refreshes last_seen
	Update(ctx context.Context, account *models.Account) error

	// ListWithUsers returns every account joined with its linked user,
	// projected to views in a single query
	ListWithUsers(ctx context.Context) ([]*models.AccountView, error)

	// TopByGames returns at most limit accounts ordered by total_games
	// descending, ties broken by id ascending
	TopByGames(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// DeleteAll removes every account, returning the number deleted
	DeleteAll(ctx context.Context) (int64, error)

	// CountAll returns the total number of accounts
	CountAll(ctx context.Context) (int64, error)
}

// UserPostSaveHook runs synchronously inside the transaction that saved a
// user. created is true only when the user row was just inserted, so hooks
// that provision per-user state fire exactly once per identity.
type UserPostSaveHook func(ctx context.Context, uow UnitOfWork, user *models.User, created bool) error

// UserService defines the interface for user identity operations
type UserService interface {
	// RegisterUser creates a new user identity and runs post-save hooks
	// with created=true inside the same transaction
	RegisterUser(ctx context.Context, username, email, firstName, lastName string) (*models.User, error)

	// GetOrCreateUser returns the existing user for a username, creating
	// one when absent. The bool reports whether a creation happened.
	GetOrCreateUser(ctx context.Context, username, email, firstName, lastName string) (*models.User, bool, error)

	// RegisterPostSaveHook registers a hook invoked on every user save
	RegisterPostSaveHook(hook UserPostSaveHook)
}

// AccountService defines the interface for account operations
type AccountService interface {
	// SaveAccount persists an account, recomputing win_rate from the
	// current wins/total_games before every write
	SaveAccount(ctx context.Context, account *models.Account) error

	// GetAccountByUserID returns the account linked to a user, nil when absent
	GetAccountByUserID(ctx context.Context, userID int64) (*models.Account, error)

	// ListAccounts returns every account projected with its linked user
	ListAccounts(ctx context.Context) ([]*models.AccountView, error)

	// TopByGames returns the leaderboard, at most limit entries ordered
	// by total_games descending
	TopByGames(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// UserPostSaveHook returns the hook that provisions one account per
	// newly created user
	UserPostSaveHook() UserPostSaveHook
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	AccountRepository() AccountRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
