package service

import (
	"context"
	"fmt"

	"arena-backend/events"
	"arena-backend/models"

	"github.com/shopspring/decimal"
)

// LeaderboardLimit is the fixed cap on games-leaderboard entries
const LeaderboardLimit = 50

// accountService implements the AccountService interface
type accountService struct {
	uowFactory      UnitOfWorkFactory
	startingBalance decimal.Decimal
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory, startingBalance decimal.Decimal) AccountService {
	return &accountService{
		uowFactory:      uowFactory,
		startingBalance: startingBalance,
	}
}

// SaveAccount persists an account. The win rate is recomputed from the
// current wins/total_games on every save, never carried over, so a caller
// who mutates the counters always observes a consistent rate afterwards.
// The store refreshes last_seen as part of the same write.
func (s *accountService) SaveAccount(ctx context.Context, account *models.Account) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account.RecalculateWinRate()

	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return fmt.Errorf("failed to save account %d: %w", account.ID, err)
	}

	uow.EventBus().Publish(events.AccountSavedEvent{
		AccountID:  account.ID,
		UserID:     account.UserID,
		TotalGames: account.TotalGames,
		WinRate:    account.WinRate,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAccountByUserID returns the account linked to a user, nil when absent
func (s *accountService) GetAccountByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}

	return account, nil
}

// ListAccounts returns every account joined with its linked user.
// Ordering follows the store default and is not part of the contract.
func (s *accountService) ListAccounts(ctx context.Context) ([]*models.AccountView, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	views, err := uow.AccountRepository().ListWithUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return views, nil
}

// TopByGames returns at most limit leaderboard entries ordered by
// total_games descending, ties broken by id ascending. Limits outside
// (0, LeaderboardLimit] are clamped to LeaderboardLimit.
func (s *accountService) TopByGames(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > LeaderboardLimit {
		limit = LeaderboardLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.AccountRepository().TopByGames(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return entries, nil
}

// UserPostSaveHook returns the hook that provisions exactly one account
// per newly created user. It only acts when created is true, so re-saves
// of an existing user never produce a second account; the unique user_id
// constraint backstops a double fire.
func (s *accountService) UserPostSaveHook() UserPostSaveHook {
	return func(ctx context.Context, uow UnitOfWork, user *models.User, created bool) error {
		if !created {
			return nil
		}

		account := &models.Account{
			UserID:  user.ID,
			Name:    user.DisplayName(),
			Arena:   models.DefaultArena,
			Balance: s.startingBalance,
		}
		account.RecalculateWinRate()

		if err := uow.AccountRepository().Create(ctx, account); err != nil {
			return fmt.Errorf("failed to provision account for user %d: %w", user.ID, err)
		}

		uow.EventBus().Publish(events.AccountCreatedEvent{
			AccountID: account.ID,
			UserID:    user.ID,
			Name:      account.Name,
			Arena:     account.Arena,
		})

		return nil
	}
}
