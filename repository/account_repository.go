package repository

import (
	"context"
	"fmt"
	"time"

	"arena-backend/database"
	"arena-backend/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the service.AccountRepository interface.
// total_playtime is stored as whole seconds in a bigint column.
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository bound to a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// Create inserts a new account and fills the generated fields
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (user_id, name, arena, balance, total_games, wins, losses, draws, win_rate, avatar, is_online, total_playtime)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, last_seen, created_at
	`

	err := r.q.QueryRow(ctx, query,
		account.UserID,
		account.Name,
		account.Arena,
		account.Balance,
		account.TotalGames,
		account.Wins,
		account.Losses,
		account.Draws,
		account.WinRate,
		account.Avatar,
		account.IsOnline,
		int64(account.TotalPlaytime/time.Second),
	).Scan(&account.ID, &account.LastSeen, &account.CreatedAt)

	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return fmt.Errorf("failed to create account for user %d: %w", account.UserID, cerr)
		}
		return fmt.Errorf("failed to create account for user %d: %w", account.UserID, err)
	}

	return nil
}

// GetByUserID retrieves the account linked to a user, nil when not found
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	query := `
		SELECT id, user_id, name, arena, balance, total_games, wins, losses, draws,
		       win_rate, avatar, is_online, last_seen, total_playtime, created_at
		FROM accounts
		WHERE user_id = $1
	`

	var account models.Account
	var playtimeSeconds int64
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&account.ID,
		&account.UserID,
		&account.Name,
		&account.Arena,
		&account.Balance,
		&account.TotalGames,
		&account.Wins,
		&account.Losses,
		&account.Draws,
		&account.WinRate,
		&account.Avatar,
		&account.IsOnline,
		&account.LastSeen,
		&playtimeSeconds,
		&account.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account for user %d: %w", userID, err)
	}

	account.TotalPlaytime = time.Duration(playtimeSeconds) * time.Second
	return &account, nil
}

// Update persists an account's mutable fields. last_seen is refreshed by
// the same statement, so every save bumps it. created_at is never touched.
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, arena = $2, balance = $3, total_games = $4, wins = $5,
		    losses = $6, draws = $7, win_rate = $8, avatar = $9, is_online = $10,
		    total_playtime = $11, last_seen = NOW()
		WHERE id = $12
		RETURNING last_seen
	`

	err := r.q.QueryRow(ctx, query,
		account.Name,
		account.Arena,
		account.Balance,
		account.TotalGames,
		account.Wins,
		account.Losses,
		account.Draws,
		account.WinRate,
		account.Avatar,
		account.IsOnline,
		int64(account.TotalPlaytime/time.Second),
		account.ID,
	).Scan(&account.LastSeen)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("account %d not found", account.ID)
	}
	if err != nil {
		if cerr := constraintError(err); cerr != nil {
			return fmt.Errorf("failed to update account %d: %w", account.ID, cerr)
		}
		return fmt.Errorf("failed to update account %d: %w", account.ID, err)
	}

	return nil
}

// ListWithUsers returns every account joined with its linked user in a
// single query, avoiding a per-account lookup
func (r *AccountRepository) ListWithUsers(ctx context.Context) ([]*models.AccountView, error) {
	query := `
		SELECT a.id, a.name, u.username, u.email, a.arena, a.balance,
		       a.total_games, a.wins, a.losses, a.draws, a.win_rate,
		       a.avatar, a.is_online, a.last_seen, a.created_at, a.total_playtime
		FROM accounts a
		JOIN users u ON u.id = a.user_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var views []*models.AccountView
	for rows.Next() {
		var view models.AccountView
		err := rows.Scan(
			&view.ID,
			&view.Name,
			&view.Username,
			&view.Email,
			&view.Arena,
			&view.Balance,
			&view.TotalGames,
			&view.Wins,
			&view.Losses,
			&view.Draws,
			&view.WinRate,
			&view.Avatar,
			&view.IsOnline,
			&view.LastSeen,
			&view.CreatedAt,
			&view.TotalPlaytime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account view: %w", err)
		}
		views = append(views, &view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return views, nil
}

// TopByGames returns at most limit accounts ordered by total_games
// descending. Equal counts are ordered by id ascending so the ranking
// is deterministic.
func (r *AccountRepository) TopByGames(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT name, arena, total_games, total_playtime
		FROM accounts
		ORDER BY total_games DESC, id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(
			&entry.Name,
			&entry.Arena,
			&entry.TotalGames,
			&entry.TotalPlaytime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}

	return entries, nil
}

// DeleteAll removes every account, returning the number deleted
func (r *AccountRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM accounts`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete accounts: %w", err)
	}
	return result.RowsAffected(), nil
}

// CountAll returns the total number of accounts
func (r *AccountRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}
