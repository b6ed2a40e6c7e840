package testutil

import (
	"time"

	"arena-backend/models"

	"github.com/shopspring/decimal"
)

// NewAccount creates a test account linked to the given user with defaults
func NewAccount(userID int64, name string) *models.Account {
	return &models.Account{
		UserID:  userID,
		Name:    name,
		Arena:   models.DefaultArena,
		Balance: decimal.NewFromFloat(1000.00),
	}
}

// NewAccountWithStats creates a test account with specific game counters.
// The win rate is computed from the counters, as every write path does.
func NewAccountWithStats(userID int64, name string, totalGames, wins, losses, draws int) *models.Account {
	account := NewAccount(userID, name)
	account.TotalGames = totalGames
	account.Wins = wins
	account.Losses = losses
	account.Draws = draws
	account.TotalPlaytime = 90 * time.Minute
	account.RecalculateWinRate()
	return account
}
