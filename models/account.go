package models

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultArena is assigned to accounts provisioned on user registration
const DefaultArena = "General Arena"

// DefaultBalance is the starting balance for a new account
var DefaultBalance = decimal.NewFromFloat(1000.00)

// Account is a player's persistent profile record, one per user
type Account struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	Name          string          `db:"name"`
	Arena         string          `db:"arena"`
	Balance       decimal.Decimal `db:"balance"`
	TotalGames    int             `db:"total_games"`
	Wins          int             `db:"wins"`
	Losses        int             `db:"losses"`
	Draws         int             `db:"draws"`
	WinRate       float64         `db:"win_rate"`
	Avatar        *string         `db:"avatar"`
	IsOnline      bool            `db:"is_online"`
	LastSeen      time.Time       `db:"last_seen"`
	TotalPlaytime time.Duration   `db:"total_playtime"`
	CreatedAt     time.Time       `db:"created_at"`
}

// WinRate returns the win percentage for the given counters, rounded to
// two decimal places. Zero games is a 0.0 rate, not a division by zero.
// Note: wins, losses and draws are not required to sum to totalGames, and
// wins exceeding totalGames is not rejected here.
func WinRate(wins, totalGames int) float64 {
	if totalGames <= 0 {
		return 0.0
	}
	return math.Round(float64(wins)/float64(totalGames)*100*100) / 100
}

// RecalculateWinRate syncs WinRate with the current Wins and TotalGames.
// Every write path must call this before persisting so the stored rate
// never drifts from its inputs.
func (a *Account) RecalculateWinRate() {
	a.WinRate = WinRate(a.Wins, a.TotalGames)
}
