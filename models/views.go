package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountView is the read-only projection returned by the account listing.
// Username and email come from the joined user record.
type AccountView struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Username      string          `json:"username"`
	Email         string          `json:"email"`
	Arena         string          `json:"arena"`
	Balance       decimal.Decimal `json:"balance"`
	TotalGames    int             `json:"total_games"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	Draws         int             `json:"draws"`
	WinRate       float64         `json:"win_rate"`
	Avatar        *string         `json:"avatar"`
	IsOnline      bool            `json:"is_online"`
	LastSeen      time.Time       `json:"last_seen"`
	CreatedAt     time.Time       `json:"created_at"`
	TotalPlaytime int64           `json:"total_playtime"` // whole seconds
}

// LeaderboardEntry is the projection returned by the games leaderboard
type LeaderboardEntry struct {
	Name          string `json:"name"`
	Arena         string `json:"arena"`
	TotalGames    int    `json:"total_games"`
	TotalPlaytime int64  `json:"total_playtime"` // whole seconds
}

// NewAccountView projects an account and its linked user into a view
func NewAccountView(account *Account, user *User) *AccountView {
	return &AccountView{
		ID:            account.ID,
		Name:          account.Name,
		Username:      user.Username,
		Email:         user.Email,
		Arena:         account.Arena,
		Balance:       account.Balance,
		TotalGames:    account.TotalGames,
		Wins:          account.Wins,
		Losses:        account.Losses,
		Draws:         account.Draws,
		WinRate:       account.WinRate,
		Avatar:        account.Avatar,
		IsOnline:      account.IsOnline,
		LastSeen:      account.LastSeen,
		CreatedAt:     account.CreatedAt,
		TotalPlaytime: int64(account.TotalPlaytime / time.Second),
	}
}

// NewLeaderboardEntry projects an account into a leaderboard entry
func NewLeaderboardEntry(account *Account) *LeaderboardEntry {
	return &LeaderboardEntry{
		Name:          account.Name,
		Arena:         account.Arena,
		TotalGames:    account.TotalGames,
		TotalPlaytime: int64(account.TotalPlaytime / time.Second),
	}
}
