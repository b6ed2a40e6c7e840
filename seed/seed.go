package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"arena-backend/service"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var firstNames = []string{
	"Alice", "Bob", "Charlie", "Diana", "Evan", "Fiona", "George", "Hannah",
	"Ian", "Julia", "Kevin", "Lena", "Mike", "Nina", "Oscar", "Pamela",
	"Quinn", "Ryan", "Sara", "Tom", "Uma", "Victor", "Wendy", "Xander",
	"Yara", "Zack", "Liam", "Emma", "Noah", "Olivia",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Jones", "Brown", "Davis", "Miller",
	"Wilson", "Moore", "Taylor", "Anderson", "Thomas", "Jackson", "White",
	"Harris", "Martin", "Thompson", "Garcia", "Martinez", "Robinson",
	"Clark", "Rodriguez", "Lewis", "Lee", "Walker", "Hall", "Allen", "Young",
}

var arenas = []string{
	"Junkyard",
	"Texas Hold'em Lounge",
	"Omaha Pit",
	"High Roller Club",
	"Bluff Masters Arena",
	"Cash Game Corner",
	"All-In Arena",
	"Poker Legends Hall",
	"Beginner's Table",
	"Final Table Showdown",
	"Underground Poker Den",
}

var balances = []int64{500, 1000, 2500, 5000, 10000}

// Populate upserts count generated players. Safe to re-run: existing
// generated users keep their account and get fresh random stats, written
// through SaveAccount so the stored win rate stays consistent.
func Populate(ctx context.Context, users service.UserService, accounts service.AccountService, count int) error {
	var totalCreated, totalUpdated int

	for i := 0; i < count; i++ {
		fname := firstNames[rand.Intn(len(firstNames))]
		lname := lastNames[rand.Intn(len(lastNames))]
		username := fmt.Sprintf("%s%d", strings.ToLower(fname), 100+rand.Intn(900))
		email := username + "@example.com"

		user, created, err := users.GetOrCreateUser(ctx, username, email, fname, lname)
		if err != nil {
			return fmt.Errorf("failed to get or create user %q: %w", username, err)
		}

		account, err := accounts.GetAccountByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to load account for user %q: %w", username, err)
		}
		if account == nil {
			return fmt.Errorf("user %q has no linked account", username)
		}

		totalGames := rand.Intn(501)
		wins := 0
		if totalGames > 0 {
			wins = rand.Intn(totalGames + 1)
		}
		losses := totalGames - wins
		// draws are sampled independently of wins/losses, matching the
		// historical test data; the counters are not required to reconcile
		drawCap := totalGames / 20
		if drawCap < 5 {
			drawCap = 5
		}
		draws := rand.Intn(drawCap + 1)

		playtime := time.Duration(rand.Intn(201))*time.Hour + time.Duration(rand.Intn(60))*time.Minute

		account.Name = fname + " " + lname
		account.Arena = arenas[rand.Intn(len(arenas))]
		account.Balance = decimal.NewFromInt(balances[rand.Intn(len(balances))])
		account.TotalGames = totalGames
		account.Wins = wins
		account.Losses = losses
		account.Draws = draws
		account.TotalPlaytime = playtime

		if err := accounts.SaveAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to save account for user %q: %w", username, err)
		}

		if created {
			totalCreated++
		} else {
			totalUpdated++
		}
	}

	log.WithFields(log.Fields{
		"created": totalCreated,
		"updated": totalUpdated,
	}).Info("Populate finished")

	return nil
}

// Clear deletes all accounts, then every generated test user
func Clear(ctx context.Context, uowFactory service.UnitOfWorkFactory) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accountsDeleted, err := uow.AccountRepository().DeleteAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete accounts: %w", err)
	}

	usersDeleted, err := uow.UserRepository().DeleteGenerated(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete generated users: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"accountsDeleted": accountsDeleted,
		"usersDeleted":    usersDeleted,
	}).Info("Clear finished")

	return nil
}
