package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"arena-backend/models"
	"arena-backend/repository/testutil"
	"arena-backend/service"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "alice123", "alice123@example.com", "Alice", "Smith")
	require.NoError(t, err)

	t.Run("no account yet", func(t *testing.T) {
		account, err := accountRepo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("roundtrip", func(t *testing.T) {
		original := testutil.NewAccountWithStats(user.ID, "Alice Smith", 200, 150, 50, 3)
		err := accountRepo.Create(ctx, original)
		require.NoError(t, err)
		assert.NotZero(t, original.ID)
		assert.False(t, original.CreatedAt.IsZero())
		assert.False(t, original.LastSeen.IsZero())

		account, err := accountRepo.GetByUserID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, "Alice Smith", account.Name)
		assert.Equal(t, models.DefaultArena, account.Arena)
		assert.Equal(t, 200, account.TotalGames)
		assert.Equal(t, 150, account.Wins)
		assert.Equal(t, 75.0, account.WinRate)
		assert.Equal(t, 90*time.Minute, account.TotalPlaytime)
		assert.True(t, original.Balance.Equal(account.Balance))
	})

	t.Run("second account for same user rejected", func(t *testing.T) {
		duplicate := testutil.NewAccount(user.ID, "Alice Again")
		err := accountRepo.Create(ctx, duplicate)
		assert.ErrorIs(t, err, service.ErrDuplicateAccount)
	})

	t.Run("account for missing user rejected", func(t *testing.T) {
		orphan := testutil.NewAccount(999999, "Nobody")
		err := accountRepo.Create(ctx, orphan)
		assert.ErrorIs(t, err, service.ErrUserMissing)
	})
}

func TestAccountRepository_UpdateRefreshesLastSeen(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "bob456", "bob456@example.com", "Bob", "Jones")
	require.NoError(t, err)

	account := testutil.NewAccountWithStats(user.ID, "Bob Jones", 10, 5, 5, 0)
	require.NoError(t, accountRepo.Create(ctx, account))

	firstSeen := account.LastSeen
	createdAt := account.CreatedAt

	time.Sleep(50 * time.Millisecond)

	// balance-only change still bumps last_seen
	account.Balance = account.Balance.Sub(decimal.NewFromFloat(100))
	require.NoError(t, accountRepo.Update(ctx, account))

	assert.True(t, account.LastSeen.After(firstSeen))

	reloaded, err := accountRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.LastSeen.After(firstSeen))
	assert.Equal(t, 50.0, reloaded.WinRate)
	// created_at is immutable
	assert.WithinDuration(t, createdAt, reloaded.CreatedAt, time.Millisecond)
}

func TestAccountRepository_ListWithUsers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	alice, err := userRepo.Create(ctx, "alice123", "alice123@example.com", "Alice", "Smith")
	require.NoError(t, err)
	bob, err := userRepo.Create(ctx, "bob456", "bob456@example.com", "Bob", "Jones")
	require.NoError(t, err)

	require.NoError(t, accountRepo.Create(ctx, testutil.NewAccountWithStats(alice.ID, "Alice Smith", 200, 150, 50, 3)))
	require.NoError(t, accountRepo.Create(ctx, testutil.NewAccount(bob.ID, "Bob Jones")))

	views, err := accountRepo.ListWithUsers(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)

	byUsername := make(map[string]*models.AccountView, len(views))
	for _, v := range views {
		byUsername[v.Username] = v
	}

	require.Contains(t, byUsername, "alice123")
	assert.Equal(t, "alice123@example.com", byUsername["alice123"].Email)
	assert.Equal(t, 75.0, byUsername["alice123"].WinRate)
	assert.Equal(t, int64(5400), byUsername["alice123"].TotalPlaytime)

	require.Contains(t, byUsername, "bob456")
	assert.Equal(t, "Bob Jones", byUsername["bob456"].Name)
	assert.Equal(t, 0.0, byUsername["bob456"].WinRate)
}

func TestAccountRepository_TopByGames(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	games := []int{10, 50, 30}
	for i, g := range games {
		user, err := userRepo.Create(ctx, []string{"carol111", "dave222", "eve333"}[i], "", "", "")
		require.NoError(t, err)
		account := testutil.NewAccountWithStats(user.ID, user.Username, g, g/2, g/2, 0)
		require.NoError(t, accountRepo.Create(ctx, account))
	}

	t.Run("descending order", func(t *testing.T) {
		entries, err := accountRepo.TopByGames(ctx, 50)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, 50, entries[0].TotalGames)
		assert.Equal(t, 30, entries[1].TotalGames)
		assert.Equal(t, 10, entries[2].TotalGames)
	})

	t.Run("limit applies", func(t *testing.T) {
		entries, err := accountRepo.TopByGames(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("ties resolved by insertion order", func(t *testing.T) {
		first, err := userRepo.Create(ctx, "frank444", "", "", "")
		require.NoError(t, err)
		second, err := userRepo.Create(ctx, "grace555", "", "", "")
		require.NoError(t, err)
		require.NoError(t, accountRepo.Create(ctx, testutil.NewAccountWithStats(first.ID, "frank444", 50, 0, 0, 0)))
		require.NoError(t, accountRepo.Create(ctx, testutil.NewAccountWithStats(second.ID, "grace555", 50, 0, 0, 0)))

		entries, err := accountRepo.TopByGames(ctx, 50)
		require.NoError(t, err)
		require.Len(t, entries, 5)

		// equal total_games rank by id ascending
		assert.Equal(t, "dave222", entries[0].Name)
		assert.Equal(t, "frank444", entries[1].Name)
		assert.Equal(t, "grace555", entries[2].Name)
	})
}

func TestAccountRepository_TransactionRollbackDiscardsWrites(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "ivan777", "", "", "")
	require.NoError(t, err)

	sentinel := errors.New("abort")
	err = testDB.DB.WithTransaction(ctx, func(tx pgx.Tx) error {
		txRepo := newAccountRepositoryWithTx(tx)
		if err := txRepo.Create(ctx, testutil.NewAccount(user.ID, "ivan777")); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	account, err := accountRepo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAccountRepository_DeleteAllAndCount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	userRepo := NewUserRepository(testDB.DB)
	accountRepo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	user, err := userRepo.Create(ctx, "henry666", "", "", "")
	require.NoError(t, err)
	require.NoError(t, accountRepo.Create(ctx, testutil.NewAccount(user.ID, "henry666")))

	count, err := accountRepo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	deleted, err := accountRepo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err = accountRepo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
