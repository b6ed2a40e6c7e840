package service

import (
	"context"
	"errors"
	"testing"

	"arena-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newUserServiceFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockAccountRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockAccountRepo := new(MockAccountRepository)

	mockUoW.SetRepositories(mockUserRepo, mockAccountRepo, nil)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockUserRepo, mockAccountRepo
}

func TestUserService_RegisterUser_RunsHookWithCreated(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newUserServiceFixture()

	service := NewUserService(mockFactory)

	var hookCalls int
	var hookCreated bool
	service.RegisterPostSaveHook(func(ctx context.Context, uow UnitOfWork, user *models.User, created bool) error {
		hookCalls++
		hookCreated = created
		return nil
	})

	newUser := &models.User{ID: 1, Username: "alice123", Email: "alice123@example.com"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Create", ctx, "alice123", "alice123@example.com", "Alice", "Smith").Return(newUser, nil)

	user, err := service.RegisterUser(ctx, "alice123", "alice123@example.com", "Alice", "Smith")

	assert.NoError(t, err)
	assert.Equal(t, newUser, user)
	assert.Equal(t, 1, hookCalls)
	assert.True(t, hookCreated)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestUserService_RegisterUser_HookErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newUserServiceFixture()

	service := NewUserService(mockFactory)
	service.RegisterPostSaveHook(func(ctx context.Context, uow UnitOfWork, user *models.User, created bool) error {
		return errors.New("provisioning failed")
	})

	newUser := &models.User{ID: 1, Username: "bob456"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	// No Commit() expected when a hook fails
	mockUserRepo.On("Create", ctx, "bob456", "", "", "").Return(newUser, nil)

	user, err := service.RegisterUser(ctx, "bob456", "", "", "")

	assert.Error(t, err)
	assert.Nil(t, user)
	mockUoW.AssertNotCalled(t, "Commit")
	mockUoW.AssertExpectations(t)
}

func TestUserService_GetOrCreateUser_ExistingUser(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockAccountRepo := newUserServiceFixture()

	service := NewUserService(mockFactory)

	var hookCreated *bool
	service.RegisterPostSaveHook(func(ctx context.Context, uow UnitOfWork, user *models.User, created bool) error {
		hookCreated = &created
		return nil
	})

	existingUser := &models.User{ID: 7, Username: "carol789"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByUsername", ctx, "carol789").Return(existingUser, nil)

	user, created, err := service.GetOrCreateUser(ctx, "carol789", "carol789@example.com", "Carol", "Jones")

	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existingUser, user)
	if assert.NotNil(t, hookCreated) {
		assert.False(t, *hookCreated)
	}

	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockAccountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_GetOrCreateUser_NewUserProvisionsOneAccount(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockAccountRepo := newUserServiceFixture()

	userService := NewUserService(mockFactory)
	accountService := NewAccountService(mockFactory, decimal.NewFromFloat(1000.00))
	userService.RegisterPostSaveHook(accountService.UserPostSaveHook())

	newUser := &models.User{ID: 42, Username: "dave321", Email: "dave321@example.com", FirstName: "Dave", LastName: "Walker"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByUsername", ctx, "dave321").Return(nil, nil)
	mockUserRepo.On("Create", ctx, "dave321", "dave321@example.com", "Dave", "Walker").Return(newUser, nil)

	mockAccountRepo.On("Create", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.UserID == 42 &&
			a.Name == "Dave Walker" &&
			a.Arena == models.DefaultArena &&
			a.Balance.Equal(decimal.NewFromFloat(1000.00)) &&
			a.WinRate == 0.0
	})).Return(nil).Once()

	user, created, err := userService.GetOrCreateUser(ctx, "dave321", "dave321@example.com", "Dave", "Walker")

	assert.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, newUser, user)

	mockAccountRepo.AssertNumberOfCalls(t, "Create", 1)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockAccountRepo.AssertExpectations(t)
}

func TestUserService_AccountHook_NameFallsBackToUsername(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, mockAccountRepo := newUserServiceFixture()

	userService := NewUserService(mockFactory)
	accountService := NewAccountService(mockFactory, decimal.NewFromFloat(1000.00))
	userService.RegisterPostSaveHook(accountService.UserPostSaveHook())

	newUser := &models.User{ID: 9, Username: "eve654"}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Create", ctx, "eve654", "", "", "").Return(newUser, nil)

	mockAccountRepo.On("Create", ctx, mock.MatchedBy(func(a *models.Account) bool {
		return a.Name == "eve654"
	})).Return(nil)

	_, err := userService.RegisterUser(ctx, "eve654", "", "", "")

	assert.NoError(t, err)
	mockAccountRepo.AssertExpectations(t)
}

func TestUserService_RegisterUser_CreateError(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockUserRepo, _ := newUserServiceFixture()

	service := NewUserService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Create", ctx, "frank987", "", "", "").Return(nil, ErrDuplicateUser)

	user, err := service.RegisterUser(ctx, "frank987", "", "", "")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrDuplicateUser)
	mockUoW.AssertNotCalled(t, "Commit")
}
