package services_test

import (
	"fmt"
	"testing"

	"shortly/internal/models"
	"shortly/internal/repositories"
	"shortly/internal/security"
	"shortly/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func newAccountService(userRepo repositories.UserRepository) (*services.AccountService, *security.PasswordHasher) {
	hasher := security.NewPasswordHasher()
	tokens := security.NewTokenIssuer("test_jwt_secret")
	return services.NewAccountService(userRepo, repositories.NewMockLinkRepository(), hasher, tokens, nil), hasher
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
}

func TestAccountService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService, _ := newAccountService(mockRepo)

	// Successful signup
	mockRepo.On("GetByEmail", "a@x.com").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		user.ID = "user-1"
		assert.NotEmpty(t, user.Salt)
		assert.NotEmpty(t, user.Password)
		assert.NotEqual(t, "secret1", user.Password)
	}).Return(nil).Once()

	userID, err := accountService.Signup("A", "", "a@x.com", "secret1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	mockRepo.AssertExpectations(t)

	// Email already registered (pre-check)
	mockRepo.On("GetByEmail", "a@x.com").Return(&models.User{ID: "user-1"}, nil).Once()
	_, err = accountService.Signup("A", "", "a@x.com", "secret1")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)

	// Duplicate surfaced by the datastore despite a clean pre-check:
	// must map to the same conflict error.
	mockRepo.On("GetByEmail", "a@x.com").Return(nil, notFoundErr("user")).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("user with email a@x.com: %w", repositories.ErrDuplicateKey)).Once()
	_, err = accountService.Signup("A", "", "a@x.com", "secret1")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService, hasher := newAccountService(mockRepo)

	salt, digest, err := hasher.Hash("password123")
	assert.NoError(t, err)
	user := &models.User{
		ID:        "user-123",
		FirstName: "Test",
		Email:     "test@example.com",
		Password:  digest,
		Salt:      salt,
	}

	// Successful login returns a token validating to the same user id
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	token, err := accountService.Login(user.Email, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	userID, err := security.NewTokenIssuer("test_jwt_secret").Validate(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	mockRepo.AssertExpectations(t)

	// Wrong password
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, err = accountService.Login(user.Email, "wrongpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)

	// Unknown email
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, notFoundErr("user")).Once()
	_, err = accountService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_Update_Profile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService, hasher := newAccountService(mockRepo)

	salt, digest, _ := hasher.Hash("password123")
	stored := &models.User{ID: "user-1", FirstName: "A", Email: "a@x.com", Password: digest, Salt: salt}

	first := "Alice"
	last := "Smith"
	mockRepo.On("GetByID", "user-1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	updated, err := accountService.Update("user-1", services.ProfileUpdate{FirstName: &first, LastName: &last})
	assert.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_Update_Password(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService, hasher := newAccountService(mockRepo)

	salt, digest, _ := hasher.Hash("oldpassword")
	stored := &models.User{ID: "user-1", FirstName: "A", Email: "a@x.com", Password: digest, Salt: salt}

	// Rotation rehashes with a fresh salt
	mockRepo.On("GetByID", "user-1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		user := args.Get(0).(*models.User)
		assert.NotEqual(t, salt, user.Salt)
		assert.True(t, hasher.Verify("newpassword", user.Salt, user.Password))
	}).Return(nil).Once()

	_, err := accountService.Update("user-1", services.ProfileUpdate{
		CurrentPassword: "oldpassword",
		NewPassword:     "newpassword",
	})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Wrong current password
	salt2, digest2, _ := hasher.Hash("oldpassword")
	stored2 := &models.User{ID: "user-1", FirstName: "A", Email: "a@x.com", Password: digest2, Salt: salt2}
	mockRepo.On("GetByID", "user-1").Return(stored2, nil).Once()
	_, err = accountService.Update("user-1", services.ProfileUpdate{
		CurrentPassword: "nottheoldone",
		NewPassword:     "newpassword",
	})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAccountService_Update_Validation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	accountService, _ := newAccountService(mockRepo)

	// Only one half of the password pair
	_, err := accountService.Update("user-1", services.ProfileUpdate{NewPassword: "newpassword"})
	assert.ErrorIs(t, err, services.ErrPasswordChangePair)

	_, err = accountService.Update("user-1", services.ProfileUpdate{CurrentPassword: "oldpassword"})
	assert.ErrorIs(t, err, services.ErrPasswordChangePair)

	// Nothing to apply
	_, err = accountService.Update("user-1", services.ProfileUpdate{})
	assert.ErrorIs(t, err, services.ErrNoFieldsToUpdate)

	// No repository calls should have been made for invalid requests
	mockRepo.AssertExpectations(t)
}

func TestAccountService_Delete(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	linkRepo := repositories.NewMockLinkRepository()
	hasher := security.NewPasswordHasher()
	tokens := security.NewTokenIssuer("test_jwt_secret")
	accountService := services.NewAccountService(mockUserRepo, linkRepo, hasher, tokens, nil)

	// Seed a link owned by the user; deletion must cascade.
	err := linkRepo.Create(&models.Link{ShortCode: "abc123", TargetURL: "https://example.com", UserID: "user-1"})
	assert.NoError(t, err)

	mockUserRepo.On("GetByID", "user-1").Return(&models.User{ID: "user-1"}, nil).Once()
	mockUserRepo.On("Delete", "user-1").Return(nil).Once()

	deletedID, err := accountService.Delete("user-1")
	assert.NoError(t, err)
	assert.Equal(t, "user-1", deletedID)

	links, err := linkRepo.GetAllByOwner("user-1")
	assert.NoError(t, err)
	assert.Empty(t, links)
	mockUserRepo.AssertExpectations(t)

	// Unknown user
	mockUserRepo.On("GetByID", "ghost").Return(nil, notFoundErr("user")).Once()
	_, err = accountService.Delete("ghost")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
	mockUserRepo.AssertExpectations(t)
}
