package services

import (
	"errors"
	"fmt"
	"log"

	"shortly/internal/models"
	"shortly/internal/repositories"
	"shortly/internal/security"
	"shortly/pkg/rabbitmq"
)

// AccountService handles business logic for user accounts: signup,
// login, profile updates and deletion.
type AccountService struct {
	userRepo repositories.UserRepository
	linkRepo repositories.LinkRepository
	hasher   *security.PasswordHasher
	tokens   *security.TokenIssuer
	mqClient *rabbitmq.Client
}

// NewAccountService creates a new AccountService. The RabbitMQ client
// may be nil, in which case lifecycle events are not published.
func NewAccountService(userRepo repositories.UserRepository, linkRepo repositories.LinkRepository, hasher *security.PasswordHasher, tokens *security.TokenIssuer, mqClient *rabbitmq.Client) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		linkRepo: linkRepo,
		hasher:   hasher,
		tokens:   tokens,
		mqClient: mqClient,
	}
}

// ProfileUpdate describes the optional fields of an account update.
// Nil name pointers mean "leave unchanged". A credential rotation
// requires both password fields.
type ProfileUpdate struct {
	FirstName       *string
	LastName        *string
	CurrentPassword string
	NewPassword     string
}

// Signup registers a new account and returns its id. A duplicate email
// yields ErrEmailTaken, whether caught by the pre-check or by the
// datastore's uniqueness constraint — the constraint is the backstop
// for the check-then-insert race.
func (s *AccountService) Signup(firstName, lastName, email, password string) (string, error) {
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return "", fmt.Errorf("email '%s': %w", email, ErrEmailTaken)
	}

	salt, digest, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  digest,
		Salt:      salt,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return "", fmt.Errorf("email '%s': %w", email, ErrEmailTaken)
		}
		return "", fmt.Errorf("failed to register user: %w", err)
	}
	return user.ID, nil
}

// Login verifies the credentials and returns a freshly issued token.
func (s *AccountService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.hasher.Verify(password, user.Salt, user.Password) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}

// Update applies profile and/or credential changes to the given account
// and returns the updated record. An update carrying no fields is a
// validation error, not a no-op success.
func (s *AccountService) Update(userID string, update ProfileUpdate) (*models.User, error) {
	changingPassword := update.CurrentPassword != "" || update.NewPassword != ""
	if changingPassword && (update.CurrentPassword == "" || update.NewPassword == "") {
		return nil, ErrPasswordChangePair
	}
	if update.FirstName == nil && update.LastName == nil && !changingPassword {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if changingPassword {
		if !s.hasher.Verify(update.CurrentPassword, user.Salt, user.Password) {
			return nil, ErrInvalidCredentials
		}
		salt, digest, err := s.hasher.Hash(update.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Salt = salt
		user.Password = digest
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Delete removes the account and all the short links it owns, and
// returns the deleted id.
func (s *AccountService) Delete(userID string) (string, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	// Owned links go first so none are orphaned if the user row is gone.
	if err := s.linkRepo.DeleteByOwner(userID); err != nil {
		return "", fmt.Errorf("failed to delete links for user %s: %w", userID, err)
	}
	if err := s.userRepo.Delete(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to delete user: %w", err)
	}

	s.publishEvent("user.deleted", map[string]interface{}{"userId": userID})
	return userID, nil
}

// publishEvent sends an account lifecycle event. Publish failures are
// logged, never surfaced to the caller.
func (s *AccountService) publishEvent(kind string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishEvent(kind, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", kind, err)
	}
}
