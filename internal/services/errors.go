package services

import "errors"

// Domain errors returned by the services. Handlers match these with
// errors.Is to pick the response status.
var (
	// ErrEmailTaken indicates a signup or update collided with an
	// existing account's email.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrCodeTaken indicates the requested short code is already in use.
	ErrCodeTaken = errors.New("short code already exists")

	// ErrUserNotFound indicates no account exists for the given id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrLinkNotFound indicates the link does not exist or is not owned
	// by the caller. Ownership mismatches deliberately look identical to
	// missing links.
	ErrLinkNotFound = errors.New("link not found")

	// ErrInvalidCredentials indicates a password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoFieldsToUpdate indicates an update request carried nothing to apply.
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrPasswordChangePair indicates only one of currentPassword and
	// newPassword was supplied.
	ErrPasswordChangePair = errors.New("currentPassword and newPassword must be supplied together")
)
