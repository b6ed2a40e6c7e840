package service

import "errors"

// Constraint violations surfaced by the persistence layer. Repositories
// wrap the underlying store error with one of these sentinels so callers
// can match with errors.Is without knowing about Postgres error codes.
var (
	// ErrDuplicateUser is returned when a username is already taken
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateAccount is returned when the linked user already has an account
	ErrDuplicateAccount = errors.New("account already exists for user")

	// ErrUserMissing is returned when an account references a user that does not exist
	ErrUserMissing = errors.New("linked user does not exist")
)
