package store

import "errors"

var (
	// ErrNotFound is returned when a lookup by id yields nothing.
	ErrNotFound = errors.New("not found")

	// ErrUserNotFound is returned by relationship toggles for an unknown user.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned when registering an existing username.
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrDuplicateEmail is returned when registering an existing email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidInput is returned for structurally missing input, such as an
	// empty login identifier. Bad credentials are not an error.
	ErrInvalidInput = errors.New("invalid input")
)
