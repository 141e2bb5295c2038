package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrAlreadyRegistered is returned when registering an email that already
	// has an account.
	ErrAlreadyRegistered = errors.New("email already registered")

	// ErrUnknownUser is returned when a password reset is requested for an
	// email with no account.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidResetToken is returned when completing a password reset with a
	// token that is empty, already used, or was never issued.
	ErrInvalidResetToken = errors.New("invalid reset token")

	// ErrDuplicateEmail is the store-level uniqueness guard. The auth service
	// pre-checks, but the store still enforces it and reports it with this.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrUserNotFound is the store-level absence result for operations keyed
	// by user id. The auth service translates it before it reaches callers.
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable wraps transport or persistence failures. Nothing is
	// retried here; callers decide.
	ErrStoreUnavailable = errors.New("user store unavailable")
)
