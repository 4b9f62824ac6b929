package auth

import (
	"errors"
	"fmt"

	"github.com/PropertyLens/PropertyLens/internal/apperr"
)

var (
	// ErrInvalidCredentials is returned when the username is unknown or the password is wrong.
	// Both cases share this error so callers can't tell which one happened.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserAccountDisabled is returned when the password was right but the account is disabled.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidOldPassword is returned when the provided old password does not match the user's current password.
	ErrInvalidOldPassword = errors.New("invalid old password")

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)

	// ErrUnauthenticated is returned by the gate when no active user is signed in.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned by the gate when the signed in user's role is too low.
	ErrForbidden = errors.New("insufficient role")
)
