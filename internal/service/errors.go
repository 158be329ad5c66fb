package service

import "errors"

// Closed set of failure kinds. Handlers match these with errors.Is and map
// them to the human-readable response envelope; clients never have to parse
// message text to branch.
var (
	ErrEmailExists    = errors.New("email already exists")
	ErrUsernameExists = errors.New("username already exists")

	ErrInvalidToken = errors.New("invalid verification token")

	ErrUserNotFound  = errors.New("user not found")
	ErrNotVerified   = errors.New("email not verified")
	ErrBadCredential = errors.New("incorrect password")

	ErrTokenMismatch = errors.New("reset token mismatch")
	ErrTokenExpired  = errors.New("reset token expired")

	ErrNoSchedules = errors.New("no schedules found")

	ErrDeliveryFailure = errors.New("email delivery failed")
)
