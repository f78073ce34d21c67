package authstate

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoOrganization   = errors.New("no organization found")
	ErrAlreadyStarted   = errors.New("auth state manager already started")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

const MinPasswordLength = 6

// ValidatePassword runs the checks made before any call to the auth service.
func ValidatePassword(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
