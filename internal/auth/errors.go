package auth

import "errors"

var (
	// ErrValidation matches every registration input error
	ErrValidation = errors.New("invalid registration")
	// ErrConflict is returned when registering a username that already exists
	ErrConflict = errors.New("username already exists")
	// ErrInvalidCredentials is the single answer to any failed login
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated means the request carries no live session
	ErrUnauthenticated = errors.New("not logged in")

	ErrSessionNotFound = errors.New("session not found")

	ErrMissingFields    = &ValidationError{Message: "all fields are required"}
	ErrPasswordMismatch = &ValidationError{Message: "passwords do not match"}
)

// ValidationError is a registration form problem meant to be shown to the user
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
