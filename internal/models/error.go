package models

import (
	"errors"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Account state errors
	ErrAccountDisabled  = errors.New("account is disabled")
	ErrAccountSuspended = errors.New("account is suspended")

	// Login throttling errors
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrInvalidIdentifier  = errors.New("login identifier is empty or malformed")
	ErrStorageUnavailable = errors.New("login attempt store unavailable")
)

// LockoutError carries the user-facing lockout message and remaining wait.
// Matches ErrAccountLocked under errors.Is.
type LockoutError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrAccountLocked.Error()
}

func (e *LockoutError) Is(target error) bool {
	return target == ErrAccountLocked
}

