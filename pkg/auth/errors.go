package auth

import "errors"

// Errors returned by Service operations. Infrastructure failures are joined
// with ErrInternal so callers can answer generically and log the cause.
var (
	ErrDuplicateIdentity   = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidSecondFactor = errors.New("invalid authentication code")
	ErrNoPendingEnrollment = errors.New("no pending two-factor enrollment")
	ErrNotFound            = errors.New("credential not found")
	ErrInternal            = errors.New("internal error")
)

// Record integrity errors, reported by Validate and CheckTransition.
var (
	ErrInvalidCredentialState = errors.New("credential violates two-factor invariants")
	ErrImmutableFieldChanged  = errors.New("credential id or creation time changed")
)
