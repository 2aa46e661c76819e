// Package auth implements password authentication with an optional TOTP
// second factor.
//
// Service composes the building blocks of the module into the operations an
// HTTP boundary exposes:
//
//   - Register creates a credential (bcrypt, cost 10) and returns a session.
//   - Login checks email and password and, when enabled, the second factor.
//     Without a code it returns a challenge (RequireTwoFactor) and no token.
//   - BeginEnrollment and ConfirmEnrollment enroll an authenticator app and
//     hand out single-use backup codes exactly once.
//   - DisableSecondFactor clears every second-factor field after a password check.
//   - UpdateProfile and GetProfile manage name, email and password.
//
// Each login attempt runs through a small state machine (pkg/statemachine):
//
//	START -> CREDENTIALS_PENDING -> AUTHENTICATED
//	                             -> SECOND_FACTOR_REQUIRED -> AUTHENTICATED | REJECTED
//	                             -> REJECTED
//
// # Records and storage
//
// Credential methods are pure transitions returning the next record value.
// Storage.Update applies such a transition to the freshest stored record and
// commits it atomically, which is what makes backup code redemption
// single-use under concurrent logins. Implementations live in svc/credstore.
//
// TOTP secrets are sealed with a SecretSealer bound to the record ID and
// backup codes are stored as per-record digests.
//
// # Error Handling
//
// Operations return the sentinels in errors.go (ErrDuplicateIdentity,
// ErrInvalidCredentials, ErrInvalidSecondFactor, ErrNoPendingEnrollment,
// ErrNotFound) or an error joined with ErrInternal. Input problems are
// reported as validator.ValidationErrors. An unknown email and a wrong
// password are indistinguishable to the caller.
package auth
