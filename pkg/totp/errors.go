package totp

import "errors"

var (
	ErrFailedToGenerateSecretKey   = errors.New("failed to generate TOTP secret key")
	ErrFailedToGenerateTOTP        = errors.New("failed to generate TOTP")
	ErrInvalidSecret               = errors.New("invalid secret")
	ErrMissingAccountName          = errors.New("missing account name")
	ErrMissingIssuer               = errors.New("missing issuer")
	ErrEncryptionKeyNotSet         = errors.New("TOTP encryption key not set")
	ErrFailedToLoadEncryptionKey   = errors.New("failed to load encryption key")
	ErrInvalidEncryptionKeyLength  = errors.New("invalid encryption key length")
	ErrInvalidBackupCodeCount      = errors.New("invalid backup code count, must be between 1 and 100")
	ErrFailedToGenerateBackupCodes = errors.New("failed to generate backup codes")
)
