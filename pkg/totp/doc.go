// Package totp implements the second-factor primitives of the service: time-based
// one-time passwords (RFC 6238) and single-use backup codes.
//
// Code computation and secret generation are delegated to github.com/pquerna/otp
// configured with the parameters every mainstream authenticator app expects:
// HMAC-SHA1, six digits, a 30-second step and a tolerance of one step on each
// side of the current one.
//
// # Secrets
//
// GenerateSecret creates a 160-bit random secret (base32, no padding) and the
// matching otpauth:// provisioning URI:
//
//	key, err := totp.GenerateSecret("TaskManager", "alice@example.com")
//	if err != nil {
//		return err
//	}
//	// key.Secret is stored (sealed) on the credential record,
//	// key.URI is rendered as a QR code for the user.
//
// VerifyCode is pure: the caller passes the instant to verify against, which
// keeps verification deterministic in tests.
//
//	ok := totp.VerifyCode(secret, "123456", time.Now())
//
// # Backup codes
//
// GenerateBackupCodes draws distinct six-digit codes. Only digests bound to the
// owning record (SealBackupCodes) are persisted; plaintext codes are returned to
// the user once. ConsumeBackupCode is a pure check-and-mark that returns a new
// slice; the caller commits it atomically with the rest of the record.
//
// # Error Handling
//
// Generation helpers return sentinel errors (ErrMissingIssuer,
// ErrInvalidBackupCodeCount, ...) joined with the underlying cause. Verification
// never returns an error: anything malformed simply does not match.
package totp
