package totp

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	DefaultDigits     = 6  // Standard 6-digit TOTP codes
	DefaultPeriod     = 30 // 30-second step (RFC 6238 standard)
	DefaultSkew       = 1  // One step either side absorbs clock drift
	DefaultSecretSize = 20 // 160-bit secret (RFC 4226 recommendation)
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

	codeRegex = regexp.MustCompile(`^\d{6}$`)

	validateOpts = totp.ValidateOpts{
		Period:    DefaultPeriod,
		Skew:      DefaultSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
)

// Key is a freshly generated shared secret together with its provisioning URI.
type Key struct {
	Secret string // Base32-encoded secret without padding
	URI    string // otpauth:// URI consumed by authenticator apps
}

// GenerateSecret creates a new random shared secret labelled for the given issuer and account.
// The URI follows the Key Uri Format:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func GenerateSecret(issuer, accountName string) (Key, error) {
	if strings.TrimSpace(issuer) == "" {
		return Key{}, ErrMissingIssuer
	}
	if strings.TrimSpace(accountName) == "" {
		return Key{}, ErrMissingAccountName
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Period:      DefaultPeriod,
		SecretSize:  DefaultSecretSize,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Key{}, errors.Join(ErrFailedToGenerateSecretKey, err)
	}

	return Key{Secret: key.Secret(), URI: key.URL()}, nil
}

// VerifyCode reports whether code matches the secret for the step containing at
// or one of its two neighbours. Malformed secrets and codes never match.
func VerifyCode(secret, code string, at time.Time) bool {
	secret, ok := normalizeSecret(secret)
	if !ok {
		return false
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false
	}

	valid, err := totp.ValidateCustom(code, secret, at, validateOpts)
	if err != nil {
		return false
	}
	return valid
}

// GenerateCode returns the code for the 30-second step containing at.
func GenerateCode(secret string, at time.Time) (string, error) {
	secret, ok := normalizeSecret(secret)
	if !ok {
		return "", ErrInvalidSecret
	}

	code, err := totp.GenerateCodeCustom(secret, at, validateOpts)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	return code, nil
}

func normalizeSecret(secret string) (string, bool) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return "", false
	}
	return secret, true
}
