package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the required size for both app and scope keys
	KeySize = 32 // 256 bits for AES-256

	// saltInfo is used for HKDF key derivation to provide domain separation
	saltInfo = "authkit-secrets-v1"
)

// ValidateKeys checks that both keys are the correct length.
func ValidateKeys(appKey, scopeKey []byte) error {
	validApp := len(appKey) == KeySize
	validScope := len(scopeKey) == KeySize

	if !validApp {
		return ErrInvalidAppKey
	}
	if !validScope {
		return ErrInvalidScopeKey
	}
	return nil
}

// deriveKey creates a compound key from app and scope keys using HKDF.
// The caller must clear the returned key with clearBytes once done.
func deriveKey(appKey, scopeKey []byte) ([]byte, error) {
	hkdfReader := hkdf.New(sha256.New, appKey, scopeKey, []byte(saltInfo))

	derivedKey := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, derivedKey); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return derivedKey, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GenerateKey creates a new random 32-byte key suitable for encryption
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
