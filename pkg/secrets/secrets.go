package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

// Sealer encrypts values at rest under a key derived from the application key
// and a per-record scope. A value sealed for one scope cannot be opened under
// another.
type Sealer struct {
	appKey []byte
}

// NewSealer returns a Sealer for the given 32-byte application key.
func NewSealer(appKey []byte) (*Sealer, error) {
	if len(appKey) != KeySize {
		return nil, ErrInvalidAppKey
	}
	key := make([]byte, KeySize)
	copy(key, appKey)
	return &Sealer{appKey: key}, nil
}

// Seal encrypts plaintext for scope and returns base64-encoded ciphertext.
func (s *Sealer) Seal(scope, plaintext string) (string, error) {
	ciphertext, err := EncryptBytes(s.appKey, scopeKey(scope), []byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open decrypts a value previously produced by Seal for the same scope.
func (s *Sealer) Open(scope, sealed string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}

	plaintext, err := DecryptBytes(s.appKey, scopeKey(scope), ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// scopeKey maps an arbitrary scope string to the 32-byte secondary key.
func scopeKey(scope string) []byte {
	sum := sha256.Sum256([]byte(scope))
	return sum[:]
}

// EncryptBytes encrypts raw bytes using compound key from app and scope keys.
// Returns ciphertext in format: nonce + encrypted data + tag
func EncryptBytes(appKey, scopeKey []byte, data []byte) ([]byte, error) {
	if err := ValidateKeys(appKey, scopeKey); err != nil {
		return nil, err
	}

	key, err := deriveKey(appKey, scopeKey)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	// Prepend nonce to ciphertext for storage
	return aesGCM.Seal(nonce, nonce, data, nil), nil
}

// DecryptBytes decrypts ciphertext back to raw bytes.
// Expects ciphertext in format: nonce + encrypted data + tag
func DecryptBytes(appKey, scopeKey []byte, ciphertext []byte) ([]byte, error) {
	if err := ValidateKeys(appKey, scopeKey); err != nil {
		return nil, err
	}

	key, err := deriveKey(appKey, scopeKey)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	return plaintext, nil
}
