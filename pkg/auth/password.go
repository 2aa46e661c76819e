package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor. It is fixed, not configurable.
const PasswordCost = 10

// HashPassword returns a bcrypt hash of plaintext with a fresh random salt.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches hash. Malformed hashes
// simply do not match.
func VerifyPassword(plaintext, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// dummyHash is compared against when the email is unknown so that a miss
// costs as much as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("authkit-timing-equalizer")
	if err != nil {
		return ""
	}
	return hash
})
