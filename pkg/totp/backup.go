package totp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"math/big"
	"strconv"
	"strings"
)

const (
	DefaultBackupCodeCount = 10

	maxBackupCodeCount = 100
	backupCodeMin      = 100000
	backupCodeSpan     = 900000 // codes fall in [100000, 999999]
)

// BackupCode is a stored single-use code. Code holds the digest produced by
// HashBackupCode, never the plaintext shown to the user.
type BackupCode struct {
	Code string `json:"code"`
	Used bool   `json:"used"`
}

// GenerateBackupCodes returns count distinct six-digit codes drawn uniformly at random.
func GenerateBackupCodes(count int) ([]string, error) {
	if count < 1 || count > maxBackupCodeCount {
		return nil, ErrInvalidBackupCodeCount
	}

	span := big.NewInt(backupCodeSpan)
	seen := make(map[string]struct{}, count)
	codes := make([]string, 0, count)
	for len(codes) < count {
		n, err := rand.Int(rand.Reader, span)
		if err != nil {
			return nil, errors.Join(ErrFailedToGenerateBackupCodes, err)
		}
		code := strconv.FormatInt(n.Int64()+backupCodeMin, 10)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes, nil
}

// HashBackupCode binds a code to scope (the owning record) and returns its hex SHA-256 digest.
func HashBackupCode(scope, code string) string {
	sum := sha256.Sum256([]byte(scope + ":" + code))
	return hex.EncodeToString(sum[:])
}

// SealBackupCodes converts plaintext codes into unused stored entries for scope.
func SealBackupCodes(scope string, codes []string) []BackupCode {
	sealed := make([]BackupCode, len(codes))
	for i, code := range codes {
		sealed[i] = BackupCode{Code: HashBackupCode(scope, code)}
	}
	return sealed
}

// ConsumeBackupCode looks for an unused entry matching submitted. On a match it
// returns true and a copy of codes with that entry marked used; otherwise it
// returns false and codes unchanged. The input slice is never modified.
func ConsumeBackupCode(scope string, codes []BackupCode, submitted string) (bool, []BackupCode) {
	submitted = strings.TrimSpace(submitted)
	if !codeRegex.MatchString(submitted) {
		return false, codes
	}

	digest := []byte(HashBackupCode(scope, submitted))
	match := -1
	for i, c := range codes {
		// Compare every entry so timing does not reveal the position of a match.
		eq := subtle.ConstantTimeCompare([]byte(c.Code), digest) == 1
		if eq && !c.Used && match < 0 {
			match = i
		}
	}
	if match < 0 {
		return false, codes
	}

	updated := make([]BackupCode, len(codes))
	copy(updated, codes)
	updated[match].Used = true
	return true, updated
}

// RemainingBackupCodes counts entries that have not been redeemed yet.
func RemainingBackupCodes(codes []BackupCode) int {
	n := 0
	for _, c := range codes {
		if !c.Used {
			n++
		}
	}
	return n
}
