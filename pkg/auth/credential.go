package auth

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/totp"
)

// Credential is the persisted record of one principal. Methods never modify
// the receiver; they return the next version of the record, which the storage
// layer commits atomically through Storage.Update.
type Credential struct {
	ID                  uuid.UUID
	Name                string
	Email               string
	PasswordHash        string
	TwoFactorEnabled    bool
	TwoFactorSecret     string // sealed
	TwoFactorTempSecret string // sealed, pending confirmation
	BackupCodes         []totp.BackupCode
	CreatedAt           time.Time
	Version             int64
}

// NewCredential returns a fresh record with second factor disabled.
func NewCredential(id uuid.UUID, name, email, passwordHash string, createdAt time.Time) Credential {
	return Credential{
		ID:           id,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt.UTC().Truncate(time.Millisecond),
	}
}

// Scope is the key material binding sealed secrets and backup code digests to this record.
func (c Credential) Scope() string {
	return c.ID.String()
}

// Clone returns a deep copy.
func (c Credential) Clone() Credential {
	c.BackupCodes = slices.Clone(c.BackupCodes)
	return c
}

// WithProfile replaces name and email. Empty values keep the current ones.
func (c Credential) WithProfile(name, email string) Credential {
	next := c.Clone()
	if name != "" {
		next.Name = name
	}
	if email != "" {
		next.Email = email
	}
	return next
}

// WithPasswordHash replaces the password hash.
func (c Credential) WithPasswordHash(hash string) Credential {
	next := c.Clone()
	next.PasswordHash = hash
	return next
}

// WithPendingSecret stores a sealed secret awaiting confirmation, replacing
// any earlier pending one. The enabled state is left untouched.
func (c Credential) WithPendingSecret(sealed string) Credential {
	next := c.Clone()
	next.TwoFactorTempSecret = sealed
	return next
}

// EnableSecondFactor promotes the pending secret and installs a new batch of
// backup codes, discarding any previous batch.
func (c Credential) EnableSecondFactor(codes []totp.BackupCode) (Credential, error) {
	if c.TwoFactorTempSecret == "" {
		return c, ErrNoPendingEnrollment
	}
	next := c.Clone()
	next.TwoFactorSecret = c.TwoFactorTempSecret
	next.TwoFactorTempSecret = ""
	next.TwoFactorEnabled = true
	next.BackupCodes = slices.Clone(codes)
	return next, nil
}

// WithoutSecondFactor clears every second-factor field.
func (c Credential) WithoutSecondFactor() Credential {
	next := c.Clone()
	next.TwoFactorEnabled = false
	next.TwoFactorSecret = ""
	next.TwoFactorTempSecret = ""
	next.BackupCodes = nil
	return next
}

// RedeemBackupCode marks the matching unused backup code as used.
// It fails with ErrInvalidSecondFactor when nothing matches.
func (c Credential) RedeemBackupCode(code string) (Credential, error) {
	if !c.TwoFactorEnabled {
		return c, ErrInvalidSecondFactor
	}
	ok, codes := totp.ConsumeBackupCode(c.Scope(), c.BackupCodes, code)
	if !ok {
		return c, ErrInvalidSecondFactor
	}
	next := c.Clone()
	next.BackupCodes = codes
	return next, nil
}

// RemainingBackupCodes counts unused backup codes.
func (c Credential) RemainingBackupCodes() int {
	return totp.RemainingBackupCodes(c.BackupCodes)
}

// Profile returns the public view of the record.
func (c Credential) Profile() Profile {
	return Profile{
		ID:               c.ID,
		Name:             c.Name,
		Email:            c.Email,
		TwoFactorEnabled: c.TwoFactorEnabled,
		CreatedAt:        c.CreatedAt,
	}
}

// Validate checks the record invariants. A pending secret may coexist with an
// enabled second factor while a replacement is being confirmed.
func (c Credential) Validate() error {
	switch {
	case c.ID == uuid.Nil:
		return errors.Join(ErrInvalidCredentialState, errors.New("missing id"))
	case c.Email == "":
		return errors.Join(ErrInvalidCredentialState, errors.New("missing email"))
	case c.PasswordHash == "":
		return errors.Join(ErrInvalidCredentialState, errors.New("missing password hash"))
	case c.TwoFactorEnabled && c.TwoFactorSecret == "":
		return errors.Join(ErrInvalidCredentialState, errors.New("enabled without secret"))
	case !c.TwoFactorEnabled && c.TwoFactorSecret != "":
		return errors.Join(ErrInvalidCredentialState, errors.New("secret set while disabled"))
	case !c.TwoFactorEnabled && len(c.BackupCodes) > 0:
		return errors.Join(ErrInvalidCredentialState, errors.New("backup codes set while disabled"))
	}
	return nil
}

// CheckTransition is called by stores before committing next over prev.
func CheckTransition(prev, next Credential) error {
	if prev.ID != next.ID || !prev.CreatedAt.Equal(next.CreatedAt) {
		return ErrImmutableFieldChanged
	}
	for i := range prev.BackupCodes {
		if i < len(next.BackupCodes) && prev.BackupCodes[i].Code == next.BackupCodes[i].Code &&
			prev.BackupCodes[i].Used && !next.BackupCodes[i].Used {
			return fmt.Errorf("%w: backup code %d unmarked", ErrInvalidCredentialState, i)
		}
	}
	return next.Validate()
}
