package credstore

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/totp"
)

// document is the serialized form shared by the Mongo (BSON) and Redis (JSON) stores.
type document struct {
	ID                  string            `bson:"_id" json:"id"`
	Name                string            `bson:"name" json:"name"`
	Email               string            `bson:"email" json:"email"`
	EmailKey            string            `bson:"email_key" json:"-"`
	PasswordHash        string            `bson:"password_hash" json:"password_hash"`
	TwoFactorEnabled    bool              `bson:"two_factor_enabled" json:"two_factor_enabled"`
	TwoFactorSecret     string            `bson:"two_factor_secret,omitempty" json:"two_factor_secret,omitempty"`
	TwoFactorTempSecret string            `bson:"two_factor_temp_secret,omitempty" json:"two_factor_temp_secret,omitempty"`
	BackupCodes         []totp.BackupCode `bson:"backup_codes" json:"backup_codes"`
	CreatedAt           time.Time         `bson:"created_at" json:"created_at"`
	Version             int64             `bson:"version" json:"version"`
}

func toDocument(c auth.Credential) document {
	codes := c.BackupCodes
	if codes == nil {
		codes = []totp.BackupCode{}
	}
	return document{
		ID:                  c.ID.String(),
		Name:                c.Name,
		Email:               c.Email,
		EmailKey:            emailKey(c.Email),
		PasswordHash:        c.PasswordHash,
		TwoFactorEnabled:    c.TwoFactorEnabled,
		TwoFactorSecret:     c.TwoFactorSecret,
		TwoFactorTempSecret: c.TwoFactorTempSecret,
		BackupCodes:         codes,
		CreatedAt:           c.CreatedAt.UTC(),
		Version:             c.Version,
	}
}

func (d document) credential() (auth.Credential, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return auth.Credential{}, err
	}
	var codes []totp.BackupCode
	if len(d.BackupCodes) > 0 {
		codes = d.BackupCodes
	}
	return auth.Credential{
		ID:                  id,
		Name:                d.Name,
		Email:               d.Email,
		PasswordHash:        d.PasswordHash,
		TwoFactorEnabled:    d.TwoFactorEnabled,
		TwoFactorSecret:     d.TwoFactorSecret,
		TwoFactorTempSecret: d.TwoFactorTempSecret,
		BackupCodes:         codes,
		CreatedAt:           d.CreatedAt.UTC(),
		Version:             d.Version,
	}, nil
}
