package totp

import (
	"encoding/base64"
	"errors"
)

// AESKeySize is the decoded length required for TOTP_ENCRYPTION_KEY.
const AESKeySize = 32

// Config holds the second-factor settings shared by enrollment and verification.
type Config struct {
	Issuer          string `env:"TOTP_ISSUER" envDefault:"TaskManager"`   // Label shown in authenticator apps
	EncryptionKey   string `env:"TOTP_ENCRYPTION_KEY,required"`           // Base64 32-byte key sealing secrets at rest
	BackupCodeCount int    `env:"TOTP_BACKUP_CODE_COUNT" envDefault:"10"` // Codes issued per enrollment
	QRCodeSize      int    `env:"TOTP_QR_CODE_SIZE" envDefault:"256"`     // Provisioning image size in pixels
}

// EncryptionKeyBytes decodes the encryption key from the configuration.
// The key must be a 32-byte base64-encoded string.
func (c Config) EncryptionKeyBytes() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, errors.Join(ErrFailedToLoadEncryptionKey, ErrEncryptionKeyNotSet)
	}

	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadEncryptionKey, err)
	}

	if len(key) != AESKeySize {
		return nil, errors.Join(ErrFailedToLoadEncryptionKey, ErrInvalidEncryptionKeyLength)
	}

	return key, nil
}
