// Package secrets seals sensitive values, such as TOTP shared secrets, before
// they are written to storage.
//
// A compound 32-byte key is derived with HKDF-SHA-256 from the application key
// and a scope key (the SHA-256 of a scope string, typically the record ID). The
// derived key is used with AES-256-GCM; the random nonce is prepended to the
// ciphertext so the stored value is self-contained.
//
// # Usage
//
//	import "github.com/dmitrymomot/authkit/pkg/secrets"
//
//	sealer, err := secrets.NewSealer(appKey) // 32 bytes
//	if err != nil {
//	    // handle error
//	}
//
//	sealed, err := sealer.Seal(userID, "JBSWY3DPEHPK3PXP")
//	plain, err := sealer.Open(userID, sealed)
//
// The lower-level EncryptBytes and DecryptBytes operate on raw keys.
//
// # Error Handling
//
// All functions return errors joined with a sentinel such as ErrDecryptionFailed
// or ErrInvalidCiphertext. Use errors.Is to match them.
package secrets
