package credstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/totp"
)

func TestDocument(t *testing.T) {
	t.Parallel()

	cred := auth.NewCredential(uuid.New(), "Alice", "Alice@Example.com", "hash", time.Now())
	cred.Version = 3

	t.Run("empty backup codes encode as empty list", func(t *testing.T) {
		t.Parallel()

		doc := toDocument(cred)
		assert.NotNil(t, doc.BackupCodes)
		assert.Equal(t, "alice@example.com", doc.EmailKey)

		back, err := doc.credential()
		require.NoError(t, err)
		assert.Nil(t, back.BackupCodes)
		assert.Equal(t, cred, back)
	})

	t.Run("json form keeps second factor fields", func(t *testing.T) {
		t.Parallel()

		enabled := cred
		enabled.TwoFactorEnabled = true
		enabled.TwoFactorSecret = "sealed"
		enabled.BackupCodes = []totp.BackupCode{{Code: "digest", Used: true}}

		data, err := json.Marshal(toDocument(enabled))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "email_key")

		var doc document
		require.NoError(t, json.Unmarshal(data, &doc))
		back, err := doc.credential()
		require.NoError(t, err)
		assert.True(t, enabled.CreatedAt.Equal(back.CreatedAt))
		back.CreatedAt = enabled.CreatedAt
		assert.Equal(t, enabled, back)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		t.Parallel()

		_, err := document{ID: "not-a-uuid"}.credential()
		assert.Error(t, err)
	})
}
