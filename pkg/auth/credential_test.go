package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/totp"
)

func testCredential() Credential {
	return NewCredential(uuid.New(), "Alice", "alice@example.com", "hash", time.Now())
}

func enabledCredential(t *testing.T, plain ...string) Credential {
	t.Helper()
	c := testCredential()
	next, err := c.WithPendingSecret("sealed").EnableSecondFactor(totp.SealBackupCodes(c.Scope(), plain))
	require.NoError(t, err)
	return next
}

func TestNewCredential(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 1, 10, 0, 0, 123456789, time.FixedZone("X", 3600))
	c := NewCredential(uuid.New(), "Alice", "alice@example.com", "hash", at)

	assert.False(t, c.TwoFactorEnabled)
	assert.Empty(t, c.TwoFactorSecret)
	assert.Empty(t, c.BackupCodes)
	assert.Equal(t, time.UTC, c.CreatedAt.Location())
	assert.Equal(t, 123000000, c.CreatedAt.Nanosecond())
	assert.NoError(t, c.Validate())
}

func TestCredential_WithProfile(t *testing.T) {
	t.Parallel()

	c := testCredential()

	next := c.WithProfile("Bob", "")
	assert.Equal(t, "Bob", next.Name)
	assert.Equal(t, c.Email, next.Email)
	assert.Equal(t, "Alice", c.Name, "receiver must not change")

	next = c.WithProfile("", "bob@example.com")
	assert.Equal(t, "Alice", next.Name)
	assert.Equal(t, "bob@example.com", next.Email)
}

func TestCredential_Enrollment(t *testing.T) {
	t.Parallel()

	t.Run("enable requires pending secret", func(t *testing.T) {
		t.Parallel()

		_, err := testCredential().EnableSecondFactor(nil)
		assert.ErrorIs(t, err, ErrNoPendingEnrollment)
	})

	t.Run("enable promotes pending secret", func(t *testing.T) {
		t.Parallel()

		c := enabledCredential(t, "111111", "222222")
		assert.True(t, c.TwoFactorEnabled)
		assert.Equal(t, "sealed", c.TwoFactorSecret)
		assert.Empty(t, c.TwoFactorTempSecret)
		assert.Equal(t, 2, c.RemainingBackupCodes())
		assert.NoError(t, c.Validate())
	})

	t.Run("re-enrollment keeps current factor until confirmed", func(t *testing.T) {
		t.Parallel()

		c := enabledCredential(t, "111111").WithPendingSecret("sealed-2")
		assert.True(t, c.TwoFactorEnabled)
		assert.Equal(t, "sealed", c.TwoFactorSecret)
		require.NoError(t, c.Validate())

		next, err := c.EnableSecondFactor(totp.SealBackupCodes(c.Scope(), []string{"333333"}))
		require.NoError(t, err)
		assert.Equal(t, "sealed-2", next.TwoFactorSecret)

		_, err = next.RedeemBackupCode("111111")
		assert.ErrorIs(t, err, ErrInvalidSecondFactor)
	})

	t.Run("disable clears everything", func(t *testing.T) {
		t.Parallel()

		c := enabledCredential(t, "111111").WithPendingSecret("pending").WithoutSecondFactor()
		assert.False(t, c.TwoFactorEnabled)
		assert.Empty(t, c.TwoFactorSecret)
		assert.Empty(t, c.TwoFactorTempSecret)
		assert.Empty(t, c.BackupCodes)
		assert.NoError(t, c.Validate())
	})
}

func TestCredential_RedeemBackupCode(t *testing.T) {
	t.Parallel()

	c := enabledCredential(t, "111111", "222222")

	next, err := c.RedeemBackupCode("111111")
	require.NoError(t, err)
	assert.Equal(t, 1, next.RemainingBackupCodes())
	assert.Equal(t, 2, c.RemainingBackupCodes(), "receiver must not change")

	_, err = next.RedeemBackupCode("111111")
	assert.ErrorIs(t, err, ErrInvalidSecondFactor)

	_, err = testCredential().RedeemBackupCode("111111")
	assert.ErrorIs(t, err, ErrInvalidSecondFactor)
}

func TestCredential_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Credential)
	}{
		{name: "missing id", mutate: func(c *Credential) { c.ID = uuid.Nil }},
		{name: "missing email", mutate: func(c *Credential) { c.Email = "" }},
		{name: "missing password hash", mutate: func(c *Credential) { c.PasswordHash = "" }},
		{name: "enabled without secret", mutate: func(c *Credential) { c.TwoFactorEnabled = true }},
		{name: "secret while disabled", mutate: func(c *Credential) { c.TwoFactorSecret = "sealed" }},
		{name: "codes while disabled", mutate: func(c *Credential) { c.BackupCodes = []totp.BackupCode{{Code: "x"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := testCredential()
			tt.mutate(&c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidCredentialState)
		})
	}
}

func TestCheckTransition(t *testing.T) {
	t.Parallel()

	prev := enabledCredential(t, "111111")

	t.Run("accepts redemption", func(t *testing.T) {
		t.Parallel()

		next, err := prev.RedeemBackupCode("111111")
		require.NoError(t, err)
		assert.NoError(t, CheckTransition(prev, next))
	})

	t.Run("rejects changed id", func(t *testing.T) {
		t.Parallel()

		next := prev.Clone()
		next.ID = uuid.New()
		assert.ErrorIs(t, CheckTransition(prev, next), ErrImmutableFieldChanged)
	})

	t.Run("rejects changed creation time", func(t *testing.T) {
		t.Parallel()

		next := prev.Clone()
		next.CreatedAt = next.CreatedAt.Add(time.Second)
		assert.ErrorIs(t, CheckTransition(prev, next), ErrImmutableFieldChanged)
	})

	t.Run("rejects unmarking a used code", func(t *testing.T) {
		t.Parallel()

		used, err := prev.RedeemBackupCode("111111")
		require.NoError(t, err)
		assert.ErrorIs(t, CheckTransition(used, prev), ErrInvalidCredentialState)
	})

	t.Run("rejects invalid result", func(t *testing.T) {
		t.Parallel()

		next := prev.Clone()
		next.TwoFactorSecret = ""
		assert.ErrorIs(t, CheckTransition(prev, next), ErrInvalidCredentialState)
	})
}
