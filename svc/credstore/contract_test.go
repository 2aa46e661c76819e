package credstore_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/totp"
)

func newCredential(email string) auth.Credential {
	return auth.NewCredential(uuid.New(), "Alice", email, "$2a$10$hash", time.Now())
}

// runStorageContract exercises behaviour every auth.Storage must share.
func runStorageContract(t *testing.T, newStore func(t *testing.T) auth.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("create and lookup", func(t *testing.T) {
		store := newStore(t)
		cred := newCredential("alice-" + uuid.NewString() + "@example.com")
		require.NoError(t, store.Create(ctx, cred))

		byID, err := store.GetByID(ctx, cred.ID)
		require.NoError(t, err)
		assert.Equal(t, cred.Email, byID.Email)
		assert.Equal(t, int64(1), byID.Version)
		assert.True(t, cred.CreatedAt.Equal(byID.CreatedAt))

		byEmail, err := store.GetByEmail(ctx, cred.Email)
		require.NoError(t, err)
		assert.Equal(t, cred.ID, byEmail.ID)
	})

	t.Run("missing records", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, auth.ErrNotFound)
		_, err = store.GetByEmail(ctx, "nobody-"+uuid.NewString()+"@example.com")
		assert.ErrorIs(t, err, auth.ErrNotFound)
		_, err = store.Update(ctx, uuid.New(), func(c auth.Credential) (auth.Credential, error) { return c, nil })
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := newStore(t)
		email := "dup-" + uuid.NewString() + "@example.com"
		require.NoError(t, store.Create(ctx, newCredential(email)))
		assert.ErrorIs(t, store.Create(ctx, newCredential(email)), auth.ErrDuplicateIdentity)
	})

	t.Run("update bumps version", func(t *testing.T) {
		store := newStore(t)
		cred := newCredential("upd-" + uuid.NewString() + "@example.com")
		require.NoError(t, store.Create(ctx, cred))

		updated, err := store.Update(ctx, cred.ID, func(c auth.Credential) (auth.Credential, error) {
			return c.WithProfile("Bob", ""), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "Bob", updated.Name)
		assert.Equal(t, int64(2), updated.Version)

		stored, err := store.GetByID(ctx, cred.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", stored.Name)
		assert.Equal(t, int64(2), stored.Version)
	})

	t.Run("update error leaves record untouched", func(t *testing.T) {
		store := newStore(t)
		cred := newCredential("err-" + uuid.NewString() + "@example.com")
		require.NoError(t, store.Create(ctx, cred))

		boom := errors.New("boom")
		_, err := store.Update(ctx, cred.ID, func(c auth.Credential) (auth.Credential, error) {
			return c.WithProfile("Changed", ""), boom
		})
		assert.ErrorIs(t, err, boom)

		stored, err := store.GetByID(ctx, cred.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", stored.Name)
		assert.Equal(t, int64(1), stored.Version)
	})

	t.Run("update rejects invariant violations", func(t *testing.T) {
		store := newStore(t)
		cred := newCredential("inv-" + uuid.NewString() + "@example.com")
		require.NoError(t, store.Create(ctx, cred))

		_, err := store.Update(ctx, cred.ID, func(c auth.Credential) (auth.Credential, error) {
			c.TwoFactorEnabled = true
			return c, nil
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentialState)

		_, err = store.Update(ctx, cred.ID, func(c auth.Credential) (auth.Credential, error) {
			c.ID = uuid.New()
			return c, nil
		})
		assert.ErrorIs(t, err, auth.ErrImmutableFieldChanged)
	})

	t.Run("email change keeps index consistent", func(t *testing.T) {
		store := newStore(t)
		a := newCredential("a-" + uuid.NewString() + "@example.com")
		b := newCredential("b-" + uuid.NewString() + "@example.com")
		require.NoError(t, store.Create(ctx, a))
		require.NoError(t, store.Create(ctx, b))

		_, err := store.Update(ctx, a.ID, func(c auth.Credential) (auth.Credential, error) {
			return c.WithProfile("", b.Email), nil
		})
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)

		moved := "moved-" + uuid.NewString() + "@example.com"
		_, err = store.Update(ctx, a.ID, func(c auth.Credential) (auth.Credential, error) {
			return c.WithProfile("", moved), nil
		})
		require.NoError(t, err)

		_, err = store.GetByEmail(ctx, a.Email)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		got, err := store.GetByEmail(ctx, moved)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("second factor fields round trip", func(t *testing.T) {
		store := newStore(t)
		cred := newCredential("2fa-" + uuid.NewString() + "@example.com")
		require.NoError(t, store.Create(ctx, cred))

		codes := totp.SealBackupCodes(cred.Scope(), []string{"111111", "222222"})
		_, err := store.Update(ctx, cred.ID, func(c auth.Credential) (auth.Credential, error) {
			return c.WithPendingSecret("sealed").EnableSecondFactor(codes)
		})
		require.NoError(t, err)

		stored, err := store.GetByID(ctx, cred.ID)
		require.NoError(t, err)
		assert.True(t, stored.TwoFactorEnabled)
		assert.Equal(t, "sealed", stored.TwoFactorSecret)
		assert.Empty(t, stored.TwoFactorTempSecret)
		assert.Equal(t, codes, stored.BackupCodes)
	})

	t.Run("concurrent redemption succeeds once", func(t *testing.T) {
		store := newStore(t)
		cred := newCredential("race-" + uuid.NewString() + "@example.com")
		require.NoError(t, store.Create(ctx, cred))

		codes := totp.SealBackupCodes(cred.Scope(), []string{"123456"})
		_, err := store.Update(ctx, cred.ID, func(c auth.Credential) (auth.Credential, error) {
			return c.WithPendingSecret("sealed").EnableSecondFactor(codes)
		})
		require.NoError(t, err)

		const workers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Update(ctx, cred.ID, func(c auth.Credential) (auth.Credential, error) {
					return c.RedeemBackupCode("123456")
				})
				if err == nil {
					mu.Lock()
					successes++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		stored, err := store.GetByID(ctx, cred.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.RemainingBackupCodes())
	})
}
