package credstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit/pkg/auth"
	"github.com/dmitrymomot/authkit/pkg/pg"
	"github.com/dmitrymomot/authkit/pkg/totp"
)

const (
	selectCredential = `SELECT id, name, email, password_hash, two_factor_enabled,
		two_factor_secret, two_factor_temp_secret, backup_codes, created_at, version
		FROM credentials`

	insertCredential = `INSERT INTO credentials (id, name, email, password_hash, two_factor_enabled,
		two_factor_secret, two_factor_temp_secret, backup_codes, created_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)`

	updateCredential = `UPDATE credentials SET name = $2, email = $3, password_hash = $4,
		two_factor_enabled = $5, two_factor_secret = $6, two_factor_temp_secret = $7,
		backup_codes = $8, version = $9
		WHERE id = $1`
)

// Postgres stores credentials in the table created by the embedded migrations.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a connection pool. Apply migrations.FS before use.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (s *Postgres) Create(ctx context.Context, cred auth.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	codes, err := encodeCodes(cred.BackupCodes)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, insertCredential,
		cred.ID, cred.Name, cred.Email, cred.PasswordHash, cred.TwoFactorEnabled,
		cred.TwoFactorSecret, cred.TwoFactorTempSecret, codes, cred.CreatedAt)
	return mapWriteError(err)
}

func (s *Postgres) GetByID(ctx context.Context, id uuid.UUID) (auth.Credential, error) {
	return scanCredential(s.pool.QueryRow(ctx, selectCredential+` WHERE id = $1`, id))
}

func (s *Postgres) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	return scanCredential(s.pool.QueryRow(ctx, selectCredential+` WHERE LOWER(email) = LOWER($1)`, email))
}

func (s *Postgres) Update(ctx context.Context, id uuid.UUID, fn auth.UpdateFunc) (auth.Credential, error) {
	var updated auth.Credential
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		cur, err := scanCredential(tx.QueryRow(ctx, selectCredential+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		next, err := fn(cur.Clone())
		if err != nil {
			return err
		}
		if err := auth.CheckTransition(cur, next); err != nil {
			return err
		}
		next.Version = cur.Version + 1

		codes, err := encodeCodes(next.BackupCodes)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, updateCredential,
			next.ID, next.Name, next.Email, next.PasswordHash, next.TwoFactorEnabled,
			next.TwoFactorSecret, next.TwoFactorTempSecret, codes, next.Version)
		if err := mapWriteError(err); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return auth.Credential{}, err
	}
	return updated, nil
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsDuplicateKeyError(err):
		return auth.ErrDuplicateIdentity
	case pg.IsCheckViolationError(err):
		return errors.Join(auth.ErrInvalidCredentialState, err)
	default:
		return err
	}
}

func scanCredential(row pgx.Row) (auth.Credential, error) {
	var (
		c     auth.Credential
		codes []byte
	)
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.TwoFactorEnabled,
		&c.TwoFactorSecret, &c.TwoFactorTempSecret, &codes, &c.CreatedAt, &c.Version)
	if pg.IsNotFoundError(err) {
		return auth.Credential{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Credential{}, err
	}

	if len(codes) > 0 {
		if err := json.Unmarshal(codes, &c.BackupCodes); err != nil {
			return auth.Credential{}, errors.Join(ErrFailedToDecode, err)
		}
	}
	if len(c.BackupCodes) == 0 {
		c.BackupCodes = nil
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

func encodeCodes(codes []totp.BackupCode) ([]byte, error) {
	if codes == nil {
		codes = []totp.BackupCode{}
	}
	b, err := json.Marshal(codes)
	if err != nil {
		return nil, errors.Join(ErrFailedToEncode, err)
	}
	return b, nil
}
