package credstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// Redis stores each credential as a JSON value plus an email index key.
// Writes run in WATCH/MULTI transactions and are retried on conflict.
type Redis struct {
	client redis.UniversalClient
	opts   options
}

// NewRedis returns a store backed by client.
func NewRedis(client redis.UniversalClient, opts ...Option) *Redis {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Redis{client: client, opts: o}
}

func (s *Redis) idKey(id uuid.UUID) string {
	return s.opts.prefix + ":id:" + id.String()
}

func (s *Redis) emailKey(email string) string {
	return s.opts.prefix + ":email:" + emailKey(email)
}

func (s *Redis) Create(ctx context.Context, cred auth.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	cred.Version = 1
	data, err := encodeDocument(cred)
	if err != nil {
		return err
	}

	idKey, mailKey := s.idKey(cred.ID), s.emailKey(cred.Email)
	return s.retry(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, idKey, mailKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return auth.ErrDuplicateIdentity
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, mailKey, cred.ID.String(), 0)
			pipe.Set(ctx, idKey, data, 0)
			return nil
		})
		return err
	}, idKey, mailKey)
}

func (s *Redis) GetByID(ctx context.Context, id uuid.UUID) (auth.Credential, error) {
	return s.load(ctx, s.client, id)
}

func (s *Redis) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	raw, err := s.client.Get(ctx, s.emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return auth.Credential{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Credential{}, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return auth.Credential{}, errors.Join(ErrFailedToDecode, err)
	}
	return s.load(ctx, s.client, id)
}

func (s *Redis) Update(ctx context.Context, id uuid.UUID, fn auth.UpdateFunc) (auth.Credential, error) {
	var updated auth.Credential
	idKey := s.idKey(id)

	err := s.retry(ctx, func(tx *redis.Tx) error {
		cur, err := s.load(ctx, tx, id)
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

		oldMail, newMail := s.emailKey(cur.Email), s.emailKey(next.Email)
		if oldMail != newMail {
			if err := tx.Watch(ctx, newMail).Err(); err != nil {
				return err
			}
			n, err := tx.Exists(ctx, newMail).Result()
			if err != nil {
				return err
			}
			if n > 0 {
				return auth.ErrDuplicateIdentity
			}
		}

		data, err := encodeDocument(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, idKey, data, 0)
			if oldMail != newMail {
				pipe.Del(ctx, oldMail)
				pipe.Set(ctx, newMail, id.String(), 0)
			}
			return nil
		})
		if err != nil {
			return err
		}

		updated = next
		return nil
	}, idKey)
	if err != nil {
		return auth.Credential{}, err
	}
	return updated, nil
}

func (s *Redis) retry(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error {
	for range s.opts.maxRetries {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return ErrConcurrentUpdate
}

// getter is satisfied by both the client and a WATCH transaction.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *Redis) load(ctx context.Context, c getter, id uuid.UUID) (auth.Credential, error) {
	data, err := c.Get(ctx, s.idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return auth.Credential{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Credential{}, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return auth.Credential{}, errors.Join(ErrFailedToDecode, err)
	}
	cred, err := doc.credential()
	if err != nil {
		return auth.Credential{}, errors.Join(ErrFailedToDecode, err)
	}
	return cred, nil
}

func encodeDocument(c auth.Credential) ([]byte, error) {
	data, err := json.Marshal(toDocument(c))
	if err != nil {
		return nil, errors.Join(ErrFailedToEncode, err)
	}
	return data, nil
}
