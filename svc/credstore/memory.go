package credstore

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// Memory is an in-process auth.Storage. Updates are serialized by a single mutex.
type Memory struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]auth.Credential
	byEmail map[string]uuid.UUID
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[uuid.UUID]auth.Credential),
		byEmail: make(map[string]uuid.UUID),
	}
}

func emailKey(email string) string {
	return strings.ToLower(email)
}

func (m *Memory) Create(_ context.Context, cred auth.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[emailKey(cred.Email)]; ok {
		return auth.ErrDuplicateIdentity
	}
	if _, ok := m.byID[cred.ID]; ok {
		return auth.ErrDuplicateIdentity
	}

	cred = cred.Clone()
	cred.Version = 1
	m.byID[cred.ID] = cred
	m.byEmail[emailKey(cred.Email)] = cred.ID
	return nil
}

func (m *Memory) GetByID(_ context.Context, id uuid.UUID) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cred, ok := m.byID[id]
	if !ok {
		return auth.Credential{}, auth.ErrNotFound
	}
	return cred.Clone(), nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byEmail[emailKey(email)]
	if !ok {
		return auth.Credential{}, auth.ErrNotFound
	}
	return m.byID[id].Clone(), nil
}

func (m *Memory) Update(_ context.Context, id uuid.UUID, fn auth.UpdateFunc) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.byID[id]
	if !ok {
		return auth.Credential{}, auth.ErrNotFound
	}

	next, err := fn(cur.Clone())
	if err != nil {
		return auth.Credential{}, err
	}
	if err := auth.CheckTransition(cur, next); err != nil {
		return auth.Credential{}, err
	}

	oldKey, newKey := emailKey(cur.Email), emailKey(next.Email)
	if oldKey != newKey {
		if _, taken := m.byEmail[newKey]; taken {
			return auth.Credential{}, auth.ErrDuplicateIdentity
		}
		delete(m.byEmail, oldKey)
		m.byEmail[newKey] = id
	}

	next = next.Clone()
	next.Version = cur.Version + 1
	m.byID[id] = next
	return next.Clone(), nil
}
