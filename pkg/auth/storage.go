package auth

import (
	"context"

	"github.com/google/uuid"
)

// UpdateFunc computes the next version of a record. It must be free of side
// effects: optimistic stores may call it more than once. Returning an error
// aborts the update and the error is returned from Storage.Update unchanged.
type UpdateFunc func(current Credential) (Credential, error)

// Storage persists credential records. Implementations live in svc/credstore.
//
// Create and Update report a taken email as ErrDuplicateIdentity; lookups
// report a miss as ErrNotFound. Update applies fn to the freshest record and
// commits the result atomically, so concurrent updates of one record are
// linearizable.
type Storage interface {
	Create(ctx context.Context, cred Credential) error
	GetByID(ctx context.Context, id uuid.UUID) (Credential, error)
	GetByEmail(ctx context.Context, email string) (Credential, error)
	Update(ctx context.Context, id uuid.UUID, fn UpdateFunc) (Credential, error)
}
