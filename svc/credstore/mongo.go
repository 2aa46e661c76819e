package credstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongoopts "go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/authkit/pkg/auth"
)

// Mongo stores one document per credential. Updates are compare-and-swap on
// the version field.
type Mongo struct {
	coll *mongo.Collection
	opts options
}

// NewMongo returns a store backed by db and ensures the unique email index.
func NewMongo(ctx context.Context, db *mongo.Database, opts ...Option) (*Mongo, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	coll := db.Collection(o.collection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email_key", Value: 1}},
		Options: mongoopts.Index().SetUnique(true).SetName("email_key_unique"),
	})
	if err != nil {
		return nil, errors.Join(ErrFailedToEnsureIndex, err)
	}

	return &Mongo{coll: coll, opts: o}, nil
}

func (s *Mongo) Create(ctx context.Context, cred auth.Credential) error {
	if err := cred.Validate(); err != nil {
		return err
	}
	cred.Version = 1

	_, err := s.coll.InsertOne(ctx, toDocument(cred))
	if mongo.IsDuplicateKeyError(err) {
		return auth.ErrDuplicateIdentity
	}
	return err
}

func (s *Mongo) GetByID(ctx context.Context, id uuid.UUID) (auth.Credential, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
}

func (s *Mongo) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	return s.findOne(ctx, bson.D{{Key: "email_key", Value: emailKey(email)}})
}

func (s *Mongo) Update(ctx context.Context, id uuid.UUID, fn auth.UpdateFunc) (auth.Credential, error) {
	for range s.opts.maxRetries {
		cur, err := s.GetByID(ctx, id)
		if err != nil {
			return auth.Credential{}, err
		}

		next, err := fn(cur.Clone())
		if err != nil {
			return auth.Credential{}, err
		}
		if err := auth.CheckTransition(cur, next); err != nil {
			return auth.Credential{}, err
		}
		next.Version = cur.Version + 1

		res, err := s.coll.ReplaceOne(ctx,
			bson.D{{Key: "_id", Value: id.String()}, {Key: "version", Value: cur.Version}},
			toDocument(next),
		)
		if mongo.IsDuplicateKeyError(err) {
			return auth.Credential{}, auth.ErrDuplicateIdentity
		}
		if err != nil {
			return auth.Credential{}, err
		}
		if res.MatchedCount == 1 {
			return next, nil
		}

		if err := ctx.Err(); err != nil {
			return auth.Credential{}, err
		}
	}
	return auth.Credential{}, ErrConcurrentUpdate
}

func (s *Mongo) findOne(ctx context.Context, filter bson.D) (auth.Credential, error) {
	var doc document
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return auth.Credential{}, auth.ErrNotFound
	}
	if err != nil {
		return auth.Credential{}, err
	}

	cred, err := doc.credential()
	if err != nil {
		return auth.Credential{}, errors.Join(ErrFailedToDecode, err)
	}
	return cred, nil
}
