package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/models"
)

// Sessions keeps server-side session state. Expired documents are removed
// by the TTL index on expiresAt.
type Sessions struct {
	coll *mongo.Collection
}

func NewSessions(db *mongo.Database) *Sessions {
	return &Sessions{coll: db.Collection(SessionsCollection)}
}

func (s *Sessions) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("session not found")
	}
	if err != nil {
		return nil, storageError("sessions: get", err)
	}
	return &sess, nil
}

func (s *Sessions) Save(ctx context.Context, sess *models.Session) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess, options.Replace().SetUpsert(true))
	if err != nil {
		return storageError("sessions: save", err)
	}
	return nil
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return storageError("sessions: delete", err)
	}
	return nil
}
