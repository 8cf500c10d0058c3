// Package store holds the MongoDB accessors: one type per collection.
package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/utils"
)

const (
	UsersCollection    = "users"
	CasesCollection    = "cases"
	AdminCollection    = "admin"
	SessionsCollection = "sessions"
)

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureIndexes creates the indexes the accessors rely on: unique emails
// and session expiry.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		AdminCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		CasesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isCaseOpen", Value: -1}, {Key: "dateOfCreation", Value: 1}}},
		},
		SessionsCollection: {
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
		slog.Debug("indexes ready", "collection", coll, "count", len(models))
	}
	return nil
}

// openFirst sorts open cases before closed ones, oldest first within each group.
var openFirst = bson.D{{Key: "isCaseOpen", Value: -1}, {Key: "dateOfCreation", Value: 1}}

// storageError turns a driver failure into an internal error while keeping
// app errors (already classified) untouched.
func storageError(msg string, err error) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	slog.Error(msg, "error", err)
	return apperr.Internal("", err)
}

// decoyHash is checked against when no account matches an email, so a miss
// costs the same bcrypt work as a wrong password.
func decoyHash(cost int) string {
	hash, err := utils.HashPassword(uuid.NewString(), cost)
	if err != nil {
		slog.Warn("could not build decoy password hash", "error", err)
	}
	return hash
}
