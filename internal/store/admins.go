package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/models"
	"github.com/harentsoaR/clinic-cases/internal/utils"
	"github.com/harentsoaR/clinic-cases/internal/validation"
)

// Admins stores staff accounts. There is no self-service signup: accounts
// come from the seed task.
type Admins struct {
	coll     *mongo.Collection
	hashCost int
	decoy    string
}

func NewAdmins(db *mongo.Database, hashCost int) *Admins {
	return &Admins{coll: db.Collection(AdminCollection), hashCost: hashCost, decoy: decoyHash(hashCost)}
}

func (s *Admins) Create(ctx context.Context, email, password string) (*models.Admin, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, err
	}
	if password, err = validation.Password(password); err != nil {
		return nil, err
	}

	err = s.coll.FindOne(ctx, bson.M{"email": email}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return nil, apperr.Conflict(msgEmailTaken)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, storageError("admin: lookup by email", err)
	}

	hash, err := utils.HashPassword(password, s.hashCost)
	if err != nil {
		return nil, storageError("admin: hash password", err)
	}
	admin := models.Admin{ID: uuid.NewString(), Email: email, Password: hash}

	res, err := s.coll.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, storageError("admin: insert", err)
	}
	if res.InsertedID == nil {
		return nil, apperr.Internal("couldn't add admin", nil)
	}

	admin.Password = ""
	return &admin, nil
}

func (s *Admins) CheckAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, err
	}
	if password, err = validation.Password(password); err != nil {
		return nil, err
	}

	var admin models.Admin
	err = s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.CheckPasswordHash(password, s.decoy)
		return nil, apperr.Authentication(msgBadCredentials)
	}
	if err != nil {
		return nil, storageError("admin: lookup by email", err)
	}
	if !utils.CheckPasswordHash(password, admin.Password) {
		return nil, apperr.Authentication(msgBadCredentials)
	}

	admin.Password = ""
	return &admin, nil
}
