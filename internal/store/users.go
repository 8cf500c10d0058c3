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

const (
	msgEmailTaken       = "already registered with given email id"
	msgBadCredentials   = "incorrect email or password"
	msgUserNotFound     = "user not found"
	msgPasswordMismatch = "confirm password does not match new password"
	msgWrongPassword    = "incorrect current password"
)

// userProjection never includes the password hash.
var userProjection = bson.M{
	"_id":         1,
	"firstName":   1,
	"lastName":    1,
	"email":       1,
	"dateOfBirth": 1,
	"gender":      1,
	"phone":       1,
}

type Users struct {
	coll     *mongo.Collection
	hashCost int
	decoy    string
}

func NewUsers(db *mongo.Database, hashCost int) *Users {
	return &Users{coll: db.Collection(UsersCollection), hashCost: hashCost, decoy: decoyHash(hashCost)}
}

// Create registers a user and returns it without the password.
func (s *Users) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	in, err := NormalizeSignup(in)
	if err != nil {
		return nil, err
	}

	err = s.coll.FindOne(ctx, bson.M{"email": in.Email}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	switch {
	case err == nil:
		return nil, apperr.Conflict(msgEmailTaken)
	case !errors.Is(err, mongo.ErrNoDocuments):
		return nil, storageError("users: lookup by email", err)
	}

	hash, err := utils.HashPassword(in.Password, s.hashCost)
	if err != nil {
		return nil, storageError("users: hash password", err)
	}

	user := models.User{
		ID:          uuid.NewString(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
		Gender:      in.Gender,
		Phone:       in.Phone,
		Password:    hash,
	}
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		// the unique index catches a signup racing past the lookup above
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, storageError("users: insert", err)
	}
	if res.InsertedID == nil {
		return nil, apperr.Internal("couldn't add user", nil)
	}

	return s.Get(ctx, user.ID)
}

// Get fetches a user by id without the password.
func (s *Users) Get(ctx context.Context, id string) (*models.User, error) {
	userID, err := validation.ID(id, "user id")
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(userProjection)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, storageError("users: get", err)
	}
	return &user, nil
}

// CheckUser verifies credentials. Unknown email and wrong password give the
// same error.
func (s *Users) CheckUser(ctx context.Context, email, password string) (*models.User, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, err
	}
	if password, err = validation.Password(password); err != nil {
		return nil, err
	}

	var user models.User
	err = s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.CheckPasswordHash(password, s.decoy)
		return nil, apperr.Authentication(msgBadCredentials)
	}
	if err != nil {
		return nil, storageError("users: lookup by email", err)
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, apperr.Authentication(msgBadCredentials)
	}

	user.Password = ""
	return &user, nil
}

// UpdateProfile overwrites the mutable profile fields.
func (s *Users) UpdateProfile(ctx context.Context, id string, in models.ProfileUpdate) error {
	userID, err := validation.ID(id, "user id")
	if err != nil {
		return err
	}
	update, err := NormalizeProfile(in)
	if err != nil {
		return err
	}

	if err := s.exists(ctx, userID); err != nil {
		return err
	}

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{
		"firstName":   update.FirstName,
		"lastName":    update.LastName,
		"dateOfBirth": update.DateOfBirth,
		"gender":      update.Gender,
		"phone":       update.Phone,
	}})
	if err != nil {
		return storageError("users: update profile", err)
	}
	if res.ModifiedCount != 1 {
		return apperr.Internal("could not update profile", nil)
	}
	return nil
}

// UpdatePassword replaces the hash once the current password verifies.
func (s *Users) UpdatePassword(ctx context.Context, id, current, next, confirm string) error {
	userID, err := validation.ID(id, "user id")
	if err != nil {
		return err
	}
	if current, err = validation.Password(current); err != nil {
		return err
	}
	if next, err = validation.Password(next); err != nil {
		return err
	}
	if confirm, err = validation.Password(confirm); err != nil {
		return err
	}
	if next != confirm {
		return apperr.Validation(msgPasswordMismatch)
	}

	var user models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"_id": 1, "password": 1})).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return storageError("users: get password", err)
	}
	if !utils.CheckPasswordHash(current, user.Password) {
		return apperr.Validation(msgWrongPassword)
	}

	hash, err := utils.HashPassword(next, s.hashCost)
	if err != nil {
		return storageError("users: hash password", err)
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		return storageError("users: update password", err)
	}
	if res.ModifiedCount != 1 {
		return apperr.Internal("could not update password", nil)
	}
	return nil
}

func (s *Users) exists(ctx context.Context, userID string) error {
	err := s.coll.FindOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return storageError("users: exists", err)
	}
	return nil
}

// NormalizeProfile validates every profile field. Handlers use it to
// compare the submitted values against the stored ones.
func NormalizeProfile(in models.ProfileUpdate) (models.ProfileUpdate, error) {
	var (
		out models.ProfileUpdate
		err error
	)
	if out.FirstName, err = validation.FirstName(in.FirstName); err != nil {
		return out, err
	}
	if out.LastName, err = validation.LastName(in.LastName); err != nil {
		return out, err
	}
	if out.DateOfBirth, err = validation.BirthDate(in.DateOfBirth); err != nil {
		return out, err
	}
	if out.Gender, err = validation.Gender(in.Gender); err != nil {
		return out, err
	}
	if out.Phone, err = validation.Phone(in.Phone); err != nil {
		return out, err
	}
	return out, nil
}

// NormalizeSignup validates every signup field.
func NormalizeSignup(in models.NewUser) (models.NewUser, error) {
	var (
		out models.NewUser
		err error
	)
	if out.FirstName, err = validation.FirstName(in.FirstName); err != nil {
		return out, err
	}
	if out.LastName, err = validation.LastName(in.LastName); err != nil {
		return out, err
	}
	if out.Email, err = validation.Email(in.Email); err != nil {
		return out, err
	}
	if out.DateOfBirth, err = validation.BirthDate(in.DateOfBirth); err != nil {
		return out, err
	}
	if out.Password, err = validation.Password(in.Password); err != nil {
		return out, err
	}
	if out.Gender, err = validation.Gender(in.Gender); err != nil {
		return out, err
	}
	if out.Phone, err = validation.Phone(in.Phone); err != nil {
		return out, err
	}
	return out, nil
}
