package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/models"
	"github.com/harentsoaR/clinic-cases/internal/validation"
)

const (
	msgCaseNotFound = "case not found"
	msgCaseClosed   = "case is already closed"
)

// Cases stores patient cases. It does no authorization: callers decide
// who may read or close a case.
type Cases struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewCases(db *mongo.Database) *Cases {
	return &Cases{coll: db.Collection(CasesCollection), now: time.Now}
}

// AddCase validates a submission and stores it as a new open case.
func (s *Cases) AddCase(ctx context.Context, userID string, in models.CaseSubmission) (string, error) {
	c, err := NormalizeCase(userID, in)
	if err != nil {
		return "", err
	}
	c.ID = uuid.NewString()
	c.DateOfCreation = s.now().UTC()
	c.IsCaseOpen = true

	res, err := s.coll.InsertOne(ctx, c)
	if err != nil {
		return "", storageError("cases: insert", err)
	}
	if res.InsertedID == nil {
		return "", apperr.Internal("couldn't add new case", nil)
	}
	return c.ID, nil
}

// GetMyCases lists a user's cases, open ones first, oldest first.
func (s *Cases) GetMyCases(ctx context.Context, userID string) ([]models.CaseSummary, error) {
	userID, err := validation.ID(userID, "user id")
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetProjection(bson.M{"_id": 1, "description": 1, "dateOfCreation": 1, "isCaseOpen": 1}).
		SetSort(openFirst)
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storageError("cases: find by user", err)
	}
	defer cursor.Close(ctx)

	cases := make([]models.CaseSummary, 0)
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, storageError("cases: decode by user", err)
	}
	return cases, nil
}

// GetCaseByID returns a case with its owner's details.
func (s *Cases) GetCaseByID(ctx context.Context, caseID string) (*models.CaseDetail, error) {
	caseID, err := validation.ID(caseID, "case id")
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": caseID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "patient",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$patient", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{"patient.password": 0, "patient._id": 0}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storageError("cases: get by id", err)
	}
	defer cursor.Close(ctx)

	var details []models.CaseDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, storageError("cases: decode by id", err)
	}
	if len(details) == 0 {
		return nil, apperr.NotFound(msgCaseNotFound)
	}
	return &details[0], nil
}

// GetAllCases lists every case with its owner's name for staff review.
func (s *Cases) GetAllCases(ctx context.Context) ([]models.CaseListing, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: openFirst}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$owner", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"_id":            1,
			"description":    1,
			"dateOfCreation": 1,
			"isCaseOpen":     1,
			"firstName":      "$owner.firstName",
			"lastName":       "$owner.lastName",
		}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storageError("cases: list all", err)
	}
	defer cursor.Close(ctx)

	cases := make([]models.CaseListing, 0)
	if err := cursor.All(ctx, &cases); err != nil {
		return nil, storageError("cases: decode all", err)
	}
	return cases, nil
}

// CloseCase marks an open case closed with the staff comment. A case is
// closed at most once.
func (s *Cases) CloseCase(ctx context.Context, comment, caseID string) error {
	comment, err := validation.CaseComment(comment)
	if err != nil {
		return err
	}
	if caseID, err = validation.ID(caseID, "case id"); err != nil {
		return err
	}

	var current models.CaseSummary
	err = s.coll.FindOne(ctx, bson.M{"_id": caseID}, options.FindOne().SetProjection(bson.M{"isCaseOpen": 1})).Decode(&current)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(msgCaseNotFound)
	}
	if err != nil {
		return storageError("cases: get status", err)
	}
	if !current.IsCaseOpen {
		return apperr.Validation(msgCaseClosed)
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": caseID, "isCaseOpen": true},
		bson.M{"$set": bson.M{
			"isCaseOpen":    false,
			"caseComment":   comment,
			"dateOfClosing": s.now().UTC(),
		}},
	)
	if err != nil {
		return storageError("cases: close", err)
	}
	if res.ModifiedCount != 1 {
		return apperr.Internal("could not close case", nil)
	}
	return nil
}

// NormalizeCase validates a submission into an unsaved case owned by userID.
func NormalizeCase(userID string, in models.CaseSubmission) (*models.Case, error) {
	var (
		c   = &models.Case{}
		err error
	)
	if c.UserID, err = validation.ID(userID, "user id"); err != nil {
		return nil, err
	}
	if c.BodyPartsIDs, err = validation.BodyParts(in.BodyPartsIDs); err != nil {
		return nil, err
	}
	if c.Description, err = validation.Description(in.Description); err != nil {
		return nil, err
	}
	if c.PainRange, err = validation.PainRange(in.PainRange); err != nil {
		return nil, err
	}
	if c.Answers, err = validation.Answers(in.Answers); err != nil {
		return nil, err
	}
	if c.FirstTimeProblem, err = validation.FirstTimeProblem(in.FirstTimeProblem); err != nil {
		return nil, err
	}
	return c, nil
}
