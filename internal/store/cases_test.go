package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/models"
)

const testCaseID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestCases(mt *mtest.T) *Cases {
	cases := NewCases(mt.DB)
	cases.now = func() time.Time { return fixedNow }
	return cases
}

func TestCasesAddCase(t *testing.T) {
	mt := newMock(t)

	mt.Run("returns a new id", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := cases.AddCase(context.Background(), testUserID, models.CaseSubmission{
			BodyPartsIDs: []string{"arm-left"},
			Description:  "pain",
			PainRange:    "5",
		})
		if err != nil {
			mt.Fatalf("AddCase failed: %v", err)
		}
		if _, err := uuid.Parse(id); err != nil {
			mt.Errorf("id %q is not a UUID", id)
		}
	})

	mt.Run("rejects a bad submission", func(mt *mtest.T) {
		cases := newTestCases(mt)
		_, err := cases.AddCase(context.Background(), testUserID, models.CaseSubmission{
			Description: "pain",
			PainRange:   "5",
		})
		assertKind(mt, err, apperr.KindValidation)
	})
}

func TestNormalizeCase(t *testing.T) {
	c, err := NormalizeCase(testUserID, models.CaseSubmission{
		BodyPartsIDs:     []string{"arm-left", "arm-left", "head"},
		Description:      " pain ",
		PainRange:        "7",
		Answers:          []string{"two days", "", ""},
		FirstTimeProblem: "yes",
	})
	if err != nil {
		t.Fatalf("NormalizeCase failed: %v", err)
	}
	if c.UserID != testUserID || c.Description != "pain" || c.PainRange != 7 || !c.FirstTimeProblem {
		t.Errorf("unexpected case: %+v", c)
	}
	if len(c.BodyPartsIDs) != 2 || len(c.Answers) != 1 {
		t.Errorf("body parts %v, answers %v", c.BodyPartsIDs, c.Answers)
	}
	if c.IsCaseOpen || c.CaseComment != "" || c.DateOfClosing != nil {
		t.Error("normalized case must not carry lifecycle fields")
	}
}

func TestCasesGetMyCases(t *testing.T) {
	mt := newMock(t)

	mt.Run("sorts open first then oldest first", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: testCaseID}, {Key: "description", Value: "pain"}, {Key: "dateOfCreation", Value: fixedNow}, {Key: "isCaseOpen", Value: true}},
		))

		got, err := cases.GetMyCases(context.Background(), testUserID)
		if err != nil {
			mt.Fatalf("GetMyCases failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != testCaseID || !got[0].IsCaseOpen {
			mt.Fatalf("unexpected cases: %+v", got)
		}

		evt := mt.GetStartedEvent()
		if evt == nil || evt.CommandName != "find" {
			mt.Fatalf("expected a find command, got %+v", evt)
		}
		var sort bson.D
		if err := evt.Command.Lookup("sort").Unmarshal(&sort); err != nil {
			mt.Fatalf("find has no sort: %v", err)
		}
		if len(sort) != 2 ||
			sort[0].Key != "isCaseOpen" || fmt.Sprint(sort[0].Value) != "-1" ||
			sort[1].Key != "dateOfCreation" || fmt.Sprint(sort[1].Value) != "1" {
			mt.Errorf("sort = %v, want isCaseOpen desc, dateOfCreation asc", sort)
		}
	})

	mt.Run("empty list is not nil", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch))

		got, err := cases.GetMyCases(context.Background(), testUserID)
		if err != nil {
			mt.Fatalf("GetMyCases failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			mt.Errorf("got %v, want empty slice", got)
		}
	})
}

func TestCasesGetCaseByID(t *testing.T) {
	mt := newMock(t)

	mt.Run("joins the patient", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: testCaseID},
			{Key: "userId", Value: testUserID},
			{Key: "bodyPartsIds", Value: bson.A{"arm-left"}},
			{Key: "description", Value: "pain"},
			{Key: "painRange", Value: 5},
			{Key: "isCaseOpen", Value: true},
			{Key: "dateOfCreation", Value: fixedNow},
			{Key: "patient", Value: bson.D{
				{Key: "firstName", Value: "A"},
				{Key: "lastName", Value: "B"},
				{Key: "email", Value: "a@b.com"},
				{Key: "dateOfBirth", Value: "1990-01-01"},
			}},
		}))

		got, err := cases.GetCaseByID(context.Background(), testCaseID)
		if err != nil {
			mt.Fatalf("GetCaseByID failed: %v", err)
		}
		if got.ID != testCaseID || got.PainRange != 5 || got.Patient.Email != "a@b.com" {
			mt.Errorf("unexpected detail: %+v", got)
		}
		if evt := mt.GetStartedEvent(); evt == nil || evt.CommandName != "aggregate" {
			mt.Errorf("expected an aggregate command, got %+v", evt)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch))

		_, err := cases.GetCaseByID(context.Background(), testCaseID)
		assertKind(mt, err, apperr.KindNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		cases := newTestCases(mt)
		_, err := cases.GetCaseByID(context.Background(), "nope")
		assertKind(mt, err, apperr.KindValidation)
	})
}

func TestCasesGetAllCases(t *testing.T) {
	mt := newMock(t)

	mt.Run("includes owner names", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: testCaseID}, {Key: "description", Value: "pain"}, {Key: "isCaseOpen", Value: true}, {Key: "firstName", Value: "A"}, {Key: "lastName", Value: "B"}},
		))

		got, err := cases.GetAllCases(context.Background())
		if err != nil {
			mt.Fatalf("GetAllCases failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != testCaseID || got[0].FirstName != "A" || got[0].LastName != "B" {
			mt.Errorf("unexpected listing: %+v", got)
		}
	})
}

func TestCasesCloseCase(t *testing.T) {
	mt := newMock(t)

	mt.Run("closes an open case", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch, bson.D{{Key: "_id", Value: testCaseID}, {Key: "isCaseOpen", Value: true}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		if err := cases.CloseCase(context.Background(), "resolved", testCaseID); err != nil {
			mt.Fatalf("CloseCase failed: %v", err)
		}
	})

	mt.Run("already closed", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch, bson.D{{Key: "_id", Value: testCaseID}, {Key: "isCaseOpen", Value: false}}),
		)

		err := cases.CloseCase(context.Background(), "again", testCaseID)
		assertKind(mt, err, apperr.KindValidation)
	})

	mt.Run("unknown case", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch))

		err := cases.CloseCase(context.Background(), "resolved", testCaseID)
		assertKind(mt, err, apperr.KindNotFound)
	})

	mt.Run("lost update", func(mt *mtest.T) {
		cases := newTestCases(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt, CasesCollection), mtest.FirstBatch, bson.D{{Key: "_id", Value: testCaseID}, {Key: "isCaseOpen", Value: true}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		err := cases.CloseCase(context.Background(), "resolved", testCaseID)
		assertKind(mt, err, apperr.KindInternal)
	})

	mt.Run("empty comment", func(mt *mtest.T) {
		cases := newTestCases(mt)
		err := cases.CloseCase(context.Background(), "  ", testCaseID)
		assertKind(mt, err, apperr.KindValidation)
	})
}
