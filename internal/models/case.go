package models

import (
	"strings"
	"time"
)

// Case is a patient-submitted symptom record. Closing fields stay empty
// until staff close it, and a closed case is never reopened.
type Case struct {
	ID               string     `bson:"_id" json:"_id"`
	UserID           string     `bson:"userId" json:"userId"`
	BodyPartsIDs     []string   `bson:"bodyPartsIds" json:"bodyPartsIds"`
	Description      string     `bson:"description" json:"description"`
	PainRange        int        `bson:"painRange" json:"painRange"`
	Answers          []string   `bson:"answers" json:"answers"`
	FirstTimeProblem bool       `bson:"firstTimeProblem" json:"firstTimeProblem"`
	DateOfCreation   time.Time  `bson:"dateOfCreation" json:"dateOfCreation"`
	IsCaseOpen       bool       `bson:"isCaseOpen" json:"isCaseOpen"`
	CaseComment      string     `bson:"caseComment" json:"caseComment"`
	DateOfClosing    *time.Time `bson:"dateOfClosing,omitempty" json:"dateOfClosing,omitempty"`
}

// BodyParts returns the body part ids in display form ("arm-left" -> "arm left").
func (c *Case) BodyParts() []string {
	parts := make([]string, len(c.BodyPartsIDs))
	for i, id := range c.BodyPartsIDs {
		parts[i] = strings.ReplaceAll(id, "-", " ")
	}
	return parts
}

// CaseSubmission is the raw questionnaire input.
type CaseSubmission struct {
	BodyPartsIDs     []string
	Description      string
	PainRange        string
	Answers          []string
	FirstTimeProblem string
}

// CaseSummary is one row of a patient's own case list.
type CaseSummary struct {
	ID             string    `bson:"_id" json:"_id"`
	Description    string    `bson:"description" json:"description"`
	DateOfCreation time.Time `bson:"dateOfCreation" json:"dateOfCreation"`
	IsCaseOpen     bool      `bson:"isCaseOpen" json:"isCaseOpen"`
}

// CaseListing is one row of the staff case list.
type CaseListing struct {
	CaseSummary `bson:",inline"`
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
}

// Patient is the subset of the owning user shown alongside a case.
type Patient struct {
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	Email       string `bson:"email" json:"email"`
	DateOfBirth string `bson:"dateOfBirth" json:"dateOfBirth"`
	Gender      string `bson:"gender,omitempty" json:"gender,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// CaseDetail is a full case joined with its owner. Patient is zero when
// the owning user no longer resolves.
type CaseDetail struct {
	Case    `bson:",inline"`
	Patient Patient `bson:"patient" json:"patient"`
}
