// Package validation checks and normalizes raw user input. Every function
// returns the cleaned value or an apperr validation error.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
)

const (
	MaxNameLength     = 50
	MaxEmailLength    = 254
	MinPasswordLength = 8
	MaxPasswordLength = 64
	MaxPasswordBytes  = 72 // bcrypt input limit
	MaxTextLength     = 2000
	MaxBodyParts      = 30
	MaxAnswers        = 4
	MinPainRange      = 0
	MaxPainRange      = 10
	MaxAgeYears       = 150

	DateLayout = "2006-01-02"
)

var (
	validate = validator.New()

	namePattern     = regexp.MustCompile(`^\p{L}[\p{L} '\-]*$`)
	bodyPartPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

	// birth dates are also accepted in the US layout the old forms posted
	birthDateLayouts = []string{DateLayout, "01/02/2006"}

	now = time.Now
)

func FirstName(s string) (string, error) { return name(s, "first name") }

func LastName(s string) (string, error) { return name(s, "last name") }

func name(s, field string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("%s is required", field)
	}
	if utf8.RuneCountInString(s) > MaxNameLength {
		return "", apperr.Validation("%s must be at most %d characters", field, MaxNameLength)
	}
	if !namePattern.MatchString(s) {
		return "", apperr.Validation("%s may only contain letters, spaces, apostrophes and hyphens", field)
	}
	return s, nil
}

func Email(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", apperr.Validation("email is required")
	}
	if len(s) > MaxEmailLength || validate.Var(s, "email") != nil {
		return "", apperr.Validation("email is not valid")
	}
	return s, nil
}

// BirthDate returns the date in YYYY-MM-DD form.
func BirthDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("date of birth is required")
	}
	var (
		t   time.Time
		err error
	)
	for _, layout := range birthDateLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			break
		}
	}
	if err != nil {
		return "", apperr.Validation("date of birth must be a date like 1990-01-31")
	}
	today := now()
	if t.After(today) {
		return "", apperr.Validation("date of birth cannot be in the future")
	}
	if t.Before(today.AddDate(-MaxAgeYears, 0, 0)) {
		return "", apperr.Validation("date of birth is not plausible")
	}
	return t.Format(DateLayout), nil
}

// Password is not trimmed: surrounding spaces are rejected instead.
func Password(s string) (string, error) {
	if s == "" {
		return "", apperr.Validation("password is required")
	}
	n := utf8.RuneCountInString(s)
	if n < MinPasswordLength || n > MaxPasswordLength {
		return "", apperr.Validation("password must be between %d and %d characters", MinPasswordLength, MaxPasswordLength)
	}
	if len(s) > MaxPasswordBytes {
		return "", apperr.Validation("password is too long")
	}
	var letter, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return "", apperr.Validation("password cannot contain spaces")
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !letter || !digit || !symbol {
		return "", apperr.Validation("password must contain at least one letter, one number and one special character")
	}
	return s, nil
}

// Gender is optional. The empty string is returned as is.
func Gender(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if validate.Var(s, "omitempty,oneof=male female other") != nil {
		return "", apperr.Validation("gender must be one of male, female or other")
	}
	return s, nil
}

// Phone is optional and must be in E.164 form when present.
func Phone(s string) (string, error) {
	s = strings.Join(strings.Fields(s), "")
	if validate.Var(s, "omitempty,e164") != nil {
		return "", apperr.Validation("phone number must look like +15551234567")
	}
	return s, nil
}

// ID validates a record id. field names the id in the error message.
func ID(s, field string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("%s is required", field)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return "", apperr.Validation("%s is not valid", field)
	}
	return id.String(), nil
}

// BodyParts removes duplicates while keeping the submitted order.
func BodyParts(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		if !bodyPartPattern.MatchString(id) {
			return nil, apperr.Validation("body part %q is not valid", id)
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, apperr.Validation("select at least one body part")
	}
	if len(out) > MaxBodyParts {
		return nil, apperr.Validation("at most %d body parts can be selected", MaxBodyParts)
	}
	return out, nil
}

func Description(s string) (string, error) { return requiredText(s, "description") }

func CaseComment(s string) (string, error) { return requiredText(s, "case comment") }

func requiredText(s, field string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperr.Validation("%s is required", field)
	}
	if utf8.RuneCountInString(s) > MaxTextLength {
		return "", apperr.Validation("%s must be at most %d characters", field, MaxTextLength)
	}
	return s, nil
}

func PainRange(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < MinPainRange || n > MaxPainRange {
		return 0, apperr.Validation("pain range must be a whole number between %d and %d", MinPainRange, MaxPainRange)
	}
	return n, nil
}

// Answers trims every answer and drops trailing blanks, so a form that
// leaves the last questions empty stores a shorter list.
func Answers(answers []string) ([]string, error) {
	out := make([]string, len(answers))
	for i, a := range answers {
		a = strings.TrimSpace(a)
		if utf8.RuneCountInString(a) > MaxTextLength {
			return nil, apperr.Validation("answer %d must be at most %d characters", i+1, MaxTextLength)
		}
		out[i] = a
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	if len(out) > MaxAnswers {
		return nil, apperr.Validation("at most %d answers are accepted", MaxAnswers)
	}
	return out, nil
}

// FirstTimeProblem reads a checkbox or yes/no field. Empty means false.
func FirstTimeProblem(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "false", "off", "0":
		return false, nil
	case "yes", "true", "on", "1":
		return true, nil
	}
	return false, apperr.Validation("first time problem must be yes or no")
}
