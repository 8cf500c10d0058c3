package validation

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
)

func TestMain(m *testing.M) {
	now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	m.Run()
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"A", "A", false},
		{"  Mary-Jane ", "Mary-Jane", false},
		{"O'Neil", "O'Neil", false},
		{"José", "José", false},
		{"", "", true},
		{"   ", "", true},
		{"R2D2", "", true},
		{"-Ann", "", true},
		{strings.Repeat("a", MaxNameLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FirstName(tt.in)
			if tt.wantErr {
				assertValidationError(t, err)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FirstName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := LastName(""); err == nil || !strings.Contains(err.Error(), "last name") {
		t.Errorf("LastName error should name the field, got %v", err)
	}
}

func TestEmail(t *testing.T) {
	got, err := Email("  A@B.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "a@b.com" {
		t.Errorf("Email normalized to %q, want a@b.com", got)
	}

	for _, bad := range []string{"", "plainaddress", "a@", "@b.com", "a b@c.com"} {
		_, err := Email(bad)
		assertValidationError(t, err)
	}
}

func TestBirthDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1990-01-01", "1990-01-01", false},
		{"01/31/1990", "1990-01-31", false},
		{"2024-06-15", "2024-06-15", false},
		{"2024-06-16", "", true},
		{"1850-01-01", "", true},
		{"1990-13-01", "", true},
		{"yesterday", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := BirthDate(tt.in)
			if tt.wantErr {
				assertValidationError(t, err)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BirthDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPassword(t *testing.T) {
	valid := []string{"Secret123!", "stevens@123"}
	for _, p := range valid {
		if _, err := Password(p); err != nil {
			t.Errorf("Password(%q) unexpected error: %v", p, err)
		}
	}

	invalid := []string{
		"",
		"Sh0rt!",
		"NoDigits!!",
		"NoSymbol123",
		"12345678!",
		"has space1!",
		strings.Repeat("a1!", 30),
	}
	for _, p := range invalid {
		_, err := Password(p)
		assertValidationError(t, err)
	}

	// 32 characters but 92 bytes: within the character limit, over bcrypt's.
	wide := strings.Repeat("日", 30) + "1!"
	if _, err := Password(wide); err == nil || err.Error() != "password is too long" {
		t.Errorf("Password(wide) = %v, want too long", err)
	}
	if _, err := Password(strings.Repeat("日", 20) + "1!"); err != nil {
		t.Errorf("62-byte multi-byte password rejected: %v", err)
	}
}

func TestGender(t *testing.T) {
	for in, want := range map[string]string{"": "", "Male": "male", " female ": "female", "other": "other"} {
		got, err := Gender(in)
		if err != nil {
			t.Errorf("Gender(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("Gender(%q) = %q, want %q", in, got, want)
		}
	}
	_, err := Gender("robot")
	assertValidationError(t, err)
}

func TestPhone(t *testing.T) {
	got, err := Phone("+1 555 123 4567")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+15551234567" {
		t.Errorf("Phone = %q", got)
	}
	if got, err := Phone(""); err != nil || got != "" {
		t.Errorf("empty phone should be accepted, got %q, %v", got, err)
	}
	_, err = Phone("555-1234")
	assertValidationError(t, err)
}

func TestID(t *testing.T) {
	const id = "0b6f9a4e-2f7c-4a5e-9d3f-8f1c2b3a4d5e"
	got, err := ID(" "+strings.ToUpper(id)+" ", "case id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != id {
		t.Errorf("ID = %q, want %q", got, id)
	}

	_, err = ID("not-a-uuid", "case id")
	assertValidationError(t, err)
	_, err = ID("", "case id")
	assertValidationError(t, err)
}

func TestBodyParts(t *testing.T) {
	got, err := BodyParts([]string{"arm-left", " ARM-LEFT", "", "head"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"arm-left", "head"}; !reflect.DeepEqual(got, want) {
		t.Errorf("BodyParts = %v, want %v", got, want)
	}

	for _, bad := range [][]string{nil, {""}, {"arm_left"}, {"arm-"}} {
		_, err := BodyParts(bad)
		assertValidationError(t, err)
	}

	many := make([]string, 0, MaxBodyParts+1)
	for i := 0; i <= MaxBodyParts; i++ {
		many = append(many, "part-"+strings.Repeat("x", i+1))
	}
	_, err = BodyParts(many)
	assertValidationError(t, err)
}

func TestRequiredText(t *testing.T) {
	if got, err := Description("  pain "); err != nil || got != "pain" {
		t.Errorf("Description = %q, %v", got, err)
	}
	_, err := Description(" ")
	assertValidationError(t, err)
	_, err = CaseComment(strings.Repeat("x", MaxTextLength+1))
	assertValidationError(t, err)
}

func TestPainRange(t *testing.T) {
	for in, want := range map[string]int{"0": 0, "5": 5, " 10 ": 10} {
		got, err := PainRange(in)
		if err != nil || got != want {
			t.Errorf("PainRange(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, bad := range []string{"", "-1", "11", "5.5", "five"} {
		_, err := PainRange(bad)
		assertValidationError(t, err)
	}
}

func TestAnswers(t *testing.T) {
	got, err := Answers([]string{" since monday ", "", "no", "", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"since monday", "", "no"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Answers = %q, want %q", got, want)
	}

	got, err = Answers(nil)
	if err != nil || len(got) != 0 {
		t.Errorf("Answers(nil) = %v, %v", got, err)
	}

	_, err = Answers([]string{"a", "b", "c", "d", "e"})
	assertValidationError(t, err)
}

func TestFirstTimeProblem(t *testing.T) {
	for in, want := range map[string]bool{"": false, "no": false, "Yes": true, "true": true, "on": true} {
		got, err := FirstTimeProblem(in)
		if err != nil || got != want {
			t.Errorf("FirstTimeProblem(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	_, err := FirstTimeProblem("maybe")
	assertValidationError(t, err)
}
