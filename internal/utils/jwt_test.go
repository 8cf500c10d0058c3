package utils

import (
	"errors"
	"testing"
	"time"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("session-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	claims, err := ValidateSessionToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateSessionToken failed: %v", err)
	}
	if claims.SessionID() != "session-1" {
		t.Errorf("SessionID = %q, want session-1", claims.SessionID())
	}
}

func TestValidateSessionTokenRejects(t *testing.T) {
	good, err := GenerateSessionToken("session-1", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	expired, err := GenerateSessionToken("session-1", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{"wrong secret", good, []byte("another-secret-another-secret-00")},
		{"tampered", good[:len(good)-2] + "xx", testSecret},
		{"expired", expired, testSecret},
		{"garbage", "not.a.token", testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateSessionToken(tt.token, tt.secret); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestMissingSecret(t *testing.T) {
	if _, err := GenerateSessionToken("s", nil, time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Generate error = %v, want ErrMissingSecret", err)
	}
	if _, err := ValidateSessionToken("x", nil); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Validate error = %v, want ErrMissingSecret", err)
	}
}
