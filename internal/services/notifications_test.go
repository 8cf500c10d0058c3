package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/harentsoaR/clinic-cases/internal/models"
)

type captured struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	Key     string `json:"key"`
}

func textbelt(t *testing.T, reply string) (*httptest.Server, chan captured) {
	t.Helper()
	got := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c captured
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			t.Errorf("decode request: %v", err)
		}
		got <- c
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestSendSMS(t *testing.T) {
	srv, got := textbelt(t, `{"success":true}`)
	svc := NewNotificationService("key-1", srv.URL)

	if err := svc.SendSMS(context.Background(), "+12015550123", "hello"); err != nil {
		t.Fatalf("SendSMS failed: %v", err)
	}
	req := <-got
	if req.Phone != "+12015550123" || req.Message != "hello" || req.Key != "key-1" {
		t.Errorf("unexpected payload: %+v", req)
	}
}

func TestSendSMSRejected(t *testing.T) {
	srv, _ := textbelt(t, `{"success":false,"error":"Out of quota"}`)
	svc := NewNotificationService("key-1", srv.URL)

	err := svc.SendSMS(context.Background(), "+12015550123", "hello")
	if err == nil || !strings.Contains(err.Error(), "Out of quota") {
		t.Errorf("err = %v, want the provider's reason", err)
	}
}

func TestNotifyCaseClosed(t *testing.T) {
	detail := &models.CaseDetail{
		Case:    models.Case{ID: "c1", DateOfCreation: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		Patient: models.Patient{FirstName: "Ann", Phone: "+12015550123"},
	}

	t.Run("sends to the patient", func(t *testing.T) {
		srv, got := textbelt(t, `{"success":true}`)
		NewNotificationService("key-1", srv.URL).NotifyCaseClosed(detail)

		select {
		case req := <-got:
			if req.Phone != "+12015550123" || !strings.Contains(req.Message, "Ann") {
				t.Errorf("unexpected payload: %+v", req)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("no SMS sent")
		}
	})

	t.Run("skipped without key", func(t *testing.T) {
		srv, got := textbelt(t, `{"success":true}`)
		NewNotificationService("", srv.URL).NotifyCaseClosed(detail)

		select {
		case <-got:
			t.Error("sent an SMS without an API key")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("skipped without phone", func(t *testing.T) {
		srv, got := textbelt(t, `{"success":true}`)
		noPhone := *detail
		noPhone.Patient.Phone = ""
		NewNotificationService("key-1", srv.URL).NotifyCaseClosed(&noPhone)

		select {
		case <-got:
			t.Error("sent an SMS without a phone number")
		case <-time.After(100 * time.Millisecond):
		}
	})
}
