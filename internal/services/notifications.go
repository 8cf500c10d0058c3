package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/harentsoaR/clinic-cases/internal/models"
)

const sendTimeout = 15 * time.Second

// NotificationService texts patients through the Textbelt API.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewNotificationService(apiKey, endpoint string) *NotificationService {
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: sendTimeout},
	}
}

// Enabled reports whether an API key is configured.
func (s *NotificationService) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// NotifyCaseClosed tells the patient their case was reviewed. It never
// blocks the caller.
func (s *NotificationService) NotifyCaseClosed(detail *models.CaseDetail) {
	if !s.Enabled() {
		return
	}
	if detail.Patient.Phone == "" {
		slog.Info("SMS not sent: patient has no phone number", "case", detail.ID)
		return
	}

	msg := fmt.Sprintf("Hi %s, your case from %s has been reviewed and closed. Sign in to read the comment.",
		detail.Patient.FirstName,
		detail.DateOfCreation.Format("Jan 2"),
	)

	go func(phone, caseID string) {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := s.SendSMS(ctx, phone, msg); err != nil {
			slog.Error("failed to send case-closed SMS", "case", caseID, "error", err)
			return
		}
		slog.Info("sent case-closed SMS", "case", caseID)
	}(detail.Patient.Phone, detail.ID)
}

type textbeltResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SendSMS posts one message to Textbelt and reports its verdict.
func (s *NotificationService) SendSMS(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result textbeltResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("textbelt response (status %d): %w", resp.StatusCode, err)
	}
	if !result.Success {
		if result.Error == "" {
			result.Error = "unknown error"
		}
		return errors.New("textbelt: " + result.Error)
	}
	return nil
}
