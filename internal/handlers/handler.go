package handlers

import (
	"context"

	"github.com/harentsoaR/clinic-cases/internal/middleware"
	"github.com/harentsoaR/clinic-cases/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	CheckUser(ctx context.Context, email, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, in models.ProfileUpdate) error
	UpdatePassword(ctx context.Context, id, current, next, confirm string) error
}

type CaseStore interface {
	AddCase(ctx context.Context, userID string, in models.CaseSubmission) (string, error)
	GetMyCases(ctx context.Context, userID string) ([]models.CaseSummary, error)
	GetCaseByID(ctx context.Context, caseID string) (*models.CaseDetail, error)
	GetAllCases(ctx context.Context) ([]models.CaseListing, error)
	CloseCase(ctx context.Context, comment, caseID string) error
}

type AdminStore interface {
	CheckAdmin(ctx context.Context, email, password string) (*models.Admin, error)
}

// Notifier tells a patient their case was closed.
type Notifier interface {
	NotifyCaseClosed(detail *models.CaseDetail)
}

// Handler carries the stores and services every route needs.
type Handler struct {
	Users           UserStore
	Cases           CaseStore
	Admins          AdminStore
	Sessions        *middleware.Sessions
	NotificationSvc Notifier
}

func NewHandler(users UserStore, cases CaseStore, admins AdminStore, sessions *middleware.Sessions, notificationSvc Notifier) *Handler {
	return &Handler{
		Users:           users,
		Cases:           cases,
		Admins:          admins,
		Sessions:        sessions,
		NotificationSvc: notificationSvc,
	}
}
