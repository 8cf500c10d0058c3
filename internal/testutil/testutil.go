// Package testutil provides in-memory stand-ins for the MongoDB accessors so
// handler and middleware tests run without a database.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/models"
	"github.com/harentsoaR/clinic-cases/internal/store"
	"github.com/harentsoaR/clinic-cases/internal/utils"
	"github.com/harentsoaR/clinic-cases/internal/validation"
)

// TestSecret signs session cookies in tests.
var TestSecret = []byte("test-secret-0123456789abcdefghijk")

const badCredentials = "incorrect email or password"

// Sessions is an in-memory session store.
type Sessions struct {
	mu   sync.Mutex
	docs map[string]models.Session
}

func NewSessions() *Sessions {
	return &Sessions{docs: make(map[string]models.Session)}
}

func (s *Sessions) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.docs[id]
	if !ok {
		return nil, apperr.NotFound("session not found")
	}
	return &sess, nil
}

func (s *Sessions) Save(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[sess.ID] = *sess
	return nil
}

func (s *Sessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// Len reports how many sessions are stored.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Users is an in-memory user store with the same validation rules as
// store.Users.
type Users struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[string]models.User)}
}

func (s *Users) Create(_ context.Context, in models.NewUser) (*models.User, error) {
	in, err := store.NormalizeSignup(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == in.Email {
			return nil, apperr.Conflict("already registered with given email id")
		}
	}

	hash, err := utils.HashPassword(in.Password, bcrypt.MinCost)
	if err != nil {
		return nil, apperr.Internal("", err)
	}
	u := models.User{
		ID:          uuid.NewString(),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		DateOfBirth: in.DateOfBirth,
		Gender:      in.Gender,
		Phone:       in.Phone,
		Password:    hash,
	}
	s.byID[u.ID] = u

	u.Password = ""
	return &u, nil
}

func (s *Users) Get(_ context.Context, id string) (*models.User, error) {
	id, err := validation.ID(id, "user id")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.Password = ""
	return &u, nil
}

func (s *Users) CheckUser(_ context.Context, email, password string) (*models.User, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, err
	}
	if password, err = validation.Password(password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email != email {
			continue
		}
		if !utils.CheckPasswordHash(password, u.Password) {
			break
		}
		u.Password = ""
		return &u, nil
	}
	return nil, apperr.Authentication(badCredentials)
}

func (s *Users) UpdateProfile(_ context.Context, id string, in models.ProfileUpdate) error {
	update, err := store.NormalizeProfile(in)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	if update.Matches(&u) {
		return apperr.Internal("could not update profile", nil)
	}
	u.FirstName, u.LastName, u.DateOfBirth = update.FirstName, update.LastName, update.DateOfBirth
	u.Gender, u.Phone = update.Gender, update.Phone
	s.byID[id] = u
	return nil
}

func (s *Users) UpdatePassword(_ context.Context, id, current, next, confirm string) error {
	var err error
	for _, p := range []*string{&current, &next, &confirm} {
		if *p, err = validation.Password(*p); err != nil {
			return err
		}
	}
	if next != confirm {
		return apperr.Validation("confirm password does not match new password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	if !utils.CheckPasswordHash(current, u.Password) {
		return apperr.Validation("incorrect current password")
	}
	if u.Password, err = utils.HashPassword(next, bcrypt.MinCost); err != nil {
		return apperr.Internal("", err)
	}
	s.byID[id] = u
	return nil
}

// Admins is an in-memory admin store.
type Admins struct {
	mu      sync.Mutex
	byEmail map[string]models.Admin
}

func NewAdmins() *Admins {
	return &Admins{byEmail: make(map[string]models.Admin)}
}

func (s *Admins) Create(_ context.Context, email, password string) (*models.Admin, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, err
	}
	if password, err = validation.Password(password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return nil, apperr.Conflict("already registered with given email id")
	}
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		return nil, apperr.Internal("", err)
	}
	a := models.Admin{ID: uuid.NewString(), Email: email, Password: hash}
	s.byEmail[email] = a

	a.Password = ""
	return &a, nil
}

func (s *Admins) CheckAdmin(_ context.Context, email, password string) (*models.Admin, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, err
	}
	if password, err = validation.Password(password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byEmail[email]
	if !ok || !utils.CheckPasswordHash(password, a.Password) {
		return nil, apperr.Authentication(badCredentials)
	}
	a.Password = ""
	return &a, nil
}

// Cases is an in-memory case store. It resolves patients through Users.
type Cases struct {
	mu    sync.Mutex
	byID  map[string]models.Case
	users *Users
	Now   func() time.Time
}

func NewCases(users *Users) *Cases {
	return &Cases{byID: make(map[string]models.Case), users: users, Now: time.Now}
}

func (s *Cases) AddCase(_ context.Context, userID string, in models.CaseSubmission) (string, error) {
	c, err := store.NormalizeCase(userID, in)
	if err != nil {
		return "", err
	}
	c.ID = uuid.NewString()
	c.DateOfCreation = s.Now().UTC()
	c.IsCaseOpen = true

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = *c
	return c.ID, nil
}

func (s *Cases) GetMyCases(_ context.Context, userID string) ([]models.CaseSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.CaseSummary{}
	for _, c := range s.sorted() {
		if c.UserID == userID {
			out = append(out, summary(c))
		}
	}
	return out, nil
}

func (s *Cases) GetCaseByID(ctx context.Context, caseID string) (*models.CaseDetail, error) {
	caseID, err := validation.ID(caseID, "case id")
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	c, ok := s.byID[caseID]
	s.mu.Unlock()
	if !ok {
		return nil, apperr.NotFound("case not found")
	}

	detail := &models.CaseDetail{Case: c}
	if u, err := s.users.Get(ctx, c.UserID); err == nil {
		detail.Patient = models.Patient{
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			Email:       u.Email,
			DateOfBirth: u.DateOfBirth,
			Gender:      u.Gender,
			Phone:       u.Phone,
		}
	}
	return detail, nil
}

func (s *Cases) GetAllCases(ctx context.Context) ([]models.CaseListing, error) {
	s.mu.Lock()
	all := s.sorted()
	s.mu.Unlock()

	out := []models.CaseListing{}
	for _, c := range all {
		row := models.CaseListing{CaseSummary: summary(c)}
		if u, err := s.users.Get(ctx, c.UserID); err == nil {
			row.FirstName, row.LastName = u.FirstName, u.LastName
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Cases) CloseCase(_ context.Context, comment, caseID string) error {
	comment, err := validation.CaseComment(comment)
	if err != nil {
		return err
	}
	if caseID, err = validation.ID(caseID, "case id"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[caseID]
	if !ok {
		return apperr.NotFound("case not found")
	}
	if !c.IsCaseOpen {
		return apperr.Validation("case is already closed")
	}
	closed := s.Now().UTC()
	c.IsCaseOpen, c.CaseComment, c.DateOfClosing = false, comment, &closed
	s.byID[caseID] = c
	return nil
}

// sorted must be called with mu held.
func (s *Cases) sorted() []models.Case {
	all := make([]models.Case, 0, len(s.byID))
	for _, c := range s.byID {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].IsCaseOpen != all[j].IsCaseOpen {
			return all[i].IsCaseOpen
		}
		return all[i].DateOfCreation.Before(all[j].DateOfCreation)
	})
	return all
}

func summary(c models.Case) models.CaseSummary {
	return models.CaseSummary{
		ID:             c.ID,
		Description:    c.Description,
		DateOfCreation: c.DateOfCreation,
		IsCaseOpen:     c.IsCaseOpen,
	}
}

// Notifier records case-closed notifications instead of sending them.
type Notifier struct {
	mu     sync.Mutex
	Closed []*models.CaseDetail
}

func (n *Notifier) NotifyCaseClosed(detail *models.CaseDetail) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Closed = append(n.Closed, detail)
}

func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Closed)
}
