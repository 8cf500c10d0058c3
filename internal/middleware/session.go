package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harentsoaR/clinic-cases/internal/apperr"
	"github.com/harentsoaR/clinic-cases/internal/models"
	"github.com/harentsoaR/clinic-cases/internal/utils"
)

const (
	CookieName = "clinic_session"
	sessionKey = "session"
)

// SessionStore persists session documents.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Save(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, id string) error
}

// Sessions ties the signed browser cookie to a server-side session document.
type Sessions struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(store SessionStore, secret []byte, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{
		store:  store,
		secret: secret,
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Load attaches the caller's session to the request. A missing, tampered or
// expired cookie yields a fresh anonymous session that is only persisted
// once something is written to it.
func (s *Sessions) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, s.lookup(c))
		c.Next()
	}
}

func (s *Sessions) lookup(c *gin.Context) *models.Session {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return s.fresh()
	}

	claims, err := utils.ValidateSessionToken(raw, s.secret)
	if err != nil {
		slog.Debug("rejected session cookie", "error", err)
		return s.fresh()
	}

	sess, err := s.store.Get(c.Request.Context(), claims.SessionID())
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			slog.Error("session lookup failed", "error", err)
		}
		return s.fresh()
	}
	if !sess.ExpiresAt.After(s.now()) {
		return s.fresh()
	}
	return sess
}

func (s *Sessions) fresh() *models.Session {
	now := s.now().UTC()
	return &models.Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
}

// Current returns the session attached by Load.
func Current(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*models.Session); ok {
			return sess
		}
	}
	sess := &models.Session{}
	c.Set(sessionKey, sess)
	return sess
}

// Save persists sess and issues the cookie that points at it.
func (s *Sessions) Save(c *gin.Context, sess *models.Session) error {
	if sess.ID == "" {
		f := s.fresh()
		sess.ID, sess.CreatedAt, sess.ExpiresAt = f.ID, f.CreatedAt, f.ExpiresAt
	}
	if err := s.store.Save(c.Request.Context(), sess); err != nil {
		return err
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		ttl = s.ttl
	}
	token, err := utils.GenerateSessionToken(sess.ID, s.secret, ttl)
	if err != nil {
		return apperr.Internal("", err)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", s.secure, true)
	c.Set(sessionKey, sess)
	return nil
}

// Renew swaps the current session for one with a new id. Called on login so
// a session id seen before authentication is never promoted.
func (s *Sessions) Renew(c *gin.Context) *models.Session {
	old := Current(c)
	if old.ID != "" {
		if err := s.store.Delete(c.Request.Context(), old.ID); err != nil {
			slog.Warn("could not drop previous session", "error", err)
		}
	}
	sess := s.fresh()
	c.Set(sessionKey, sess)
	return sess
}

// Destroy removes the session document and expires the cookie.
func (s *Sessions) Destroy(c *gin.Context) error {
	old := Current(c)
	c.Set(sessionKey, s.fresh())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", s.secure, true)

	if old.ID == "" {
		return nil
	}
	return s.store.Delete(c.Request.Context(), old.ID)
}

// Flash stores a message shown once on the next page render.
func (s *Sessions) Flash(c *gin.Context, msg string) error {
	sess := Current(c)
	sess.SetFlash(msg)
	return s.Save(c, sess)
}

// TakeFlash pops the pending message, persisting the cleared session.
func (s *Sessions) TakeFlash(c *gin.Context) string {
	sess := Current(c)
	msg := sess.PopFlash()
	if msg == "" {
		return ""
	}
	if err := s.Save(c, sess); err != nil {
		slog.Error("could not clear flash", "session", sess.ID, "error", err)
	}
	return msg
}
