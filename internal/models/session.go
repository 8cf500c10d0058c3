package models

import "time"

// Session is the server-side state behind a browser cookie. At most one of
// User and Admin is set.
type Session struct {
	ID        string    `bson:"_id"`
	User      *User     `bson:"user,omitempty"`
	Admin     *Admin    `bson:"admin,omitempty"`
	Flash     string    `bson:"flash,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

func (s *Session) SetUser(u *User) {
	cp := *u
	cp.Password = ""
	s.User, s.Admin = &cp, nil
}

func (s *Session) SetAdmin(a *Admin) {
	cp := *a
	cp.Password = ""
	s.Admin, s.User = &cp, nil
}

func (s *Session) Authenticated() bool {
	return s.User != nil || s.Admin != nil
}

func (s *Session) SetFlash(msg string) { s.Flash = msg }

// PopFlash returns the pending one-time message and clears it.
func (s *Session) PopFlash() string {
	msg := s.Flash
	s.Flash = ""
	return msg
}
