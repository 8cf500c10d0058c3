package models

type User struct {
	ID          string `bson:"_id" json:"_id"`
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	Email       string `bson:"email" json:"email"`
	DateOfBirth string `bson:"dateOfBirth" json:"dateOfBirth"` // YYYY-MM-DD
	Gender      string `bson:"gender,omitempty" json:"gender,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"` // E.164, optional
	Password    string `bson:"password,omitempty" json:"-"`            // Hide from JSON responses
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// NewUser is the raw signup input.
type NewUser struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	Password    string
	Gender      string
	Phone       string
}

// ProfileUpdate carries the fields a user may change on their profile.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	DateOfBirth string
	Gender      string
	Phone       string
}

// Matches reports whether the update would leave u unchanged.
func (p ProfileUpdate) Matches(u *User) bool {
	return p.FirstName == u.FirstName &&
		p.LastName == u.LastName &&
		p.DateOfBirth == u.DateOfBirth &&
		p.Gender == u.Gender &&
		p.Phone == u.Phone
}
