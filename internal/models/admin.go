package models

type Admin struct {
	ID       string `bson:"_id" json:"_id"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password,omitempty" json:"-"`
}
