package utils

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is used when the configuration does not override it.
const DefaultHashCost = 12

// HashPassword hashes a given password using bcrypt. A cost outside
// bcrypt's accepted range falls back to DefaultHashCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
