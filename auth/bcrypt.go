package auth

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost trades hash strength for login latency.
var BcryptCost = 12

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// RandomPassword generates a throwaway password for accounts registered
// without one. The cleartext is returned to the caller exactly once.
func RandomPassword() string {
	return uuid.NewString()
}
