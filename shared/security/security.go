// Package security provides password hashing helpers.
package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt hash from a raw password. The raw password
// is never stored anywhere.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// The comparison is performed by bcrypt itself, never by plain equality.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
