package model

import "time"

// User represents a registered user. Usernames and emails are globally
// unique; only a bcrypt hash of the password is ever stored.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
