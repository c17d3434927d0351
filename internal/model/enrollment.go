package model

import "time"

// Enrollment links one user to one class-catalog entry by name. The name is
// matched against the static catalog by exact equality, not by foreign key.
type Enrollment struct {
	ID        string
	Name      string
	UserID    string
	CreatedAt time.Time
}
