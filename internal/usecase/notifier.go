package usecase

import "time"

// Notifier is the notification sink informed of enrollment and password
// reset events. Email delivery lives behind this interface so business rules
// never block on transport details.
type Notifier interface {
	// SendPasswordResetEmail delivers a reset link to the user's address.
	SendPasswordResetEmail(email, resetURL string, ttl time.Duration) error

	// SendRegisteredEmail reports a new class signup.
	SendRegisteredEmail(username, className string) error

	// SendUnregisteredEmail reports a dropped class.
	SendUnregisteredEmail(username, className string) error
}
