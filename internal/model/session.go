package model

import "time"

// Session represents an authenticated browser session. The browser carries
// only the opaque session ID in a cookie; everything else stays server-side.
type Session struct {
	ID        string
	UserID    string
	Remember  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
