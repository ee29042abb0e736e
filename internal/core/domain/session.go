package domain

import "time"

// Session is the server-held identity binding for an active browser session.
// The key travels in an HTTP-only cookie; everything else stays server-side.
type Session struct {
	Key       string
	UserID    string
	Username  string
	Role      Role
	CSRFToken string
	LoginAt   time.Time
}

// RememberToken is a durable login credential persisted as a hash.
// The raw token value travels only in the remember-me cookie and is never
// stored or derivable from the user id.
type RememberToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token has elapsed its validity window.
func (t RememberToken) IsExpired(at time.Time) bool {
	return !t.ExpiresAt.After(at)
}
