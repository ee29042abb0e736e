package domain

import "time"

// UserRegisteredEvent represents the payload for pub.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	RegisteredAt time.Time
}

// LoginEvent represents the payload for pub.user.login messages. Failed
// attempts carry no user id because the account may not exist.
type LoginEvent struct {
	EventID   string
	UserID    string
	Email     string
	Succeeded bool
	Remember  bool
	IP        *string
	At        time.Time
}

// PostEvent represents the payload for pub.post.* lifecycle messages.
type PostEvent struct {
	EventID  string
	PostID   string
	AuthorID string
	Slug     string
	Action   string
	At       time.Time
}
