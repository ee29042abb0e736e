package domain

import "time"

// Role enumerates the access levels a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserStatus enumerates possible account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User mirrors the persisted representation in the users table.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       UserStatus
	Bio          *string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanLogin reports whether the account may authenticate at all.
func (u User) CanLogin() bool {
	return u.Status == UserStatusActive
}

// ProfileUpdate enumerates the optional fields a profile update may carry.
// A nil field leaves the stored value untouched.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Bio      *string
}

// IsEmpty reports whether the update carries no changes.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.Bio == nil
}

// LoginAttempt records an authentication attempt for throttling and audit.
// Rows are append-only; the ledger is queried as a sliding window.
type LoginAttempt struct {
	ID        string
	Email     string
	Succeeded bool
	IP        *string
	CreatedAt time.Time
}

// UserSummary augments a user row with aggregate counts for admin listings.
type UserSummary struct {
	User
	PostCount int
}

// ActorContext identifies the authenticated principal performing an operation.
// It is passed explicitly into every service call that enforces ownership.
type ActorContext struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a ActorContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}
