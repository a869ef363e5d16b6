package domain

import "time"

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account. PasswordHash and the token hashes
// are sensitive: they are stripped before a User leaves the service layer.
type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     string
	Role             Role
	IsEmailConfirmed bool

	// ConfirmTokenHash holds the SHA-256 digest of an outstanding email
	// confirmation secret, empty when none is pending.
	ConfirmTokenHash string

	// ResetTokenHash and ResetExpiresAt pair up for password reset; the
	// token only validates while ResetExpiresAt is in the future.
	ResetTokenHash string
	ResetExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
