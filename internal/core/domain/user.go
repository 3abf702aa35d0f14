package domain

import "time"

// Role enumerates marketplace roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// DefaultStartingPoints is granted to every newly provisioned account.
const DefaultStartingPoints = 100

// User mirrors the persisted representation in the market.users table.
// Identity (credentials, sessions) lives with the external provider;
// ExternalID is the provider's subject reference.
type User struct {
	ID         string
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	Username   *string
	AvatarURL  *string
	Points     int
	Role       Role
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
