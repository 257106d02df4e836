package domain

import "time"

// Role is a coarse-grained authorization label attached to an identity.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	// RoleUnresolved is reported when there is no authenticated identity.
	RoleUnresolved Role = "unresolved"
)

// Assignable reports whether r may be stored in user_roles.
func (r Role) Assignable() bool {
	return r == RoleAdmin || r == RoleUser
}

// User models an authenticated identity.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public, one-to-one companion of a User.
type Profile struct {
	UserID      string
	DisplayName string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserRole associates an identity with exactly one role.
type UserRole struct {
	UserID    string
	Role      Role
	UpdatedAt time.Time
}

// DirectoryEntry is one row of the admin user listing.
type DirectoryEntry struct {
	UserID      string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	Role        Role
}

// DirectoryStats summarises the user directory.
type DirectoryStats struct {
	TotalUsers   int
	TotalRecords int64
	AdminUsers   int
	// ActiveUsers equals TotalUsers; no activity tracking exists.
	ActiveUsers int
}
