// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Role is a user's authorization level. There are exactly two: regular
// users who can post and delete their own recommendations, and admins who
// can additionally delete anything, curate staff picks, and change roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the two known roles.
// Roles arrive from the wire (role-change requests), so they must be
// checked before hitting the database.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account in the directory.
//
// Identity comes from an external provider (GitHub OAuth), so the primary
// external identifier is ExternalID — an opaque, stable subject string like
// "github:1234567". We still generate our own internal string ID (xid) for
// consistency with Recommendation and to avoid tying our primary keys to a
// third-party's numbering scheme.
//
// ExternalID is immutable once set; the UNIQUE constraint on external_id in
// the DB guarantees exactly one User per external identity. Email,
// DisplayName and AvatarURL are refreshed on sign-in if the provider's copy
// drifted. Role defaults to "user" and is mutable only by an admin.
type User struct {
	ID          string    `json:"id"          db:"id"`
	ExternalID  string    `json:"externalId"  db:"external_id"`
	Email       string    `json:"email"       db:"email"`
	DisplayName string    `json:"displayName" db:"display_name"`
	AvatarURL   string    `json:"avatarUrl"   db:"avatar_url"` // may be empty
	Role        Role      `json:"role"        db:"role"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
