package models

import (
	"time"
)

// Role is the closed set of staff roles.
type Role string

const (
	// RoleAdmin can do everything, including deletes and user administration.
	RoleAdmin Role = "admin"
	// RoleEditor can read and write content but not delete it.
	RoleEditor Role = "editor"
	// RoleViewer can sign in but not use the admin API.
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// User represents a staff account of the admin panel.
// Users are never hard deleted; they are deactivated instead.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Username is the unique login name.
	Username string `gorm:"uniqueIndex;size:100;not null" json:"username"`
	// Email is the user's email address.
	Email string `gorm:"size:255" json:"email"`
	// Password is the bcrypt or argon2id hash of the user's password.
	Password string `gorm:"size:255;not null" json:"-"`
	// Role decides which API levels the user passes.
	Role Role `gorm:"type:varchar(20);not null" json:"role"`
	// IsActive is false for disabled accounts. Disabled users can't log in and lose their sessions.
	IsActive bool `gorm:"not null" json:"isActive"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }
