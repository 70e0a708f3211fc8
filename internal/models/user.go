// Package models defines the data structures that map to database tables
// and provides the core types used throughout the engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// GlobalRole is a user's account-level role. Only GlobalRoleAdmin has
// engine-visible semantics: it bypasses every enrollment and category check.
type GlobalRole string

const (
	GlobalRoleAdmin   GlobalRole = "admin"
	GlobalRoleStaff   GlobalRole = "staff"
	GlobalRoleStudent GlobalRole = "student"
)

// User is an already-identified account. Authentication happens upstream;
// the engine only reads identity and the global role.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Role        GlobalRole `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsAdmin returns true if the user holds the system-wide admin role.
func (u *User) IsAdmin() bool {
	return u.Role == GlobalRoleAdmin
}
