// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRole is a ranked permission grant scoped to a category. A grant
// on a category is inherited by every descendant category.
type CategoryRole string

const (
	RoleCategoryAdmin       CategoryRole = "category-admin"
	RoleCategoryCoordinator CategoryRole = "category-coordinator"
	RoleCategoryReviewer    CategoryRole = "category-reviewer"

	// RoleNone is the zero value: no role held anywhere on the chain.
	RoleNone CategoryRole = ""
)

// Priority returns the rank used when merging grants across a category's
// ancestor chain. Higher wins; unknown or absent roles rank zero.
func (r CategoryRole) Priority() int {
	switch r {
	case RoleCategoryAdmin:
		return 3
	case RoleCategoryCoordinator:
		return 2
	case RoleCategoryReviewer:
		return 1
	}
	return 0
}

// Valid reports whether r is one of the three assignable category roles.
func (r CategoryRole) Valid() bool {
	return r.Priority() > 0
}

// HigherRole returns whichever of a and b ranks higher. Equal-priority
// roles are identical values, so either argument may be returned.
func HigherRole(a, b CategoryRole) CategoryRole {
	if b.Priority() > a.Priority() {
		return b
	}
	return a
}

// RoleAssignment links a user to a category role. At most one assignment
// exists per (user, category) pair; assigning again overwrites in place.
type RoleAssignment struct {
	ID         uuid.UUID    `json:"id"`
	UserID     uuid.UUID    `json:"user_id"`
	CategoryID uuid.UUID    `json:"category_id"`
	Role       CategoryRole `json:"role"`

	// Audit fields.
	AssignedBy uuid.UUID `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
	Notes      string    `json:"notes,omitempty"`
}
