// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is; the HTTP layer maps them to status codes. Absence of access is
// never an error; these cover invalid mutations and missing references only.
var (
	// ErrNotFound means a referenced id does not resolve to a stored row.
	ErrNotFound = errors.New("not found")

	// ErrNameRequired means a category name was empty or blank.
	ErrNameRequired = errors.New("category name is required")

	// ErrInvalidRole means a role value outside the assignable set.
	ErrInvalidRole = errors.New("invalid category role")

	// ErrCircularReference means a reparent would make a category its own
	// ancestor (self-parenting included).
	ErrCircularReference = errors.New("category cannot be its own ancestor")

	// ErrDepthLimitExceeded means a create or reparent would place a
	// category deeper than the configured maximum depth.
	ErrDepthLimitExceeded = errors.New("category depth limit exceeded")

	// ErrHasSubcategories and ErrHasCourses are the delete preconditions:
	// only childless, course-free categories can be removed.
	ErrHasSubcategories = errors.New("category has subcategories")
	ErrHasCourses       = errors.New("category has courses")

	// ErrInconsistentTree means a cycle was observed in persisted parent
	// links. The store's own invariants make this unreachable; the walk
	// guards against it anyway so bad data fails instead of looping.
	ErrInconsistentTree = errors.New("inconsistent category tree")
)
