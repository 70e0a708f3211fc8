// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// AccessSource tags which check granted access to a course. Sources are
// evaluated in a fixed precedence order: global-admin short-circuits,
// enrollment beats an inherited category role.
type AccessSource string

const (
	AccessGlobalAdmin AccessSource = "global-admin"
	AccessEnrollment  AccessSource = "enrollment"
	AccessCategory    AccessSource = "category"

	// AccessNone marks a computed "no access" decision. It is a normal
	// result, not an error.
	AccessNone AccessSource = ""
)

// AccessDecision is the result of a (user, course) access check.
// Role carries the enrollment role or the effective category role when the
// source provides one; it is empty for the global-admin override.
type AccessDecision struct {
	HasAccess bool         `json:"has_access"`
	Source    AccessSource `json:"source,omitempty"`
	Role      string       `json:"role,omitempty"`
}

// CourseAccess pairs a course with how the user reached it, for
// "courses visible to me" listings.
type CourseAccess struct {
	Course Course       `json:"course"`
	Source AccessSource `json:"source"`
	Role   string       `json:"role,omitempty"`
}
