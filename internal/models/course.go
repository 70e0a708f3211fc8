// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Course belongs to the external catalog. A course with a nil CategoryID is
// uncategorized and is reachable only through direct enrollment or the
// global-admin override, never through category-role inheritance.
type Course struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	CategoryID *uuid.UUID `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Enrollment is the external record directly linking a user to a course
// with a course-specific role (e.g. "teacher", "student").
type Enrollment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CourseID  uuid.UUID `json:"course_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
