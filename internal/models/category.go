// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a node in the course-organization tree. Categories form a
// forest: a nil ParentID marks a root. Courses reference at most one
// category.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsRoot returns true when the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryStats holds the derived counts for a category. They are never
// persisted; the aggregator recomputes them on demand from the tree and
// the course catalog.
type CategoryStats struct {
	DirectCourses       int `json:"direct_courses_count"`
	DirectSubcategories int `json:"direct_subcategories_count"`
	TotalNestedCourses  int `json:"total_nested_courses_count"`
}

// CategoryNode is a category materialized inside the full forest, with its
// children nested and its stats annotated.
type CategoryNode struct {
	Category
	Depth    int            `json:"depth"`
	Children []CategoryNode `json:"children,omitempty"`
	Stats    CategoryStats  `json:"stats"`
}
