// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package access resolves whether and how a user may reach a course. It
// merges three sources in a fixed precedence order (the global-admin
// override, direct enrollment, and category-role inheritance) and owns no
// state of its own: every resolution re-reads current store state, so
// results are never stale after a concurrent mutation.
package access

import (
	"fmt"

	"github.com/google/uuid"

	"coursehub/internal/models"
	"coursehub/internal/store"
)

// The resolver consumes its collaborators through these interfaces; the
// concrete stores satisfy them. Keeping them narrow lets the resolution
// order be exercised against in-memory fixtures.

// CategoryDirectory provides the tree lookups the resolver walks.
type CategoryDirectory interface {
	Ancestors(id uuid.UUID) ([]models.Category, error)
	List() ([]models.Category, error)
}

// RoleDirectory provides direct (user, category) assignment lookups.
type RoleDirectory interface {
	Find(userID, categoryID uuid.UUID) (*models.RoleAssignment, error)
	ListForUser(userID uuid.UUID) ([]models.RoleAssignment, error)
}

// CourseDirectory provides course catalog lookups.
type CourseDirectory interface {
	FindByID(id uuid.UUID) (*models.Course, error)
	List() ([]models.Course, error)
	ListByCategory(categoryID uuid.UUID) ([]models.Course, error)
}

// EnrollmentDirectory provides the external enrollment lookups.
type EnrollmentDirectory interface {
	Find(userID, courseID uuid.UUID) (*models.Enrollment, error)
	ListForUser(userID uuid.UUID) ([]models.Enrollment, error)
}

// UserDirectory provides the global-role lookup.
type UserDirectory interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Resolver answers effective-role and course-access queries.
type Resolver struct {
	categories  CategoryDirectory
	roles       RoleDirectory
	courses     CourseDirectory
	enrollments EnrollmentDirectory
	users       UserDirectory
}

// NewResolver returns a Resolver over the given collaborators.
func NewResolver(categories CategoryDirectory, roles RoleDirectory, courses CourseDirectory, enrollments EnrollmentDirectory, users UserDirectory) *Resolver {
	return &Resolver{
		categories:  categories,
		roles:       roles,
		courses:     courses,
		enrollments: enrollments,
		users:       users,
	}
}

// EffectiveRole returns the highest-priority role the user holds on the
// category or any of its ancestors, or RoleNone if no assignment exists
// anywhere on the chain. The walk always continues to the root even after
// a match: a reviewer grant on the node itself must not shadow an admin
// grant further up. When equal roles sit at different depths the values
// are identical, so either counts as the match.
func (r *Resolver) EffectiveRole(userID, categoryID uuid.UUID) (models.CategoryRole, error) {
	chain, err := r.categories.Ancestors(categoryID)
	if err != nil {
		return models.RoleNone, err
	}

	best := models.RoleNone
	for _, c := range chain {
		a, err := r.roles.Find(userID, c.ID)
		if err != nil {
			return models.RoleNone, err
		}
		if a != nil {
			best = models.HigherRole(best, a.Role)
		}
	}
	return best, nil
}

// CheckAccess decides whether the user may access the course. The order is
// load-bearing: the global admin has no enrollment and no category role
// yet must always pass, so it short-circuits first; enrollment is checked
// before the category role because a direct enrollment role must not be
// silently replaced by an inherited one when both exist. "No access" is a
// successfully computed decision, never an error.
func (r *Resolver) CheckAccess(userID, courseID uuid.UUID) (models.AccessDecision, error) {
	user, err := r.users.FindByID(userID)
	if err != nil {
		return models.AccessDecision{}, err
	}
	if user == nil {
		return models.AccessDecision{}, fmt.Errorf("check access: user %s: %w", userID, store.ErrNotFound)
	}
	if user.IsAdmin() {
		return models.AccessDecision{HasAccess: true, Source: models.AccessGlobalAdmin}, nil
	}

	course, err := r.courses.FindByID(courseID)
	if err != nil {
		return models.AccessDecision{}, err
	}
	if course == nil {
		return models.AccessDecision{}, fmt.Errorf("check access: course %s: %w", courseID, store.ErrNotFound)
	}

	enr, err := r.enrollments.Find(userID, courseID)
	if err != nil {
		return models.AccessDecision{}, err
	}
	if enr != nil {
		return models.AccessDecision{HasAccess: true, Source: models.AccessEnrollment, Role: enr.Role}, nil
	}

	if course.CategoryID != nil {
		role, err := r.EffectiveRole(userID, *course.CategoryID)
		if err != nil {
			return models.AccessDecision{}, err
		}
		if role != models.RoleNone {
			return models.AccessDecision{HasAccess: true, Source: models.AccessCategory, Role: string(role)}, nil
		}
	}

	return models.AccessDecision{HasAccess: false, Source: models.AccessNone}, nil
}

// AccessibleCourses lists every course the user can reach. The global
// admin sees the whole catalog. Everyone else gets the union of their
// enrolled courses and every course underneath any category they hold a
// role on, the inverse direction of EffectiveRole: from a granted
// category down through all subcategories. Results deduplicate by course
// id; enrollment-sourced entries win over category-sourced ones.
func (r *Resolver) AccessibleCourses(userID uuid.UUID) ([]models.CourseAccess, error) {
	user, err := r.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("accessible courses: user %s: %w", userID, store.ErrNotFound)
	}

	if user.IsAdmin() {
		all, err := r.courses.List()
		if err != nil {
			return nil, err
		}
		result := make([]models.CourseAccess, 0, len(all))
		for _, c := range all {
			result = append(result, models.CourseAccess{Course: c, Source: models.AccessGlobalAdmin})
		}
		return result, nil
	}

	var result []models.CourseAccess
	known := make(map[uuid.UUID]bool)

	// Enrollments first so they take precedence on conflict.
	enrollments, err := r.enrollments.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		course, err := r.courses.FindByID(e.CourseID)
		if err != nil {
			return nil, err
		}
		if course == nil || known[course.ID] {
			continue
		}
		known[course.ID] = true
		result = append(result, models.CourseAccess{Course: *course, Source: models.AccessEnrollment, Role: e.Role})
	}

	grants, err := r.roles.ListForUser(userID)
	if err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		return result, nil
	}

	flat, err := r.categories.List()
	if err != nil {
		return nil, err
	}
	byParent := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range flat {
		if c.ParentID != nil {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c.ID)
		}
	}

	visited := make(map[uuid.UUID]bool)
	for _, grant := range grants {
		// Iterative downward walk; the visited set also keeps overlapping
		// grants (e.g. on an ancestor and a descendant) from rescanning a
		// subtree.
		stack := []uuid.UUID{grant.CategoryID}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true

			courses, err := r.courses.ListByCategory(cur)
			if err != nil {
				return nil, err
			}
			for _, c := range courses {
				if known[c.ID] {
					continue
				}
				known[c.ID] = true
				result = append(result, models.CourseAccess{Course: c, Source: models.AccessCategory, Role: string(grant.Role)})
			}
			stack = append(stack, byParent[cur]...)
		}
	}

	return result, nil
}
