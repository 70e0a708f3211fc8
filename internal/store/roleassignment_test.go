// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"coursehub/internal/models"
)

// assignFixture creates a user, an admin assigner and a category for the
// role tests, with cleanup registered.
func assignFixture(t *testing.T) (*RoleAssignmentStore, *models.User, *models.User, uuid.UUID) {
	t.Helper()
	db := testDB(t)
	users := NewUserStore(db)
	categories := NewCategoryStore(db, 10)
	roles := NewRoleAssignmentStore(db)

	email := "test-assignee-" + t.Name() + "@store-test.local"
	adminEmail := "test-assigner-" + t.Name() + "@store-test.local"
	catName := "test-roles-" + t.Name()
	t.Cleanup(func() {
		cleanCategories(t, db, catName)
		cleanUsers(t, db, email, adminEmail)
	})

	u, err := users.Create(email, "Assignee", models.GlobalRoleStaff)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	admin, err := users.Create(adminEmail, "Assigner", models.GlobalRoleAdmin)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	cat, err := categories.Create(catName, nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return roles, u, admin, cat.ID
}

func TestRoleAssignmentUpsert(t *testing.T) {
	roles, u, admin, catID := assignFixture(t)

	first, err := roles.Assign(u.ID, catID, models.RoleCategoryReviewer, admin.ID, "initial")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if first.Role != models.RoleCategoryReviewer {
		t.Errorf("role: got %q, want reviewer", first.Role)
	}

	// Second assignment for the same pair overwrites in place.
	second, err := roles.Assign(u.ID, catID, models.RoleCategoryAdmin, admin.ID, "promoted")
	if err != nil {
		t.Fatalf("Assign again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %s != %s", second.ID, first.ID)
	}
	if second.Role != models.RoleCategoryAdmin {
		t.Errorf("role after upsert: got %q, want admin", second.Role)
	}
	if second.Notes != "promoted" {
		t.Errorf("notes after upsert: got %q, want %q", second.Notes, "promoted")
	}

	// One stored record, and Find returns the second role.
	list, err := roles.ListForCategory(catID)
	if err != nil {
		t.Fatalf("ListForCategory: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("stored records: got %d, want 1", len(list))
	}
	found, err := roles.Find(u.ID, catID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found == nil || found.Role != models.RoleCategoryAdmin {
		t.Errorf("Find after upsert: got %+v, want admin", found)
	}
}

func TestRoleAssignmentValidation(t *testing.T) {
	roles, u, admin, catID := assignFixture(t)

	if _, err := roles.Assign(u.ID, catID, "editor-in-chief", admin.ID, ""); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bogus role: got %v, want ErrInvalidRole", err)
	}
	if _, err := roles.Assign(uuid.New(), catID, models.RoleCategoryReviewer, admin.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
	if _, err := roles.Assign(u.ID, uuid.New(), models.RoleCategoryReviewer, admin.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category: got %v, want ErrNotFound", err)
	}
}

func TestRoleAssignmentRevoke(t *testing.T) {
	roles, u, admin, catID := assignFixture(t)

	if err := roles.Revoke(u.ID, catID); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoke nothing: got %v, want ErrNotFound", err)
	}

	if _, err := roles.Assign(u.ID, catID, models.RoleCategoryCoordinator, admin.ID, ""); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if err := roles.Revoke(u.ID, catID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	found, err := roles.Find(u.ID, catID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found != nil {
		t.Error("assignment still present after revoke")
	}
}

func TestRoleAssignmentUpdateRole(t *testing.T) {
	roles, u, admin, catID := assignFixture(t)

	a, err := roles.Assign(u.ID, catID, models.RoleCategoryReviewer, admin.ID, "")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	updated, err := roles.UpdateRole(a.ID, models.RoleCategoryCoordinator)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if updated.Role != models.RoleCategoryCoordinator {
		t.Errorf("role: got %q, want coordinator", updated.Role)
	}

	if _, err := roles.UpdateRole(uuid.New(), models.RoleCategoryAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown assignment: got %v, want ErrNotFound", err)
	}
	if _, err := roles.UpdateRole(a.ID, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bogus role: got %v, want ErrInvalidRole", err)
	}
}

func TestRoleAssignmentListForUser(t *testing.T) {
	roles, u, admin, catID := assignFixture(t)

	if _, err := roles.Assign(u.ID, catID, models.RoleCategoryReviewer, admin.ID, ""); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	list, err := roles.ListForUser(u.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(list) != 1 || list[0].CategoryID != catID {
		t.Errorf("ListForUser: got %+v", list)
	}

	empty, err := roles.ListForUser(admin.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no assignments for assigner, got %d", len(empty))
	}
}
