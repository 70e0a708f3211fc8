// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"coursehub/internal/models"
)

// RoleAssignmentStore manages (user, category) -> role records. The
// one-role-per-pair invariant is enforced in a single code path: Assign is
// an insert-or-replace by the natural key, backed by the table's unique
// constraint.
type RoleAssignmentStore struct {
	db *sql.DB
}

// NewRoleAssignmentStore returns a new RoleAssignmentStore.
func NewRoleAssignmentStore(db *sql.DB) *RoleAssignmentStore {
	return &RoleAssignmentStore{db: db}
}

const assignmentColumns = `id, user_id, category_id, role, assigned_by, assigned_at, notes`

// scanAssignment scans a row into a RoleAssignment struct.
func scanAssignment(scanner interface{ Scan(...any) error }) (*models.RoleAssignment, error) {
	var a models.RoleAssignment
	err := scanner.Scan(&a.ID, &a.UserID, &a.CategoryID, &a.Role, &a.AssignedBy, &a.AssignedAt, &a.Notes)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Assign grants a role to a user on a category. If an assignment already
// exists for the pair, its role, assigner, timestamp and notes are
// overwritten in place; no duplicate rows, ever. The existence checks and
// the upsert run in one transaction.
func (s *RoleAssignmentStore) Assign(userID, categoryID uuid.UUID, role models.CategoryRole, assignedBy uuid.UUID, notes string) (*models.RoleAssignment, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("assign role %q: %w", role, ErrInvalidRole)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("assign role: begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("assign role: check user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("assign role: user %s: %w", userID, ErrNotFound)
	}

	if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, categoryID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("assign role: check category: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("assign role: category %s: %w", categoryID, ErrNotFound)
	}

	row := tx.QueryRow(`
		INSERT INTO category_roles (user_id, category_id, role, assigned_by, assigned_at, notes)
		VALUES ($1, $2, $3, $4, NOW(), $5)
		ON CONFLICT (user_id, category_id) DO UPDATE SET
			role = EXCLUDED.role,
			assigned_by = EXCLUDED.assigned_by,
			assigned_at = EXCLUDED.assigned_at,
			notes = EXCLUDED.notes
		RETURNING `+assignmentColumns,
		userID, categoryID, role, assignedBy, notes,
	)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("assign role: commit: %w", err)
	}
	return a, nil
}

// Revoke removes the assignment for a (user, category) pair. Fails with
// ErrNotFound if none exists.
func (s *RoleAssignmentStore) Revoke(userID, categoryID uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM category_roles WHERE user_id = $1 AND category_id = $2`, userID, categoryID)
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("revoke role for user %s on category %s: %w", userID, categoryID, ErrNotFound)
	}
	return nil
}

// UpdateRole changes the role of an existing assignment by its id.
func (s *RoleAssignmentStore) UpdateRole(assignmentID uuid.UUID, role models.CategoryRole) (*models.RoleAssignment, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("update assignment role %q: %w", role, ErrInvalidRole)
	}

	row := s.db.QueryRow(`
		UPDATE category_roles SET role = $1, assigned_at = NOW()
		WHERE id = $2
		RETURNING `+assignmentColumns,
		role, assignmentID,
	)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("update assignment %s: %w", assignmentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return a, nil
}

// Find returns the direct assignment for a (user, category) pair, without
// any inheritance. Returns nil if none exists.
func (s *RoleAssignmentStore) Find(userID, categoryID uuid.UUID) (*models.RoleAssignment, error) {
	row := s.db.QueryRow(`
		SELECT `+assignmentColumns+` FROM category_roles
		WHERE user_id = $1 AND category_id = $2`,
		userID, categoryID,
	)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find role assignment: %w", err)
	}
	return a, nil
}

// ListForUser returns every assignment held by a user.
func (s *RoleAssignmentStore) ListForUser(userID uuid.UUID) ([]models.RoleAssignment, error) {
	return s.listWhere(`user_id = $1`, userID)
}

// ListForCategory returns every assignment on a category.
func (s *RoleAssignmentStore) ListForCategory(categoryID uuid.UUID) ([]models.RoleAssignment, error) {
	return s.listWhere(`category_id = $1`, categoryID)
}

func (s *RoleAssignmentStore) listWhere(cond string, arg any) ([]models.RoleAssignment, error) {
	rows, err := s.db.Query(`SELECT `+assignmentColumns+` FROM category_roles WHERE `+cond, arg)
	if err != nil {
		return nil, fmt.Errorf("list role assignments: %w", err)
	}
	defer rows.Close()

	var items []models.RoleAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role assignment: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}
