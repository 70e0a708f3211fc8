// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"coursehub/internal/models"
)

// CategoryStore manages the category forest and enforces its invariants:
// the parent graph stays acyclic, no category exceeds the configured depth,
// and only childless, course-free categories can be deleted. Every mutation
// that reads before it writes runs inside a single transaction.
type CategoryStore struct {
	db *sql.DB

	// maxDepth is the largest allowed ancestor count per category
	// (root = depth 0). Zero or negative disables the cap. Passed in
	// explicitly so tests can vary it per case.
	maxDepth int
}

// NewCategoryStore returns a new CategoryStore with the given depth cap.
func NewCategoryStore(db *sql.DB, maxDepth int) *CategoryStore {
	return &CategoryStore{db: db, maxDepth: maxDepth}
}

const categoryColumns = `id, name, parent_id, created_at, updated_at`

// querier is satisfied by both *sql.DB and *sql.Tx so lookups can run
// inside or outside a transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(&c.ID, &c.Name, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new category under the optional parent. The parent must
// exist and the new node must not exceed the depth cap.
func (s *CategoryStore) Create(name string, parentID *uuid.UUID) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create category: %w", ErrNameRequired)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("create category: begin tx: %w", err)
	}
	defer tx.Rollback()

	if parentID != nil {
		// The new node's ancestor count equals the length of the parent's
		// chain (root..parent inclusive).
		chain, err := s.ancestors(tx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		if s.maxDepth > 0 && len(chain) > s.maxDepth {
			return nil, fmt.Errorf("create category under %s: %w", parentID, ErrDepthLimitExceeded)
		}
	}

	row := tx.QueryRow(`
		INSERT INTO categories (name, parent_id)
		VALUES ($1, $2)
		RETURNING `+categoryColumns,
		name, parentID,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create category: commit: %w", err)
	}
	return c, nil
}

// Update renames and/or reparents a category. A nil name leaves the name
// unchanged. Reparenting is requested explicitly via the reparent flag
// (newParent == nil then means "move to root") and re-validates the cycle
// and depth invariants against the new position; name-only updates skip
// both checks.
func (s *CategoryStore) Update(id uuid.UUID, name *string, newParent *uuid.UUID, reparent bool) (*models.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("update category: begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := s.findByID(tx, id)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if current == nil {
		return nil, fmt.Errorf("update category %s: %w", id, ErrNotFound)
	}

	newName := current.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return nil, fmt.Errorf("update category: %w", ErrNameRequired)
		}
	}

	parentID := current.ParentID
	if reparent {
		if err := s.validateMove(tx, id, newParent); err != nil {
			return nil, fmt.Errorf("update category: %w", err)
		}
		parentID = newParent
	}

	row := tx.QueryRow(`
		UPDATE categories SET name = $1, parent_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+categoryColumns,
		newName, parentID, id,
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update category: commit: %w", err)
	}
	return c, nil
}

// validateMove checks the cycle and depth invariants for moving id under
// newParent. The moved node's whole subtree must stay within the depth cap,
// so the subtree height counts against the new position.
func (s *CategoryStore) validateMove(q querier, id uuid.UUID, newParent *uuid.UUID) error {
	newDepth := 0
	if newParent != nil {
		if *newParent == id {
			return fmt.Errorf("move %s under itself: %w", id, ErrCircularReference)
		}
		chain, err := s.ancestors(q, *newParent)
		if err != nil {
			return err
		}
		// If the moved category appears in the new parent's chain, the new
		// parent is one of its descendants.
		for _, a := range chain {
			if a.ID == id {
				return fmt.Errorf("move %s under descendant %s: %w", id, newParent, ErrCircularReference)
			}
		}
		newDepth = len(chain)
	}

	if s.maxDepth > 0 {
		height, err := s.subtreeHeight(q, id)
		if err != nil {
			return err
		}
		if newDepth+height > s.maxDepth {
			return fmt.Errorf("move %s: %w", id, ErrDepthLimitExceeded)
		}
	}
	return nil
}

// Delete removes a category. The precondition checks and the delete run in
// one transaction so a course cannot slip into the category between the
// check and the removal. Role assignments on the category are removed in
// the same transaction.
func (s *CategoryStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete category: begin tx: %w", err)
	}
	defer tx.Rollback()

	c, err := s.findByID(tx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if c == nil {
		return fmt.Errorf("delete category %s: %w", id, ErrNotFound)
	}

	var children int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&children); err != nil {
		return fmt.Errorf("delete category: count children: %w", err)
	}
	if children > 0 {
		return fmt.Errorf("delete category %s: %w", id, ErrHasSubcategories)
	}

	var courses int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM courses WHERE category_id = $1`, id).Scan(&courses); err != nil {
		return fmt.Errorf("delete category: count courses: %w", err)
	}
	if courses > 0 {
		return fmt.Errorf("delete category %s: %w", id, ErrHasCourses)
	}

	// The FK cascade covers this already; deleting explicitly keeps the
	// store correct even against a schema without the cascade.
	if _, err := tx.Exec(`DELETE FROM category_roles WHERE category_id = $1`, id); err != nil {
		return fmt.Errorf("delete category: clear role assignments: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete category: commit: %w", err)
	}
	return nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	c, err := s.findByID(s.db, id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

func (s *CategoryStore) findByID(q querier, id uuid.UUID) (*models.Category, error) {
	row := q.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

// List returns every category ordered by name.
func (s *CategoryStore) List() ([]models.Category, error) {
	return s.list(s.db, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
}

// FindRoots returns all categories without a parent.
func (s *CategoryStore) FindRoots() ([]models.Category, error) {
	return s.list(s.db, `SELECT `+categoryColumns+` FROM categories WHERE parent_id IS NULL ORDER BY name`)
}

// FindChildren returns the direct subcategories of a category.
func (s *CategoryStore) FindChildren(parentID uuid.UUID) ([]models.Category, error) {
	return s.list(s.db, `SELECT `+categoryColumns+` FROM categories WHERE parent_id = $1 ORDER BY name`, parentID)
}

func (s *CategoryStore) list(q querier, query string, args ...any) ([]models.Category, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Ancestors returns the chain from the root down to the category itself,
// inclusive. Fails with ErrNotFound for an unknown id.
func (s *CategoryStore) Ancestors(id uuid.UUID) ([]models.Category, error) {
	return s.ancestors(s.db, id)
}

// Depth returns the number of ancestors strictly above the category
// (root = 0).
func (s *CategoryStore) Depth(id uuid.UUID) (int, error) {
	chain, err := s.ancestors(s.db, id)
	if err != nil {
		return 0, err
	}
	return len(chain) - 1, nil
}

// ancestors walks parent pointers iteratively up to the root. A visited-id
// set guards the walk: the store's invariants make cycles unreachable, but
// if persisted data is ever inconsistent the walk terminates with
// ErrInconsistentTree instead of looping forever. A dangling parent pointer
// simply ends the chain.
func (s *CategoryStore) ancestors(q querier, id uuid.UUID) ([]models.Category, error) {
	var chain []models.Category
	seen := make(map[uuid.UUID]bool)

	next := &id
	for next != nil {
		cur := *next
		if seen[cur] {
			return nil, fmt.Errorf("ancestors of %s: %w", id, ErrInconsistentTree)
		}
		seen[cur] = true

		c, err := s.findByID(q, cur)
		if err != nil {
			return nil, fmt.Errorf("ancestors of %s: %w", id, err)
		}
		if c == nil {
			if cur == id {
				return nil, fmt.Errorf("ancestors of %s: %w", id, ErrNotFound)
			}
			break
		}
		chain = append(chain, *c)
		next = c.ParentID
	}

	// The walk collected self..root; callers expect root..self.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// subtreeHeight returns the longest child-chain length below the category
// (0 for a leaf). Level-by-level walk with the same cycle guard as
// ancestors.
func (s *CategoryStore) subtreeHeight(q querier, id uuid.UUID) (int, error) {
	seen := map[uuid.UUID]bool{id: true}
	height := 0
	level := []uuid.UUID{id}

	for len(level) > 0 {
		var next []uuid.UUID
		for _, cur := range level {
			rows, err := q.Query(`SELECT id FROM categories WHERE parent_id = $1`, cur)
			if err != nil {
				return 0, fmt.Errorf("subtree height of %s: %w", id, err)
			}
			for rows.Next() {
				var child uuid.UUID
				if err := rows.Scan(&child); err != nil {
					rows.Close()
					return 0, fmt.Errorf("subtree height of %s: %w", id, err)
				}
				if seen[child] {
					rows.Close()
					return 0, fmt.Errorf("subtree height of %s: %w", id, ErrInconsistentTree)
				}
				seen[child] = true
				next = append(next, child)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return 0, fmt.Errorf("subtree height of %s: %w", id, err)
			}
			rows.Close()
		}
		if len(next) == 0 {
			break
		}
		height++
		level = next
	}
	return height, nil
}
