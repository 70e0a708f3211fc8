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

// CourseStore reads the external course catalog. The engine never mutates
// courses; it only needs lookups and per-category counts.
type CourseStore struct {
	db *sql.DB
}

// NewCourseStore returns a new CourseStore.
func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

const courseColumns = `id, title, category_id, created_at`

func scanCourse(scanner interface{ Scan(...any) error }) (*models.Course, error) {
	var c models.Course
	err := scanner.Scan(&c.ID, &c.Title, &c.CategoryID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID retrieves a course by ID. Returns nil if not found.
func (s *CourseStore) FindByID(id uuid.UUID) (*models.Course, error) {
	row := s.db.QueryRow(`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
	c, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	return c, nil
}

// List returns every course in the catalog ordered by title.
func (s *CourseStore) List() ([]models.Course, error) {
	return s.list(`SELECT ` + courseColumns + ` FROM courses ORDER BY title`)
}

// ListByCategory returns courses assigned directly to a category.
func (s *CourseStore) ListByCategory(categoryID uuid.UUID) ([]models.Course, error) {
	return s.list(`SELECT `+courseColumns+` FROM courses WHERE category_id = $1 ORDER BY title`, categoryID)
}

// CountByCategory returns the number of courses assigned directly to a
// category (nested subcategories not included).
func (s *CourseStore) CountByCategory(categoryID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM courses WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count courses by category: %w", err)
	}
	return n, nil
}

// CountsByCategory returns direct course counts for every category that has
// at least one course, in a single query. The aggregator uses this to
// annotate the whole forest without a count query per node.
func (s *CourseStore) CountsByCategory() (map[uuid.UUID]int, error) {
	rows, err := s.db.Query(`
		SELECT category_id, COUNT(*) FROM courses
		WHERE category_id IS NOT NULL
		GROUP BY category_id
	`)
	if err != nil {
		return nil, fmt.Errorf("count courses by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan course count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func (s *CourseStore) list(query string, args ...any) ([]models.Course, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var items []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}
