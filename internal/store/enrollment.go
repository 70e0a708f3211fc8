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

// EnrollmentStore reads the external enrollment records. Enrollment CRUD
// belongs to the surrounding application; the engine only looks records up.
type EnrollmentStore struct {
	db *sql.DB
}

// NewEnrollmentStore returns a new EnrollmentStore.
func NewEnrollmentStore(db *sql.DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

const enrollmentColumns = `id, user_id, course_id, role, created_at`

func scanEnrollment(scanner interface{ Scan(...any) error }) (*models.Enrollment, error) {
	var e models.Enrollment
	err := scanner.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Role, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Find returns the enrollment linking a user to a course. Returns nil if
// the user is not enrolled.
func (s *EnrollmentStore) Find(userID, courseID uuid.UUID) (*models.Enrollment, error) {
	row := s.db.QueryRow(`
		SELECT `+enrollmentColumns+` FROM enrollments
		WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	)
	e, err := scanEnrollment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return e, nil
}

// ListForUser returns every enrollment a user holds.
func (s *EnrollmentStore) ListForUser(userID uuid.UUID) ([]models.Enrollment, error) {
	rows, err := s.db.Query(`SELECT `+enrollmentColumns+` FROM enrollments WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()

	var items []models.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}
