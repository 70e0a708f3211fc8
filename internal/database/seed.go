package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: three users
// (one global admin), a small category forest, a few courses including an
// uncategorized one, an enrollment, and a coordinator grant. It is a no-op
// if any users exist already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var adminID, staffID, studentID string
	if err := tx.QueryRow(`
		INSERT INTO users (email, display_name, role)
		VALUES ('admin@coursehub.local', 'Admin', 'admin') RETURNING id
	`).Scan(&adminID); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if err := tx.QueryRow(`
		INSERT INTO users (email, display_name, role)
		VALUES ('staff@coursehub.local', 'Staff Member', 'staff') RETURNING id
	`).Scan(&staffID); err != nil {
		return fmt.Errorf("seed staff user: %w", err)
	}
	if err := tx.QueryRow(`
		INSERT INTO users (email, display_name, role)
		VALUES ('student@coursehub.local', 'Student', 'student') RETURNING id
	`).Scan(&studentID); err != nil {
		return fmt.Errorf("seed student user: %w", err)
	}

	var scienceID, physicsID, humanitiesID string
	if err := tx.QueryRow(`
		INSERT INTO categories (name) VALUES ('Science') RETURNING id
	`).Scan(&scienceID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	if err := tx.QueryRow(`
		INSERT INTO categories (name, parent_id) VALUES ('Physics', $1) RETURNING id
	`, scienceID).Scan(&physicsID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}
	if err := tx.QueryRow(`
		INSERT INTO categories (name) VALUES ('Humanities') RETURNING id
	`).Scan(&humanitiesID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	var mechanicsID string
	if err := tx.QueryRow(`
		INSERT INTO courses (title, category_id) VALUES ('Classical Mechanics', $1) RETURNING id
	`, physicsID).Scan(&mechanicsID); err != nil {
		return fmt.Errorf("seed course: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO courses (title, category_id) VALUES ('World History', $1)
	`, humanitiesID); err != nil {
		return fmt.Errorf("seed course: %w", err)
	}
	// Uncategorized: reachable only by enrollment or the admin override.
	if _, err := tx.Exec(`
		INSERT INTO courses (title) VALUES ('Orientation Week')
	`); err != nil {
		return fmt.Errorf("seed course: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO enrollments (user_id, course_id, role) VALUES ($1, $2, 'student')
	`, studentID, mechanicsID); err != nil {
		return fmt.Errorf("seed enrollment: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO category_roles (user_id, category_id, role, assigned_by, notes)
		VALUES ($1, $2, 'category-coordinator', $3, 'development seed')
	`, staffID, scienceID, adminID); err != nil {
		return fmt.Errorf("seed role assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development data",
		"admin", "admin@coursehub.local",
		"staff", "staff@coursehub.local",
		"student", "student@coursehub.local",
	)
	return nil
}
