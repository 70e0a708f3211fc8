// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// End-to-end tests for the HTTP API, run against a real router and
// database. Skipped when PostgreSQL is not available.
package handlers_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"coursehub/internal/access"
	"coursehub/internal/catalog"
	"coursehub/internal/database"
	"coursehub/internal/handlers"
	"coursehub/internal/middleware"
	"coursehub/internal/models"
	"coursehub/internal/router"
	"coursehub/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "coursehub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "coursehub")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

// testServer wires the full stack (stores, aggregator, resolver, router)
// against the test database and returns a running HTTP server.
func testServer(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	categories := store.NewCategoryStore(db, 10)
	roles := store.NewRoleAssignmentStore(db)
	courses := store.NewCourseStore(db)
	users := store.NewUserStore(db)
	enrollments := store.NewEnrollmentStore(db)

	api := handlers.NewAPI(
		categories, roles, courses, users,
		catalog.NewAggregator(categories, courses),
		access.NewResolver(categories, roles, courses, enrollments, users),
	)
	srv := httptest.NewServer(router.New(api, users))
	t.Cleanup(func() {
		srv.Close()
		db.Close()
	})
	return srv, db
}

// makeUser creates a user with an email derived from the test name so
// parallel test runs never collide, and registers cleanup.
func makeUser(t *testing.T, db *sql.DB, tag string, role models.GlobalRole) *models.User {
	t.Helper()
	email := "test-api-" + tag + "-" + t.Name() + "@handlers-test.local"
	t.Cleanup(func() {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	})
	u, err := store.NewUserStore(db).Create(email, "API "+tag, role)
	if err != nil {
		t.Fatalf("create %s user: %v", tag, err)
	}
	return u
}

// cleanupCategory registers deletion of a category and its role grants.
func cleanupCategory(t *testing.T, db *sql.DB, name string) {
	t.Helper()
	t.Cleanup(func() {
		db.Exec("DELETE FROM category_roles WHERE category_id IN (SELECT id FROM categories WHERE name = $1)", name)
		db.Exec("DELETE FROM categories WHERE name = $1", name)
	})
}

// doJSON performs a request with an optional identity header and JSON body.
func doJSON(t *testing.T, method, url string, as *models.User, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if as != nil {
		req.Header.Set(middleware.UserIDHeader, as.ID.String())
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

// decode reads the response body into v and closes it.
func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	srv, db := testServer(t)
	admin := makeUser(t, db, "admin", models.GlobalRoleAdmin)

	parentName := "test-api-parent-" + t.Name()
	childName := "test-api-child-" + t.Name()
	cleanupCategory(t, db, childName)
	cleanupCategory(t, db, parentName)

	// Create a root and a child under it.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories", admin, map[string]any{"name": parentName})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create parent: got %d, want 201", resp.StatusCode)
	}
	var parent models.Category
	decode(t, resp, &parent)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories", admin, map[string]any{
		"name":      childName,
		"parent_id": parent.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create child: got %d, want 201", resp.StatusCode)
	}
	var child models.Category
	decode(t, resp, &child)

	// Detail view carries the ancestor chain root-to-self.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/"+child.ID.String(), nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get child: got %d, want 200", resp.StatusCode)
	}
	var detail struct {
		models.Category
		Stats     models.CategoryStats `json:"stats"`
		Ancestors []models.Category    `json:"ancestors"`
	}
	decode(t, resp, &detail)
	if len(detail.Ancestors) != 2 {
		t.Fatalf("ancestors: got %d, want 2", len(detail.Ancestors))
	}
	if detail.Ancestors[0].ID != parent.ID || detail.Ancestors[1].ID != child.ID {
		t.Errorf("ancestor order wrong: %v", detail.Ancestors)
	}
	if detail.Stats.DirectCourses != 0 || detail.Stats.TotalNestedCourses != 0 {
		t.Errorf("fresh category has nonzero stats: %+v", detail.Stats)
	}

	// Rename in place.
	renamed := childName + "-renamed"
	cleanupCategory(t, db, renamed)
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/categories/"+child.ID.String(), admin, map[string]any{"name": renamed})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rename: got %d, want 200", resp.StatusCode)
	}
	var updated models.Category
	decode(t, resp, &updated)
	if updated.Name != renamed {
		t.Errorf("name after rename: got %q, want %q", updated.Name, renamed)
	}

	// The parent cannot go while the child exists.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/categories/"+parent.ID.String(), admin, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("delete non-empty parent: got %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/categories/"+child.ID.String(), admin, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete child: got %d, want 204", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/categories/"+parent.ID.String(), admin, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete parent: got %d, want 204", resp.StatusCode)
	}
}

func TestMutationGuards(t *testing.T) {
	srv, db := testServer(t)
	staff := makeUser(t, db, "staff", models.GlobalRoleStaff)

	payload := map[string]any{"name": "test-api-guarded-" + t.Name()}

	// Anonymous callers are rejected before reaching the handler.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories", nil, payload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous create: got %d, want 401", resp.StatusCode)
	}

	// Identified non-admins are rejected too.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories", staff, payload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("staff create: got %d, want 403", resp.StatusCode)
	}

	// Reads stay open.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories", nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("anonymous list: got %d, want 200", resp.StatusCode)
	}
}

func TestRoleEndpoints(t *testing.T) {
	srv, db := testServer(t)
	admin := makeUser(t, db, "admin", models.GlobalRoleAdmin)
	staff := makeUser(t, db, "staff", models.GlobalRoleStaff)

	catName := "test-api-roles-" + t.Name()
	cleanupCategory(t, db, catName)
	cat, err := store.NewCategoryStore(db, 10).Create(catName, nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	base := srv.URL + "/api/categories/" + cat.ID.String() + "/roles/" + staff.ID.String()

	resp := doJSON(t, http.MethodPut, base, admin, map[string]any{
		"role":  models.RoleCategoryCoordinator,
		"notes": "runs this branch",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign: got %d, want 200", resp.StatusCode)
	}
	var assignment models.RoleAssignment
	decode(t, resp, &assignment)
	if assignment.Role != models.RoleCategoryCoordinator {
		t.Errorf("role: got %q, want coordinator", assignment.Role)
	}
	if assignment.AssignedBy != admin.ID {
		t.Errorf("assigned_by: got %s, want the calling admin %s", assignment.AssignedBy, admin.ID)
	}

	// Bogus role names are rejected.
	resp = doJSON(t, http.MethodPut, base, admin, map[string]any{"role": "owner"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bogus role: got %d, want 400", resp.StatusCode)
	}

	// The grant shows up on both listing endpoints.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories/"+cat.ID.String()+"/roles", nil, nil)
	var forCategory []models.RoleAssignment
	decode(t, resp, &forCategory)
	if len(forCategory) != 1 || forCategory[0].UserID != staff.ID {
		t.Errorf("roles for category: got %+v", forCategory)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users/"+staff.ID.String()+"/roles", nil, nil)
	var forUser []models.RoleAssignment
	decode(t, resp, &forUser)
	if len(forUser) != 1 || forUser[0].CategoryID != cat.ID {
		t.Errorf("roles for user: got %+v", forUser)
	}

	resp = doJSON(t, http.MethodDelete, base, admin, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("revoke: got %d, want 204", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodDelete, base, admin, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second revoke: got %d, want 404", resp.StatusCode)
	}
}

func TestAccessEndpoints(t *testing.T) {
	srv, db := testServer(t)
	admin := makeUser(t, db, "admin", models.GlobalRoleAdmin)
	staff := makeUser(t, db, "staff", models.GlobalRoleStaff)
	student := makeUser(t, db, "student", models.GlobalRoleStudent)

	catName := "test-api-access-" + t.Name()
	cleanupCategory(t, db, catName)
	cat, err := store.NewCategoryStore(db, 10).Create(catName, nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	courseTitle := "test-api-course-" + t.Name()
	t.Cleanup(func() {
		db.Exec("DELETE FROM courses WHERE title = $1", courseTitle)
	})
	var courseID uuid.UUID
	err = db.QueryRow(
		"INSERT INTO courses (title, category_id) VALUES ($1, $2) RETURNING id",
		courseTitle, cat.ID,
	).Scan(&courseID)
	if err != nil {
		t.Fatalf("insert course: %v", err)
	}

	// Grant staff a category role over the course's category.
	resp := doJSON(t, http.MethodPut,
		srv.URL+"/api/categories/"+cat.ID.String()+"/roles/"+staff.ID.String(),
		admin, map[string]any{"role": models.RoleCategoryReviewer})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("assign: got %d", resp.StatusCode)
	}

	accessURL := srv.URL + "/api/courses/" + courseID.String() + "/access"

	// Identity is mandatory on access queries.
	resp = doJSON(t, http.MethodGet, accessURL, nil, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("anonymous access check: got %d, want 401", resp.StatusCode)
	}

	var decision models.AccessDecision

	resp = doJSON(t, http.MethodGet, accessURL, staff, nil)
	decode(t, resp, &decision)
	if !decision.HasAccess || decision.Source != models.AccessCategory {
		t.Errorf("staff decision: got %+v, want category access", decision)
	}
	if decision.Role != string(models.RoleCategoryReviewer) {
		t.Errorf("staff role: got %q, want reviewer", decision.Role)
	}

	resp = doJSON(t, http.MethodGet, accessURL, admin, nil)
	decode(t, resp, &decision)
	if !decision.HasAccess || decision.Source != models.AccessGlobalAdmin {
		t.Errorf("admin decision: got %+v, want global-admin access", decision)
	}

	// No enrollment and no role anywhere on the chain: denied, but 200.
	resp = doJSON(t, http.MethodGet, accessURL, student, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("student access check: got %d, want 200", resp.StatusCode)
	}
	decode(t, resp, &decision)
	if decision.HasAccess || decision.Source != models.AccessNone {
		t.Errorf("student decision: got %+v, want denial", decision)
	}

	// The course is listed for staff with its source attached.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/my/courses", staff, nil)
	var mine []models.CourseAccess
	decode(t, resp, &mine)
	found := false
	for _, ca := range mine {
		if ca.Course.ID == courseID {
			found = true
			if ca.Source != models.AccessCategory {
				t.Errorf("listed source: got %q, want category", ca.Source)
			}
		}
	}
	if !found {
		t.Errorf("course %s missing from staff listing", courseID)
	}
}
