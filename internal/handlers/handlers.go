// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON API handlers for CourseHub. Handlers
// are grouped on the API struct and receive their dependencies through it.
// The caller is already identified by the upstream gateway; see the
// middleware package.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"coursehub/internal/access"
	"coursehub/internal/catalog"
	"coursehub/internal/store"
)

// API groups the engine's HTTP handlers and their dependencies.
type API struct {
	categoryStore *store.CategoryStore
	roleStore     *store.RoleAssignmentStore
	courseStore   *store.CourseStore
	userStore     *store.UserStore
	aggregator    *catalog.Aggregator
	resolver      *access.Resolver
}

// NewAPI creates a new API handler group with the given dependencies.
func NewAPI(categories *store.CategoryStore, roles *store.RoleAssignmentStore, courses *store.CourseStore, users *store.UserStore, aggregator *catalog.Aggregator, resolver *access.Resolver) *API {
	return &API{
		categoryStore: categories,
		roleStore:     roles,
		courseStore:   courses,
		userStore:     users,
		aggregator:    aggregator,
		resolver:      resolver,
	}
}

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// errorStatus maps store errors to HTTP status codes. Unknown errors map
// to 500 and their detail is logged, never sent to the client.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrNameRequired), errors.Is(err, store.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrCircularReference), errors.Is(err, store.ErrDepthLimitExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrHasSubcategories), errors.Is(err, store.ErrHasCourses):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError translates an error into a JSON error response.
func respondError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		respondJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// pathID parses the named UUID route parameter.
func pathID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	return id, err == nil
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
