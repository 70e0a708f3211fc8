// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"coursehub/internal/middleware"
	"coursehub/internal/models"
)

// roleRequest is the assign/update payload.
type roleRequest struct {
	Role  models.CategoryRole `json:"role"`
	Notes string              `json:"notes"`
}

// RolesForCategory lists every assignment on a category.
func (a *API) RolesForCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	items, err := a.roleStore.ListForCategory(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// RolesForUser lists every assignment a user holds.
func (a *API) RolesForUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	items, err := a.roleStore.ListForUser(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// RoleAssign grants (or overwrites) a role for a user on a category. The
// assigner is the identified caller.
func (a *API) RoleAssign(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	userID, ok := pathID(r, "userID")
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// RequireGlobalAdmin guarantees an identified caller on this route.
	assigner := middleware.UserFromCtx(r.Context())

	assignment, err := a.roleStore.Assign(userID, categoryID, req.Role, assigner.ID, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, assignment)
}

// RoleRevoke removes a user's assignment on a category.
func (a *API) RoleRevoke(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}
	userID, ok := pathID(r, "userID")
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := a.roleStore.Revoke(userID, categoryID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
