// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"coursehub/internal/middleware"
)

// CourseAccess returns the access decision for the identified user on one
// course. "No access" is a 200 with has_access=false, not an error status.
func (a *API) CourseAccess(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid course id", http.StatusBadRequest)
		return
	}

	user := middleware.UserFromCtx(r.Context())
	decision, err := a.resolver.CheckAccess(user.ID, courseID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, decision)
}

// MyCourses lists every course the identified user can reach, with the
// source of each entry.
func (a *API) MyCourses(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	courses, err := a.resolver.AccessibleCourses(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, courses)
}
