// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"coursehub/internal/models"
)

// categoryRequest is the create/update payload. On update, name is applied
// only when present; parent_id is applied only when reparent is true
// (a null parent_id with reparent=true moves the category to the root).
type categoryRequest struct {
	Name     *string    `json:"name"`
	ParentID *uuid.UUID `json:"parent_id"`
	Reparent bool       `json:"reparent"`
}

// categoryDetail is the single-category response: the node, its stats,
// and its ancestor chain ordered root to self.
type categoryDetail struct {
	models.Category
	Stats     models.CategoryStats `json:"stats"`
	Ancestors []models.Category    `json:"ancestors"`
}

// CategoriesList returns the flat category list.
func (a *API) CategoriesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.categoryStore.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// CategoriesTree returns the full forest with course counts annotated on
// every node.
func (a *API) CategoriesTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.aggregator.BuildTree()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tree)
}

// CategoryGet returns one category with stats and ancestors.
func (a *API) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	ancestors, err := a.categoryStore.Ancestors(id)
	if err != nil {
		respondError(w, err)
		return
	}
	stats, err := a.aggregator.Stats(id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categoryDetail{
		Category:  ancestors[len(ancestors)-1],
		Stats:     stats,
		Ancestors: ancestors,
	})
}

// CategoryCreate creates a category from the request payload.
func (a *API) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	c, err := a.categoryStore.Create(name, req.ParentID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// CategoryUpdate renames and/or reparents a category.
func (a *API) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := a.categoryStore.Update(id, req.Name, req.ParentID, req.Reparent)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// CategoryDelete removes a childless, course-free category.
func (a *API) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	if err := a.categoryStore.Delete(id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
