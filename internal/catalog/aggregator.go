// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog computes derived views over the category forest and the
// external course catalog: per-category course counts and the fully
// annotated tree. It owns no state and recomputes on every call.
package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"coursehub/internal/models"
	"coursehub/internal/store"
)

// Aggregator is a read-only view over the category store and the course
// catalog.
type Aggregator struct {
	categories *store.CategoryStore
	courses    *store.CourseStore
}

// NewAggregator returns a new Aggregator.
func NewAggregator(categories *store.CategoryStore, courses *store.CourseStore) *Aggregator {
	return &Aggregator{categories: categories, courses: courses}
}

// DirectCoursesCount returns the number of courses assigned directly to
// the category.
func (a *Aggregator) DirectCoursesCount(categoryID uuid.UUID) (int, error) {
	if err := a.mustExist(categoryID); err != nil {
		return 0, err
	}
	return a.courses.CountByCategory(categoryID)
}

// DirectSubcategoriesCount returns the number of direct children.
func (a *Aggregator) DirectSubcategoriesCount(categoryID uuid.UUID) (int, error) {
	if err := a.mustExist(categoryID); err != nil {
		return 0, err
	}
	children, err := a.categories.FindChildren(categoryID)
	if err != nil {
		return 0, err
	}
	return len(children), nil
}

// TotalNestedCoursesCount returns the direct count plus the counts of every
// category underneath, to arbitrary depth. Each course sits in exactly one
// category, so nothing is double-counted.
func (a *Aggregator) TotalNestedCoursesCount(categoryID uuid.UUID) (int, error) {
	if err := a.mustExist(categoryID); err != nil {
		return 0, err
	}

	flat, err := a.categories.List()
	if err != nil {
		return 0, err
	}
	counts, err := a.courses.CountsByCategory()
	if err != nil {
		return 0, err
	}

	byParent := childIndex(flat)
	total := 0
	stack := []uuid.UUID{categoryID}
	seen := make(map[uuid.UUID]bool)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		total += counts[cur]
		for _, child := range byParent[cur] {
			stack = append(stack, child.ID)
		}
	}
	return total, nil
}

// Stats returns all three counts for one category.
func (a *Aggregator) Stats(categoryID uuid.UUID) (models.CategoryStats, error) {
	direct, err := a.DirectCoursesCount(categoryID)
	if err != nil {
		return models.CategoryStats{}, err
	}
	children, err := a.DirectSubcategoriesCount(categoryID)
	if err != nil {
		return models.CategoryStats{}, err
	}
	nested, err := a.TotalNestedCoursesCount(categoryID)
	if err != nil {
		return models.CategoryStats{}, err
	}
	return models.CategoryStats{
		DirectCourses:       direct,
		DirectSubcategories: children,
		TotalNestedCourses:  nested,
	}, nil
}

// BuildTree materializes the whole forest with every node annotated with
// its stats. One category query, one grouped course-count query, then a
// single bottom-up pass: children are resolved before their parents so
// nested counts come out linear, not quadratic.
func (a *Aggregator) BuildTree() ([]models.CategoryNode, error) {
	flat, err := a.categories.List()
	if err != nil {
		return nil, err
	}
	counts, err := a.courses.CountsByCategory()
	if err != nil {
		return nil, err
	}
	return BuildForest(flat, counts), nil
}

func (a *Aggregator) mustExist(categoryID uuid.UUID) error {
	c, err := a.categories.FindByID(categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("category %s: %w", categoryID, store.ErrNotFound)
	}
	return nil
}

// BuildForest assembles the annotated forest from a flat category list and
// a map of direct course counts. Pure function: no store access, so the
// aggregation logic is testable on in-memory data.
func BuildForest(flat []models.Category, courseCounts map[uuid.UUID]int) []models.CategoryNode {
	byParent := childIndex(flat)
	return buildLevel(byParent, courseCounts, uuid.Nil, 0)
}

// childIndex groups categories by parent id; roots group under uuid.Nil.
func childIndex(flat []models.Category) map[uuid.UUID][]models.Category {
	byParent := make(map[uuid.UUID][]models.Category)
	for _, c := range flat {
		key := uuid.Nil
		if c.ParentID != nil {
			key = *c.ParentID
		}
		byParent[key] = append(byParent[key], c)
	}
	return byParent
}

// buildLevel builds the nodes under one parent, recursing into children
// first so each node's nested count is the direct count plus the already
// computed child totals. A node whose parent chain never reaches a root is
// simply unreachable from here, so malformed data cannot cause a loop.
func buildLevel(byParent map[uuid.UUID][]models.Category, courseCounts map[uuid.UUID]int, parent uuid.UUID, depth int) []models.CategoryNode {
	var nodes []models.CategoryNode
	for _, c := range byParent[parent] {
		node := models.CategoryNode{
			Category: c,
			Depth:    depth,
			Children: buildLevel(byParent, courseCounts, c.ID, depth+1),
		}
		node.Stats.DirectCourses = courseCounts[c.ID]
		node.Stats.DirectSubcategories = len(node.Children)
		node.Stats.TotalNestedCourses = node.Stats.DirectCourses
		for _, child := range node.Children {
			node.Stats.TotalNestedCourses += child.Stats.TotalNestedCourses
		}
		nodes = append(nodes, node)
	}
	return nodes
}
