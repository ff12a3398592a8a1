// Package service provides application-level services for managing users,
// tasks, and categories. Services orchestrate stores, cache invalidation,
// and background work, leaving HTTP concerns to the api package.
package service

import "errors"

// Sentinel errors shared across service implementations. Callers check for
// these with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrCategoryNotFound indicates a referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")
)
