package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
)

// TaskFilter restricts a task listing. Zero values mean "no restriction".
// Every listing is additionally scoped to a single owner; the filter never
// widens visibility across owners.
type TaskFilter struct {
	// Status matches tasks with exactly this status.
	Status domain.TaskStatus

	// CategoryID matches tasks labeled with this category.
	CategoryID uuid.UUID

	// Day matches tasks whose execution date falls on this calendar day,
	// ignoring time-of-day.
	Day *time.Time

	// Search matches tasks whose title or description contains this
	// substring, case-insensitively.
	Search string
}

// IsZero reports whether no restriction is set.
func (f TaskFilter) IsZero() bool {
	return f.Status == "" && f.CategoryID == uuid.Nil && f.Day == nil && f.Search == ""
}

// TaskStore defines the interface for task data persistence.
// All read and mutation operations are scoped by the owning user.
type TaskStore interface {
	// Create saves a new task along with its category links.
	// Returns ErrInvalidEntity if the owner or a referenced category does
	// not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves an owner's task by ID, categories included.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner.
	GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks matching the filter, ordered by
	// execution date ascending, categories included.
	List(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update modifies an existing task and replaces its category links.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes an owner's task by ID.
	// Returns ErrTaskNotFound if the task does not exist or belongs to a
	// different owner.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error

	// WithTx returns a TaskStore bound to the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
