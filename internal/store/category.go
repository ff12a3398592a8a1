package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
)

// CategoryStore defines the interface for category data persistence.
// Categories are shared across users and read-only over the API; Create
// exists for seeding and administrative use.
type CategoryStore interface {
	// Create saves a new category.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique ID.
	// Returns ErrCategoryNotFound if the category does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// WithTx returns a CategoryStore bound to the provided transaction.
	WithTx(tx *sql.Tx) CategoryStore
}
