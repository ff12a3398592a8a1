package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common category validation errors.
var (
	ErrEmptyCategoryID   = errors.New("category ID cannot be empty")
	ErrEmptyCategoryName = errors.New("category name cannot be empty")
	ErrCategoryNameLong  = errors.New("category name must be at most 100 characters long")
	ErrCategoryIconLong  = errors.New("category icon must be at most 50 characters long")
)

// Category is a shared label tasks can reference. Categories have an
// independent lifecycle: tasks reference them but never own them.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategory creates a new Category with a generated ID and timestamp.
func NewCategory(name, icon string) (*Category, error) {
	category := &Category{
		ID:        uuid.New(),
		Name:      name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}

	if err := category.Validate(); err != nil {
		return nil, err
	}

	return category, nil
}

// Validate checks if the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCategoryID
	}
	if c.Name == "" {
		return ErrEmptyCategoryName
	}
	if len(c.Name) > 100 {
		return ErrCategoryNameLong
	}
	if len(c.Icon) > 50 {
		return ErrCategoryIconLong
	}
	return nil
}
