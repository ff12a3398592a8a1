package api

import (
	"time"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,max=150"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name"       validate:"max=150"`
	LastName        string `json:"last_name"        validate:"max=150"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// TaskRequest defines the payload for creating or updating a task.
// CategoryIDs replaces the task's category links; a null value on update
// leaves them unchanged while an empty array clears them.
type TaskRequest struct {
	Title         string       `json:"title"          validate:"required,max=200"`
	Description   string       `json:"description"`
	ExecutionDate time.Time    `json:"execution_date" validate:"required"`
	Status        string       `json:"status"         validate:"omitempty,oneof=pending in_progress completed"`
	CategoryIDs   *[]uuid.UUID `json:"category_ids"`
}

// CategoryResponse is the public projection of a category.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCategoryResponse builds a CategoryResponse from a domain category.
func NewCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Icon:      category.Icon,
		CreatedAt: category.CreatedAt,
	}
}

// TaskResponse is the full projection of a task, used for detail endpoints
// and write responses.
type TaskResponse struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	ExecutionDate time.Time          `json:"execution_date"`
	Status        string             `json:"status"`
	Categories    []CategoryResponse `json:"categories"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewTaskResponse builds a TaskResponse from a domain task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	categories := make([]CategoryResponse, 0, len(task.Categories))
	for i := range task.Categories {
		categories = append(categories, NewCategoryResponse(&task.Categories[i]))
	}

	return TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		ExecutionDate: task.ExecutionDate,
		Status:        string(task.Status),
		Categories:    categories,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}
