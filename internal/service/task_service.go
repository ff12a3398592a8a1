package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/store"
)

// AgendaInvalidator invalidates an owner's cached agenda views. Satisfied
// by the agenda service; failures are absorbed by the implementation.
type AgendaInvalidator interface {
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

// TaskService provides operations for managing a user's tasks. Every write
// invalidates the owner's cached agenda before returning, so a read issued
// after a successful write never observes stale data.
type TaskService interface {
	// CreateTask validates and persists a new task for its owner.
	CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// GetTask retrieves one of the owner's tasks by ID.
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks returns the owner's tasks matching the filter, ordered by
	// execution date ascending.
	ListTasks(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)

	// UpdateTask modifies one of the owner's tasks, replacing its category
	// links with those on the given task.
	UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// DeleteTask removes one of the owner's tasks by ID.
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore   store.TaskStore
	invalidator AgendaInvalidator
	logger      *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskStore store.TaskStore,
	invalidator AgendaInvalidator,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore:   taskStore,
		invalidator: invalidator,
		logger:      logger.With("component", "task_service"),
	}
}

// CreateTask validates and persists a new task, then invalidates the owner's
// cached agenda.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, err
		}
		s.logger.Error("failed to create task",
			"error", err,
			"user_id", task.UserID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.invalidator.Invalidate(ctx, task.UserID)

	// Reload so category names populated by the store are returned.
	created, err := s.taskStore.GetByID(ctx, task.UserID, task.ID)
	if err != nil {
		s.logger.Error("failed to reload created task",
			"error", err,
			"task_id", task.ID)
		return task, nil
	}

	s.logger.Debug("task created", "task_id", created.ID, "user_id", created.UserID)
	return created, nil
}

// GetTask retrieves one of the owner's tasks by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, ownerID, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	return task, nil
}

// ListTasks returns the owner's tasks matching the filter.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, ownerID, filter)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err, "user_id", ownerID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask modifies one of the owner's tasks, then invalidates the owner's
// cached agenda.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) || errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", task.ID,
			"user_id", task.UserID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.invalidator.Invalidate(ctx, task.UserID)

	updated, err := s.taskStore.GetByID(ctx, task.UserID, task.ID)
	if err != nil {
		s.logger.Error("failed to reload updated task",
			"error", err,
			"task_id", task.ID)
		return task, nil
	}

	s.logger.Debug("task updated", "task_id", updated.ID, "user_id", updated.UserID)
	return updated, nil
}

// DeleteTask removes one of the owner's tasks, then invalidates the owner's
// cached agenda.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID,
			"user_id", ownerID)
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.invalidator.Invalidate(ctx, ownerID)

	s.logger.Debug("task deleted", "task_id", taskID, "user_id", ownerID)
	return nil
}
