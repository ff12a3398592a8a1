package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/platform/logger"
	"tarefas-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. Category links live in the
// task_categories join table and are loaded with every task read.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection or transaction managed by the
// caller. If logger is nil, the default logger is used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create.
// It inserts the task row and its category links.
// Returns store.ErrInvalidEntity if the owner or a category does not exist.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, execution_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.ExecutionDate,
		task.Status,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if err := s.replaceCategoryLinks(ctx, task.ID, task.Categories); err != nil {
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
// The lookup is owner-scoped: a task belonging to another user yields
// store.ErrTaskNotFound, never the other user's data.
func (s *TaskStore) GetByID(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, title, description, execution_date, status, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, taskID, ownerID).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.ExecutionDate,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}

	if err := s.loadCategories(ctx, []*domain.Task{&task}); err != nil {
		return nil, err
	}

	return &task, nil
}

// List implements store.TaskStore.List.
// Results are always scoped to the owner and ordered by execution date
// ascending. Filters are combined with AND.
func (s *TaskStore) List(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	conditions := []string{"t.user_id = $1"}
	args := []any{ownerID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.Day != nil {
		// Calendar-day match ignoring time-of-day: half-open interval over
		// the day in the filter's own location.
		d := *filter.Day
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
		args = append(args, dayStart)
		conditions = append(conditions, fmt.Sprintf("t.execution_date >= $%d", len(args)))
		args = append(args, dayStart.AddDate(0, 0, 1))
		conditions = append(conditions, fmt.Sprintf("t.execution_date < $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf(
			"(t.title ILIKE $%d OR t.description ILIKE $%d)", len(args), len(args)))
	}
	if filter.CategoryID != uuid.Nil {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM task_categories tc WHERE tc.task_id = t.id AND tc.category_id = $%d)",
			len(args)))
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.user_id, t.title, t.description, t.execution_date, t.status, t.created_at, t.updated_at
		FROM tasks t
		WHERE %s
		ORDER BY t.execution_date ASC
	`, strings.Join(conditions, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID.String()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.ExecutionDate,
			&task.Status,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadCategories(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update.
// The update is owner-scoped and replaces the task's category links.
// Returns store.ErrTaskNotFound if no row matches the ID and owner.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, execution_date = $3, status = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.ExecutionDate,
		task.Status,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	if err := s.replaceCategoryLinks(ctx, task.ID, task.Categories); err != nil {
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete.
// Returns store.ErrTaskNotFound if no row matches the ID and owner.
func (s *TaskStore) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", ownerID.String()))
	return nil
}

// WithTx implements store.TaskStore.WithTx.
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{db: tx, logger: s.logger}
}

// replaceCategoryLinks rewrites the task_categories rows for the task to
// match the given category set.
func (s *TaskStore) replaceCategoryLinks(ctx context.Context, taskID uuid.UUID, categories []domain.Category) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM task_categories WHERE task_id = $1`, taskID); err != nil {
		log.Error("failed to clear task category links",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return err
	}

	for _, category := range categories {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO task_categories (task_id, category_id) VALUES ($1, $2)`,
			taskID, category.ID)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: category with ID %s not found",
					store.ErrInvalidEntity, category.ID)
			}
			log.Error("failed to link task category",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID.String()),
				slog.String("category_id", category.ID.String()))
			return err
		}
	}

	return nil
}

// loadCategories attaches categories to the given tasks with a single join
// query, ordered by name per task.
func (s *TaskStore) loadCategories(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	placeholders := make([]string, 0, len(tasks))
	args := make([]any, 0, len(tasks))
	for i, task := range tasks {
		task.Categories = []domain.Category{}
		byID[task.ID] = task
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, task.ID)
	}

	query := fmt.Sprintf(`
		SELECT tc.task_id, c.id, c.name, c.icon, c.created_at
		FROM task_categories tc
		JOIN categories c ON c.id = tc.category_id
		WHERE tc.task_id IN (%s)
		ORDER BY c.name ASC
	`, strings.Join(placeholders, ", "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to load task categories", slog.String("error", err.Error()))
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var taskID uuid.UUID
		var category domain.Category
		if err := rows.Scan(&taskID, &category.ID, &category.Name, &category.Icon, &category.CreatedAt); err != nil {
			log.Error("failed to scan task category row", slog.String("error", err.Error()))
			return err
		}
		if task, ok := byID[taskID]; ok {
			task.Categories = append(task.Categories, category)
		}
	}

	return rows.Err()
}
