package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tarefas-api/internal/job"
	"tarefas-api/internal/platform/logger"
	"tarefas-api/internal/store"
)

// JobStore implements the job.Store interface using PostgreSQL.
type JobStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewJobStore creates a new PostgreSQL implementation of the job.Store
// interface. If logger is nil, the default logger is used.
func NewJobStore(db store.DBTX, logger *slog.Logger) *JobStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &JobStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_store")),
	}
}

// Ensure JobStore implements job.Store interface
var _ job.Store = (*JobStore)(nil)

// SaveJob implements job.Store.SaveJob.
func (s *JobStore) SaveJob(ctx context.Context, j *job.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO jobs (id, type, payload, status, error_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		j.ID,
		j.Type,
		[]byte(j.Payload),
		j.Status,
		j.ErrorMessage,
		j.CreatedAt,
		j.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save job",
			slog.String("job_id", j.ID.String()),
			slog.String("job_type", j.Type),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save job: %w", err)
	}

	return nil
}

// UpdateJobStatus implements job.Store.UpdateJobStatus.
// Updating an unknown job ID is a no-op.
func (s *JobStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status job.Status, errorMsg string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(ctx, query, status, errorMsg, time.Now().UTC(), jobID)
	if err != nil {
		log.Error("failed to update job status",
			slog.String("job_id", jobID.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update job status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		log.Warn("no job found with ID to update status",
			slog.String("job_id", jobID.String()))
	}

	return nil
}

// GetPendingJobs implements job.Store.GetPendingJobs.
func (s *JobStore) GetPendingJobs(ctx context.Context) ([]*job.Job, error) {
	return s.getJobsByStatus(ctx, job.StatusPending, 0)
}

// GetProcessingJobs implements job.Store.GetProcessingJobs.
func (s *JobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]*job.Job, error) {
	return s.getJobsByStatus(ctx, job.StatusProcessing, olderThan)
}

// getJobsByStatus retrieves jobs by status with an optional age filter,
// oldest first.
func (s *JobStore) getJobsByStatus(ctx context.Context, status job.Status, olderThan time.Duration) ([]*job.Job, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, type, payload, status, error_message, created_at, updated_at
		FROM jobs
		WHERE status = $1
		ORDER BY created_at ASC
	`
	args := []any{status}
	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status, error_message, created_at, updated_at
			FROM jobs
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query jobs by status",
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query jobs by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []*job.Job
	for rows.Next() {
		var j job.Job
		var payload []byte
		if err := rows.Scan(&j.ID, &j.Type, &payload, &j.Status, &j.ErrorMessage, &j.CreatedAt, &j.UpdatedAt); err != nil {
			log.Error("failed to scan job row", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		j.Payload = payload
		jobs = append(jobs, &j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}
