// Package job provides a database-backed background job runner. Jobs are
// persisted before they are enqueued, so side effects survive restarts and
// run with at-least-once semantics.
package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a job.
type Status string

// Possible job status values.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Job is a persisted unit of background work. The payload is opaque JSON
// interpreted by the handler registered for the job's type.
type Job struct {
	ID           uuid.UUID
	Type         string
	Payload      json.RawMessage
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates a pending job of the given type with the payload serialized
// to JSON.
func New(jobType string, payload any) (*Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Job{
		ID:        uuid.New(),
		Type:      jobType,
		Payload:   data,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UnmarshalPayload decodes the job payload into the provided structure.
func (j *Job) UnmarshalPayload(v any) error {
	return json.Unmarshal(j.Payload, v)
}

// Store defines the interface for persisting jobs.
type Store interface {
	// SaveJob persists a new job.
	SaveJob(ctx context.Context, j *Job) error

	// UpdateJobStatus updates the status and error message of a job.
	// Updating an unknown job ID is a no-op.
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status Status, errorMsg string) error

	// GetPendingJobs retrieves all jobs with "pending" status, oldest first.
	GetPendingJobs(ctx context.Context) ([]*Job, error)

	// GetProcessingJobs retrieves jobs with "processing" status. If
	// olderThan is non-zero, only jobs that have been in that state longer
	// than the given duration are returned.
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]*Job, error)
}

// HandlerFunc executes the work for one job type. The raw payload is the
// JSON stored with the job.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error
