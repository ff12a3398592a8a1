package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"tarefas-api/internal/job"
)

// MockJobStore implements job.Store with an in-memory map.
type MockJobStore struct {
	mu   sync.Mutex
	Jobs map[uuid.UUID]*job.Job

	SaveErr   error
	UpdateErr error
}

// NewMockJobStore creates an empty mock job store.
func NewMockJobStore() *MockJobStore {
	return &MockJobStore{
		Jobs: make(map[uuid.UUID]*job.Job),
	}
}

var _ job.Store = (*MockJobStore)(nil)

// SaveJob implements the job.Store interface.
func (m *MockJobStore) SaveJob(ctx context.Context, j *job.Job) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *j
	m.Jobs[j.ID] = &copied
	return nil
}

// UpdateJobStatus implements the job.Store interface.
func (m *MockJobStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status job.Status, errorMsg string) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if j, ok := m.Jobs[jobID]; ok {
		j.Status = status
		j.ErrorMessage = errorMsg
		j.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// GetPendingJobs implements the job.Store interface.
func (m *MockJobStore) GetPendingJobs(ctx context.Context) ([]*job.Job, error) {
	return m.jobsByStatus(job.StatusPending, 0), nil
}

// GetProcessingJobs implements the job.Store interface.
func (m *MockJobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]*job.Job, error) {
	return m.jobsByStatus(job.StatusProcessing, olderThan), nil
}

// StatusOf returns the recorded status of a job.
func (m *MockJobStore) StatusOf(jobID uuid.UUID) (job.Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.Jobs[jobID]
	if !ok {
		return "", false
	}
	return j.Status, true
}

func (m *MockJobStore) jobsByStatus(status job.Status, olderThan time.Duration) []*job.Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	var result []*job.Job
	for _, j := range m.Jobs {
		if j.Status != status {
			continue
		}
		if olderThan > 0 && !j.UpdatedAt.Before(cutoff) {
			continue
		}
		copied := *j
		result = append(result, &copied)
	}
	return result
}
