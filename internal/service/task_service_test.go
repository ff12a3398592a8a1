package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/mocks"
	"tarefas-api/internal/store"
)

// recordingInvalidator counts invalidations per owner.
type recordingInvalidator struct {
	mu     sync.Mutex
	owners []uuid.UUID
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners = append(r.owners, ownerID)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners)
}

func newTaskServiceForTest(t *testing.T) (*TaskServiceImpl, *mocks.MockTaskStore, *recordingInvalidator) {
	t.Helper()
	taskStore := mocks.NewMockTaskStore()
	invalidator := &recordingInvalidator{}
	return NewTaskService(taskStore, invalidator, testLogger()), taskStore, invalidator
}

func newValidTask(t *testing.T, owner uuid.UUID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, "buy groceries", "milk and eggs",
		time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC), domain.TaskStatusPending)
	require.NoError(t, err)
	return task
}

func TestCreateTaskInvalidatesAgenda(t *testing.T) {
	t.Parallel()

	svc, taskStore, invalidator := newTaskServiceForTest(t)
	owner := uuid.New()

	created, err := svc.CreateTask(context.Background(), newValidTask(t, owner))
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, 1, invalidator.count())
	assert.Equal(t, owner, invalidator.owners[0])
	assert.Contains(t, taskStore.Tasks, created.ID)
}

func TestCreateTaskRejectsInvalid(t *testing.T) {
	t.Parallel()

	svc, _, invalidator := newTaskServiceForTest(t)
	owner := uuid.New()

	task := newValidTask(t, owner)
	task.Title = ""
	_, err := svc.CreateTask(context.Background(), task)
	assert.Error(t, err)
	assert.Zero(t, invalidator.count(), "failed create must not invalidate")
}

func TestCreateTaskUnknownCategory(t *testing.T) {
	t.Parallel()

	svc, taskStore, invalidator := newTaskServiceForTest(t)
	owner := uuid.New()

	taskStore.CreateFn = func(ctx context.Context, task *domain.Task) error {
		return store.ErrInvalidEntity
	}

	_, err := svc.CreateTask(context.Background(), newValidTask(t, owner))
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Zero(t, invalidator.count())
}

func TestUpdateTaskInvalidatesAgenda(t *testing.T) {
	t.Parallel()

	svc, _, invalidator := newTaskServiceForTest(t)
	owner := uuid.New()

	created, err := svc.CreateTask(context.Background(), newValidTask(t, owner))
	require.NoError(t, err)
	require.Equal(t, 1, invalidator.count())

	created.Title = "buy more groceries"
	updated, err := svc.UpdateTask(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, "buy more groceries", updated.Title)
	assert.Equal(t, 2, invalidator.count())
}

func TestUpdateTaskNotFound(t *testing.T) {
	t.Parallel()

	svc, _, invalidator := newTaskServiceForTest(t)
	owner := uuid.New()

	task := newValidTask(t, owner)
	_, err := svc.UpdateTask(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Zero(t, invalidator.count())
}

func TestDeleteTaskInvalidatesAgenda(t *testing.T) {
	t.Parallel()

	svc, taskStore, invalidator := newTaskServiceForTest(t)
	owner := uuid.New()

	created, err := svc.CreateTask(context.Background(), newValidTask(t, owner))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(context.Background(), owner, created.ID))
	assert.Equal(t, 2, invalidator.count())
	assert.NotContains(t, taskStore.Tasks, created.ID)
}

func TestDeleteTaskNotFound(t *testing.T) {
	t.Parallel()

	svc, _, invalidator := newTaskServiceForTest(t)

	err := svc.DeleteTask(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.Zero(t, invalidator.count())
}

func TestDeleteTaskOtherOwner(t *testing.T) {
	t.Parallel()

	svc, _, invalidator := newTaskServiceForTest(t)
	owner := uuid.New()

	created, err := svc.CreateTask(context.Background(), newValidTask(t, owner))
	require.NoError(t, err)
	require.Equal(t, 1, invalidator.count())

	err = svc.DeleteTask(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound, "cross-owner delete must look like a missing task")
	assert.Equal(t, 1, invalidator.count())
}

func TestGetTaskScopedToOwner(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTaskServiceForTest(t)
	owner := uuid.New()

	created, err := svc.CreateTask(context.Background(), newValidTask(t, owner))
	require.NoError(t, err)

	got, err := svc.GetTask(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetTask(context.Background(), uuid.New(), created.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestListTasksAppliesFilter(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTaskServiceForTest(t)
	owner := uuid.New()

	pending := newValidTask(t, owner)
	_, err := svc.CreateTask(context.Background(), pending)
	require.NoError(t, err)

	done := newValidTask(t, owner)
	done.Status = domain.TaskStatusCompleted
	_, err = svc.CreateTask(context.Background(), done)
	require.NoError(t, err)

	tasks, err := svc.ListTasks(context.Background(), owner, store.TaskFilter{Status: domain.TaskStatusCompleted})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskStatusCompleted, tasks[0].Status)
}
