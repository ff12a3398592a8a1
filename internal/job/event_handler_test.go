package job_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarefas-api/internal/events"
	"tarefas-api/internal/job"
	"tarefas-api/internal/mocks"
)

func noopHandler(ctx context.Context, payload json.RawMessage) error {
	return nil
}

func TestHandleEventSubmitsKnownJobType(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	runner := job.NewRunner(store, testRunnerConfig(), testLogger())
	runner.Register(job.TypeWelcomeEmail, noopHandler)
	handler := job.NewRunnerEventHandler(runner, testLogger())

	event, err := events.NewJobRequestEvent(job.TypeWelcomeEmail, job.WelcomeEmailPayload{
		UserID: "u1",
		Email:  "u1@example.com",
		Name:   "u1",
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	status, ok := store.StatusOf(event.ID)
	require.True(t, ok)
	assert.Equal(t, job.StatusPending, status)
}

func TestHandleEventIgnoresUnknownJobType(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	runner := job.NewRunner(store, testRunnerConfig(), testLogger())
	handler := job.NewRunnerEventHandler(runner, testLogger())

	event, err := events.NewJobRequestEvent("unrelated_event", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	_, ok := store.StatusOf(event.ID)
	assert.False(t, ok, "unsupported event types should not be persisted")
}

func TestHandleEventToleratesFullQueue(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	cfg := testRunnerConfig()
	cfg.QueueSize = 0
	runner := job.NewRunner(store, cfg, testLogger())
	runner.Register(job.TypeWelcomeEmail, noopHandler)
	handler := job.NewRunnerEventHandler(runner, testLogger())

	event, err := events.NewJobRequestEvent(job.TypeWelcomeEmail, job.WelcomeEmailPayload{})
	require.NoError(t, err)

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	status, ok := store.StatusOf(event.ID)
	require.True(t, ok)
	assert.Equal(t, job.StatusPending, status)
}

func TestHandleEventPropagatesSaveFailure(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	store.SaveErr = errors.New("connection refused")
	runner := job.NewRunner(store, testRunnerConfig(), testLogger())
	runner.Register(job.TypeWelcomeEmail, noopHandler)
	handler := job.NewRunnerEventHandler(runner, testLogger())

	event, err := events.NewJobRequestEvent(job.TypeWelcomeEmail, job.WelcomeEmailPayload{})
	require.NoError(t, err)

	require.Error(t, handler.HandleEvent(context.Background(), event))
}
