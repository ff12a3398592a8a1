package job_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/job"
	"tarefas-api/internal/mocks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRunnerConfig() job.RunnerConfig {
	cfg := job.DefaultRunnerConfig()
	cfg.WorkerCount = 1
	cfg.QueueSize = 10
	// Keep the monitor ticker far away so it never interferes with tests.
	cfg.StuckJobCheckInterval = time.Hour
	return cfg
}

// waitForStatus polls the store until the job reaches the wanted status.
func waitForStatus(t *testing.T, store *mocks.MockJobStore, jobID uuid.UUID, want job.Status) {
	t.Helper()
	require.Eventually(t, func() bool {
		got, ok := store.StatusOf(jobID)
		return ok && got == want
	}, 2*time.Second, 10*time.Millisecond, "job never reached status %q", want)
}

func TestRunnerProcessesSubmittedJob(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	mailer := &mocks.MockMailer{}
	runner := job.NewRunner(store, testRunnerConfig(), testLogger())
	runner.Register(job.TypeWelcomeEmail, job.WelcomeEmailHandler(mailer, testLogger()))

	require.NoError(t, runner.Start())
	defer runner.Stop()

	user, err := domain.NewUser("dispatch", "dispatch@example.com", "password123", "", "")
	require.NoError(t, err)
	j, err := job.NewWelcomeEmail(user)
	require.NoError(t, err)

	require.NoError(t, runner.Submit(context.Background(), j))

	waitForStatus(t, store, j.ID, job.StatusCompleted)
	require.Equal(t, 1, mailer.SentCount())
	assert.Equal(t, "dispatch@example.com", mailer.Sent[0].To)
	assert.Equal(t, "Welcome to the Task Agenda API!", mailer.Sent[0].Subject)
	assert.Contains(t, mailer.Sent[0].Body, "dispatch")
}

func TestRunnerMarksJobFailedWithoutHandler(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	runner := job.NewRunner(store, testRunnerConfig(), testLogger())

	require.NoError(t, runner.Start())
	defer runner.Stop()

	j, err := job.New("unknown_type", map[string]string{"k": "v"})
	require.NoError(t, err)

	require.NoError(t, runner.Submit(context.Background(), j))

	waitForStatus(t, store, j.ID, job.StatusFailed)
}

func TestRunnerMarksJobFailedOnHandlerError(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	runner := job.NewRunner(store, testRunnerConfig(), testLogger())
	runner.Register("flaky", func(ctx context.Context, payload json.RawMessage) error {
		return errors.New("smtp unavailable")
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	j, err := job.New("flaky", map[string]string{})
	require.NoError(t, err)

	require.NoError(t, runner.Submit(context.Background(), j))

	waitForStatus(t, store, j.ID, job.StatusFailed)
}

func TestSubmitPersistsJobWhenQueueFull(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	cfg := testRunnerConfig()
	cfg.QueueSize = 0

	// Never started: the zero-size queue rejects the enqueue immediately.
	runner := job.NewRunner(store, cfg, testLogger())

	j, err := job.New("anything", map[string]string{})
	require.NoError(t, err)

	err = runner.Submit(context.Background(), j)
	require.ErrorIs(t, err, job.ErrQueueFull)

	status, ok := store.StatusOf(j.ID)
	require.True(t, ok, "job should be persisted despite the full queue")
	assert.Equal(t, job.StatusPending, status)
}

func TestSubmitFailsWhenStoreFails(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	store.SaveErr = errors.New("connection refused")
	runner := job.NewRunner(store, testRunnerConfig(), testLogger())

	j, err := job.New("anything", map[string]string{})
	require.NoError(t, err)

	err = runner.Submit(context.Background(), j)
	require.Error(t, err)
	assert.NotErrorIs(t, err, job.ErrQueueFull)
}

func TestRecoverRequeuesUnfinishedJobs(t *testing.T) {
	t.Parallel()

	store := mocks.NewMockJobStore()
	ctx := context.Background()

	pending, err := job.New("recoverable", map[string]string{"n": "1"})
	require.NoError(t, err)
	require.NoError(t, store.SaveJob(ctx, pending))

	interrupted, err := job.New("recoverable", map[string]string{"n": "2"})
	require.NoError(t, err)
	require.NoError(t, store.SaveJob(ctx, interrupted))
	require.NoError(t, store.UpdateJobStatus(ctx, interrupted.ID, job.StatusProcessing, ""))

	runner := job.NewRunner(store, testRunnerConfig(), testLogger())
	runner.Register("recoverable", func(ctx context.Context, payload json.RawMessage) error {
		return nil
	})

	require.NoError(t, runner.Start())
	defer runner.Stop()

	waitForStatus(t, store, pending.ID, job.StatusCompleted)
	waitForStatus(t, store, interrupted.ID, job.StatusCompleted)
}

func TestWelcomeEmailHandlerRejectsBadPayload(t *testing.T) {
	t.Parallel()

	mailer := &mocks.MockMailer{}
	handler := job.WelcomeEmailHandler(mailer, testLogger())

	err := handler(context.Background(), json.RawMessage("{not json"))
	require.Error(t, err)
	assert.Equal(t, 0, mailer.SentCount())
}

func TestWelcomeEmailHandlerPropagatesSendFailure(t *testing.T) {
	t.Parallel()

	mailer := &mocks.MockMailer{SendErr: errors.New("relay rejected")}
	handler := job.WelcomeEmailHandler(mailer, testLogger())

	j, err := job.New(job.TypeWelcomeEmail, job.WelcomeEmailPayload{
		UserID: "u1",
		Email:  "someone@example.com",
		Name:   "someone",
	})
	require.NoError(t, err)

	err = handler(context.Background(), j.Payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay rejected")
}
