package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tarefas-api/internal/events"
)

// RunnerEventHandler implements events.EventHandler by turning job request
// events into persisted jobs submitted to a Runner.
type RunnerEventHandler struct {
	runner *Runner
	logger *slog.Logger
}

var _ events.EventHandler = (*RunnerEventHandler)(nil)

// NewRunnerEventHandler creates an event handler that submits incoming
// job request events to the given runner.
func NewRunnerEventHandler(runner *Runner, logger *slog.Logger) *RunnerEventHandler {
	return &RunnerEventHandler{
		runner: runner,
		logger: logger.With("component", "runner_event_handler"),
	}
}

// HandleEvent persists and enqueues a job for the event. Events whose type
// has no registered handler are ignored so that unrelated events can share
// the same emitter.
func (h *RunnerEventHandler) HandleEvent(ctx context.Context, event *events.JobRequestEvent) error {
	if !h.runner.HasHandler(event.Type) {
		h.logger.Debug("ignoring event with unsupported type",
			"event_type", event.Type,
			"event_id", event.ID)
		return nil
	}

	now := time.Now().UTC()
	j := &Job{
		ID:        event.ID,
		Type:      event.Type,
		Payload:   event.Payload,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.runner.Submit(ctx, j); err != nil {
		// A full queue is not fatal: the job row is already saved and
		// will be picked up by recovery on the next start.
		if errors.Is(err, ErrQueueFull) {
			h.logger.Warn("job queue full, deferring to recovery",
				"job_id", j.ID,
				"job_type", j.Type)
			return nil
		}
		h.logger.Error("failed to submit job",
			"error", err,
			"job_id", j.ID,
			"job_type", j.Type,
			"event_id", event.ID)
		return fmt.Errorf("failed to submit job: %w", err)
	}

	h.logger.Info("job submitted",
		"job_id", j.ID,
		"job_type", j.Type,
		"event_id", event.ID)
	return nil
}
