package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueFull is returned by Submit when the in-memory queue has no room.
// The job is still persisted and will be picked up by the next recovery pass.
var ErrQueueFull = errors.New("job queue is full")

// RunnerConfig holds configuration for the job runner.
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs.
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue.
	QueueSize int

	// StuckJobAge defines how long a job can stay in processing state
	// before it is considered stuck and reset.
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs.
	// If zero, defaults to 5 minutes.
	StuckJobCheckInterval time.Duration
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// Runner manages background job processing: a buffered queue feeding a
// worker pool, a handler registry keyed by job type, and a recovery pass
// that requeues unfinished jobs from the store on startup.
type Runner struct {
	store      Store
	handlers   map[string]HandlerFunc
	jobChan    chan *Job
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
}

// NewRunner creates a new Runner.
func NewRunner(store Store, config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		store:      store,
		handlers:   make(map[string]HandlerFunc),
		jobChan:    make(chan *Job, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With("component", "job_runner"),
	}
}

// Register binds a handler to a job type. Must be called before Start.
func (r *Runner) Register(jobType string, handler HandlerFunc) {
	r.handlers[jobType] = handler
}

// HasHandler reports whether a handler is registered for the job type.
func (r *Runner) HasHandler(jobType string) bool {
	_, ok := r.handlers[jobType]
	return ok
}

// Submit persists a new job and adds it to the queue.
// A full queue is not fatal: the persisted job is picked up later by
// recovery, so Submit only reports ErrQueueFull for observability.
func (r *Runner) Submit(ctx context.Context, j *Job) error {
	if err := r.store.SaveJob(ctx, j); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	select {
	case r.jobChan <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start recovers unfinished jobs and launches the worker pool.
func (r *Runner) Start() error {
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop gracefully shuts down the runner, waiting for in-flight jobs.
func (r *Runner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.jobChan)
}

// Recover requeues jobs left unfinished by a previous run: pending jobs
// verbatim, processing jobs reset to pending first (they were likely
// interrupted by a crash).
func (r *Runner) Recover() error {
	ctx := context.Background()

	pending, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	processing, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pending),
		"processing_count", len(processing))

	for _, j := range pending {
		r.requeue(j)
	}

	for _, j := range processing {
		if err := r.store.UpdateJobStatus(ctx, j.ID, StatusPending, "reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing job status",
				"job_id", j.ID,
				"job_type", j.Type,
				"error", err)
			continue
		}
		r.requeue(j)
	}

	return nil
}

// requeue puts a job back on the in-memory queue, logging when full.
func (r *Runner) requeue(j *Job) {
	select {
	case r.jobChan <- j:
	default:
		r.logger.Error("failed to requeue job, queue is full",
			"job_id", j.ID,
			"job_type", j.Type)
	}
}

// worker processes jobs from the queue until shutdown.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case j, ok := <-r.jobChan:
			if !ok {
				return
			}
			r.processJob(j, id)
		}
	}
}

// processJob handles execution of a single job.
func (r *Runner) processJob(j *Job, workerID int) {
	ctx := context.Background()
	log := r.logger.With(
		"job_id", j.ID,
		"job_type", j.Type,
		"worker_id", workerID,
	)

	handler, ok := r.handlers[j.Type]
	if !ok {
		log.Error("no handler registered for job type")
		if err := r.store.UpdateJobStatus(ctx, j.ID, StatusFailed, "no handler registered"); err != nil {
			log.Error("failed to update job status to failed", "error", err)
		}
		return
	}

	if err := r.store.UpdateJobStatus(ctx, j.ID, StatusProcessing, ""); err != nil {
		log.Error("failed to update job status to processing", "error", err)
		return
	}

	log.Info("processing job")

	if err := handler(ctx, j.Payload); err != nil {
		log.Error("job execution failed", "error", err)
		if updateErr := r.store.UpdateJobStatus(ctx, j.ID, StatusFailed, err.Error()); updateErr != nil {
			log.Error("failed to update job status to failed", "error", updateErr)
		}
		return
	}

	log.Info("job completed successfully")
	if err := r.store.UpdateJobStatus(ctx, j.ID, StatusCompleted, ""); err != nil {
		log.Error("failed to update job status to completed", "error", err)
	}
}

// stuckJobMonitor periodically resets jobs that have been in processing
// state for too long and requeues them.
func (r *Runner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuck, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
			if err != nil {
				r.logger.Error("failed to check for stuck jobs", "error", err)
				continue
			}
			if len(stuck) == 0 {
				continue
			}

			r.logger.Info("found stuck jobs", "count", len(stuck))

			for _, j := range stuck {
				if err := r.store.UpdateJobStatus(ctx, j.ID, StatusPending,
					"reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck job status",
						"job_id", j.ID,
						"job_type", j.Type,
						"error", err)
					continue
				}
				r.requeue(j)
			}
		}
	}
}
