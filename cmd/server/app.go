package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"tarefas-api/internal/agenda"
	"tarefas-api/internal/config"
	"tarefas-api/internal/events"
	"tarefas-api/internal/job"
	"tarefas-api/internal/platform/mail"
	"tarefas-api/internal/platform/postgres"
	redisx "tarefas-api/internal/platform/redis"
	"tarefas-api/internal/service"
	"tarefas-api/internal/service/auth"
	"tarefas-api/internal/store"
)

// application holds all shared application dependencies so lifecycle and
// cleanup are managed in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	taskStore     store.TaskStore
	categoryStore store.CategoryStore
	jobStore      job.Store

	// Platform
	cache  *redisx.Cache
	mailer mail.Mailer

	// Services
	jwtService      auth.JWTService
	userService     service.UserService
	taskService     service.TaskService
	categoryService service.CategoryService
	agendaService   *agenda.Service

	// Event system and background jobs
	eventEmitter events.EventEmitter
	jobRunner    *job.Runner
}

// newApplication creates an application instance with all dependencies
// initialized and the background job runner started.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	verifier := auth.NewBcryptVerifier()

	app.userStore = postgres.NewUserStore(db, logger)
	app.taskStore = postgres.NewTaskStore(db, logger)
	app.categoryStore = postgres.NewCategoryStore(db, logger)
	app.jobStore = postgres.NewJobStore(db, logger)

	app.cache = redisx.New(redisx.Config{
		Addr:     cfg.Cache.Addr,
		DB:       cfg.Cache.DB,
		Password: cfg.Cache.Password,
	}, logger)
	if err := app.cache.Ping(ctx); err != nil {
		// The agenda degrades to uncached reads when Redis is down, so a
		// failed ping is logged rather than fatal.
		logger.Warn("redis unreachable at startup, agenda serving uncached", "error", err)
	}

	app.mailer = buildMailer(cfg.Mail, logger)

	app.agendaService = agenda.NewService(
		app.cache,
		app.taskStore,
		agenda.Config{
			DefaultTTL:  time.Duration(cfg.Cache.AgendaTTLMinutes) * time.Minute,
			FilteredTTL: time.Duration(cfg.Cache.FilteredTTLMinutes) * time.Minute,
		},
		logger,
	)

	app.jobRunner, err = setupJobRunner(app)
	if err != nil {
		return nil, fmt.Errorf("failed to set up job runner: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	if emitter, ok := app.eventEmitter.(*events.InMemoryEventEmitter); ok {
		emitter.RegisterHandler(job.NewRunnerEventHandler(app.jobRunner, logger))
	} else {
		return nil, fmt.Errorf("unexpected event emitter type, cannot register job handler")
	}

	app.userService = service.NewUserService(
		app.userStore,
		db,
		verifier,
		verifier,
		app.eventEmitter,
		logger,
	)
	app.taskService = service.NewTaskService(app.taskStore, app.agendaService, logger)
	app.categoryService = service.NewCategoryService(app.categoryStore, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupJobRunner initializes and starts the background job processor with
// the welcome email handler registered.
func setupJobRunner(app *application) (*job.Runner, error) {
	runner := job.NewRunner(app.jobStore, job.RunnerConfig{
		QueueSize:   app.config.Task.QueueSize,
		WorkerCount: app.config.Task.WorkerCount,
		StuckJobAge: time.Duration(app.config.Task.StuckTaskAgeMinutes) * time.Minute,
	}, app.logger)

	runner.Register(job.TypeWelcomeEmail, job.WelcomeEmailHandler(app.mailer, app.logger))

	if err := runner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start job runner: %w", err)
	}

	return runner, nil
}

// buildMailer selects the SMTP mailer when configured, falling back to the
// logging mailer so welcome email jobs still complete in development.
func buildMailer(cfg config.MailConfig, logger *slog.Logger) mail.Mailer {
	if cfg.Host == "" {
		logger.Info("SMTP not configured, welcome emails will be logged only")
		return mail.NewLogMailer(logger)
	}
	return mail.NewSMTPMailer(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.From, logger)
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.jobRunner != nil {
		app.jobRunner.Stop()
	}

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
}
