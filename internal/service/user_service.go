package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/events"
	"tarefas-api/internal/job"
	"tarefas-api/internal/store"
)

// UserService provides user registration and credential verification.
type UserService interface {
	// Register creates a new user with a hashed password and schedules the
	// welcome email. Returns store.ErrUsernameExists or store.ErrEmailExists
	// on uniqueness conflicts.
	Register(ctx context.Context, username, email, password, firstName, lastName string) (*domain.User, error)

	// Authenticate verifies a username/password pair and returns the user.
	// Returns auth-agnostic ErrInvalidCredentials semantics via the user
	// store's ErrUserNotFound so callers cannot distinguish unknown users
	// from wrong passwords.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// PasswordHasher derives a one-way hash from a plaintext password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// PasswordComparer compares a hashed password with a plaintext candidate.
type PasswordComparer interface {
	Compare(hashedPassword, password string) error
}

// ErrInvalidCredentials is returned by Authenticate when the username is
// unknown or the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	hasher    PasswordHasher
	comparer  PasswordComparer
	emitter   events.EventEmitter
	logger    *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	db *sql.DB,
	hasher PasswordHasher,
	comparer PasswordComparer,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		hasher:    hasher,
		comparer:  comparer,
		emitter:   emitter,
		logger:    logger.With("component", "user_service"),
	}
}

// Register creates a new user and schedules the welcome email job. The email
// is scheduled only after the user row is committed, so a failed registration
// never produces a welcome email.
func (s *UserServiceImpl) Register(
	ctx context.Context,
	username, email, password, firstName, lastName string,
) (*domain.User, error) {
	user, err := domain.NewUser(username, email, password, firstName, lastName)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err, "username", username)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return s.userStore.WithTx(tx).Create(ctx, user)
		})
	} else {
		// Without a shared handle the store runs outside an explicit
		// transaction.
		err = s.userStore.Create(ctx, user)
	}
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration conflict", "username", username)
		} else {
			s.logger.Error("failed to save user", "error", err, "username", username)
		}
		return nil, err
	}

	s.scheduleWelcomeEmail(ctx, user)

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// scheduleWelcomeEmail emits the welcome email job request. Failures are
// logged but never surfaced: registration already succeeded.
func (s *UserServiceImpl) scheduleWelcomeEmail(ctx context.Context, user *domain.User) {
	if s.emitter == nil {
		return
	}

	payload := job.WelcomeEmailPayload{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.DisplayName(),
	}
	event, err := events.NewJobRequestEvent(job.TypeWelcomeEmail, payload)
	if err != nil {
		s.logger.Error("failed to build welcome email event",
			"error", err,
			"user_id", user.ID)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to schedule welcome email",
			"error", err,
			"user_id", user.ID)
	}
}

// Authenticate verifies a username/password pair.
func (s *UserServiceImpl) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userStore.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user", "error", err, "username", username)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.comparer.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}
