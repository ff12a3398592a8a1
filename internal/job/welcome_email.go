package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/platform/mail"
)

// TypeWelcomeEmail identifies the welcome-email job created on registration.
const TypeWelcomeEmail = "welcome_email"

// WelcomeEmailPayload carries the data the welcome-email handler needs,
// denormalized so the job stays executable even if the user row changes.
type WelcomeEmailPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// NewWelcomeEmail creates a pending welcome-email job for the given user.
func NewWelcomeEmail(user *domain.User) (*Job, error) {
	return New(TypeWelcomeEmail, WelcomeEmailPayload{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.DisplayName(),
	})
}

// WelcomeEmailHandler returns the HandlerFunc that sends the welcome email
// through the given mailer.
func WelcomeEmailHandler(mailer mail.Mailer, logger *slog.Logger) HandlerFunc {
	log := logger.With("component", "welcome_email_handler")

	return func(ctx context.Context, raw json.RawMessage) error {
		var payload WelcomeEmailPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal welcome email payload: %w", err)
		}

		subject := "Welcome to the Task Agenda API!"
		body := fmt.Sprintf(`Hello %s!

Welcome to our task management API!

Your account has been created successfully. You can now:
- Create and manage your tasks
- Organize them by categories
- Track your progress

Start now and organize your productivity!

The Task Agenda Team
`, payload.Name)

		if err := mailer.Send(ctx, payload.Email, subject, body); err != nil {
			return fmt.Errorf("failed to send welcome email: %w", err)
		}

		log.Info("welcome email sent",
			"user_id", payload.UserID)
		return nil
	}
}
