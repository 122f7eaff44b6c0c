package workflow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/mailer"
	"github.com/spec-kit/triage-service/internal/repository"
)

const welcomeBody = `Hi,

Thanks for signing up. We're glad to have you onboard!`

// NewUserSignupWorkflow sends a welcome notification after registration.
// The event only carries the email; the user record is re-fetched.
func NewUserSignupWorkflow(cfg config.WorkflowConfig, users repository.UserRepository, mail mailer.Mailer) *Definition {
	return &Definition{
		ID:      "on-user-signup",
		Event:   events.EventUserSignup,
		Retries: cfg.Retries,
		Handler: func(ctx context.Context, run *Run) error {
			payload, ok := run.Event.Payload.(events.UserSignupPayload)
			if !ok {
				return NonRetriablef("unexpected payload type %T for %s", run.Event.Payload, run.Event.Type)
			}

			userResult, err := run.Step(ctx, "get-user-by-email", func(ctx context.Context) (any, error) {
				user, err := users.GetByEmail(ctx, payload.Email)
				if err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return nil, NonRetriablef("user %s does not exist", payload.Email)
					}
					return nil, err
				}
				return user, nil
			})
			if err != nil {
				return err
			}
			user := userResult.(*domain.User)

			_, err = run.Step(ctx, "send-welcome-email", func(ctx context.Context) (any, error) {
				msg := mailer.Message{
					To:      user.Email,
					Subject: "Welcome to the app",
					Body:    welcomeBody,
				}
				if err := mail.Send(ctx, msg); err != nil {
					return nil, err
				}
				return true, nil
			})
			return err
		},
	}
}
