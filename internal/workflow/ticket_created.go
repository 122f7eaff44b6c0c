package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-service/internal/ai"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/mailer"
	"github.com/spec-kit/triage-service/internal/repository"
)

// Assigner resolves a set of required skills to a user, or nil when
// nobody qualifies.
type Assigner interface {
	Resolve(ctx context.Context, requiredSkills []string) (*domain.User, error)
}

// TicketCreatedDeps bundles collaborators for the triage workflow.
type TicketCreatedDeps struct {
	Tickets  repository.TicketRepository
	Analyzer ai.Analyzer
	Assigner Assigner
	Mailer   mailer.Mailer
}

// NewTicketCreatedWorkflow turns a freshly created ticket into a
// classified, prioritized and assigned work item, notifying the assignee.
// A nil AI result degrades the outcome instead of failing the run.
func NewTicketCreatedWorkflow(cfg config.WorkflowConfig, deps TicketCreatedDeps) *Definition {
	return &Definition{
		ID:      "on-ticket-created",
		Event:   events.EventTicketCreated,
		Retries: cfg.Retries,
		Handler: func(ctx context.Context, run *Run) error {
			payload, ok := run.Event.Payload.(events.TicketCreatedPayload)
			if !ok {
				return NonRetriablef("unexpected payload type %T for %s", run.Event.Payload, run.Event.Type)
			}

			ticketResult, err := run.Step(ctx, "fetch-ticket", func(ctx context.Context) (any, error) {
				ticket, err := deps.Tickets.GetByID(ctx, payload.TicketID)
				if err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return nil, NonRetriablef("ticket %s not found", payload.TicketID)
					}
					return nil, err
				}
				return ticket, nil
			})
			if err != nil {
				return err
			}
			ticket := ticketResult.(*domain.Ticket)

			if _, err := run.Step(ctx, "update-ticket-status", func(ctx context.Context) (any, error) {
				if err := deps.Tickets.UpdateStatus(ctx, ticket.ID, domain.TicketStatusTodo); err != nil {
					return nil, err
				}
				return true, nil
			}); err != nil {
				return err
			}

			skillsResult, err := run.Step(ctx, "ai-processing", func(ctx context.Context) (any, error) {
				skills := []string{}

				response := deps.Analyzer.Analyze(ctx, ticket.TicketNumber, ticket.Title, ticket.Description)
				if response != nil {
					priority := response.Priority
					if !priority.Valid() {
						priority = domain.TicketPriorityMedium
					}
					err := deps.Tickets.ApplyTriage(ctx, ticket.ID,
						priority,
						response.HelpfulNotes,
						response.RelatedSkills,
						domain.TicketStatusInProgress)
					if err != nil {
						return nil, err
					}
					skills = response.RelatedSkills
				}
				return skills, nil
			})
			if err != nil {
				return err
			}
			relatedSkills := skillsResult.([]string)

			moderatorResult, err := run.Step(ctx, "assign-moderator", func(ctx context.Context) (any, error) {
				moderator, err := deps.Assigner.Resolve(ctx, relatedSkills)
				if err != nil {
					return nil, err
				}

				var assigneeID *string
				if moderator != nil {
					assigneeID = &moderator.ID
				}
				// nil clears any previous assignee
				if err := deps.Tickets.UpdateAssignee(ctx, ticket.ID, assigneeID); err != nil {
					return nil, err
				}
				return moderator, nil
			})
			if err != nil {
				return err
			}
			moderator := moderatorResult.(*domain.User)

			_, err = run.Step(ctx, "send-email-notification", func(ctx context.Context) (any, error) {
				if moderator == nil {
					return false, nil
				}

				final, err := deps.Tickets.GetByID(ctx, ticket.ID)
				if err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return false, nil
					}
					return nil, err
				}

				msg := mailer.Message{
					To:      moderator.Email,
					Subject: fmt.Sprintf("Ticket Assigned #TICKET-%d", final.TicketNumber),
					Body:    fmt.Sprintf("A new ticket is assigned to you: %s", final.Title),
				}
				if err := deps.Mailer.Send(ctx, msg); err != nil {
					return nil, err
				}
				return true, nil
			})
			return err
		},
	}
}
