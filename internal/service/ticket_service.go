package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/repository"
	apperrors "github.com/spec-kit/triage-service/pkg/util"
)

// TicketService coordinates ticket creation and retrieval. Triage itself
// happens asynchronously in the on-ticket-created workflow.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher}
}

// Create persists the ticket (assigning its sequence number atomically)
// and emits ticket/created for background triage.
func (s *TicketService) Create(ctx context.Context, userID, title, description string) (*domain.Ticket, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}

	ticket := &domain.Ticket{
		Title:         title,
		Description:   description,
		Status:        domain.TicketStatusTodo,
		CreatedBy:     userID,
		RelatedSkills: []string{},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishCreatedEvent(ctx, ticket.ID)
	return ticket, nil
}

// ListFor returns all tickets for moderators and admins, and only the
// requester's own tickets for plain users.
func (s *TicketService) ListFor(ctx context.Context, user *domain.User, limit, offset int) ([]domain.Ticket, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("user required")
	}

	var (
		tickets []domain.Ticket
		err     error
	)
	if user.Role == domain.UserRoleAdmin || user.Role == domain.UserRoleModerator {
		tickets, err = s.tickets.List(ctx, limit, offset)
	} else {
		tickets, err = s.tickets.ListByCreator(ctx, user.ID, limit, offset)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetByNumber looks a ticket up by its human-facing sequence number.
func (s *TicketService) GetByNumber(ctx context.Context, number int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_number": number})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publishCreatedEvent(ctx context.Context, ticketID string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		Timestamp: time.Now(),
		Payload:   events.TicketCreatedPayload{TicketID: ticketID},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
