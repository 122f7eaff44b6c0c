package dto

import (
	"time"

	"github.com/spec-kit/triage-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TicketResponse represents a ticket in API responses.
type TicketResponse struct {
	ID            string                 `json:"id"`
	TicketNumber  int64                  `json:"ticket_number"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Status        domain.TicketStatus    `json:"status"`
	Priority      *domain.TicketPriority `json:"priority,omitempty"`
	CreatedBy     string                 `json:"created_by"`
	AssignedTo    *string                `json:"assigned_to,omitempty"`
	HelpfulNotes  *string                `json:"helpful_notes,omitempty"`
	RelatedSkills []string               `json:"related_skills"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:            t.ID,
		TicketNumber:  t.TicketNumber,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status,
		Priority:      t.Priority,
		CreatedBy:     t.CreatedBy,
		AssignedTo:    t.AssignedTo,
		HelpfulNotes:  t.HelpfulNotes,
		RelatedSkills: t.RelatedSkills,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// FromTickets maps a slice of tickets.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, FromTicket(&tickets[i]))
	}
	return out
}
