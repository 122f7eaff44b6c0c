package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignup    EventType = "user/signup"
	EventTicketCreated EventType = "ticket/created"
)

// Event represents a domain event emitted by services. Payloads carry
// identifiers only; consumers re-fetch full state rather than trusting
// event fields.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// UserSignupPayload payload.
type UserSignupPayload struct {
	Email string `json:"email"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID string `json:"ticket_id"`
}
