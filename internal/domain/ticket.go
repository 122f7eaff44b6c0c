package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusTodo       TicketStatus = "TODO"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusInReview   TicketStatus = "IN_REVIEW"
	TicketStatusDone       TicketStatus = "DONE"
	TicketStatusBlocked    TicketStatus = "BLOCKED"
)

// TicketPriority enumerates triage urgency labels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Valid reports whether p is one of the four allowed priority labels.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
//
// TicketNumber is the human-facing sequence number, assigned exactly once at
// creation from the "ticket" counter. Duplicates are never issued; gaps may
// appear when a creation transaction rolls back.
type Ticket struct {
	ID            string
	TicketNumber  int64
	Title         string
	Description   string
	Status        TicketStatus
	Priority      *TicketPriority
	CreatedBy     string
	AssignedTo    *string
	HelpfulNotes  *string
	RelatedSkills []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
