package workflow

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/triage-service/internal/ai"
	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/mailer"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users []domain.User
}

func (f *fakeUserRepo) add(user domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, user)
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.add(*user)
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].ID == id {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.users {
		if f.users[i].Email == email {
			user := f.users[i]
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role domain.UserRole) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for i := range f.users {
		if f.users[i].Role == role {
			out = append(out, f.users[i])
		}
	}
	return out, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.User{}, f.users...), nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket

	statusUpdates   int
	triageApplies   int
	assigneeUpdates int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (f *fakeTicketRepo) add(ticket domain.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := ticket
	f.tickets[ticket.ID] = &copied
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.add(*ticket)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) GetByNumber(_ context.Context, number int64) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ticket := range f.tickets {
		if ticket.TicketNumber == number {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) List(_ context.Context, _, _ int) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		out = append(out, *ticket)
	}
	return out, nil
}

func (f *fakeTicketRepo) ListByCreator(_ context.Context, userID string, _, _ int) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range f.tickets {
		if ticket.CreatedBy == userID {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Status = status
	f.statusUpdates++
	return nil
}

func (f *fakeTicketRepo) ApplyTriage(_ context.Context, id string, priority domain.TicketPriority, helpfulNotes string, relatedSkills []string, status domain.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.Priority = &priority
	ticket.HelpfulNotes = &helpfulNotes
	ticket.RelatedSkills = relatedSkills
	ticket.Status = status
	f.triageApplies++
	return nil
}

func (f *fakeTicketRepo) UpdateAssignee(_ context.Context, id string, assigneeID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.AssignedTo = assigneeID
	f.assigneeUpdates++
	return nil
}

type fakeAnalyzer struct {
	result *ai.TriageResult
	calls  int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ int64, _, _ string) *ai.TriageResult {
	f.calls++
	return f.result
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []mailer.Message
	failures int
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errTransientMail
	}
	f.sent = append(f.sent, msg)
	return nil
}

var errTransientMail = &transientMailError{}

type transientMailError struct{}

func (*transientMailError) Error() string { return "smtp connection refused" }
