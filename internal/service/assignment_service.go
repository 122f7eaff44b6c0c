package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/triage-service/internal/domain"
	"github.com/spec-kit/triage-service/internal/repository"
)

// AssignmentService selects an assignee for a ticket by skill.
type AssignmentService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(users repository.UserRepository, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{users: users, logger: logger}
}

// Resolve picks a moderator whose skills overlap the required ones, using
// bidirectional substring containment over normalized tags so that "Node"
// matches "Node.js". The first matching moderator in creation order wins;
// no moderator match falls back to any admin; neither yields nil.
func (s *AssignmentService) Resolve(ctx context.Context, requiredSkills []string) (*domain.User, error) {
	normalized := make([]string, 0, len(requiredSkills))
	for _, skill := range requiredSkills {
		if n := normalizeSkill(skill); n != "" {
			normalized = append(normalized, n)
		}
	}

	moderators, err := s.users.ListByRole(ctx, domain.UserRoleModerator)
	if err != nil {
		return nil, err
	}

	for i := range moderators {
		if moderatorMatches(&moderators[i], normalized) {
			s.logger.Debug("moderator matched by skill",
				zap.String("moderator_id", moderators[i].ID))
			return &moderators[i], nil
		}
	}

	admins, err := s.users.ListByRole(ctx, domain.UserRoleAdmin)
	if err != nil {
		return nil, err
	}
	if len(admins) > 0 {
		s.logger.Debug("no moderator matched, falling back to admin",
			zap.String("admin_id", admins[0].ID))
		return &admins[0], nil
	}

	return nil, nil
}

func moderatorMatches(moderator *domain.User, requiredSkills []string) bool {
	for _, skill := range moderator.Skills {
		candidate := normalizeSkill(skill)
		if candidate == "" {
			continue
		}
		for _, required := range requiredSkills {
			if strings.Contains(candidate, required) || strings.Contains(required, candidate) {
				return true
			}
		}
	}
	return false
}

// normalizeSkill lower-cases and strips whitespace, hyphens and periods,
// tolerating tag phrasing differences ("Node.js" vs "node js").
func normalizeSkill(skill string) string {
	lowered := strings.ToLower(skill)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '-', '.':
			return -1
		}
		return r
	}, lowered)
}
