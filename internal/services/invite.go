package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dimitrije/stockroom/internal/invitelink"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const MaxInvitees = 10

var (
	ErrNoInvitees      = errors.New("at least one email is required")
	ErrTooManyInvitees = errors.New("a maximum of 10 emails can be invited at once")
)

// Inviter is the auth service's administrative invite-by-email call.
type Inviter interface {
	InviteUserByEmail(ctx context.Context, email string, data map[string]any, redirectTo string) (*models.User, error)
}

type InviteResult struct {
	Email   string
	Success bool
	Error   string
}

type InviteService struct {
	inviter  Inviter
	validate *validator.Validate
	baseURL  string
	log      *zap.Logger
}

func NewInviteService(inviter Inviter, baseURL string, log *zap.Logger) *InviteService {
	return &InviteService{
		inviter:  inviter,
		validate: validator.New(),
		baseURL:  baseURL,
		log:      log,
	}
}

// Invite sends one invite per email on behalf of an admin. Failures are reported per
// email; only a malformed list fails the whole call.
func (s *InviteService) Invite(ctx context.Context, inviter *models.Profile, emails []string) ([]InviteResult, error) {
	if len(emails) == 0 {
		return nil, ErrNoInvitees
	}
	if len(emails) > MaxInvitees {
		return nil, ErrTooManyInvitees
	}

	redirectTo := invitelink.Build(s.baseURL, inviter.OrganizationID)
	data := map[string]any{
		models.MetaOrganizationID: inviter.OrganizationID.String(),
		models.MetaInvitedBy:      inviter.ID.String(),
		models.MetaInvitedRole:    string(models.RoleUser),
	}

	results := make([]InviteResult, 0, len(emails))
	for _, raw := range emails {
		email := strings.TrimSpace(raw)
		if err := s.validate.Var(email, "required,email"); err != nil {
			results = append(results, InviteResult{Email: raw, Error: "Invalid email"})
			continue
		}

		if _, err := s.inviter.InviteUserByEmail(ctx, email, data, redirectTo); err != nil {
			s.log.Warn("invite failed", zap.String("email", email), zap.Error(err))
			results = append(results, InviteResult{Email: email, Error: err.Error()})
			continue
		}
		results = append(results, InviteResult{Email: email, Success: true})
	}
	return results, nil
}
