package authstate

import (
	"context"
	"errors"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
}

type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
}

type UserFetcher interface {
	GetUser(ctx context.Context) (*models.User, error)
}

type OutcomeKind int

const (
	// OutcomeResolved: profile found or provisioned.
	OutcomeResolved OutcomeKind = iota
	OutcomeNeedsPasswordSetup
	// OutcomeUnresolved: no profile and nothing to provision from, or provisioning failed.
	OutcomeUnresolved
	// OutcomeFailed: the profile read itself failed; absence is unknown.
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeResolved:
		return "resolved"
	case OutcomeNeedsPasswordSetup:
		return "needs_password_setup"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

type Outcome struct {
	Kind         OutcomeKind
	Profile      *models.Profile
	Organization *models.Organization
	Err          error
}

// Loader resolves a user's profile and organization.
type Loader struct {
	profiles ProfileRepository
	orgs     OrganizationRepository
	users    UserFetcher
	log      *zap.Logger
}

func NewLoader(profiles ProfileRepository, orgs OrganizationRepository, users UserFetcher, log *zap.Logger) *Loader {
	return &Loader{profiles: profiles, orgs: orgs, users: users, log: log}
}

func (l *Loader) Load(ctx context.Context, user *models.User) Outcome {
	log := l.log.With(zap.String("user_id", user.ID.String()))

	profile, err := l.profiles.GetByID(ctx, user.ID)
	if err == nil {
		return Outcome{Kind: OutcomeResolved, Profile: profile, Organization: l.organization(ctx, profile.OrganizationID)}
	}
	if !errors.Is(err, services.ErrProfileNotFound) {
		log.Error("profile lookup failed", zap.Error(err))
		return Outcome{Kind: OutcomeFailed, Err: err}
	}

	fresh, err := l.users.GetUser(ctx)
	if err != nil {
		log.Warn("failed to re-fetch user, using session copy", zap.Error(err))
		fresh = user
	}

	switch m := DecodeMembership(fresh).(type) {
	case Invited:
		log.Info("invited user needs password setup", zap.String("invited_by", m.InvitedBy))
		return Outcome{Kind: OutcomeNeedsPasswordSetup}

	case OrgMember:
		return l.provision(ctx, log, fresh, m)

	case NoMembership:
		log.Warn("no profile and no organization metadata", zap.String("reason", m.Reason))
	}
	return Outcome{Kind: OutcomeUnresolved}
}

func (l *Loader) provision(ctx context.Context, log *zap.Logger, user *models.User, m OrgMember) Outcome {
	name := m.DisplayName
	created, err := l.profiles.Create(ctx, &models.Profile{
		ID:             user.ID,
		OrganizationID: m.OrganizationID,
		Email:          user.Email,
		DisplayName:    &name,
		Role:           m.Role,
	})
	if errors.Is(err, services.ErrProfileExists) {
		created, err = l.profiles.GetByID(ctx, user.ID)
	}
	if err != nil {
		log.Error("failed to provision profile", zap.Error(err))
		return Outcome{Kind: OutcomeUnresolved, Err: err}
	}

	log.Info("provisioned profile", zap.String("organization_id", m.OrganizationID.String()))
	return Outcome{Kind: OutcomeResolved, Profile: created, Organization: l.organization(ctx, created.OrganizationID)}
}

// organization lookups are best effort; a profile without its organization
// still resolves.
func (l *Loader) organization(ctx context.Context, id uuid.UUID) *models.Organization {
	org, err := l.orgs.GetByID(ctx, id)
	if err != nil {
		l.log.Warn("organization lookup failed", zap.String("organization_id", id.String()), zap.Error(err))
		return nil
	}
	return org
}
