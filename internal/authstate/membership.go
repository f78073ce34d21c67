package authstate

import (
	"strings"

	"github.com/dimitrije/stockroom/internal/models"
	"github.com/google/uuid"
)

// Membership is what a user's metadata says about their organization. It is
// one of Invited, OrgMember or NoMembership.
type Membership interface {
	membership()
}

// Invited users were added by an admin and must set a password before a
// profile exists.
type Invited struct {
	InvitedBy      string
	InvitedRole    models.Role
	OrganizationID uuid.UUID
}

// OrgMember users carry an organization from sign-up and get a profile
// provisioned automatically.
type OrgMember struct {
	OrganizationID uuid.UUID
	DisplayName    string
	Role           models.Role
}

type NoMembership struct {
	Reason string
}

func (Invited) membership()      {}
func (OrgMember) membership()    {}
func (NoMembership) membership() {}

// DecodeMembership reads the metadata bag once. invited_by takes precedence
// over organization_id.
func DecodeMembership(u *models.User) Membership {
	if u == nil {
		return NoMembership{Reason: "no user"}
	}

	role := models.ParseRole(u.MetaString(models.MetaInvitedRole))
	orgID, orgErr := uuid.Parse(u.MetaString(models.MetaOrganizationID))

	if invitedBy := u.MetaString(models.MetaInvitedBy); invitedBy != "" {
		inv := Invited{InvitedBy: invitedBy, InvitedRole: role}
		if orgErr == nil {
			inv.OrganizationID = orgID
		}
		return inv
	}

	raw := u.MetaString(models.MetaOrganizationID)
	if raw == "" {
		return NoMembership{Reason: "no organization in metadata"}
	}
	if orgErr != nil {
		return NoMembership{Reason: "invalid organization_id in metadata: " + raw}
	}

	name := u.MetaString(models.MetaDisplayName)
	if name == "" {
		name = EmailLocalPart(u.Email)
	}
	return OrgMember{OrganizationID: orgID, DisplayName: name, Role: role}
}

func EmailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}
