package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRole falls back to RoleUser for anything that is not a known role.
func ParseRole(s string) Role {
	if r := Role(s); r.Valid() {
		return r
	}
	return RoleUser
}

// Profile links an auth identity to an organization. Its ID is the auth user ID.
type Profile struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Email          string    `json:"email"`
	DisplayName    *string   `json:"display_name,omitempty"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

func (p *Profile) Name() string {
	if p.DisplayName != nil && *p.DisplayName != "" {
		return *p.DisplayName
	}
	return p.Email
}
