package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Metadata keys written by the invite endpoint and by sign-up.
const (
	MetaOrganizationID = "organization_id"
	MetaDisplayName    = "display_name"
	MetaInvitedBy      = "invited_by"
	MetaInvitedRole    = "invited_role"
)

// User is the identity record owned by the external auth service.
type User struct {
	ID       uuid.UUID      `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

func (u *User) MetaString(key string) string {
	if u == nil || u.Metadata == nil {
		return ""
	}
	if v, ok := u.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// Session is the token bundle issued by the auth service.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         *User     `json:"user"`
}

func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		Expiry:       s.ExpiresAt,
	}
}

func (s *Session) Expired() bool {
	return !s.Token().Valid()
}
