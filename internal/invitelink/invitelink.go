// Package invitelink builds and parses organization invite links of the form
// https://<host>/invite?org=<organization_id>.
package invitelink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

const (
	Path     = "/invite"
	OrgParam = "org"
)

var (
	ErrNotInviteLink = errors.New("not an invite link")
	ErrMissingOrg    = errors.New("invite link has no organization")
	ErrInvalidOrg    = errors.New("invite link has an invalid organization id")
)

// Link is a parsed invite link.
type Link struct {
	OrganizationID uuid.UUID
	// Expired is set when the auth provider redirected back with an expired or
	// rejected one-time token in the fragment.
	Expired bool
	// Reason holds the provider's error description when present.
	Reason string
}

// Build returns the redirect target the auth provider sends invitees to.
func Build(baseURL string, orgID uuid.UUID) string {
	v := url.Values{}
	v.Set(OrgParam, orgID.String())
	return strings.TrimRight(baseURL, "/") + Path + "?" + v.Encode()
}

// Parse reads the organization from the route (…/invite/<org>) or, as a fallback,
// from the org query parameter, and inspects the fragment for expiry markers.
func Parse(raw string) (*Link, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invite link: %w", err)
	}

	path := strings.TrimRight(u.Path, "/")
	if path != Path && !strings.HasPrefix(path, Path+"/") {
		return nil, ErrNotInviteLink
	}

	org := strings.TrimPrefix(strings.TrimPrefix(path, Path), "/")
	if org == "" {
		org = u.Query().Get(OrgParam)
	}

	link := &Link{}
	link.Expired, link.Reason = fragmentError(u.Fragment)

	if org == "" {
		if link.Expired {
			return link, nil
		}
		return nil, ErrMissingOrg
	}

	id, err := uuid.Parse(org)
	if err != nil {
		return nil, ErrInvalidOrg
	}
	link.OrganizationID = id
	return link, nil
}

func fragmentError(fragment string) (bool, string) {
	if fragment == "" {
		return false, ""
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return strings.Contains(fragment, "otp_expired") || strings.Contains(fragment, "access_denied"), ""
	}
	expired := values.Get("error_code") == "otp_expired" || values.Get("error") == "access_denied"
	return expired, values.Get("error_description")
}
