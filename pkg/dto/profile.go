package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Email          string    `json:"email"`
	DisplayName    *string   `json:"display_name,omitempty"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

type OrganizationResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type MeResponse struct {
	Profile      ProfileResponse       `json:"profile"`
	Organization *OrganizationResponse `json:"organization,omitempty"`
}

type CreateOrganizationRequest struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type CreateOrganizationResponse struct {
	Organization OrganizationResponse `json:"organization"`
	Profile      ProfileResponse      `json:"profile"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}
