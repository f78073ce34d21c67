package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dimitrije/stockroom/internal/middleware"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

func toProfileResponse(p *models.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:             p.ID,
		OrganizationID: p.OrganizationID,
		Email:          p.Email,
		DisplayName:    p.DisplayName,
		Role:           string(p.Role),
		CreatedAt:      p.CreatedAt,
	}
}

func toOrganizationResponse(o *models.Organization) dto.OrganizationResponse {
	return dto.OrganizationResponse{ID: o.ID, Name: o.Name}
}

type ProfileHandler struct {
	profileService      ProfileServiceInterface
	organizationService OrganizationServiceInterface
}

func NewProfileHandler(profileService ProfileServiceInterface, organizationService OrganizationServiceInterface) *ProfileHandler {
	return &ProfileHandler{
		profileService:      profileService,
		organizationService: organizationService,
	}
}

func (h *ProfileHandler) GetMe(c *drift.Context) {
	profile := middleware.GetProfile(c)
	if profile == nil {
		c.Unauthorized("not authenticated")
		return
	}

	response := dto.MeResponse{Profile: toProfileResponse(profile)}

	org, err := h.organizationService.GetByID(c.Request.Context(), profile.OrganizationID)
	if err != nil && !errors.Is(err, services.ErrOrganizationNotFound) {
		c.InternalServerError("failed to get organization")
		return
	}
	if org != nil {
		o := toOrganizationResponse(org)
		response.Organization = &o
	}

	_ = c.JSON(http.StatusOK, response)
}

func (h *ProfileHandler) UpdateMe(c *drift.Context) {
	profile := middleware.GetProfile(c)
	if profile == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		c.BadRequest("display_name is required")
		return
	}

	updated, err := h.profileService.UpdateDisplayName(c.Request.Context(), profile.ID, name)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.NotFound("profile not found")
			return
		}
		c.InternalServerError("failed to update profile")
		return
	}

	_ = c.JSON(http.StatusOK, toProfileResponse(updated))
}

// CreateOrganization bootstraps a tenant for a signed-in user that has no profile yet.
func (h *ProfileHandler) CreateOrganization(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	owner := &models.User{ID: userID, Email: middleware.GetUserEmail(c)}
	org, profile, err := h.organizationService.CreateWithAdmin(c.Request.Context(), req.Name, owner, req.DisplayName)
	if err != nil {
		if errors.Is(err, services.ErrProfileExists) {
			_ = c.JSON(http.StatusConflict, map[string]string{"error": "user already belongs to an organization"})
			return
		}
		c.InternalServerError("failed to create organization")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.CreateOrganizationResponse{
		Organization: toOrganizationResponse(org),
		Profile:      toProfileResponse(profile),
	})
}

func (h *ProfileHandler) ListUsers(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	profiles, err := h.profileService.ListByOrganization(c.Request.Context(), caller.OrganizationID)
	if err != nil {
		c.InternalServerError("failed to get users")
		return
	}

	response := make([]dto.ProfileResponse, len(profiles))
	for i := range profiles {
		response[i] = toProfileResponse(&profiles[i])
	}

	_ = c.JSON(http.StatusOK, response)
}

func (h *ProfileHandler) UpdateRole(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		c.BadRequest("role must be admin or user")
		return
	}

	if targetID == caller.ID && role != models.RoleAdmin {
		c.BadRequest("you cannot remove your own admin role")
		return
	}

	profile, err := h.profileService.UpdateRole(c.Request.Context(), caller.OrganizationID, targetID, role)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to update role")
		return
	}

	_ = c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *ProfileHandler) RemoveUser(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid user id")
		return
	}

	if targetID == caller.ID {
		c.BadRequest("you cannot remove yourself")
		return
	}

	if err := h.profileService.Remove(c.Request.Context(), caller.OrganizationID, targetID); err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			c.NotFound("user not found")
			return
		}
		c.InternalServerError("failed to remove user")
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "user removed"})
}
