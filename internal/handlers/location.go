package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/stockroom/internal/middleware"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type LocationHandler struct {
	locationService LocationServiceInterface
}

func NewLocationHandler(locationService LocationServiceInterface) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// List returns every location to admins and only the managed ones to users.
func (h *LocationHandler) List(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := c.Request.Context()
	var locations []models.Location
	var err error
	if caller.IsAdmin() {
		locations, err = h.locationService.List(ctx, caller.OrganizationID)
	} else {
		locations, err = h.locationService.ListManagedBy(ctx, caller.OrganizationID, caller.ID)
	}
	if err != nil {
		c.InternalServerError("failed to get locations")
		return
	}

	_ = c.JSON(http.StatusOK, locations)
}

func (h *LocationHandler) Create(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateLocationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == "" {
		c.BadRequest("name is required")
		return
	}

	location, err := h.locationService.Create(c.Request.Context(), caller.OrganizationID, req.Name, req.Description, req.ManagerID)
	if err != nil {
		c.InternalServerError("failed to create location")
		return
	}

	_ = c.JSON(http.StatusCreated, location)
}

func (h *LocationHandler) Update(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid location id")
		return
	}

	var req dto.UpdateLocationRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name != nil && *req.Name == "" {
		c.BadRequest("name cannot be empty")
		return
	}

	location, err := h.locationService.Update(c.Request.Context(), caller.OrganizationID, id, req.Name, req.Description, req.ManagerID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			c.BadRequest("no fields to update")
		case errors.Is(err, services.ErrLocationNotFound):
			c.NotFound("location not found")
		default:
			c.InternalServerError("failed to update location")
		}
		return
	}

	_ = c.JSON(http.StatusOK, location)
}

func (h *LocationHandler) Delete(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid location id")
		return
	}

	if err := h.locationService.Delete(c.Request.Context(), caller.OrganizationID, id); err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			c.NotFound("location not found")
			return
		}
		c.InternalServerError("failed to delete location")
		return
	}

	_ = c.JSON(http.StatusOK, map[string]string{"message": "location deleted"})
}
