package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/stockroom/internal/middleware"
	"github.com/dimitrije/stockroom/internal/models"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/internal/sse"
	"github.com/dimitrije/stockroom/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type RequestHandler struct {
	requestService RequestServiceInterface
	events         EventPublisher
}

func NewRequestHandler(requestService RequestServiceInterface, events EventPublisher) *RequestHandler {
	return &RequestHandler{requestService: requestService, events: events}
}

func (h *RequestHandler) Create(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateStockRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.ItemID == uuid.Nil {
		c.BadRequest("item_id is required")
		return
	}
	if req.Quantity <= 0 {
		c.BadRequest(services.ErrInvalidQuantity.Error())
		return
	}

	request, err := h.requestService.Create(c.Request.Context(), caller.OrganizationID, req.ItemID, caller.ID, req.Quantity, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidQuantity):
			c.BadRequest(err.Error())
		case errors.Is(err, services.ErrItemNotFound):
			c.NotFound("item not found")
		default:
			c.InternalServerError("failed to create request")
		}
		return
	}
	h.events.Publish(caller.OrganizationID, sse.Event{Type: sse.EventRequestCreated, Data: request})

	_ = c.JSON(http.StatusCreated, request)
}

// List returns all requests to admins and only the caller's own to users.
func (h *RequestHandler) List(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var requestedBy *uuid.UUID
	if !caller.IsAdmin() {
		requestedBy = &caller.ID
	}

	requests, err := h.requestService.List(c.Request.Context(), caller.OrganizationID, requestedBy)
	if err != nil {
		c.InternalServerError("failed to get requests")
		return
	}

	_ = c.JSON(http.StatusOK, requests)
}

func (h *RequestHandler) UpdateStatus(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid request id")
		return
	}

	var req dto.UpdateRequestStatusRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	request, err := h.requestService.UpdateStatus(c.Request.Context(), caller.OrganizationID, id, models.RequestStatus(req.Status), caller.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			c.BadRequest("status must be approved, rejected or fulfilled")
		case errors.Is(err, services.ErrRequestResolved):
			c.BadRequest("request already resolved")
		case errors.Is(err, services.ErrRequestNotFound):
			c.NotFound("request not found")
		case errors.Is(err, services.ErrItemNotFound):
			c.NotFound("item not found")
		default:
			c.InternalServerError("failed to update request")
		}
		return
	}
	h.events.Publish(caller.OrganizationID, sse.Event{Type: sse.EventRequestUpdated, Data: request})

	_ = c.JSON(http.StatusOK, request)
}
