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

type ItemHandler struct {
	itemService ItemServiceInterface
	events      EventPublisher
}

func NewItemHandler(itemService ItemServiceInterface, events EventPublisher) *ItemHandler {
	return &ItemHandler{itemService: itemService, events: events}
}

func (h *ItemHandler) publishItem(orgID uuid.UUID, item *models.Item) {
	h.events.Publish(orgID, sse.Event{Type: sse.EventItemChanged, Data: item})
	if item.IsLowStock() {
		h.events.Publish(orgID, sse.Event{Type: sse.EventLowStock, Data: item})
	}
}

func itemInput(req dto.ItemFieldsRequest) services.ItemInput {
	return services.ItemInput{
		LocationID:  req.LocationID,
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
	}
}

func validateItemFields(req dto.ItemFieldsRequest) string {
	if req.Name != nil && *req.Name == "" {
		return "name cannot be empty"
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return "quantity cannot be negative"
	}
	if req.MinQuantity != nil && *req.MinQuantity < 0 {
		return "min_quantity cannot be negative"
	}
	return ""
}

func (h *ItemHandler) List(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	ctx := c.Request.Context()
	var items []models.Item
	var err error
	if caller.IsAdmin() {
		items, err = h.itemService.List(ctx, caller.OrganizationID)
	} else {
		items, err = h.itemService.ListForManager(ctx, caller.OrganizationID, caller.ID)
	}
	if err != nil {
		c.InternalServerError("failed to get items")
		return
	}

	_ = c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) LowStock(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	items, err := h.itemService.ListLowStock(c.Request.Context(), caller.OrganizationID)
	if err != nil {
		c.InternalServerError("failed to get low stock items")
		return
	}

	_ = c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) Create(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.ItemFieldsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Name == nil {
		c.BadRequest("name is required")
		return
	}
	if msg := validateItemFields(req); msg != "" {
		c.BadRequest(msg)
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), caller.OrganizationID, itemInput(req))
	if err != nil {
		c.InternalServerError("failed to create item")
		return
	}
	h.publishItem(caller.OrganizationID, item)

	_ = c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid item id")
		return
	}

	var req dto.ItemFieldsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if msg := validateItemFields(req); msg != "" {
		c.BadRequest(msg)
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), caller.OrganizationID, id, itemInput(req))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoFieldsToUpdate):
			c.BadRequest("no fields to update")
		case errors.Is(err, services.ErrItemNotFound):
			c.NotFound("item not found")
		default:
			c.InternalServerError("failed to update item")
		}
		return
	}
	h.publishItem(caller.OrganizationID, item)

	_ = c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Delete(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid item id")
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), caller.OrganizationID, id); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			c.NotFound("item not found")
			return
		}
		c.InternalServerError("failed to delete item")
		return
	}
	h.events.Publish(caller.OrganizationID, sse.Event{
		Type: sse.EventItemDeleted,
		Data: sse.ItemDeletedEvent{ItemID: id, DeletedBy: caller.ID},
	})

	_ = c.JSON(http.StatusOK, map[string]string{"message": "item deleted"})
}
