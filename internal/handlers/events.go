package handlers

import (
	"github.com/dimitrije/stockroom/internal/middleware"
	"github.com/dimitrije/stockroom/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type EventsHandler struct {
	hub *sse.Hub
}

func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Connect streams the caller's organization events until the client goes away.
func (h *EventsHandler) Connect(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	sseCtx := c.SSE()

	clientID := uuid.New().String()
	client := &sse.Client{
		ID:             clientID,
		UserID:         caller.ID,
		OrganizationID: caller.OrganizationID,
		Send:           make(chan []byte, 256),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := sseCtx.SendJSON(map[string]string{
		"type":            "connected",
		"client_id":       clientID,
		"organization_id": caller.OrganizationID.String(),
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := sseCtx.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
