package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dimitrije/stockroom/internal/middleware"
	"github.com/dimitrije/stockroom/internal/obs"
	"github.com/dimitrije/stockroom/internal/services"
	"github.com/dimitrije/stockroom/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

type InviteHandler struct {
	inviteService InviteServiceInterface
	log           *zap.Logger
}

func NewInviteHandler(inviteService InviteServiceInterface, log *zap.Logger) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		log:           log.With(zap.String("component", "invite")),
	}
}

// Invite must be mounted behind Auth, Profile and RequireAdmin; the admin
// check lives in RequireAdmin only, like every other admin route.
func (h *InviteHandler) Invite(c *drift.Context) {
	profile := middleware.GetProfile(c)
	if profile == nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.InviteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	results, err := h.inviteService.Invite(c.Request.Context(), profile, req.Emails)
	if err != nil {
		if errors.Is(err, services.ErrNoInvitees) || errors.Is(err, services.ErrTooManyInvitees) {
			c.BadRequest(err.Error())
			return
		}
		h.log.Error("invite failed", zap.String("user_id", profile.ID.String()), zap.Error(err))
		c.InternalServerError("failed to send invites")
		return
	}

	sent := 0
	response := make([]dto.InviteResult, len(results))
	for i, r := range results {
		obs.ObserveInvite(r.Success)
		if r.Success {
			sent++
		}
		response[i] = dto.InviteResult{Email: r.Email, Success: r.Success, Error: r.Error}
	}

	h.log.Info("invites processed",
		zap.String("user_id", profile.ID.String()),
		zap.Int("sent", sent),
		zap.Int("total", len(results)))

	_ = c.JSON(http.StatusOK, dto.InviteResponse{
		Message: fmt.Sprintf("Sent %d of %d invites", sent, len(results)),
		Results: response,
	})
}
