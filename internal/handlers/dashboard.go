package handlers

import (
	"net/http"

	"github.com/dimitrije/stockroom/internal/middleware"
	"github.com/m1z23r/drift/pkg/drift"
)

type DashboardHandler struct {
	dashboardService DashboardServiceInterface
}

func NewDashboardHandler(dashboardService DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) Summary(c *drift.Context) {
	caller := middleware.GetProfile(c)
	if caller == nil {
		c.Unauthorized("not authenticated")
		return
	}

	summary, err := h.dashboardService.Summary(c.Request.Context(), caller.OrganizationID)
	if err != nil {
		c.InternalServerError("failed to get dashboard")
		return
	}

	_ = c.JSON(http.StatusOK, summary)
}
