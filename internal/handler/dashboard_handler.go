package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vendra/licensing-api/internal/service"
	"github.com/vendra/licensing-api/internal/utils"
)

// DashboardHandler serves the aggregate contract metrics.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles GET /v1/admin/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute dashboard metrics")
		return
	}

	utils.Success(c, 200, "Dashboard metrics retrieved", stats)
}

// RefreshStats handles POST /v1/admin/dashboard/refresh, forcing a
// recompute past the cached snapshot.
func (h *DashboardHandler) RefreshStats(c *gin.Context) {
	stats, err := h.dashboardService.Refresh(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to refresh dashboard metrics")
		return
	}

	utils.Success(c, 200, "Dashboard metrics refreshed", stats)
}
