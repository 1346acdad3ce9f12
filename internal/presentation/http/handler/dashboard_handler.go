package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics for ?from=&to= (inclusive dates)
func (h *DashboardHandler) GetStats(c *gin.Context) {
	input := &service.DashboardInput{}
	if v := c.Query("from"); v != "" {
		from, err := parseDate("from", v)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.From = from
	}
	if v := c.Query("to"); v != "" {
		to, err := parseDate("to", v)
		if err != nil {
			response.Error(c, err)
			return
		}
		input.To = to
	}

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
