package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dia-app/dia/backend/internal/service"
)

// DashboardHandler handles dashboard-related requests
type DashboardHandler struct {
	dashboardService service.IDashboardService
	careService      service.ICareService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService service.IDashboardService, careService service.ICareService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		careService:      careService,
	}
}

// RegisterRoutes registers the dashboard routes
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", h.Get)
}

// Get returns the 24h glucose summary and the latest records of each
// category for the caller or a linked patient.
func (h *DashboardHandler) Get(c *gin.Context) {
	subject, ok := resolveSubject(c, h.careService)
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.Get(c.Request.Context(), subject.userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
