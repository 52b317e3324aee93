package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
)

// DashboardController shows the aggregate statistics
type DashboardController struct {
	dashboardService services.DashboardService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// Dashboard renders the summary, ranking the ?course= students
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	summary, err := c.dashboardService.Summary(ctx.Request.Context(), ctx.Query("course"))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, http.StatusOK, "dashboard.html", gin.H{
		"Title":     "Dashboard",
		"Dashboard": summary,
	})
}
