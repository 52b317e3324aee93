package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// Pinger reports database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageController serves the static pages and the health check
type PageController struct {
	db Pinger
}

// NewPageController creates a new PageController
func NewPageController(db Pinger) *PageController {
	return &PageController{db: db}
}

// AboutUs renders the informational page
func (c *PageController) AboutUs(ctx *gin.Context) {
	middleware.Render(ctx, http.StatusOK, "about_us.html", gin.H{"Title": "About Us"})
}

// Healthz reports whether the server and its database are up
func (c *PageController) Healthz(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("Health check failed to reach database")
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}
