package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parleyhq/parley/pkg/database"
)

// health handles GET /health: database reachability plus live counters.
func (s *Server) health(c *gin.Context) {
	body := gin.H{"status": "healthy"}

	if s.pool != nil {
		body["shell_sessions"] = s.pool.Count()
	}
	if s.connManager != nil {
		body["websocket_connections"] = s.connManager.ActiveConnections()
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		dbHealth, err := database.Health(ctx, s.db.DB())
		body["database"] = dbHealth
		if err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}

	c.JSON(http.StatusOK, body)
}
