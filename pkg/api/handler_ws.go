package api

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
)

// handleWS upgrades HTTP connections to WebSocket and delegates to
// ConnectionManager.
func (s *Server) handleWS(c *gin.Context) {
	if s.connManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WebSocket not available"})
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		// Collaborator deployments sit behind a trusted proxy; origin
		// checks would reject the desktop clients' file:// origins.
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}

	// HandleConnection blocks until the WebSocket closes.
	s.connManager.HandleConnection(c.Request.Context(), conn)
}
