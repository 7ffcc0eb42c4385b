// Package api exposes the HTTP and WebSocket surface: conversation CRUD,
// message queueing, prompt cancellation, health, and the live event stream.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parleyhq/parley/pkg/coordinator"
	"github.com/parleyhq/parley/pkg/database"
	"github.com/parleyhq/parley/pkg/services"
	"github.com/parleyhq/parley/pkg/shell"
)

// userIDHeader carries the caller's user id. There is no authentication
// layer; collaborators are trusted and identified by this header.
const userIDHeader = "X-User-ID"

// Server holds the handler dependencies.
type Server struct {
	db            *database.Client
	coordinator   *coordinator.Coordinator
	users         *services.UserService
	conversations *services.ConversationService
	pool          *shell.Pool
	connManager   *ConnectionManager
}

// NewServer creates an API server. db and pool may be nil in tests; the
// health endpoint then skips the sections it cannot report.
func NewServer(db *database.Client, coord *coordinator.Coordinator,
	users *services.UserService, conversations *services.ConversationService,
	pool *shell.Pool, connManager *ConnectionManager) *Server {
	return &Server{
		db:            db,
		coordinator:   coord,
		users:         users,
		conversations: conversations,
		pool:          pool,
		connManager:   connManager,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(), securityHeaders())

	r.GET("/health", s.health)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/users", s.createUser)

		apiGroup.POST("/conversations", s.createConversation)
		apiGroup.GET("/conversations", s.listConversations)
		apiGroup.GET("/conversations/:id", s.getConversation)
		apiGroup.PATCH("/conversations/:id", s.updateConversation)
		apiGroup.DELETE("/conversations/:id", s.deleteConversation)
		apiGroup.POST("/conversations/:id/cancel", s.cancelPrompt)

		apiGroup.POST("/conversations/:id/messages", s.queueMessage)
		apiGroup.PATCH("/conversations/:id/messages/:messageID", s.editMessage)
		apiGroup.DELETE("/conversations/:id/messages/:messageID", s.deleteMessage)
	}

	r.GET("/ws", s.handleWS)
	return r
}

// userID extracts the caller's identity. Missing header reads as 400.
func userID(c *gin.Context) (string, bool) {
	id := c.GetHeader(userIDHeader)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": userIDHeader + " header is required"})
		return "", false
	}
	return id, true
}

// requireConversation loads the conversation and verifies the caller owns
// it. Ownership misses read as 404, matching the snapshot endpoint.
func (s *Server) requireConversation(c *gin.Context, conversationID, uid string) bool {
	conv, err := s.conversations.GetConversation(c.Request.Context(), conversationID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if conv.UserID != uid {
		respondServiceError(c, services.ErrNotFound)
		return false
	}
	return true
}
