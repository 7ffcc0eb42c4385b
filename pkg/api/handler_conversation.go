package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parleyhq/parley/pkg/models"
)

// createConversation handles POST /api/conversations.
func (s *Server) createConversation(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// The body is optional; an empty one creates an untitled conversation.
		req = models.CreateConversationRequest{}
	}

	conv, err := s.conversations.CreateConversation(c.Request.Context(), uid, req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conv)
}

// listConversations handles GET /api/conversations.
func (s *Server) listConversations(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	convs, err := s.conversations.ListConversations(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, convs)
}

// getConversation handles GET /api/conversations/:id. Returns the full
// snapshot: conversation, messages with blocks, and the active prompt.
func (s *Server) getConversation(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	snap, err := s.coordinator.GetConversation(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// updateConversation handles PATCH /api/conversations/:id (title rename).
func (s *Server) updateConversation(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if !s.requireConversation(c, conversationID, uid) {
		return
	}

	var req models.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.conversations.SetTitle(c.Request.Context(), conversationID, req.Title); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// deleteConversation handles DELETE /api/conversations/:id. Cascade
// removes messages, blocks, prompts, and persisted events.
func (s *Server) deleteConversation(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if !s.requireConversation(c, conversationID, uid) {
		return
	}

	// A running prompt would otherwise keep writing rows into a dead
	// conversation.
	s.coordinator.CancelActivePrompt(conversationID)

	if err := s.conversations.DeleteConversation(c.Request.Context(), conversationID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// cancelPrompt handles POST /api/conversations/:id/cancel.
func (s *Server) cancelPrompt(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if !s.requireConversation(c, conversationID, uid) {
		return
	}

	if !s.coordinator.CancelActivePrompt(conversationID) {
		c.JSON(http.StatusConflict, gin.H{"error": "no active prompt to cancel"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelling"})
}
