package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/parleyhq/parley/pkg/models"
)

// queueMessage handles POST /api/conversations/:id/messages. The message
// starts streaming immediately when the conversation is idle and queues
// behind the active prompt otherwise.
func (s *Server) queueMessage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if !s.requireConversation(c, conversationID, uid) {
		return
	}

	var req models.QueueMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := s.coordinator.QueueMessage(c.Request.Context(), conversationID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, msg)
}

// editMessage handles PATCH /api/conversations/:id/messages/:messageID.
// Only still-queued messages can be edited; 409 otherwise.
func (s *Server) editMessage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if !s.requireConversation(c, conversationID, uid) {
		return
	}

	var req models.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.coordinator.EditQueuedMessage(c.Request.Context(), conversationID, c.Param("messageID"), req.Content); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// deleteMessage handles DELETE /api/conversations/:id/messages/:messageID.
// Only still-queued messages can be deleted; 409 otherwise.
func (s *Server) deleteMessage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	conversationID := c.Param("id")
	if !s.requireConversation(c, conversationID, uid) {
		return
	}

	if err := s.coordinator.DeleteQueuedMessage(c.Request.Context(), conversationID, c.Param("messageID")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
