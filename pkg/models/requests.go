// Package models holds request/response DTOs shared by the API layer and
// the services.
package models

// CreateConversationRequest creates a new conversation for a user.
type CreateConversationRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Title  string `json:"title,omitempty"`
}

// UpdateConversationRequest renames a conversation.
type UpdateConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// QueueMessageRequest enqueues a user message on a conversation.
type QueueMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// EditMessageRequest replaces the content of a still-queued user message.
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateUserRequest registers a user.
type CreateUserRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name,omitempty"`
}
