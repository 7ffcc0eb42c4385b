package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/conversation"
)

// maxDefaultTitleLen bounds titles derived from the first user message.
const maxDefaultTitleLen = 80

// ConversationService manages conversation records
type ConversationService struct {
	client *ent.Client
}

// NewConversationService creates a new ConversationService
func NewConversationService(client *ent.Client) *ConversationService {
	return &ConversationService{client: client}
}

// CreateConversation creates a new conversation for a user
func (s *ConversationService) CreateConversation(ctx context.Context, userID, title string) (*ent.Conversation, error) {
	if userID == "" {
		return nil, NewValidationError("user_id", "required")
	}

	create := s.client.Conversation.Create().
		SetID(uuid.New().String()).
		SetUserID(userID)
	if title != "" {
		create.SetTitle(title)
	}
	conv, err := create.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation retrieves a conversation by id
func (s *ConversationService) GetConversation(ctx context.Context, id string) (*ent.Conversation, error) {
	conv, err := s.client.Conversation.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conv, nil
}

// ListConversations returns a user's conversations, newest first
func (s *ConversationService) ListConversations(ctx context.Context, userID string) ([]*ent.Conversation, error) {
	convs, err := s.client.Conversation.Query().
		Where(conversation.UserIDEQ(userID)).
		Order(ent.Desc(conversation.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// DeleteConversation removes a conversation and all dependent rows (cascade)
func (s *ConversationService) DeleteConversation(ctx context.Context, id string) error {
	err := s.client.Conversation.DeleteOneID(id).Exec(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// ClaimActivePrompt sets active_prompt_id and pod ownership, but only when
// no prompt is currently active. Returns ErrConflict when one already is.
func (s *ConversationService) ClaimActivePrompt(ctx context.Context, conversationID, promptID, podID string) error {
	n, err := s.client.Conversation.Update().
		Where(
			conversation.IDEQ(conversationID),
			conversation.ActivePromptIDIsNil(),
		).
		SetActivePromptID(promptID).
		SetPodID(podID).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to claim active prompt: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ReleaseActivePrompt clears active_prompt_id if it still points at promptID.
func (s *ConversationService) ReleaseActivePrompt(ctx context.Context, conversationID, promptID string) error {
	_, err := s.client.Conversation.Update().
		Where(
			conversation.IDEQ(conversationID),
			conversation.ActivePromptIDEQ(promptID),
		).
		ClearActivePromptID().
		ClearPodID().
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to release active prompt: %w", err)
	}
	return nil
}

// SetTitle replaces the conversation title.
func (s *ConversationService) SetTitle(ctx context.Context, conversationID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("title", "required")
	}
	err := s.client.Conversation.UpdateOneID(conversationID).
		SetTitle(title).
		Exec(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set conversation title: %w", err)
	}
	return nil
}

// SetTitleIfEmpty derives a title from the first user message when none was
// set at creation.
func (s *ConversationService) SetTitleIfEmpty(ctx context.Context, conversationID, content string) error {
	title := strings.TrimSpace(content)
	if title == "" {
		return nil
	}
	if len(title) > maxDefaultTitleLen {
		title = title[:maxDefaultTitleLen]
	}
	_, err := s.client.Conversation.Update().
		Where(
			conversation.IDEQ(conversationID),
			conversation.TitleIsNil(),
		).
		SetTitle(title).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to set conversation title: %w", err)
	}
	return nil
}

// OrphanedByPod returns conversations whose active prompt is owned by podID.
// Used at startup to recover prompts interrupted by a crash of this pod.
func (s *ConversationService) OrphanedByPod(ctx context.Context, podID string) ([]*ent.Conversation, error) {
	convs, err := s.client.Conversation.Query().
		Where(
			conversation.PodIDEQ(podID),
			conversation.ActivePromptIDNotNil(),
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query orphaned conversations: %w", err)
	}
	return convs, nil
}
