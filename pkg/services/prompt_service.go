package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/ent/promptevent"
)

// PromptService manages prompt records and their append-only event log
type PromptService struct {
	client *ent.Client
}

// NewPromptService creates a new PromptService
func NewPromptService(client *ent.Client) *PromptService {
	return &PromptService{client: client}
}

// CreatePrompt creates a prompt in status created.
func (s *PromptService) CreatePrompt(ctx context.Context, conversationID, messageID, model, systemMessage string, request map[string]interface{}) (*ent.Prompt, error) {
	if conversationID == "" {
		return nil, NewValidationError("conversation_id", "required")
	}
	if messageID == "" {
		return nil, NewValidationError("message_id", "required")
	}
	if model == "" {
		return nil, NewValidationError("model", "required")
	}

	create := s.client.Prompt.Create().
		SetID(uuid.New().String()).
		SetConversationID(conversationID).
		SetMessageID(messageID).
		SetModel(model)
	if systemMessage != "" {
		create.SetSystemMessage(systemMessage)
	}
	if request != nil {
		create.SetRequest(request)
	}
	p, err := create.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt: %w", err)
	}
	return p, nil
}

// GetPrompt retrieves a prompt by id
func (s *PromptService) GetPrompt(ctx context.Context, id string) (*ent.Prompt, error) {
	p, err := s.client.Prompt.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}
	return p, nil
}

// SetStatus transitions a prompt to a non-terminal status.
func (s *PromptService) SetStatus(ctx context.Context, promptID string, status prompt.Status) error {
	err := s.client.Prompt.UpdateOneID(promptID).
		SetStatus(status).
		Exec(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set prompt status: %w", err)
	}
	return nil
}

// Complete marks a prompt completed.
func (s *PromptService) Complete(ctx context.Context, promptID string) error {
	err := s.client.Prompt.UpdateOneID(promptID).
		SetStatus(prompt.StatusCompleted).
		SetCompletedAt(time.Now()).
		Exec(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to complete prompt: %w", err)
	}
	return nil
}

// Fail marks a prompt errored with the failure reason.
func (s *PromptService) Fail(ctx context.Context, promptID, errorMessage string) error {
	err := s.client.Prompt.UpdateOneID(promptID).
		SetStatus(prompt.StatusError).
		SetErrorMessage(errorMessage).
		SetCompletedAt(time.Now()).
		Exec(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fail prompt: %w", err)
	}
	return nil
}

// AppendEvent appends a provider stream event to the prompt's replay log at
// the given contiguous index. The unique (prompt_id, index_num) index makes
// double-appends fail loudly instead of corrupting the log.
func (s *PromptService) AppendEvent(ctx context.Context, promptID string, indexNum int, eventType string, payload map[string]interface{}) (*ent.PromptEvent, error) {
	ev, err := s.client.PromptEvent.Create().
		SetPromptID(promptID).
		SetIndexNum(indexNum).
		SetType(eventType).
		SetPayload(payload).
		Save(ctx)
	if err != nil {
		if ent.IsConstraintError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to append prompt event: %w", err)
	}
	return ev, nil
}

// Events returns a prompt's event log in replay order.
func (s *PromptService) Events(ctx context.Context, promptID string) ([]*ent.PromptEvent, error) {
	events, err := s.client.PromptEvent.Query().
		Where(promptevent.PromptIDEQ(promptID)).
		Order(ent.Asc(promptevent.FieldIndexNum)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt events: %w", err)
	}
	return events, nil
}

// NextEventIndex returns the next free index in the prompt's event log.
func (s *PromptService) NextEventIndex(ctx context.Context, promptID string) (int, error) {
	last, err := s.client.PromptEvent.Query().
		Where(promptevent.PromptIDEQ(promptID)).
		Order(ent.Desc(promptevent.FieldIndexNum)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query prompt event tail: %w", err)
	}
	return last.IndexNum + 1, nil
}

// NonTerminal returns prompts that are neither completed nor errored.
// Used together with ConversationService.OrphanedByPod at startup.
func (s *PromptService) NonTerminal(ctx context.Context, promptIDs []string) ([]*ent.Prompt, error) {
	if len(promptIDs) == 0 {
		return nil, nil
	}
	prompts, err := s.client.Prompt.Query().
		Where(
			prompt.IDIn(promptIDs...),
			prompt.StatusNotIn(prompt.StatusCompleted, prompt.StatusError),
		).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query non-terminal prompts: %w", err)
	}
	return prompts, nil
}
