package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/toolcall"
)

// ToolCallService manages tool call lifecycle records
type ToolCallService struct {
	client *ent.Client
}

// NewToolCallService creates a new ToolCallService
func NewToolCallService(client *ent.Client) *ToolCallService {
	return &ToolCallService{client: client}
}

// CreateToolCall records a tool invocation requested by the model. The
// initial state is pending; CreateErrored records calls whose input never
// parsed.
func (s *ToolCallService) CreateToolCall(ctx context.Context, promptID, blockID, apiToolCallID, toolName string, request map[string]interface{}) (*ent.ToolCall, error) {
	if promptID == "" {
		return nil, NewValidationError("prompt_id", "required")
	}
	if toolName == "" {
		return nil, NewValidationError("tool_name", "required")
	}

	create := s.client.ToolCall.Create().
		SetID(uuid.New().String()).
		SetPromptID(promptID).
		SetBlockID(blockID).
		SetAPIToolCallID(apiToolCallID).
		SetToolName(toolName)
	if request != nil {
		create.SetRequest(request)
	}
	tc, err := create.Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call: %w", err)
	}
	return tc, nil
}

// CreateErrored records a tool call born in state error (unparseable input,
// unknown tool). It never executes; its error text becomes the tool result.
func (s *ToolCallService) CreateErrored(ctx context.Context, promptID, blockID, apiToolCallID, toolName, errorMessage string) (*ent.ToolCall, error) {
	now := time.Now()
	tc, err := s.client.ToolCall.Create().
		SetID(uuid.New().String()).
		SetPromptID(promptID).
		SetBlockID(blockID).
		SetAPIToolCallID(apiToolCallID).
		SetToolName(toolName).
		SetState(toolcall.StateError).
		SetErrorMessage(errorMessage).
		SetCompletedAt(now).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create errored tool call: %w", err)
	}
	return tc, nil
}

// GetToolCall retrieves a tool call by id
func (s *ToolCallService) GetToolCall(ctx context.Context, id string) (*ent.ToolCall, error) {
	tc, err := s.client.ToolCall.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tool call: %w", err)
	}
	return tc, nil
}

// MarkExecuting transitions pending → executing. Returns ErrConflict when
// the call is not pending (the pending gate).
func (s *ToolCallService) MarkExecuting(ctx context.Context, id string) error {
	n, err := s.client.ToolCall.Update().
		Where(
			toolcall.IDEQ(id),
			toolcall.StateEQ(toolcall.StatePending),
		).
		SetState(toolcall.StateExecuting).
		SetStartedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark tool call executing: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// AppendOutput appends sanitized streamed output.
func (s *ToolCallService) AppendOutput(ctx context.Context, id, chunk string) error {
	if chunk == "" {
		return nil
	}
	tc, err := s.client.ToolCall.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get tool call: %w", err)
	}
	err = s.client.ToolCall.UpdateOne(tc).
		SetOutput(tc.Output + chunk).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append tool call output: %w", err)
	}
	return nil
}

// Complete transitions executing → complete with the final output. Returns
// ErrConflict when the call is no longer executing, so a success path racing
// a cancel cascade can never move a canceled call backward.
func (s *ToolCallService) Complete(ctx context.Context, id, output string) error {
	n, err := s.client.ToolCall.Update().
		Where(
			toolcall.IDEQ(id),
			toolcall.StateEQ(toolcall.StateExecuting),
		).
		SetState(toolcall.StateComplete).
		SetOutput(output).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to complete tool call: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Fail transitions executing → error. Returns ErrConflict when the call is
// already terminal.
func (s *ToolCallService) Fail(ctx context.Context, id, errorMessage string) error {
	n, err := s.client.ToolCall.Update().
		Where(
			toolcall.IDEQ(id),
			toolcall.StateEQ(toolcall.StateExecuting),
		).
		SetState(toolcall.StateError).
		SetErrorMessage(errorMessage).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to fail tool call: %w", err)
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Cancel transitions a non-terminal call to canceled. Terminal calls are
// left untouched.
func (s *ToolCallService) Cancel(ctx context.Context, id string) error {
	_, err := s.client.ToolCall.Update().
		Where(
			toolcall.IDEQ(id),
			toolcall.StateIn(toolcall.StatePending, toolcall.StateExecuting),
		).
		SetState(toolcall.StateCanceled).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("failed to cancel tool call: %w", err)
	}
	return nil
}

// PromptToolCalls returns a prompt's tool calls in issue order.
func (s *ToolCallService) PromptToolCalls(ctx context.Context, promptID string) ([]*ent.ToolCall, error) {
	calls, err := s.client.ToolCall.Query().
		Where(toolcall.PromptIDEQ(promptID)).
		Order(ent.Asc(toolcall.FieldCreatedAt), ent.Asc(toolcall.FieldID)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt tool calls: %w", err)
	}
	return calls, nil
}

// IsTerminal reports whether a state is terminal.
func IsTerminal(state toolcall.State) bool {
	switch state {
	case toolcall.StateComplete, toolcall.StateError, toolcall.StateCanceled:
		return true
	}
	return false
}
