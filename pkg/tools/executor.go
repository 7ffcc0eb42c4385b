package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/toolcall"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/sanitize"
	"github.com/parleyhq/parley/pkg/services"
)

// Invocation is one tool call handed to the executor, with the routing
// context the tool call row alone does not carry.
type Invocation struct {
	ConversationID string
	MessageID      string
	ToolCall       *ent.ToolCall
}

// Executor runs tool calls: it claims the pending row, validates input,
// streams sanitized output into the tool call and its tool_result block,
// and records the terminal state. Exactly one run happens per tool call —
// the pending → executing transition is the gate.
type Executor struct {
	registry  *Registry
	toolCalls *services.ToolCallService
	blocks    *services.BlockService
	publisher *events.Publisher
}

// NewExecutor creates an executor over the given registry and services.
func NewExecutor(registry *Registry, toolCalls *services.ToolCallService, blocks *services.BlockService, publisher *events.Publisher) *Executor {
	return &Executor{
		registry:  registry,
		toolCalls: toolCalls,
		blocks:    blocks,
		publisher: publisher,
	}
}

// Execute runs one tool call to a terminal state. A tool call that is no
// longer pending is skipped without error; every other outcome (including
// unsupported tool and invalid input) lands in the tool call row and its
// tool_result block, never as a panic or a lost record.
func (e *Executor) Execute(ctx context.Context, inv Invocation) error {
	tc := inv.ToolCall

	if err := e.toolCalls.MarkExecuting(ctx, tc.ID); err != nil {
		if errors.Is(err, services.ErrConflict) {
			slog.Debug("Tool call already claimed, skipping", "tool_call_id", tc.ID)
			return nil
		}
		return fmt.Errorf("failed to claim tool call: %w", err)
	}

	resultBlock, err := e.blocks.CreateBlock(ctx, inv.MessageID, tc.PromptID, block.TypeToolResult, map[string]any{
		"tool_use_id": tc.APIToolCallID,
		"tool_name":   tc.ToolName,
	})
	if err != nil {
		e.finishError(ctx, inv, nil, fmt.Sprintf("failed to create result block: %v", err))
		return err
	}

	e.publishLifecycle(ctx, inv, resultBlock, events.EventTypeToolCallStarted, toolcall.StateExecuting, "", "")

	def, ok := e.registry.Get(tc.ToolName)
	if !ok {
		e.finishError(ctx, inv, resultBlock, fmt.Sprintf("unsupported tool: %s", tc.ToolName))
		return nil
	}

	if err := def.ValidateInput(tc.Request); err != nil {
		e.finishError(ctx, inv, resultBlock, err.Error())
		return nil
	}

	var accumulated strings.Builder
	emit := func(chunk string) {
		clean := sanitize.Output(chunk)
		if clean == "" {
			return
		}
		accumulated.WriteString(clean)
		if err := e.toolCalls.AppendOutput(ctx, tc.ID, clean); err != nil {
			slog.Error("Failed to append tool output", "tool_call_id", tc.ID, "error", err)
		}
		if err := e.blocks.AppendContent(ctx, resultBlock.ID, clean); err != nil {
			slog.Error("Failed to append result block content", "block_id", resultBlock.ID, "error", err)
		}
		e.publishProgress(ctx, inv, clean)
	}

	canonical, runErr := def.Run(ctx, Request{
		ConversationID: inv.ConversationID,
		Input:          tc.Request,
		Emit:           emit,
	})

	if runErr != nil {
		if ctx.Err() != nil {
			e.finishCanceled(ctx, inv, resultBlock)
			return nil
		}
		e.finishError(ctx, inv, resultBlock, runErr.Error())
		return nil
	}

	output := sanitize.Output(canonical)
	if canonical == "" {
		output = accumulated.String()
	}
	if err := e.toolCalls.Complete(ctx, tc.ID, output); err != nil {
		if errors.Is(err, services.ErrConflict) {
			// A cancel cascade beat us to the terminal state; it stands.
			slog.Debug("Tool call no longer executing, skipping completion", "tool_call_id", tc.ID)
			return nil
		}
		slog.Error("Failed to complete tool call", "tool_call_id", tc.ID, "error", err)
		return err
	}
	if _, err := e.blocks.Finalize(ctx, resultBlock.ID, &output, nil); err != nil {
		slog.Error("Failed to finalize result block", "block_id", resultBlock.ID, "error", err)
	}
	e.publishLifecycle(ctx, inv, resultBlock, events.EventTypeToolCallCompleted, toolcall.StateComplete, output, "")
	return nil
}

// finishError records a terminal error on the tool call and writes the
// error text into the result block so the continuation turn carries it.
func (e *Executor) finishError(ctx context.Context, inv Invocation, resultBlock *ent.Block, message string) {
	// Terminal bookkeeping must survive a cancelled caller context.
	ctx = context.WithoutCancel(ctx)

	if err := e.toolCalls.Fail(ctx, inv.ToolCall.ID, message); err != nil {
		if errors.Is(err, services.ErrConflict) {
			slog.Debug("Tool call already terminal, skipping error record", "tool_call_id", inv.ToolCall.ID)
			return
		}
		slog.Error("Failed to record tool call error", "tool_call_id", inv.ToolCall.ID, "error", err)
	}
	if resultBlock != nil {
		content := "Error: " + message
		if _, err := e.blocks.Finalize(ctx, resultBlock.ID, &content, nil); err != nil {
			slog.Error("Failed to finalize errored result block", "block_id", resultBlock.ID, "error", err)
		}
	}
	e.publishLifecycle(ctx, inv, resultBlock, events.EventTypeToolCallFailed, toolcall.StateError, "", message)
}

func (e *Executor) finishCanceled(ctx context.Context, inv Invocation, resultBlock *ent.Block) {
	ctx = context.WithoutCancel(ctx)

	if err := e.toolCalls.Cancel(ctx, inv.ToolCall.ID); err != nil {
		slog.Error("Failed to cancel tool call", "tool_call_id", inv.ToolCall.ID, "error", err)
	}
	if resultBlock != nil {
		content := "Error: canceled"
		if _, err := e.blocks.Finalize(ctx, resultBlock.ID, &content, nil); err != nil {
			slog.Error("Failed to finalize canceled result block", "block_id", resultBlock.ID, "error", err)
		}
	}
	e.publishLifecycle(ctx, inv, resultBlock, events.EventTypeToolCallCanceled, toolcall.StateCanceled, "", "")
}

func (e *Executor) publishLifecycle(ctx context.Context, inv Invocation, resultBlock *ent.Block, eventType string, state toolcall.State, output, errorMessage string) {
	if e.publisher == nil {
		return
	}
	blockID := ""
	if resultBlock != nil {
		blockID = resultBlock.ID
	}
	err := e.publisher.PublishToolCall(ctx, inv.ConversationID, events.ToolCallPayload{
		Type:           eventType,
		ConversationID: inv.ConversationID,
		PromptID:       inv.ToolCall.PromptID,
		ToolCallID:     inv.ToolCall.ID,
		BlockID:        blockID,
		ToolName:       inv.ToolCall.ToolName,
		State:          state,
		Request:        inv.ToolCall.Request,
		Output:         output,
		ErrorMessage:   errorMessage,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish tool call event", "tool_call_id", inv.ToolCall.ID, "type", eventType, "error", err)
	}
}

func (e *Executor) publishProgress(ctx context.Context, inv Invocation, chunk string) {
	if e.publisher == nil {
		return
	}
	err := e.publisher.PublishToolCallProgress(ctx, inv.ConversationID, events.ToolCallProgressPayload{
		Type:           events.EventTypeToolCallProgress,
		ConversationID: inv.ConversationID,
		ToolCallID:     inv.ToolCall.ID,
		Chunk:          chunk,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish tool progress", "tool_call_id", inv.ToolCall.ID, "error", err)
	}
}
