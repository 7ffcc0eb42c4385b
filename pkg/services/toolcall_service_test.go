package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/ent/toolcall"
)

func TestToolCallCancelWinsOverLateCompletion(t *testing.T) {
	ctx := context.Background()
	client, convID := newServiceFixture(t)
	messages := NewMessageService(client)
	prompts := NewPromptService(client)
	toolCalls := NewToolCallService(client)

	asst, err := messages.CreateAssistantMessage(ctx, convID)
	require.NoError(t, err)
	pr, err := prompts.CreatePrompt(ctx, convID, asst.ID, "claude-sonnet-4-5", "", nil)
	require.NoError(t, err)

	tc, err := toolCalls.CreateToolCall(ctx, pr.ID, "blk-1", "toolu_99", "bash",
		map[string]any{"command": "ls"})
	require.NoError(t, err)
	require.NoError(t, toolCalls.MarkExecuting(ctx, tc.ID))
	require.NoError(t, toolCalls.Cancel(ctx, tc.ID))

	// A success or failure landing after the cancel cascade must not move
	// the call out of its terminal state.
	assert.ErrorIs(t, toolCalls.Complete(ctx, tc.ID, "late output"), ErrConflict)
	assert.ErrorIs(t, toolCalls.Fail(ctx, tc.ID, "late error"), ErrConflict)

	fresh, err := toolCalls.GetToolCall(ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, toolcall.StateCanceled, fresh.State)
	assert.Empty(t, fresh.Output)
	assert.Empty(t, fresh.ErrorMessage)
}
