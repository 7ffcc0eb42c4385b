package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/ent/toolcall"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/provider"
	"github.com/parleyhq/parley/pkg/services"
	"github.com/parleyhq/parley/pkg/tools"
	testdb "github.com/parleyhq/parley/test/database"
)

// harness wires an engine over a real database, an in-memory event bus, and
// a scripted provider plus a scripted tool.
type harness struct {
	llm       *provider.ScriptedProvider
	engine    *Engine
	prompts   *services.PromptService
	messages  *services.MessageService
	blocks    *services.BlockService
	toolCalls *services.ToolCallService

	conversationID string
	messageID      string
	promptID       string
}

// scriptedTool returns canned output per invocation and records inputs.
// Safe for the executor's concurrent dispatch.
type scriptedTool struct {
	mu      sync.Mutex
	outputs []string
	calls   int
	inputs  []map[string]any
	fail    error
}

func (s *scriptedTool) run(_ context.Context, req tools.Request) (string, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, req.Input)
	if s.fail != nil {
		s.mu.Unlock()
		return "", s.fail
	}
	out := ""
	if s.calls < len(s.outputs) {
		out = s.outputs[s.calls]
	}
	s.calls++
	s.mu.Unlock()

	if req.Emit != nil && out != "" {
		req.Emit(out)
	}
	return out, nil
}

func (s *scriptedTool) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newHarness(t *testing.T, tool *scriptedTool) *harness {
	t.Helper()
	ctx := context.Background()
	client := testdb.NewTestClient(t)

	users := services.NewUserService(client.Client)
	convs := services.NewConversationService(client.Client)
	messages := services.NewMessageService(client.Client)
	prompts := services.NewPromptService(client.Client)
	blocks := services.NewBlockService(client.Client)
	toolCalls := services.NewToolCallService(client.Client)

	bus := events.NewBus()
	publisher := events.NewInMemoryPublisher(bus)

	registry := tools.NewRegistry()
	if tool != nil {
		require.NoError(t, registry.Register(&tools.Definition{
			Name:        "bash",
			Description: "scripted shell",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"command":{"type":"string"}},"required":["command"]}`),
			Run:         tool.run,
		}))
	}
	executor := tools.NewExecutor(registry, toolCalls, blocks, publisher)

	llm := provider.NewScriptedProvider()
	eng := New(llm, executor, prompts, blocks, toolCalls, publisher, Config{ToolPollPeriod: 20 * time.Millisecond})

	user, err := users.GetOrCreateUser(ctx, "engine@test.local", "Engine Test")
	require.NoError(t, err)
	conv, err := convs.CreateConversation(ctx, user.ID, "engine test")
	require.NoError(t, err)
	asst, err := messages.CreateAssistantMessage(ctx, conv.ID)
	require.NoError(t, err)
	pr, err := prompts.CreatePrompt(ctx, conv.ID, asst.ID, "claude-sonnet-4-5", "you are helpful", nil)
	require.NoError(t, err)

	return &harness{
		llm:            llm,
		engine:         eng,
		prompts:        prompts,
		messages:       messages,
		blocks:         blocks,
		toolCalls:      toolCalls,
		conversationID: conv.ID,
		messageID:      asst.ID,
		promptID:       pr.ID,
	}
}

func (h *harness) run(ctx context.Context) error {
	return h.engine.Run(ctx, RunParams{
		ConversationID:     h.conversationID,
		PromptID:           h.promptID,
		AssistantMessageID: h.messageID,
		Request: &provider.Request{
			Model: "claude-sonnet-4-5",
			Turns: []provider.Turn{{
				Role:   provider.RoleUser,
				Blocks: []provider.TurnBlock{{Type: provider.BlockText, Text: "hello"}},
			}},
		},
	})
}

func TestEngineSingleTextTurn(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: provider.TextTurn("Hello", ", world!")})
	require.NoError(t, h.run(ctx))

	pr, err := h.prompts.GetPrompt(ctx, h.promptID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusCompleted, pr.Status)
	assert.NotNil(t, pr.CompletedAt)

	blks, err := h.blocks.MessageBlocks(ctx, h.messageID)
	require.NoError(t, err)
	require.Len(t, blks, 1)
	assert.Equal(t, block.TypeText, blks[0].Type)
	assert.Equal(t, "Hello, world!", blks[0].Content)
	assert.True(t, blks[0].IsFinalized)

	// The replay log is the contiguous sequence 0..n-1.
	log, err := h.prompts.Events(ctx, h.promptID)
	require.NoError(t, err)
	require.NotEmpty(t, log)
	for i, entry := range log {
		assert.Equal(t, i, entry.IndexNum)
	}
	assert.Equal(t, 1, h.llm.CallCount())
}

func TestEngineToolRoundTrip(t *testing.T) {
	tool := &scriptedTool{outputs: []string{"a.txt\nb.txt"}}
	h := newHarness(t, tool)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: provider.ToolUseTurn(
		"I'll check.", "toolu_01", "bash", `{"command":"ls"}`,
	)})
	h.llm.AddText("Two files: a.txt and b.txt.")

	require.NoError(t, h.run(ctx))

	pr, err := h.prompts.GetPrompt(ctx, h.promptID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusCompleted, pr.Status)

	blks, err := h.blocks.MessageBlocks(ctx, h.messageID)
	require.NoError(t, err)
	require.Len(t, blks, 4)
	assert.Equal(t, block.TypeText, blks[0].Type)
	assert.Equal(t, "I'll check.", blks[0].Content)
	assert.Equal(t, block.TypeToolUse, blks[1].Type)
	assert.Equal(t, block.TypeToolResult, blks[2].Type)
	assert.Equal(t, "a.txt\nb.txt", blks[2].Content)
	assert.Equal(t, block.TypeText, blks[3].Type)
	assert.Equal(t, "Two files: a.txt and b.txt.", blks[3].Content)
	for _, b := range blks {
		assert.True(t, b.IsFinalized, "block %d not finalized", b.Order)
	}

	calls, err := h.toolCalls.PromptToolCalls(ctx, h.promptID)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, toolcall.StateComplete, calls[0].State)
	assert.Equal(t, "a.txt\nb.txt", calls[0].Output)
	assert.Equal(t, map[string]any{"command": "ls"}, tool.inputs[0])

	// The continuation request carries the assistant echo turn and the
	// tool_result turn.
	reqs := h.llm.Requests()
	require.Len(t, reqs, 2)
	cont := reqs[1]
	require.Len(t, cont.Turns, 3)
	assert.Equal(t, provider.RoleAssistant, cont.Turns[1].Role)
	require.Len(t, cont.Turns[2].Blocks, 1)
	rb := cont.Turns[2].Blocks[0]
	assert.Equal(t, provider.BlockToolResult, rb.Type)
	assert.Equal(t, "toolu_01", rb.ToolUseID)
	assert.Equal(t, "a.txt\nb.txt", rb.Content)
	assert.False(t, rb.IsError)
}

func TestEngineSplitToolInputJSON(t *testing.T) {
	tool := &scriptedTool{outputs: []string{"ok"}}
	h := newHarness(t, tool)
	ctx := context.Background()

	// Input JSON split across arbitrary byte boundaries must parse the same
	// as the concatenated payload.
	h.llm.Add(provider.ScriptEntry{Events: provider.ToolUseTurn(
		"", "toolu_02", "bash", `{"comm`, `and":"echo`, ` hi"}`,
	)})
	h.llm.AddText("done")

	require.NoError(t, h.run(ctx))

	require.Len(t, tool.inputs, 1)
	assert.Equal(t, map[string]any{"command": "echo hi"}, tool.inputs[0])
}

func TestEngineUnparseableToolInput(t *testing.T) {
	tool := &scriptedTool{}
	h := newHarness(t, tool)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: provider.ToolUseTurn(
		"", "toolu_03", "bash", `{"command": "ls"`, // missing closing brace
	)})
	h.llm.AddText("understood")

	require.NoError(t, h.run(ctx))

	// The tool never ran; the call is born errored and the continuation
	// carries the error as the result.
	assert.Equal(t, 0, tool.callCount())
	calls, err := h.toolCalls.PromptToolCalls(ctx, h.promptID)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, toolcall.StateError, calls[0].State)
	assert.Contains(t, calls[0].ErrorMessage, "invalid tool input JSON")

	// The persisted transcript still pairs the tool_use block with a
	// tool_result block carrying the error.
	blks, err := h.blocks.MessageBlocks(ctx, h.messageID)
	require.NoError(t, err)
	var result *ent.Block
	for _, b := range blks {
		if b.Type == block.TypeToolResult {
			result = b
		}
	}
	require.NotNil(t, result)
	assert.True(t, result.IsFinalized)
	assert.Contains(t, result.Content, "invalid tool input JSON")

	reqs := h.llm.Requests()
	require.Len(t, reqs, 2)
	rb := reqs[1].Turns[2].Blocks[0]
	assert.True(t, rb.IsError)
	assert.Contains(t, rb.Content, "invalid tool input JSON")

	pr, err := h.prompts.GetPrompt(ctx, h.promptID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusCompleted, pr.Status)
}

func TestEngineToolFailureIsResultNotEngineFailure(t *testing.T) {
	tool := &scriptedTool{fail: errors.New("shell session died")}
	h := newHarness(t, tool)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: provider.ToolUseTurn(
		"", "toolu_04", "bash", `{"command":"ls"}`,
	)})
	h.llm.AddText("the tool failed")

	require.NoError(t, h.run(ctx))

	calls, err := h.toolCalls.PromptToolCalls(ctx, h.promptID)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, toolcall.StateError, calls[0].State)

	rb := h.llm.Requests()[1].Turns[2].Blocks[0]
	assert.True(t, rb.IsError)
	assert.Contains(t, rb.Content, "shell session died")

	pr, err := h.prompts.GetPrompt(ctx, h.promptID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusCompleted, pr.Status)
}

func TestEngineProviderPermanentError(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: []provider.Event{
		{Type: provider.EventMessageStart},
		{Type: provider.EventContentBlockStart, Index: 0, BlockType: provider.BlockText},
		{Type: provider.EventContentBlockDelta, Index: 0, Delta: provider.DeltaText, Text: "partial"},
		provider.ErrorEvent("invalid_request", false),
	}})

	err := h.run(ctx)
	require.Error(t, err)

	pr, perr := h.prompts.GetPrompt(ctx, h.promptID)
	require.NoError(t, perr)
	assert.Equal(t, prompt.StatusError, pr.Status)
	assert.Contains(t, pr.ErrorMessage, "invalid_request")

	// Partial output is preserved and finalized.
	blks, berr := h.blocks.MessageBlocks(ctx, h.messageID)
	require.NoError(t, berr)
	require.Len(t, blks, 1)
	assert.Equal(t, "partial", blks[0].Content)
	assert.True(t, blks[0].IsFinalized)

	assert.Equal(t, 1, h.llm.CallCount())
}

func TestEngineRetriesTransientOpenFailure(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	// Two failed streams with zero events, then success.
	h.llm.Add(provider.ScriptEntry{Events: []provider.Event{provider.ErrorEvent("overloaded", true)}})
	h.llm.Add(provider.ScriptEntry{Events: []provider.Event{provider.ErrorEvent("overloaded", true)}})
	h.llm.AddText("recovered")

	require.NoError(t, h.run(ctx))

	pr, err := h.prompts.GetPrompt(ctx, h.promptID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusCompleted, pr.Status)
	assert.Equal(t, 3, h.llm.CallCount())
}

func TestEngineDoesNotRetryAfterPartialOutput(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: []provider.Event{
		{Type: provider.EventMessageStart},
		{Type: provider.EventContentBlockStart, Index: 0, BlockType: provider.BlockText},
		{Type: provider.EventContentBlockDelta, Index: 0, Delta: provider.DeltaText, Text: "already sent"},
		provider.ErrorEvent("connection reset", true),
	}})

	err := h.run(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, h.llm.CallCount())

	pr, perr := h.prompts.GetPrompt(ctx, h.promptID)
	require.NoError(t, perr)
	assert.Equal(t, prompt.StatusError, pr.Status)
}

func TestEngineCancellationCascades(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{}, 1)
	h.llm.Add(provider.ScriptEntry{BlockUntilCancelled: true, OnBlock: started})

	done := make(chan error, 1)
	go func() { done <- h.run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop on cancellation")
	}

	pr, err := h.prompts.GetPrompt(context.Background(), h.promptID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusError, pr.Status)
	assert.Equal(t, "canceled", pr.ErrorMessage)
}

func TestEngineReplayMatchesLiveStream(t *testing.T) {
	tool := &scriptedTool{outputs: []string{"replay me"}}
	h := newHarness(t, tool)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: provider.ToolUseTurn(
		"Checking.", "toolu_05", "bash", `{"comma`, `nd":"pwd"}`,
	)})
	h.llm.AddText("done")
	require.NoError(t, h.run(ctx))

	replayed, err := h.engine.Replay(ctx, h.promptID)
	require.NoError(t, err)

	// Replay reconstructs the same turn content in the same order.
	require.Len(t, replayed, 3)
	assert.Equal(t, provider.BlockText, replayed[0].Type)
	assert.Equal(t, "Checking.", replayed[0].Text)
	assert.Equal(t, provider.BlockToolUse, replayed[1].Type)
	assert.Equal(t, "toolu_05", replayed[1].ToolUseID)
	assert.JSONEq(t, `{"command":"pwd"}`, string(replayed[1].Input))
	assert.Equal(t, provider.BlockText, replayed[2].Type)
	assert.Equal(t, "done", replayed[2].Text)
}

func TestEngineMultipleToolsInIssueOrder(t *testing.T) {
	tool := &scriptedTool{outputs: []string{"first-out", "second-out"}}
	h := newHarness(t, tool)
	ctx := context.Background()

	evs := []provider.Event{
		{Type: provider.EventMessageStart},
		{Type: provider.EventContentBlockStart, Index: 0, BlockType: provider.BlockToolUse, ToolUseID: "toolu_a", ToolName: "bash"},
		{Type: provider.EventContentBlockDelta, Index: 0, Delta: provider.DeltaInputJSON, PartialJSON: `{"command":"echo first"}`},
		{Type: provider.EventContentBlockStop, Index: 0},
		{Type: provider.EventContentBlockStart, Index: 1, BlockType: provider.BlockToolUse, ToolUseID: "toolu_b", ToolName: "bash"},
		{Type: provider.EventContentBlockDelta, Index: 1, Delta: provider.DeltaInputJSON, PartialJSON: `{"command":"echo second"}`},
		{Type: provider.EventContentBlockStop, Index: 1},
		{Type: provider.EventMessageDelta, StopReason: "tool_use"},
		{Type: provider.EventMessageStop},
	}
	h.llm.Add(provider.ScriptEntry{Events: evs})
	h.llm.AddText("both done")

	require.NoError(t, h.run(ctx))

	cont := h.llm.Requests()[1]
	results := cont.Turns[2].Blocks
	require.Len(t, results, 2)
	assert.Equal(t, "toolu_a", results[0].ToolUseID)
	assert.Equal(t, "toolu_b", results[1].ToolUseID)
	for _, r := range results {
		assert.False(t, r.IsError, fmt.Sprintf("tool %s errored: %s", r.ToolUseID, r.Content))
	}
}
