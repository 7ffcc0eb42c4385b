package provider

import (
	"context"
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func TestScriptedProviderTextTurn(t *testing.T) {
	p := NewScriptedProvider()
	p.AddText("hello")

	ch, err := p.Stream(context.Background(), &Request{Model: "m", Turns: []Turn{{Role: RoleUser}}})
	require.NoError(t, err)

	events := collect(t, ch)
	require.Len(t, events, 6)
	assert.Equal(t, EventMessageStart, events[0].Type)
	assert.Equal(t, BlockText, events[1].BlockType)
	assert.Equal(t, "hello", events[2].Text)
	assert.Equal(t, EventContentBlockStop, events[3].Type)
	assert.Equal(t, "end_turn", events[4].StopReason)
	assert.Equal(t, EventMessageStop, events[5].Type)
	assert.Equal(t, 1, p.CallCount())
}

func TestScriptedProviderToolUseTurn(t *testing.T) {
	p := NewScriptedProvider()
	p.Add(ScriptEntry{Events: ToolUseTurn("checking", "toolu_1", "bash", `{"comm`, `and":"ls"}`)})

	ch, err := p.Stream(context.Background(), &Request{})
	require.NoError(t, err)

	events := collect(t, ch)
	var fragments []string
	var toolName string
	for _, ev := range events {
		if ev.Type == EventContentBlockStart && ev.BlockType == BlockToolUse {
			toolName = ev.ToolName
		}
		if ev.Type == EventContentBlockDelta && ev.Delta == DeltaInputJSON {
			fragments = append(fragments, ev.PartialJSON)
		}
	}
	assert.Equal(t, "bash", toolName)
	assert.Equal(t, []string{`{"comm`, `and":"ls"}`}, fragments)
	assert.Equal(t, "tool_use", events[len(events)-2].StopReason)
}

func TestScriptedProviderError(t *testing.T) {
	p := NewScriptedProvider()
	scripted := errors.New("boom")
	p.Add(ScriptEntry{Error: scripted})

	_, err := p.Stream(context.Background(), &Request{})
	assert.ErrorIs(t, err, scripted)
}

func TestScriptedProviderExhausted(t *testing.T) {
	p := NewScriptedProvider()
	_, err := p.Stream(context.Background(), &Request{})
	assert.ErrorContains(t, err, "no more entries")
}

func TestScriptedProviderBlockUntilCancelled(t *testing.T) {
	p := NewScriptedProvider()
	onBlock := make(chan struct{}, 1)
	p.Add(ScriptEntry{BlockUntilCancelled: true, OnBlock: onBlock})

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := p.Stream(ctx, &Request{})
	require.NoError(t, err)
	<-onBlock

	cancel()
	events := collect(t, ch)
	assert.Empty(t, events)
}

func TestEncodeRequest(t *testing.T) {
	req := &Request{
		Model:  "claude-sonnet-4-5",
		System: "be helpful",
		Turns: []Turn{
			{Role: RoleUser, Blocks: []TurnBlock{{Type: BlockText, Text: "run ls"}}},
			{Role: RoleAssistant, Blocks: []TurnBlock{
				{Type: BlockText, Text: "sure"},
				{Type: BlockToolUse, ToolUseID: "toolu_1", ToolName: "bash", Input: []byte(`{"command":"ls"}`)},
			}},
			{Role: RoleUser, Blocks: []TurnBlock{
				{Type: BlockToolResult, ToolUseID: "toolu_1", Content: "a.txt"},
			}},
		},
		Tools: []Tool{{
			Name:        "bash",
			Description: "run a shell command",
			InputSchema: []byte(`{"type":"object","properties":{"command":{"type":"string"}}}`),
		}},
	}

	params, err := encodeRequest(req)
	require.NoError(t, err)
	assert.Equal(t, sdk.Model("claude-sonnet-4-5"), params.Model)
	assert.Equal(t, int64(8192), params.MaxTokens)
	require.Len(t, params.System, 1)
	assert.Equal(t, "be helpful", params.System[0].Text)
	assert.Len(t, params.Messages, 3)
	assert.Len(t, params.Tools, 1)
}

func TestEncodeRequestValidation(t *testing.T) {
	_, err := encodeRequest(nil)
	assert.Error(t, err)

	_, err = encodeRequest(&Request{Model: "m"})
	assert.Error(t, err)

	_, err = encodeRequest(&Request{
		Turns: []Turn{{Role: RoleUser, Blocks: []TurnBlock{{Type: BlockText, Text: "hi"}}}},
	})
	assert.ErrorContains(t, err, "model")

	_, err = encodeRequest(&Request{
		Model: "m",
		Turns: []Turn{{Role: "tool", Blocks: []TurnBlock{{Type: BlockText, Text: "hi"}}}},
	})
	assert.ErrorContains(t, err, "unsupported role")
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(context.DeadlineExceeded))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))

	assert.True(t, IsRetryable(&sdk.Error{StatusCode: 429}))
	assert.True(t, IsRetryable(&sdk.Error{StatusCode: 529}))
	assert.True(t, IsRetryable(&sdk.Error{StatusCode: 500}))
	assert.False(t, IsRetryable(&sdk.Error{StatusCode: 400}))
	assert.False(t, IsRetryable(&sdk.Error{StatusCode: 401}))
}
