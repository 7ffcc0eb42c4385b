package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
)

// MessagesClient is the subset of the Anthropic SDK used by the adapter,
// satisfied by *sdk.MessageService and by mocks in tests.
type MessagesClient interface {
	NewStreaming(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) *ssestream.Stream[sdk.MessageStreamEventUnion]
}

// AnthropicProvider adapts the Anthropic Messages streaming API to the
// Provider interface.
type AnthropicProvider struct {
	msg MessagesClient
}

// NewAnthropicProvider builds a provider from an API key.
func NewAnthropicProvider(apiKey string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{msg: &client.Messages}, nil
}

// NewAnthropicProviderFromClient wires an existing messages client (tests).
func NewAnthropicProviderFromClient(msg MessagesClient) *AnthropicProvider {
	return &AnthropicProvider{msg: msg}
}

// Stream opens a streaming completion and converts SDK events into Events.
// The channel is closed after message_stop or an error event.
func (p *AnthropicProvider) Stream(ctx context.Context, req *Request) (<-chan Event, error) {
	params, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}

	stream := p.msg.NewStreaming(ctx, *params)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("anthropic messages stream: %w", err)
	}

	out := make(chan Event, 32)
	go p.pump(ctx, stream, out)
	return out, nil
}

func (p *AnthropicProvider) pump(ctx context.Context, stream *ssestream.Stream[sdk.MessageStreamEventUnion], out chan<- Event) {
	defer close(out)
	defer func() { _ = stream.Close() }()

	emit := func(ev Event) bool {
		select {
		case out <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for stream.Next() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		for _, ev := range translateEvent(stream.Current()) {
			if !emit(ev) {
				return
			}
		}
	}

	if err := stream.Err(); err != nil {
		slog.Warn("Anthropic stream failed", "error", err)
		emit(Event{
			Type:         EventError,
			ErrorMessage: err.Error(),
			Retryable:    IsRetryable(err),
			Err:          err,
		})
	}
}

// translateEvent maps one SDK stream event to zero or more Events.
func translateEvent(event sdk.MessageStreamEventUnion) []Event {
	switch ev := event.AsAny().(type) {
	case sdk.MessageStartEvent:
		return []Event{{Type: EventMessageStart}}
	case sdk.ContentBlockStartEvent:
		out := Event{Type: EventContentBlockStart, Index: int(ev.Index)}
		switch block := ev.ContentBlock.AsAny().(type) {
		case sdk.ToolUseBlock:
			out.BlockType = BlockToolUse
			out.ToolUseID = block.ID
			out.ToolName = block.Name
		case sdk.ThinkingBlock:
			out.BlockType = BlockThinking
		default:
			out.BlockType = BlockText
		}
		return []Event{out}
	case sdk.ContentBlockDeltaEvent:
		idx := int(ev.Index)
		switch delta := ev.Delta.AsAny().(type) {
		case sdk.TextDelta:
			if delta.Text == "" {
				return nil
			}
			return []Event{{
				Type: EventContentBlockDelta, Index: idx,
				Delta: DeltaText, Text: delta.Text,
			}}
		case sdk.InputJSONDelta:
			if delta.PartialJSON == "" {
				return nil
			}
			return []Event{{
				Type: EventContentBlockDelta, Index: idx,
				Delta: DeltaInputJSON, PartialJSON: delta.PartialJSON,
			}}
		case sdk.ThinkingDelta:
			if delta.Thinking == "" {
				return nil
			}
			return []Event{{
				Type: EventContentBlockDelta, Index: idx,
				Delta: DeltaThinking, Thinking: delta.Thinking,
			}}
		default:
			return nil
		}
	case sdk.ContentBlockStopEvent:
		return []Event{{Type: EventContentBlockStop, Index: int(ev.Index)}}
	case sdk.MessageDeltaEvent:
		return []Event{{
			Type:       EventMessageDelta,
			StopReason: string(ev.Delta.StopReason),
			Usage: &Usage{
				InputTokens:  int(ev.Usage.InputTokens),
				OutputTokens: int(ev.Usage.OutputTokens),
			},
		}}
	case sdk.MessageStopEvent:
		return []Event{{Type: EventMessageStop}}
	}
	return nil
}

func encodeRequest(req *Request) (*sdk.MessageNewParams, error) {
	if req == nil || len(req.Turns) == 0 {
		return nil, errors.New("anthropic: at least one turn is required")
	}
	if req.Model == "" {
		return nil, errors.New("anthropic: model identifier is required")
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	params := &sdk.MessageNewParams{
		Model:     sdk.Model(req.Model),
		MaxTokens: int64(maxTokens),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	for _, turn := range req.Turns {
		blocks := make([]sdk.ContentBlockParamUnion, 0, len(turn.Blocks))
		for _, b := range turn.Blocks {
			switch b.Type {
			case BlockText:
				if b.Text != "" {
					blocks = append(blocks, sdk.NewTextBlock(b.Text))
				}
			case BlockToolUse:
				var input any
				if len(b.Input) > 0 {
					if err := json.Unmarshal(b.Input, &input); err != nil {
						return nil, fmt.Errorf("anthropic: tool_use input for %q: %w", b.ToolUseID, err)
					}
				} else {
					input = map[string]any{}
				}
				blocks = append(blocks, sdk.NewToolUseBlock(b.ToolUseID, input, b.ToolName))
			case BlockToolResult:
				blocks = append(blocks, sdk.NewToolResultBlock(b.ToolUseID, b.Content, b.IsError))
			default:
				return nil, fmt.Errorf("anthropic: unsupported request block type %q", b.Type)
			}
		}
		if len(blocks) == 0 {
			continue
		}
		switch turn.Role {
		case RoleUser:
			params.Messages = append(params.Messages, sdk.NewUserMessage(blocks...))
		case RoleAssistant:
			params.Messages = append(params.Messages, sdk.NewAssistantMessage(blocks...))
		default:
			return nil, fmt.Errorf("anthropic: unsupported role %q", turn.Role)
		}
	}
	if len(params.Messages) == 0 {
		return nil, errors.New("anthropic: no non-empty turns")
	}

	for _, t := range req.Tools {
		var schema map[string]any
		if len(t.InputSchema) > 0 {
			if err := json.Unmarshal(t.InputSchema, &schema); err != nil {
				return nil, fmt.Errorf("anthropic: tool %q schema: %w", t.Name, err)
			}
		}
		u := sdk.ToolUnionParamOfTool(sdk.ToolInputSchemaParam{ExtraFields: schema}, t.Name)
		if u.OfTool != nil && t.Description != "" {
			u.OfTool.Description = sdk.String(t.Description)
		}
		params.Tools = append(params.Tools, u)
	}

	return params, nil
}

// IsRetryable reports whether a provider error is a transient failure worth
// retrying: rate limits, overload, and server-side errors.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apierr *sdk.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 408, 429, 500, 502, 503, 529:
			return true
		}
		return false
	}
	// Transport-level failures (connection reset, EOF mid-stream) are
	// retryable; context cancellation is not.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
