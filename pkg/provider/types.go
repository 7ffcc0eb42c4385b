// Package provider defines the streaming LLM provider abstraction: typed
// stream events mirroring the Anthropic Messages wire protocol, request
// structures, and the Provider interface implemented by the real Anthropic
// adapter and the scripted test provider.
package provider

import (
	"context"
	"encoding/json"
)

// EventType identifies a provider stream event.
type EventType string

const (
	EventMessageStart      EventType = "message_start"
	EventContentBlockStart EventType = "content_block_start"
	EventContentBlockDelta EventType = "content_block_delta"
	EventContentBlockStop  EventType = "content_block_stop"
	EventMessageDelta      EventType = "message_delta"
	EventMessageStop       EventType = "message_stop"
	// EventError terminates a stream that failed mid-flight. Err carries
	// the cause in-process; ErrorMessage survives serialization.
	EventError EventType = "error"
)

// BlockType identifies the kind of content block a stream event refers to.
type BlockType string

const (
	BlockText     BlockType = "text"
	BlockThinking BlockType = "thinking"
	BlockToolUse  BlockType = "tool_use"
)

// DeltaType identifies the payload variant of a content_block_delta event.
type DeltaType string

const (
	DeltaText      DeltaType = "text_delta"
	DeltaInputJSON DeltaType = "input_json_delta"
	DeltaThinking  DeltaType = "thinking_delta"
)

// Usage carries token accounting from message_delta events.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Event is one element of a provider stream. It is a tagged union: Type
// selects which fields are meaningful. Events are JSON-serializable so the
// engine can persist them verbatim into the per-prompt replay log.
type Event struct {
	Type  EventType `json:"type"`
	Index int       `json:"index,omitempty"`

	// content_block_start
	BlockType BlockType `json:"block_type,omitempty"`
	ToolUseID string    `json:"tool_use_id,omitempty"`
	ToolName  string    `json:"tool_name,omitempty"`

	// content_block_delta
	Delta       DeltaType `json:"delta,omitempty"`
	Text        string    `json:"text,omitempty"`
	PartialJSON string    `json:"partial_json,omitempty"`
	Thinking    string    `json:"thinking,omitempty"`

	// message_delta / message_stop
	StopReason string `json:"stop_reason,omitempty"`
	Usage      *Usage `json:"usage,omitempty"`

	// error
	ErrorMessage string `json:"error_message,omitempty"`
	Retryable    bool   `json:"retryable,omitempty"`
	Err          error  `json:"-"`
}

// Role of a conversation turn sent to the provider.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnBlock is one content block within a request turn.
type TurnBlock struct {
	Type BlockType `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use (assistant echo of an earlier call)
	ToolUseID string          `json:"tool_use_id,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`

	// tool_result
	Content string `json:"content,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

const (
	// BlockToolResult only appears in request turns, never in stream
	// events.
	BlockToolResult BlockType = "tool_result"
)

// Turn is one message in the request transcript.
type Turn struct {
	Role   Role        `json:"role"`
	Blocks []TurnBlock `json:"blocks"`
}

// Tool describes a tool advertised to the model.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Request is a complete streaming completion request.
type Request struct {
	Model     string `json:"model"`
	System    string `json:"system,omitempty"`
	MaxTokens int    `json:"max_tokens"`
	Turns     []Turn `json:"turns"`
	Tools     []Tool `json:"tools,omitempty"`
}

// Provider produces streaming completions. The returned channel is closed
// after the terminal event (message_stop or error); cancelling ctx tears the
// stream down and closes the channel.
type Provider interface {
	Stream(ctx context.Context, req *Request) (<-chan Event, error)
}
