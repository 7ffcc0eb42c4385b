package events

import (
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/message"
	"github.com/parleyhq/parley/ent/toolcall"
)

// MessagePayload is the payload for message.created / message.updated /
// message.deleted events.
type MessagePayload struct {
	Type           string         `json:"type"` // message.created, message.updated, message.deleted
	ConversationID string         `json:"conversation_id"`
	MessageID      string         `json:"message_id"`
	Role           message.Role   `json:"role"`   // user, assistant, system
	Status         message.Status `json:"status"` // queued, processing, completed, error
	QueueOrder     *int           `json:"queue_order,omitempty"`
	Content        string         `json:"content,omitempty"` // first text block content, when relevant
	Timestamp      string         `json:"timestamp"`         // RFC3339Nano
}

// PromptPayload is the payload for prompt.started / prompt.completed /
// prompt.failed / prompt.canceled events.
type PromptPayload struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	PromptID       string `json:"prompt_id"`
	MessageID      string `json:"message_id"` // the assistant message being produced
	Model          string `json:"model,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"` // prompt.failed only
	Timestamp      string `json:"timestamp"`               // RFC3339Nano
}

// BlockStartPayload is the payload for block.start events.
type BlockStartPayload struct {
	Type           string         `json:"type"` // always EventTypeBlockStart
	ConversationID string         `json:"conversation_id"`
	PromptID       string         `json:"prompt_id"`
	MessageID      string         `json:"message_id"`
	BlockID        string         `json:"block_id"`
	BlockType      block.Type     `json:"block_type"` // text, thinking, tool_use, tool_result
	Order          int            `json:"order"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Timestamp      string         `json:"timestamp"` // RFC3339Nano
}

// BlockDeltaPayload is the payload for block.delta transient events.
// High-frequency, ephemeral; clients concatenate deltas for a live typing
// effect and rely on block.end for the authoritative content.
type BlockDeltaPayload struct {
	Type           string `json:"type"` // always EventTypeBlockDelta
	ConversationID string `json:"conversation_id"`
	BlockID        string `json:"block_id"`
	Delta          string `json:"delta"`
	Timestamp      string `json:"timestamp"` // RFC3339Nano
}

// BlockEndPayload is the payload for block.end events. Content is the full
// finalized block content.
type BlockEndPayload struct {
	Type           string         `json:"type"` // always EventTypeBlockEnd
	ConversationID string         `json:"conversation_id"`
	BlockID        string         `json:"block_id"`
	BlockType      block.Type     `json:"block_type"`
	Content        string         `json:"content"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Timestamp      string         `json:"timestamp"` // RFC3339Nano
}

// ToolCallPayload is the payload for tool_call.started / tool_call.completed
// / tool_call.failed / tool_call.canceled events.
type ToolCallPayload struct {
	Type           string         `json:"type"`
	ConversationID string         `json:"conversation_id"`
	PromptID       string         `json:"prompt_id"`
	ToolCallID     string         `json:"tool_call_id"`
	BlockID        string         `json:"block_id"`
	ToolName       string         `json:"tool_name"`
	State          toolcall.State `json:"state"`
	Request        map[string]any `json:"request,omitempty"`
	Output         string         `json:"output,omitempty"` // terminal events carry the full output
	ErrorMessage   string         `json:"error_message,omitempty"`
	Timestamp      string         `json:"timestamp"` // RFC3339Nano
}

// ToolCallProgressPayload is the payload for tool_call.progress transient
// events: one sanitized chunk of streamed tool output.
type ToolCallProgressPayload struct {
	Type           string `json:"type"` // always EventTypeToolCallProgress
	ConversationID string `json:"conversation_id"`
	ToolCallID     string `json:"tool_call_id"`
	Chunk          string `json:"chunk"`
	Timestamp      string `json:"timestamp"` // RFC3339Nano
}
