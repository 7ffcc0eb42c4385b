// Package events provides real-time event delivery: an in-process
// subscriber bus, PostgreSQL NOTIFY/LISTEN for cross-pod distribution, and
// a durable event log for subscriber catch-up.
//
// Block and tool-call streams follow one lifecycle pattern:
//
//	block.start          {block_id, type, ...}
//	block.delta          {delta: "..."}   (repeated, not persisted)
//	block.end            {content: "full text"}
//
// Deltas are transient: lost on disconnect, but the final content arrives in
// the terminal event, so clients that miss deltas still converge. The same
// shape applies to tool_call.started / tool_call.progress /
// tool_call.completed.
package events

// Persistent event types (stored in the events table + NOTIFY).
const (
	EventTypeMessageCreated = "message.created"
	EventTypeMessageUpdated = "message.updated"
	EventTypeMessageDeleted = "message.deleted"

	EventTypePromptStarted   = "prompt.started"
	EventTypePromptCompleted = "prompt.completed"
	EventTypePromptFailed    = "prompt.failed"
	EventTypePromptCanceled  = "prompt.canceled"

	EventTypeBlockStart = "block.start"
	EventTypeBlockEnd   = "block.end"

	EventTypeToolCallStarted   = "tool_call.started"
	EventTypeToolCallCompleted = "tool_call.completed"
	EventTypeToolCallFailed    = "tool_call.failed"
	EventTypeToolCallCanceled  = "tool_call.canceled"
)

// Transient event types (NOTIFY only, no persistence).
const (
	// Streaming text/thinking deltas — high-frequency, ephemeral.
	EventTypeBlockDelta = "block.delta"
	// Streamed tool output chunks.
	EventTypeToolCallProgress = "tool_call.progress"
)

// ConversationChannel returns the channel name for a conversation's events.
// Format: "conversation:{conversation_id}"
func ConversationChannel(conversationID string) string {
	return "conversation:" + conversationID
}

// ClientMessage is the JSON structure for client → server WebSocket messages.
type ClientMessage struct {
	Action      string `json:"action"`                  // "subscribe", "unsubscribe", "catchup", "ping"
	Channel     string `json:"channel,omitempty"`       // Channel name (e.g., "conversation:abc-123")
	LastEventID *int   `json:"last_event_id,omitempty"` // For catchup
}
