package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/provider"
)

// blockState tracks one in-flight content block keyed by the provider's
// stream index.
type blockState struct {
	row       *ent.Block
	blockType provider.BlockType
	toolUseID string
	toolName  string
	// content accumulates text deltas for text/thinking blocks and partial
	// JSON fragments for tool_use blocks.
	content strings.Builder
}

// streamHandler materializes one provider stream: it appends every event to
// the prompt's replay log, maintains open blocks, accumulates tool input
// JSON, and creates tool call rows at block stop. The same handler drives
// both live streams and log replay — replay just runs with persistence and
// dispatch disabled.
type streamHandler struct {
	eng *Engine

	conversationID string
	promptID       string
	messageID      string

	// nextIndex is the next free slot in the prompt's event log. It spans
	// continuation calls, so the log stays contiguous per prompt.
	nextIndex int

	// persist and dispatch are disabled during replay.
	persist  bool
	dispatch func(tc *ent.ToolCall)

	open       map[int]*blockState
	hasTools   bool
	turnBlocks []provider.TurnBlock
	toolCalls  []*ent.ToolCall
	eventsSeen int
	stopped    bool
}

func (e *Engine) newStreamHandler(conversationID, promptID, messageID string, nextIndex int, dispatch func(tc *ent.ToolCall)) *streamHandler {
	return &streamHandler{
		eng:            e,
		conversationID: conversationID,
		promptID:       promptID,
		messageID:      messageID,
		nextIndex:      nextIndex,
		persist:        true,
		dispatch:       dispatch,
		open:           make(map[int]*blockState),
	}
}

// resetAttempt clears per-provider-call state before a continuation call.
// The event index keeps counting.
func (h *streamHandler) resetAttempt() {
	h.open = make(map[int]*blockState)
	h.hasTools = false
	h.turnBlocks = nil
	h.toolCalls = nil
	h.eventsSeen = 0
	h.stopped = false
}

// handleEvent processes one provider event. An error event is returned as a
// streamError; every other failure is a persistence problem.
func (h *streamHandler) handleEvent(ctx context.Context, ev provider.Event) error {
	if ev.Type == provider.EventError {
		return &streamError{event: ev}
	}

	h.eventsSeen++
	if h.persist {
		payload, err := eventToMap(ev)
		if err != nil {
			return err
		}
		if _, err := h.eng.prompts.AppendEvent(ctx, h.promptID, h.nextIndex, string(ev.Type), payload); err != nil {
			return fmt.Errorf("failed to append prompt event %d: %w", h.nextIndex, err)
		}
		h.nextIndex++
	}

	switch ev.Type {
	case provider.EventMessageStart, provider.EventMessageDelta:
		return nil
	case provider.EventContentBlockStart:
		return h.onBlockStart(ctx, ev)
	case provider.EventContentBlockDelta:
		return h.onBlockDelta(ctx, ev)
	case provider.EventContentBlockStop:
		return h.onBlockStop(ctx, ev)
	case provider.EventMessageStop:
		h.stopped = true
		return nil
	default:
		slog.Warn("Unknown provider event type", "type", ev.Type, "prompt_id", h.promptID)
		return nil
	}
}

func (h *streamHandler) onBlockStart(ctx context.Context, ev provider.Event) error {
	st := &blockState{
		blockType: ev.BlockType,
		toolUseID: ev.ToolUseID,
		toolName:  ev.ToolName,
	}

	var entType block.Type
	var metadata map[string]any
	switch ev.BlockType {
	case provider.BlockText:
		entType = block.TypeText
	case provider.BlockThinking:
		entType = block.TypeThinking
	case provider.BlockToolUse:
		entType = block.TypeToolUse
		metadata = map[string]any{
			"tool_name":   ev.ToolName,
			"tool_use_id": ev.ToolUseID,
		}
		h.hasTools = true
	default:
		return fmt.Errorf("unsupported content block type %q", ev.BlockType)
	}

	if h.persist {
		row, err := h.eng.blocks.CreateBlock(ctx, h.messageID, h.promptID, entType, metadata)
		if err != nil {
			return fmt.Errorf("failed to create block: %w", err)
		}
		st.row = row
		h.publishBlockStart(ctx, row, metadata)
	}
	h.open[ev.Index] = st
	return nil
}

func (h *streamHandler) onBlockDelta(ctx context.Context, ev provider.Event) error {
	st, ok := h.open[ev.Index]
	if !ok {
		return fmt.Errorf("delta for unknown block index %d", ev.Index)
	}

	switch ev.Delta {
	case provider.DeltaText, provider.DeltaThinking:
		chunk := ev.Text
		if ev.Delta == provider.DeltaThinking {
			chunk = ev.Thinking
		}
		st.content.WriteString(chunk)
		if h.persist && st.row != nil {
			if err := h.eng.blocks.AppendContent(ctx, st.row.ID, chunk); err != nil {
				return fmt.Errorf("failed to append block content: %w", err)
			}
			h.publishBlockDelta(ctx, st.row.ID, chunk)
		}
	case provider.DeltaInputJSON:
		// Partial JSON accumulates in memory only; the parsed input is
		// persisted once at block stop.
		st.content.WriteString(ev.PartialJSON)
	default:
		return fmt.Errorf("unsupported delta type %q", ev.Delta)
	}
	return nil
}

func (h *streamHandler) onBlockStop(ctx context.Context, ev provider.Event) error {
	st, ok := h.open[ev.Index]
	if !ok {
		return fmt.Errorf("stop for unknown block index %d", ev.Index)
	}
	delete(h.open, ev.Index)

	if st.blockType == provider.BlockToolUse {
		return h.finishToolUseBlock(ctx, st)
	}

	content := st.content.String()
	if h.persist && st.row != nil {
		row, err := h.eng.blocks.Finalize(ctx, st.row.ID, &content, nil)
		if err != nil {
			return fmt.Errorf("failed to finalize block: %w", err)
		}
		h.publishBlockEnd(ctx, row)
	}

	// Thinking blocks stay out of the echo turn; the provider rejects
	// replayed thinking content without its signature.
	if st.blockType == provider.BlockText {
		h.turnBlocks = append(h.turnBlocks, provider.TurnBlock{
			Type: provider.BlockText,
			Text: content,
		})
	}
	return nil
}

// finishToolUseBlock parses the accumulated input JSON and creates the tool
// call row. A parse failure creates the row in state error so the
// continuation still carries a result for this tool_use id; the prompt is
// never aborted over a malformed input.
func (h *streamHandler) finishToolUseBlock(ctx context.Context, st *blockState) error {
	raw := strings.TrimSpace(st.content.String())
	if raw == "" {
		raw = "{}"
	}

	var input map[string]any
	parseErr := json.Unmarshal([]byte(raw), &input)

	if h.persist && st.row != nil {
		if _, err := h.eng.blocks.Finalize(ctx, st.row.ID, &raw, nil); err != nil {
			return fmt.Errorf("failed to finalize tool_use block: %w", err)
		}
		h.publishBlockEnd(ctx, st.row)
	}

	echoInput := json.RawMessage(raw)
	if parseErr != nil {
		echoInput = json.RawMessage("{}")
	}
	h.turnBlocks = append(h.turnBlocks, provider.TurnBlock{
		Type:      provider.BlockToolUse,
		ToolUseID: st.toolUseID,
		ToolName:  st.toolName,
		Input:     echoInput,
	})

	if !h.persist {
		return nil
	}

	blockID := ""
	if st.row != nil {
		blockID = st.row.ID
	}

	var tc *ent.ToolCall
	var err error
	if parseErr != nil {
		errMsg := fmt.Sprintf("invalid tool input JSON: %v", parseErr)
		slog.Warn("Tool input JSON failed to parse",
			"prompt_id", h.promptID, "tool_name", st.toolName, "error", parseErr)
		tc, err = h.eng.toolCalls.CreateErrored(ctx, h.promptID, blockID, st.toolUseID, st.toolName, errMsg)
		if err != nil {
			return fmt.Errorf("failed to record unparseable tool call: %w", err)
		}
		h.publishToolCallFailed(ctx, tc)
		// The executor never runs for this call, so its tool_result block is
		// written here; every persisted tool_use must pair with a result.
		if err := h.recordErroredResult(ctx, tc, errMsg); err != nil {
			return err
		}
	} else {
		tc, err = h.eng.toolCalls.CreateToolCall(ctx, h.promptID, blockID, st.toolUseID, st.toolName, input)
		if err != nil {
			return fmt.Errorf("failed to create tool call: %w", err)
		}
		if h.dispatch != nil {
			h.dispatch(tc)
		}
	}
	h.toolCalls = append(h.toolCalls, tc)
	return nil
}

// recordErroredResult writes the finalized tool_result block for a call that
// never reached the executor.
func (h *streamHandler) recordErroredResult(ctx context.Context, tc *ent.ToolCall, message string) error {
	row, err := h.eng.blocks.CreateBlock(ctx, h.messageID, h.promptID, block.TypeToolResult, map[string]any{
		"tool_use_id": tc.APIToolCallID,
		"tool_name":   tc.ToolName,
	})
	if err != nil {
		return fmt.Errorf("failed to create errored result block: %w", err)
	}
	h.publishBlockStart(ctx, row, row.Metadata)

	content := "Error: " + message
	row, err = h.eng.blocks.Finalize(ctx, row.ID, &content, nil)
	if err != nil {
		return fmt.Errorf("failed to finalize errored result block: %w", err)
	}
	h.publishBlockEnd(ctx, row)
	return nil
}

// finalizeOpenBlocks freezes whatever blocks remain open, preserving their
// streamed content. Called when a prompt fails or is cancelled mid-stream.
func (h *streamHandler) finalizeOpenBlocks(ctx context.Context) {
	for idx, st := range h.open {
		delete(h.open, idx)
		if st.row == nil {
			continue
		}
		content := st.content.String()
		row, err := h.eng.blocks.Finalize(ctx, st.row.ID, &content, nil)
		if err != nil {
			slog.Error("Failed to finalize interrupted block", "block_id", st.row.ID, "error", err)
			continue
		}
		h.publishBlockEnd(ctx, row)
	}
}

func (h *streamHandler) publishBlockStart(ctx context.Context, row *ent.Block, metadata map[string]any) {
	if h.eng.publisher == nil {
		return
	}
	err := h.eng.publisher.PublishBlockStart(ctx, h.conversationID, events.BlockStartPayload{
		Type:           events.EventTypeBlockStart,
		ConversationID: h.conversationID,
		PromptID:       h.promptID,
		MessageID:      h.messageID,
		BlockID:        row.ID,
		BlockType:      row.Type,
		Order:          row.Order,
		Metadata:       metadata,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish block.start", "block_id", row.ID, "error", err)
	}
}

func (h *streamHandler) publishBlockDelta(ctx context.Context, blockID, delta string) {
	if h.eng.publisher == nil {
		return
	}
	err := h.eng.publisher.PublishBlockDelta(ctx, h.conversationID, events.BlockDeltaPayload{
		Type:           events.EventTypeBlockDelta,
		ConversationID: h.conversationID,
		BlockID:        blockID,
		Delta:          delta,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish block.delta", "block_id", blockID, "error", err)
	}
}

func (h *streamHandler) publishBlockEnd(ctx context.Context, row *ent.Block) {
	if h.eng.publisher == nil {
		return
	}
	err := h.eng.publisher.PublishBlockEnd(ctx, h.conversationID, events.BlockEndPayload{
		Type:           events.EventTypeBlockEnd,
		ConversationID: h.conversationID,
		BlockID:        row.ID,
		BlockType:      row.Type,
		Content:        row.Content,
		Metadata:       row.Metadata,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish block.end", "block_id", row.ID, "error", err)
	}
}

func (h *streamHandler) publishToolCallFailed(ctx context.Context, tc *ent.ToolCall) {
	if h.eng.publisher == nil {
		return
	}
	err := h.eng.publisher.PublishToolCall(ctx, h.conversationID, events.ToolCallPayload{
		Type:           events.EventTypeToolCallFailed,
		ConversationID: h.conversationID,
		PromptID:       tc.PromptID,
		ToolCallID:     tc.ID,
		BlockID:        tc.BlockID,
		ToolName:       tc.ToolName,
		State:          tc.State,
		ErrorMessage:   tc.ErrorMessage,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish tool_call.failed", "tool_call_id", tc.ID, "error", err)
	}
}

// streamError wraps a provider error event so the run loop can decide
// between retry and escalation.
type streamError struct {
	event provider.Event
}

func (e *streamError) Error() string {
	if e.event.Err != nil {
		return e.event.Err.Error()
	}
	return e.event.ErrorMessage
}

func (e *streamError) Retryable() bool {
	return e.event.Retryable
}

// eventToMap renders a provider event as the JSON object stored in the
// replay log.
func eventToMap(ev provider.Event) (map[string]any, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal provider event: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal provider event: %w", err)
	}
	return m, nil
}

// eventFromMap is the inverse of eventToMap, used for log replay.
func eventFromMap(m map[string]any) (provider.Event, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return provider.Event{}, fmt.Errorf("failed to marshal stored event: %w", err)
	}
	var ev provider.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return provider.Event{}, fmt.Errorf("failed to unmarshal stored event: %w", err)
	}
	return ev, nil
}

