package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/message"
	"github.com/parleyhq/parley/pkg/provider"
	"github.com/parleyhq/parley/pkg/services"
)

// historyTurns renders completed messages as the provider transcript. An
// assistant message whose prompt went through tool rounds flattens back into
// the alternating assistant / tool_result-user turn structure the provider
// expects: blocks accumulate into an assistant turn until a tool_result
// appears, which opens a user turn holding the results.
func historyTurns(msgs []*ent.Message) ([]provider.Turn, error) {
	var turns []provider.Turn
	for _, msg := range msgs {
		if msg.Status != message.StatusCompleted {
			continue
		}
		switch msg.Role {
		case message.RoleUser:
			text := concatText(msg.Edges.Blocks)
			if text == "" {
				continue
			}
			turns = append(turns, provider.Turn{
				Role:   provider.RoleUser,
				Blocks: []provider.TurnBlock{{Type: provider.BlockText, Text: text}},
			})
		case message.RoleAssistant:
			assistantTurns, err := assistantHistory(msg.Edges.Blocks)
			if err != nil {
				return nil, fmt.Errorf("message %s: %w", msg.ID, err)
			}
			turns = append(turns, assistantTurns...)
		case message.RoleSystem:
			// System content rides in the request's system field, not the
			// transcript.
			continue
		}
	}
	return turns, nil
}

func concatText(blocks []*ent.Block) string {
	out := ""
	for _, b := range blocks {
		if b.Type == block.TypeText {
			out += b.Content
		}
	}
	return out
}

func assistantHistory(blocks []*ent.Block) ([]provider.Turn, error) {
	var turns []provider.Turn
	var current []provider.TurnBlock
	var results []provider.TurnBlock

	flushAssistant := func() {
		if len(current) > 0 {
			turns = append(turns, provider.Turn{Role: provider.RoleAssistant, Blocks: current})
			current = nil
		}
	}
	flushResults := func() {
		if len(results) > 0 {
			turns = append(turns, provider.Turn{Role: provider.RoleUser, Blocks: results})
			results = nil
		}
	}

	for _, b := range blocks {
		switch b.Type {
		case block.TypeText:
			flushResults()
			if b.Content != "" {
				current = append(current, provider.TurnBlock{Type: provider.BlockText, Text: b.Content})
			}
		case block.TypeToolUse:
			flushResults()
			input := b.Content
			if input == "" {
				input = "{}"
			}
			if !json.Valid([]byte(input)) {
				input = "{}"
			}
			current = append(current, provider.TurnBlock{
				Type:      provider.BlockToolUse,
				ToolUseID: metadataString(b.Metadata, "tool_use_id"),
				ToolName:  metadataString(b.Metadata, "tool_name"),
				Input:     json.RawMessage(input),
			})
		case block.TypeToolResult:
			flushAssistant()
			results = append(results, provider.TurnBlock{
				Type:      provider.BlockToolResult,
				ToolUseID: metadataString(b.Metadata, "tool_use_id"),
				Content:   b.Content,
			})
		case block.TypeThinking, block.TypeAttachment:
			// Not replayed to the provider.
		default:
			return nil, fmt.Errorf("unknown block type %q", b.Type)
		}
	}
	flushAssistant()
	flushResults()
	return turns, nil
}

func metadataString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Snapshot is the full current state of a conversation: every message with
// its ordered blocks, plus the active prompt when one is running. Streaming
// clients start from a snapshot and apply live events on top; open blocks
// appear with their streamed-so-far content.
type Snapshot struct {
	Conversation *ent.Conversation `json:"conversation"`
	Messages     []*ent.Message    `json:"messages"`
	ActivePrompt *ent.Prompt       `json:"active_prompt,omitempty"`
}

// GetConversation returns a snapshot, verifying ownership.
func (c *Coordinator) GetConversation(ctx context.Context, conversationID, userID string) (*Snapshot, error) {
	conv, err := c.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		// Ownership misses read as absence, so ids stay unguessable.
		return nil, services.ErrNotFound
	}

	msgs, err := c.messages.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Conversation: conv, Messages: msgs}
	if conv.ActivePromptID != nil {
		pr, err := c.prompts.GetPrompt(ctx, *conv.ActivePromptID)
		if err == nil {
			snap.ActivePrompt = pr
		}
	}
	return snap, nil
}
