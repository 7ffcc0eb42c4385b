package coordinator

import (
	"encoding/json"
	"log/slog"

	"github.com/parleyhq/parley/pkg/events"
)

// Stream is a live event feed for one conversation. When a prompt is active
// at attach time, the feed starts with synthetic prompt.started and
// block.start/block.delta events reconstructing the in-flight state, so an
// observer can render the conversation from events alone; real-time events
// follow.
type Stream struct {
	sub *events.Subscription
	ch  chan []byte
}

// Events returns the event stream. Closed when the subscription ends.
func (s *Stream) Events() <-chan []byte {
	return s.ch
}

// Overflowed reports whether the feed closed because the consumer fell too
// far behind; consumers should re-attach for a fresh snapshot.
func (s *Stream) Overflowed() bool {
	return s.sub.Overflowed()
}

// Close detaches from the bus.
func (s *Stream) Close() {
	s.sub.Close()
}

// newStream prepends the synthetic replay ahead of live bus events.
func newStream(sub *events.Subscription, replay [][]byte) *Stream {
	st := &Stream{sub: sub, ch: make(chan []byte, len(replay))}
	for _, payload := range replay {
		st.ch <- payload
	}
	go func() {
		defer close(st.ch)
		for payload := range sub.Events() {
			st.ch <- payload
		}
	}()
	return st
}

// replayEvents reconstructs the active prompt's in-flight state as event
// payloads: prompt.started, then block.start plus a block.delta carrying
// the streamed-so-far content for each non-finalized block.
func replayEvents(snap *Snapshot) [][]byte {
	pr := snap.ActivePrompt
	if pr == nil {
		return nil
	}

	var out [][]byte
	appendPayload := func(v any) {
		data, err := json.Marshal(v)
		if err != nil {
			slog.Warn("Failed to marshal replay event", "prompt_id", pr.ID, "error", err)
			return
		}
		out = append(out, data)
	}

	conversationID := snap.Conversation.ID
	appendPayload(events.PromptPayload{
		Type:           events.EventTypePromptStarted,
		ConversationID: conversationID,
		PromptID:       pr.ID,
		MessageID:      pr.MessageID,
		Model:          pr.Model,
		Timestamp:      events.Timestamp(),
	})

	for _, msg := range snap.Messages {
		if msg.ID != pr.MessageID {
			continue
		}
		for _, b := range msg.Edges.Blocks {
			if b.IsFinalized {
				continue
			}
			appendPayload(events.BlockStartPayload{
				Type:           events.EventTypeBlockStart,
				ConversationID: conversationID,
				PromptID:       pr.ID,
				MessageID:      msg.ID,
				BlockID:        b.ID,
				BlockType:      b.Type,
				Order:          b.Order,
				Metadata:       b.Metadata,
				Timestamp:      events.Timestamp(),
			})
			if b.Content != "" {
				appendPayload(events.BlockDeltaPayload{
					Type:           events.EventTypeBlockDelta,
					ConversationID: conversationID,
					BlockID:        b.ID,
					Delta:          b.Content,
					Timestamp:      events.Timestamp(),
				})
			}
		}
	}
	return out
}
