package events

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryPublisherDeliversToBus(t *testing.T) {
	bus := NewBus()
	pub := NewInMemoryPublisher(bus)

	sub, err := bus.Subscribe(ConversationChannel("conv-1"))
	require.NoError(t, err)
	defer sub.Close()

	err = pub.PublishMessage(context.Background(), "conv-1", MessagePayload{
		Type:           EventTypeMessageCreated,
		ConversationID: "conv-1",
		MessageID:      "msg-1",
		Role:           "user",
		Status:         "queued",
		Timestamp:      Timestamp(),
	})
	require.NoError(t, err)

	select {
	case payload := <-sub.Events():
		var got MessagePayload
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, EventTypeMessageCreated, got.Type)
		assert.Equal(t, "msg-1", got.MessageID)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestInMemoryPublisherTransient(t *testing.T) {
	bus := NewBus()
	pub := NewInMemoryPublisher(bus)

	sub, err := bus.Subscribe(ConversationChannel("conv-1"))
	require.NoError(t, err)
	defer sub.Close()

	err = pub.PublishBlockDelta(context.Background(), "conv-1", BlockDeltaPayload{
		Type:           EventTypeBlockDelta,
		ConversationID: "conv-1",
		BlockID:        "blk-1",
		Delta:          "hello",
		Timestamp:      Timestamp(),
	})
	require.NoError(t, err)

	select {
	case payload := <-sub.Events():
		var got BlockDeltaPayload
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, "hello", got.Delta)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestInjectDBEventID(t *testing.T) {
	payload, err := json.Marshal(BlockEndPayload{
		Type:           EventTypeBlockEnd,
		ConversationID: "conv-1",
		BlockID:        "blk-1",
		Content:        "done",
	})
	require.NoError(t, err)

	notify, err := injectDBEventIDAndTruncate(payload, 42)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(notify), &got))
	assert.Equal(t, float64(42), got["db_event_id"])
	assert.Equal(t, "done", got["content"])
}

func TestTruncationEnvelope(t *testing.T) {
	payload, err := json.Marshal(BlockEndPayload{
		Type:           EventTypeBlockEnd,
		ConversationID: "conv-1",
		BlockID:        "blk-1",
		Content:        strings.Repeat("x", 9000),
	})
	require.NoError(t, err)

	notify, err := injectDBEventIDAndTruncate(payload, 7)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(notify), 7900)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(notify), &got))
	assert.Equal(t, true, got["truncated"])
	assert.Equal(t, EventTypeBlockEnd, got["type"])
	assert.Equal(t, "conv-1", got["conversation_id"])
	assert.Equal(t, float64(7), got["db_event_id"])
	// The oversized content must not ride along.
	_, hasContent := got["content"]
	assert.False(t, hasContent)
}

func TestTruncateNotNeeded(t *testing.T) {
	out, err := truncateIfNeeded(`{"type":"block.end"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"type":"block.end"}`, out)
}

func TestMarshalCatchupPayload(t *testing.T) {
	out, err := MarshalCatchupPayload(CatchupEvent{
		ID:      99,
		Payload: map[string]any{"type": EventTypePromptCompleted, "conversation_id": "conv-1"},
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, float64(99), got["db_event_id"])
	assert.Equal(t, EventTypePromptCompleted, got["type"])
}

func TestConversationChannel(t *testing.T) {
	assert.Equal(t, "conversation:abc-123", ConversationChannel("abc-123"))
}
