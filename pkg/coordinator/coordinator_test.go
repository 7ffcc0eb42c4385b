package coordinator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/ent/message"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/pkg/engine"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/provider"
	"github.com/parleyhq/parley/pkg/services"
	"github.com/parleyhq/parley/pkg/tools"
	testdb "github.com/parleyhq/parley/test/database"
)

type harness struct {
	coord    *Coordinator
	llm      *provider.ScriptedProvider
	bus      *events.Bus
	convs    *services.ConversationService
	messages *services.MessageService
	prompts  *services.PromptService
	blocks   *services.BlockService

	userID         string
	conversationID string
}

func newHarness(t *testing.T) *harness {
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
	executor := tools.NewExecutor(registry, toolCalls, blocks, publisher)
	llm := provider.NewScriptedProvider()
	eng := engine.New(llm, executor, prompts, blocks, toolCalls, publisher,
		engine.Config{ToolPollPeriod: 20 * time.Millisecond})

	coord := New(Config{
		PodID:        "test-pod",
		DefaultModel: "claude-sonnet-4-5",
		SystemPrompt: "you are helpful",
	}, eng, convs, messages, prompts, blocks, toolCalls, publisher, bus, registry.ProviderTools())
	t.Cleanup(coord.Stop)

	user, err := users.GetOrCreateUser(ctx, "coord@test.local", "Coord Test")
	require.NoError(t, err)
	conv, err := convs.CreateConversation(ctx, user.ID, "")
	require.NoError(t, err)

	return &harness{
		coord:          coord,
		llm:            llm,
		bus:            bus,
		convs:          convs,
		messages:       messages,
		prompts:        prompts,
		blocks:         blocks,
		userID:         user.ID,
		conversationID: conv.ID,
	}
}

// waitIdle waits until the conversation has no active prompt and no queued
// messages remain (or only queued remain after a failure).
func (h *harness) waitIdle(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		conv, err := h.convs.GetConversation(context.Background(), h.conversationID)
		if err != nil {
			return false
		}
		return conv.ActivePromptID == nil
	}, 10*time.Second, 25*time.Millisecond)
}

func TestCoordinatorSingleTurn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.llm.AddText("Hello there!")

	msg, err := h.coord.QueueMessage(ctx, h.conversationID, "hi")
	require.NoError(t, err)
	assert.Equal(t, message.StatusQueued, msg.Status)

	h.waitIdle(t)

	msgs, err := h.messages.ListMessages(ctx, h.conversationID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, message.RoleUser, msgs[0].Role)
	assert.Equal(t, message.StatusCompleted, msgs[0].Status)
	assert.Equal(t, message.RoleAssistant, msgs[1].Role)
	assert.Equal(t, message.StatusCompleted, msgs[1].Status)

	blks, err := h.blocks.MessageBlocks(ctx, msgs[1].ID)
	require.NoError(t, err)
	require.Len(t, blks, 1)
	assert.Equal(t, "Hello there!", blks[0].Content)

	// The default title comes from the first message.
	conv, err := h.convs.GetConversation(ctx, h.conversationID)
	require.NoError(t, err)
	require.NotNil(t, conv.Title)
	assert.Equal(t, "hi", *conv.Title)
}

func TestCoordinatorSerializesQueuedMessages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	h.llm.Add(provider.ScriptEntry{
		Events:  provider.TextTurn("first answer"),
		WaitCh:  release,
		OnBlock: started,
	})
	h.llm.AddText("second answer")

	_, err := h.coord.QueueMessage(ctx, h.conversationID, "first")
	require.NoError(t, err)
	<-started

	// Second message queues behind the active prompt.
	second, err := h.coord.QueueMessage(ctx, h.conversationID, "second")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		m, err := h.messages.GetMessage(ctx, second.ID)
		return err == nil && m.Status == message.StatusQueued
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, h.llm.CallCount())

	close(release)
	h.waitIdle(t)

	require.Eventually(t, func() bool {
		m, err := h.messages.GetMessage(ctx, second.ID)
		return err == nil && m.Status == message.StatusCompleted
	}, 10*time.Second, 25*time.Millisecond)
	assert.Equal(t, 2, h.llm.CallCount())

	// The second request's transcript includes the first exchange.
	reqs := h.llm.Requests()
	require.Len(t, reqs, 2)
	require.Len(t, reqs[1].Turns, 3)
	assert.Equal(t, provider.RoleUser, reqs[1].Turns[0].Role)
	assert.Equal(t, "first", reqs[1].Turns[0].Blocks[0].Text)
	assert.Equal(t, provider.RoleAssistant, reqs[1].Turns[1].Role)
	assert.Equal(t, "first answer", reqs[1].Turns[1].Blocks[0].Text)
	assert.Equal(t, "second", reqs[1].Turns[2].Blocks[0].Text)
}

func TestCoordinatorEditQueuedMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	h.llm.Add(provider.ScriptEntry{
		Events:  provider.TextTurn("busy"),
		WaitCh:  release,
		OnBlock: started,
	})
	h.llm.AddText("edited answer")

	_, err := h.coord.QueueMessage(ctx, h.conversationID, "first")
	require.NoError(t, err)
	<-started

	queued, err := h.coord.QueueMessage(ctx, h.conversationID, "original")
	require.NoError(t, err)

	require.NoError(t, h.coord.EditQueuedMessage(ctx, h.conversationID, queued.ID, "edited"))

	close(release)
	h.waitIdle(t)
	require.Eventually(t, func() bool {
		m, err := h.messages.GetMessage(ctx, queued.ID)
		return err == nil && m.Status == message.StatusCompleted
	}, 10*time.Second, 25*time.Millisecond)

	// The edited content is what reached the provider.
	reqs := h.llm.Requests()
	require.Len(t, reqs, 2)
	lastTurn := reqs[1].Turns[len(reqs[1].Turns)-1]
	assert.Equal(t, "edited", lastTurn.Blocks[0].Text)

	// Editing a processed message conflicts.
	msgs, err := h.messages.ListMessages(ctx, h.conversationID)
	require.NoError(t, err)
	err = h.coord.EditQueuedMessage(ctx, h.conversationID, msgs[0].ID, "too late")
	assert.ErrorIs(t, err, services.ErrConflict)
}

func TestCoordinatorDeleteQueuedMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	h.llm.Add(provider.ScriptEntry{
		Events:  provider.TextTurn("only answer"),
		WaitCh:  release,
		OnBlock: started,
	})

	_, err := h.coord.QueueMessage(ctx, h.conversationID, "keep me")
	require.NoError(t, err)
	<-started

	queued, err := h.coord.QueueMessage(ctx, h.conversationID, "delete me")
	require.NoError(t, err)
	require.NoError(t, h.coord.DeleteQueuedMessage(ctx, h.conversationID, queued.ID))

	close(release)
	h.waitIdle(t)

	// Only one provider call happened; the deleted message never ran.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, h.llm.CallCount())

	_, err = h.messages.GetMessage(ctx, queued.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCoordinatorFailureRequeuesUserMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.llm.Add(provider.ScriptEntry{Events: []provider.Event{
		provider.ErrorEvent("authentication failed", false),
	}})

	queued, err := h.coord.QueueMessage(ctx, h.conversationID, "doomed")
	require.NoError(t, err)

	h.waitIdle(t)

	// The user message is back in the queue; the assistant message errored;
	// no silent retry happened.
	require.Eventually(t, func() bool {
		m, err := h.messages.GetMessage(ctx, queued.ID)
		return err == nil && m.Status == message.StatusQueued
	}, 10*time.Second, 25*time.Millisecond)

	msgs, err := h.messages.ListMessages(ctx, h.conversationID)
	require.NoError(t, err)
	var sawErroredAssistant bool
	for _, m := range msgs {
		if m.Role == message.RoleAssistant && m.Status == message.StatusError {
			sawErroredAssistant = true
		}
	}
	assert.True(t, sawErroredAssistant)
	assert.Equal(t, 1, h.llm.CallCount())
}

func TestCoordinatorCancelActivePrompt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	started := make(chan struct{}, 1)
	h.llm.Add(provider.ScriptEntry{BlockUntilCancelled: true, OnBlock: started})

	_, err := h.coord.QueueMessage(ctx, h.conversationID, "cancel me")
	require.NoError(t, err)
	<-started

	conv, err := h.convs.GetConversation(ctx, h.conversationID)
	require.NoError(t, err)
	require.NotNil(t, conv.ActivePromptID)
	promptID := *conv.ActivePromptID

	assert.True(t, h.coord.CancelActivePrompt(h.conversationID))
	h.waitIdle(t)

	pr, err := h.prompts.GetPrompt(ctx, promptID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusError, pr.Status)
	assert.Equal(t, "canceled", pr.ErrorMessage)

	// Cancelling an idle conversation reports false.
	assert.False(t, h.coord.CancelActivePrompt(h.conversationID))
}

func TestCoordinatorStreamConversation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.llm.AddText("streamed")
	_, err := h.coord.QueueMessage(ctx, h.conversationID, "hello")
	require.NoError(t, err)
	h.waitIdle(t)

	snap, sub, err := h.coord.StreamConversation(ctx, h.conversationID, h.userID)
	require.NoError(t, err)
	defer sub.Close()

	require.Len(t, snap.Messages, 2)
	assert.Nil(t, snap.ActivePrompt)

	// Live events arrive on the subscription.
	h.bus.Deliver(events.ConversationChannel(h.conversationID), []byte(`{"type":"test"}`))
	select {
	case payload := <-sub.Events():
		assert.JSONEq(t, `{"type":"test"}`, string(payload))
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	// Ownership misses read as not found.
	_, _, err = h.coord.StreamConversation(ctx, h.conversationID, "someone-else")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCoordinatorRecoverOrphans(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// Simulate a crashed pod: a claimed active prompt with no running engine.
	userMsg, _, err := h.messages.QueueUserMessage(ctx, h.conversationID, "orphaned turn")
	require.NoError(t, err)
	require.NoError(t, h.messages.SetStatus(ctx, userMsg.ID, message.StatusCompleted))
	asst, err := h.messages.CreateAssistantMessage(ctx, h.conversationID)
	require.NoError(t, err)
	pr, err := h.prompts.CreatePrompt(ctx, h.conversationID, asst.ID, "claude-sonnet-4-5", "", nil)
	require.NoError(t, err)
	require.NoError(t, h.convs.ClaimActivePrompt(ctx, h.conversationID, pr.ID, "test-pod"))

	// Recovery re-queues the consumed user turn and resumes the queue.
	h.llm.AddText("recovered answer")

	require.NoError(t, h.coord.RecoverOrphans(ctx))

	require.Eventually(t, func() bool {
		m, err := h.messages.GetMessage(ctx, userMsg.ID)
		return err == nil && m.Status == message.StatusCompleted && h.llm.CallCount() == 1
	}, 10*time.Second, 25*time.Millisecond)
	h.waitIdle(t)

	recovered, err := h.prompts.GetPrompt(ctx, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, prompt.StatusError, recovered.Status)
	assert.Equal(t, "orphaned by restart", recovered.ErrorMessage)

	asstAfter, err := h.messages.GetMessage(ctx, asst.ID)
	require.NoError(t, err)
	assert.Equal(t, message.StatusError, asstAfter.Status)

	conv, err := h.convs.GetConversation(ctx, h.conversationID)
	require.NoError(t, err)
	assert.Nil(t, conv.ActivePromptID)
}

func TestCoordinatorAttachDuringStreamReplaysOpenBlocks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	delivered := make(chan struct{}, 1)
	h.llm.Add(provider.ScriptEntry{
		Events: []provider.Event{
			{Type: provider.EventMessageStart},
			{Type: provider.EventContentBlockStart, Index: 0, BlockType: provider.BlockText},
			{Type: provider.EventContentBlockDelta, Index: 0, Delta: provider.DeltaText, Text: "Partial"},
		},
		HoldOpen: true,
		OnBlock:  delivered,
	})

	_, err := h.coord.QueueMessage(ctx, h.conversationID, "stream this")
	require.NoError(t, err)
	<-delivered

	// Wait until the partial content is persisted.
	require.Eventually(t, func() bool {
		msgs, err := h.messages.ListMessages(ctx, h.conversationID)
		if err != nil || len(msgs) < 2 {
			return false
		}
		blks, err := h.blocks.MessageBlocks(ctx, msgs[1].ID)
		return err == nil && len(blks) == 1 && blks[0].Content == "Partial"
	}, 10*time.Second, 25*time.Millisecond)

	snap, stream, err := h.coord.StreamConversation(ctx, h.conversationID, h.userID)
	require.NoError(t, err)
	defer stream.Close()
	require.NotNil(t, snap.ActivePrompt)

	var types []string
	var delta string
	for i := 0; i < 3; i++ {
		select {
		case payload := <-stream.Events():
			var ev map[string]any
			require.NoError(t, json.Unmarshal(payload, &ev))
			types = append(types, ev["type"].(string))
			if ev["type"] == "block.delta" {
				delta, _ = ev["delta"].(string)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("expected 3 replay events, got %v", types)
		}
	}
	assert.Equal(t, []string{"prompt.started", "block.start", "block.delta"}, types)
	assert.Equal(t, "Partial", delta)
}
