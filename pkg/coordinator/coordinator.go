// Package coordinator owns the per-conversation message queue, the
// single-active-prompt invariant, and the lifecycle of prompt engine runs.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/message"
	"github.com/parleyhq/parley/pkg/engine"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/provider"
	"github.com/parleyhq/parley/pkg/services"
)

// Config holds coordinator parameters.
type Config struct {
	// PodID identifies this process in active-prompt claims, so restarts
	// can find and fail their own orphans.
	PodID string
	// DefaultModel is the model used for new prompts.
	DefaultModel string
	// SystemPrompt is sent with every provider request.
	SystemPrompt string
	// MaxTokens caps provider responses (0 uses the provider default).
	MaxTokens int
}

// Coordinator schedules prompt engine runs: one per conversation at a time,
// conversations in parallel. It owns queue processing and the cancel
// registry for active runs.
type Coordinator struct {
	cfg Config

	engine        *engine.Engine
	conversations *services.ConversationService
	messages      *services.MessageService
	prompts       *services.PromptService
	blocks        *services.BlockService
	toolCalls     *services.ToolCallService
	publisher     *events.Publisher
	bus           *events.Bus
	registryTools []provider.Tool

	mu      sync.Mutex
	active  map[string]context.CancelFunc // conversation id → engine cancel
	stopped bool
	wg      sync.WaitGroup
}

// New creates a coordinator. providerTools is the tool advertisement sent
// with every request (tools.Registry.ProviderTools()).
func New(cfg Config, eng *engine.Engine, conversations *services.ConversationService,
	messages *services.MessageService, prompts *services.PromptService,
	blocks *services.BlockService, toolCalls *services.ToolCallService,
	publisher *events.Publisher, bus *events.Bus, providerTools []provider.Tool) *Coordinator {
	return &Coordinator{
		cfg:           cfg,
		engine:        eng,
		conversations: conversations,
		messages:      messages,
		prompts:       prompts,
		blocks:        blocks,
		toolCalls:     toolCalls,
		publisher:     publisher,
		bus:           bus,
		registryTools: providerTools,
		active:        make(map[string]context.CancelFunc),
	}
}

// StreamConversation subscribes to the conversation's live events and
// returns the current snapshot. The subscription attaches before the
// snapshot read, so nothing published in between is lost — clients apply
// events on top of the snapshot idempotently. When a prompt is streaming at
// attach time, the returned stream opens with a synthetic replay of its
// in-flight state.
func (c *Coordinator) StreamConversation(ctx context.Context, conversationID, userID string) (*Snapshot, *Stream, error) {
	sub, err := c.bus.Subscribe(events.ConversationChannel(conversationID))
	if err != nil {
		return nil, nil, err
	}
	snap, err := c.GetConversation(ctx, conversationID, userID)
	if err != nil {
		sub.Close()
		return nil, nil, err
	}
	return snap, newStream(sub, replayEvents(snap)), nil
}

// QueueMessage enqueues a user message and kicks queue processing. The
// message starts streaming immediately when the conversation is idle and
// waits its turn otherwise.
func (c *Coordinator) QueueMessage(ctx context.Context, conversationID, content string) (*ent.Message, error) {
	msg, blk, err := c.messages.QueueUserMessage(ctx, conversationID, content)
	if err != nil {
		return nil, err
	}

	if err := c.conversations.SetTitleIfEmpty(ctx, conversationID, content); err != nil {
		slog.Warn("Failed to set default conversation title", "conversation_id", conversationID, "error", err)
	}

	c.publishMessage(ctx, conversationID, msg, events.EventTypeMessageCreated, blk.Content)
	c.ProcessQueue(conversationID)
	return msg, nil
}

// EditQueuedMessage replaces a queued message's content. Fails with
// ErrConflict once processing started.
func (c *Coordinator) EditQueuedMessage(ctx context.Context, conversationID, messageID, content string) error {
	if err := c.messages.EditQueuedMessage(ctx, messageID, content); err != nil {
		return err
	}
	msg, err := c.messages.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	c.publishMessage(ctx, conversationID, msg, events.EventTypeMessageUpdated, content)
	return nil
}

// DeleteQueuedMessage removes a queued message. Fails with ErrConflict once
// processing started.
func (c *Coordinator) DeleteQueuedMessage(ctx context.Context, conversationID, messageID string) error {
	msg, err := c.messages.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if err := c.messages.DeleteQueuedMessage(ctx, messageID); err != nil {
		return err
	}
	c.publishMessage(ctx, conversationID, msg, events.EventTypeMessageDeleted, "")
	return nil
}

// ProcessQueue starts the next queued message of a conversation if no
// prompt is active. Safe to call at any time; the active-prompt claim is
// the only gate, so concurrent calls race harmlessly.
func (c *Coordinator) ProcessQueue(conversationID string) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		if err := c.startNext(context.Background(), conversationID); err != nil {
			slog.Error("Queue processing failed", "conversation_id", conversationID, "error", err)
		}
	}()
}

// startNext performs the claim step: pick the head queued message, create
// the assistant message and prompt, and take the active-prompt slot. The
// conditional UPDATE inside ClaimActivePrompt is what makes concurrent
// claims safe — losers roll their speculative rows back.
func (c *Coordinator) startNext(ctx context.Context, conversationID string) error {
	userMsg, err := c.messages.NextQueued(ctx, conversationID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil
		}
		return err
	}

	asst, err := c.messages.CreateAssistantMessage(ctx, conversationID)
	if err != nil {
		return err
	}

	pr, err := c.prompts.CreatePrompt(ctx, conversationID, asst.ID, c.cfg.DefaultModel, c.cfg.SystemPrompt,
		map[string]any{"model": c.cfg.DefaultModel, "max_tokens": c.cfg.MaxTokens})
	if err != nil {
		return err
	}

	if err := c.conversations.ClaimActivePrompt(ctx, conversationID, pr.ID, c.cfg.PodID); err != nil {
		// Lost the race: another prompt is active. Drop the speculative rows.
		if errors.Is(err, services.ErrConflict) {
			if ferr := c.prompts.Fail(ctx, pr.ID, "superseded before start"); ferr != nil {
				slog.Error("Failed to mark superseded prompt", "prompt_id", pr.ID, "error", ferr)
			}
			if serr := c.messages.SetStatus(ctx, asst.ID, message.StatusError); serr != nil {
				slog.Error("Failed to mark superseded assistant message", "message_id", asst.ID, "error", serr)
			}
			return nil
		}
		return err
	}

	if err := c.messages.SetStatus(ctx, userMsg.ID, message.StatusCompleted); err != nil {
		return err
	}
	c.publishMessageByID(ctx, conversationID, userMsg.ID, events.EventTypeMessageUpdated)

	// The transcript is built after the user message completes, so it is
	// the final turn of the request.
	req, err := c.buildRequest(ctx, conversationID)
	if err != nil {
		if ferr := c.prompts.Fail(ctx, pr.ID, err.Error()); ferr != nil {
			slog.Error("Failed to mark prompt errored", "prompt_id", pr.ID, "error", ferr)
		}
		c.releaseFailed(ctx, conversationID, pr.ID, asst.ID, userMsg.ID)
		return err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		cancel()
		c.releaseFailed(ctx, conversationID, pr.ID, asst.ID, userMsg.ID)
		return nil
	}
	c.active[conversationID] = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	go c.runPrompt(runCtx, cancel, conversationID, pr.ID, asst.ID, userMsg.ID, req)
	return nil
}

// runPrompt drives one engine run and settles the conversation afterwards.
func (c *Coordinator) runPrompt(ctx context.Context, cancel context.CancelFunc,
	conversationID, promptID, assistantID, userMsgID string, req *provider.Request) {
	defer c.wg.Done()
	defer cancel()

	runErr := c.engine.Run(ctx, engine.RunParams{
		ConversationID:     conversationID,
		PromptID:           promptID,
		AssistantMessageID: assistantID,
		Request:            req,
	})

	// Settlement must not be lost to the cancelled run context.
	sctx := context.WithoutCancel(ctx)

	c.mu.Lock()
	delete(c.active, conversationID)
	c.mu.Unlock()

	if runErr != nil {
		slog.Error("Prompt run failed", "conversation_id", conversationID, "prompt_id", promptID, "error", runErr)
		c.releaseFailed(sctx, conversationID, promptID, assistantID, userMsgID)
		return
	}

	if err := c.messages.SetStatus(sctx, assistantID, message.StatusCompleted); err != nil {
		slog.Error("Failed to complete assistant message", "message_id", assistantID, "error", err)
	}
	c.publishMessageByID(sctx, conversationID, assistantID, events.EventTypeMessageUpdated)

	if err := c.conversations.ReleaseActivePrompt(sctx, conversationID, promptID); err != nil {
		slog.Error("Failed to release active prompt", "conversation_id", conversationID, "error", err)
	}

	// More messages may have queued up while this one streamed.
	c.ProcessQueue(conversationID)
}

// releaseFailed applies the failure contract: assistant message errored,
// user message re-queued for resubmission, slot released. No auto-retry.
func (c *Coordinator) releaseFailed(ctx context.Context, conversationID, promptID, assistantID, userMsgID string) {
	if err := c.messages.SetStatus(ctx, assistantID, message.StatusError); err != nil {
		slog.Error("Failed to mark assistant message errored", "message_id", assistantID, "error", err)
	}
	c.publishMessageByID(ctx, conversationID, assistantID, events.EventTypeMessageUpdated)

	if err := c.messages.Requeue(ctx, userMsgID); err != nil {
		slog.Error("Failed to requeue user message", "message_id", userMsgID, "error", err)
	}
	c.publishMessageByID(ctx, conversationID, userMsgID, events.EventTypeMessageUpdated)

	if err := c.conversations.ReleaseActivePrompt(ctx, conversationID, promptID); err != nil {
		slog.Error("Failed to release active prompt", "conversation_id", conversationID, "error", err)
	}
}

// CancelActivePrompt aborts the conversation's running prompt, if this pod
// owns one. The engine's cancellation path marks tool calls canceled and
// the prompt errored with reason "canceled".
func (c *Coordinator) CancelActivePrompt(conversationID string) bool {
	c.mu.Lock()
	cancel, ok := c.active[conversationID]
	c.mu.Unlock()
	if !ok {
		return false
	}
	cancel()
	return true
}

// ActivePromptID returns the conversation's active prompt id, or empty.
func (c *Coordinator) ActivePromptID(ctx context.Context, conversationID string) (string, error) {
	conv, err := c.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return "", err
	}
	if conv.ActivePromptID == nil {
		return "", nil
	}
	return *conv.ActivePromptID, nil
}

// RecoverOrphans fails prompts left active by a previous run of this pod,
// cancels their in-flight tool calls, and releases the active-prompt slot
// so queued messages can proceed. Called once at startup, before serving.
func (c *Coordinator) RecoverOrphans(ctx context.Context) error {
	orphaned, err := c.conversations.OrphanedByPod(ctx, c.cfg.PodID)
	if err != nil {
		return err
	}
	for _, conv := range orphaned {
		if conv.ActivePromptID == nil {
			continue
		}
		promptID := *conv.ActivePromptID
		pr, err := c.prompts.GetPrompt(ctx, promptID)
		if err != nil {
			slog.Error("Failed to load orphaned prompt", "prompt_id", promptID, "error", err)
			continue
		}
		slog.Warn("Recovering orphaned prompt", "conversation_id", conv.ID, "prompt_id", promptID, "status", pr.Status)

		calls, err := c.toolCalls.PromptToolCalls(ctx, promptID)
		if err == nil {
			for _, tc := range calls {
				if !services.IsTerminal(tc.State) {
					if cerr := c.toolCalls.Cancel(ctx, tc.ID); cerr != nil {
						slog.Error("Failed to cancel orphaned tool call", "tool_call_id", tc.ID, "error", cerr)
					}
				}
			}
		}

		if err := c.prompts.Fail(ctx, promptID, "orphaned by restart"); err != nil {
			slog.Error("Failed to fail orphaned prompt", "prompt_id", promptID, "error", err)
			continue
		}
		if err := c.messages.SetStatus(ctx, pr.MessageID, message.StatusError); err != nil {
			slog.Error("Failed to mark orphaned assistant message", "message_id", pr.MessageID, "error", err)
		}
		c.requeueLastUserMessage(ctx, conv.ID)
		if err := c.conversations.ReleaseActivePrompt(ctx, conv.ID, promptID); err != nil {
			slog.Error("Failed to release orphaned prompt slot", "conversation_id", conv.ID, "error", err)
		}
		c.publishPromptFailed(ctx, conv.ID, promptID, pr.MessageID, "orphaned by restart")

		// Resume any messages that queued up behind the orphan.
		c.ProcessQueue(conv.ID)
	}
	return nil
}

// requeueLastUserMessage puts the most recent completed user message back
// at the head of the queue. Orphan recovery uses it to restore the turn the
// crashed prompt had consumed, matching the in-process failure contract.
func (c *Coordinator) requeueLastUserMessage(ctx context.Context, conversationID string) {
	msgs, err := c.messages.ListMessages(ctx, conversationID)
	if err != nil {
		slog.Error("Failed to list messages for orphan requeue", "conversation_id", conversationID, "error", err)
		return
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == message.RoleUser && msgs[i].Status == message.StatusCompleted {
			if err := c.messages.Requeue(ctx, msgs[i].ID); err != nil {
				slog.Error("Failed to requeue orphaned user message", "message_id", msgs[i].ID, "error", err)
			}
			return
		}
	}
}

// Stop cancels all active runs and waits for settlement.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	cancels := make([]context.CancelFunc, 0, len(c.active))
	for _, cancel := range c.active {
		cancels = append(cancels, cancel)
	}
	c.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	c.wg.Wait()
}

func (c *Coordinator) publishMessage(ctx context.Context, conversationID string, msg *ent.Message, eventType, content string) {
	if c.publisher == nil {
		return
	}
	payload := events.MessagePayload{
		Type:           eventType,
		ConversationID: conversationID,
		MessageID:      msg.ID,
		Role:           msg.Role,
		Status:         msg.Status,
		QueueOrder:     msg.QueueOrder,
		Content:        content,
		Timestamp:      events.Timestamp(),
	}
	if err := c.publisher.PublishMessage(ctx, conversationID, payload); err != nil {
		slog.Error("Failed to publish message event", "message_id", msg.ID, "type", eventType, "error", err)
	}
}

func (c *Coordinator) publishMessageByID(ctx context.Context, conversationID, messageID, eventType string) {
	msg, err := c.messages.GetMessage(ctx, messageID)
	if err != nil {
		slog.Error("Failed to load message for event", "message_id", messageID, "error", err)
		return
	}
	c.publishMessage(ctx, conversationID, msg, eventType, "")
}

func (c *Coordinator) publishPromptFailed(ctx context.Context, conversationID, promptID, messageID, reason string) {
	if c.publisher == nil {
		return
	}
	err := c.publisher.PublishPrompt(ctx, conversationID, events.PromptPayload{
		Type:           events.EventTypePromptFailed,
		ConversationID: conversationID,
		PromptID:       promptID,
		MessageID:      messageID,
		ErrorMessage:   reason,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish prompt.failed", "prompt_id", promptID, "error", err)
	}
}

// buildRequest reconstructs the provider transcript from the conversation's
// completed messages.
func (c *Coordinator) buildRequest(ctx context.Context, conversationID string) (*provider.Request, error) {
	msgs, err := c.messages.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	turns, err := historyTurns(msgs)
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("conversation %s has no completed turns", conversationID)
	}
	return &provider.Request{
		Model:     c.cfg.DefaultModel,
		System:    c.cfg.SystemPrompt,
		MaxTokens: c.cfg.MaxTokens,
		Turns:     turns,
		Tools:     c.registryTools,
	}, nil
}
