// Package engine drives one prompt to terminal completion: it consumes the
// provider stream, materializes message blocks, dispatches tool calls, and
// issues continuation calls with tool results until the model stops asking
// for tools.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/ent/toolcall"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/provider"
	"github.com/parleyhq/parley/pkg/services"
	"github.com/parleyhq/parley/pkg/tools"
)

const (
	defaultMaxRetries     = 3
	defaultRetryInitial   = 500 * time.Millisecond
	defaultRetryMax       = 10 * time.Second
	defaultToolPollPeriod = 200 * time.Millisecond
)

// Config tunes engine behavior.
type Config struct {
	// MaxRetries bounds provider retries on transient errors (default 3).
	MaxRetries int
	// ToolPollPeriod is the interval of the wait-for-tools loop.
	ToolPollPeriod time.Duration
}

// Engine runs prompts. One Run call owns one prompt from status created to
// completed or error; the coordinator guarantees at most one Run per
// conversation at a time.
type Engine struct {
	llm       provider.Provider
	executor  *tools.Executor
	prompts   *services.PromptService
	blocks    *services.BlockService
	toolCalls *services.ToolCallService
	publisher *events.Publisher

	maxRetries     int
	toolPollPeriod time.Duration
}

// New creates an engine over the given provider and services.
func New(llm provider.Provider, executor *tools.Executor, prompts *services.PromptService,
	blocks *services.BlockService, toolCalls *services.ToolCallService,
	publisher *events.Publisher, cfg Config) *Engine {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.ToolPollPeriod <= 0 {
		cfg.ToolPollPeriod = defaultToolPollPeriod
	}
	return &Engine{
		llm:            llm,
		executor:       executor,
		prompts:        prompts,
		blocks:         blocks,
		toolCalls:      toolCalls,
		publisher:      publisher,
		maxRetries:     cfg.MaxRetries,
		toolPollPeriod: cfg.ToolPollPeriod,
	}
}

// RunParams identifies the prompt to run and carries the initial request.
type RunParams struct {
	ConversationID     string
	PromptID           string
	AssistantMessageID string
	Request            *provider.Request
}

// Run drives the prompt to a terminal status. On success the prompt is
// completed with every block finalized and every tool call terminal. On
// failure the prompt is errored, partial blocks are finalized as-is, and the
// error is returned for the coordinator to roll the user message back.
// Cancellation cascades: active tool calls are marked canceled and the
// prompt errors with reason "canceled".
func (e *Engine) Run(ctx context.Context, p RunParams) error {
	if err := e.prompts.SetStatus(ctx, p.PromptID, prompt.StatusStreaming); err != nil {
		return fmt.Errorf("failed to mark prompt streaming: %w", err)
	}
	e.publishPrompt(ctx, p, events.EventTypePromptStarted, "")

	nextIndex, err := e.prompts.NextEventIndex(ctx, p.PromptID)
	if err != nil {
		e.fail(ctx, p, err.Error())
		return err
	}

	dispatch := func(tc *ent.ToolCall) {
		inv := tools.Invocation{
			ConversationID: p.ConversationID,
			MessageID:      p.AssistantMessageID,
			ToolCall:       tc,
		}
		go func() {
			if err := e.executor.Execute(ctx, inv); err != nil {
				slog.Error("Tool executor failed", "tool_call_id", tc.ID, "error", err)
			}
		}()
	}
	h := e.newStreamHandler(p.ConversationID, p.PromptID, p.AssistantMessageID, nextIndex, dispatch)

	req := p.Request
	for {
		if err := e.streamOnce(ctx, h, req); err != nil {
			h.finalizeOpenBlocks(context.WithoutCancel(ctx))
			if ctx.Err() != nil {
				e.cancelToolCalls(context.WithoutCancel(ctx), h)
				e.failCanceled(context.WithoutCancel(ctx), p)
				return ctx.Err()
			}
			e.fail(ctx, p, err.Error())
			return err
		}

		if !h.hasTools {
			if err := e.prompts.Complete(ctx, p.PromptID); err != nil {
				return fmt.Errorf("failed to complete prompt: %w", err)
			}
			e.publishPrompt(ctx, p, events.EventTypePromptCompleted, "")
			return nil
		}

		if err := e.prompts.SetStatus(ctx, p.PromptID, prompt.StatusWaitingForTools); err != nil {
			e.fail(ctx, p, err.Error())
			return err
		}
		resolved, err := e.awaitToolCalls(ctx, h.toolCalls)
		if err != nil {
			e.cancelToolCalls(context.WithoutCancel(ctx), h)
			e.failCanceled(context.WithoutCancel(ctx), p)
			return err
		}
		if err := e.prompts.SetStatus(ctx, p.PromptID, prompt.StatusReadyForContinuation); err != nil {
			e.fail(ctx, p, err.Error())
			return err
		}

		req = continuationRequest(req, h.turnBlocks, resolved)
		h.resetAttempt()

		if err := e.prompts.SetStatus(ctx, p.PromptID, prompt.StatusStreaming); err != nil {
			e.fail(ctx, p, err.Error())
			return err
		}
	}
}

// streamOnce performs one provider call, retrying transient failures with
// exponential backoff. A retryable failure after partial output is not
// retried: the blocks already streamed to subscribers cannot be unsent, so
// the prompt escalates instead of duplicating content.
func (e *Engine) streamOnce(ctx context.Context, h *streamHandler, req *provider.Request) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = defaultRetryInitial
	bo.MaxInterval = defaultRetryMax
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(e.maxRetries)), ctx)

	attempt := 0
	op := func() error {
		attempt++
		err := e.consume(ctx, h, req)
		if err == nil {
			return nil
		}
		var se *streamError
		retryable := errors.As(err, &se) && se.Retryable()
		if !retryable || h.eventsSeen > 0 || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		slog.Warn("Retrying provider call", "prompt_id", h.promptID, "attempt", attempt, "error", err)
		return err
	}
	if err := backoff.Retry(op, policy); err != nil {
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			return perm.Unwrap()
		}
		return err
	}
	return nil
}

// consume opens one stream and feeds every event through the handler.
func (e *Engine) consume(ctx context.Context, h *streamHandler, req *provider.Request) error {
	stream, err := e.llm.Stream(ctx, req)
	if err != nil {
		return &streamError{event: provider.Event{
			Type:         provider.EventError,
			ErrorMessage: err.Error(),
			Err:          err,
			Retryable:    provider.IsRetryable(err),
		}}
	}

	for ev := range stream {
		if err := h.handleEvent(ctx, ev); err != nil {
			// Drain so the provider goroutine is not left blocked.
			for range stream {
			}
			return err
		}
	}

	if !h.stopped {
		return &streamError{event: provider.Event{
			Type:         provider.EventError,
			ErrorMessage: "provider stream ended without message_stop",
			Retryable:    true,
		}}
	}
	return nil
}

// awaitToolCalls polls until every tool call of this turn is terminal and
// returns the fresh rows in issue order.
func (e *Engine) awaitToolCalls(ctx context.Context, issued []*ent.ToolCall) ([]*ent.ToolCall, error) {
	ticker := time.NewTicker(e.toolPollPeriod)
	defer ticker.Stop()

	for {
		resolved := make([]*ent.ToolCall, 0, len(issued))
		done := true
		for _, tc := range issued {
			fresh, err := e.toolCalls.GetToolCall(ctx, tc.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to poll tool call %s: %w", tc.ID, err)
			}
			if !services.IsTerminal(fresh.State) {
				done = false
				break
			}
			resolved = append(resolved, fresh)
		}
		if done {
			return resolved, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// continuationRequest appends the assistant echo turn and the tool_result
// user turn to the transcript, one result per tool call in issue order.
func continuationRequest(req *provider.Request, assistantBlocks []provider.TurnBlock, resolved []*ent.ToolCall) *provider.Request {
	next := *req
	next.Turns = append(append([]provider.Turn{}, req.Turns...), provider.Turn{
		Role:   provider.RoleAssistant,
		Blocks: assistantBlocks,
	})

	results := make([]provider.TurnBlock, 0, len(resolved))
	for _, tc := range resolved {
		rb := provider.TurnBlock{
			Type:      provider.BlockToolResult,
			ToolUseID: tc.APIToolCallID,
		}
		switch tc.State {
		case toolcall.StateComplete:
			rb.Content = tc.Output
		case toolcall.StateCanceled:
			rb.Content = "Error: canceled"
			rb.IsError = true
		default:
			rb.Content = "Error: " + tc.ErrorMessage
			rb.IsError = true
		}
		results = append(results, rb)
	}
	next.Turns = append(next.Turns, provider.Turn{
		Role:   provider.RoleUser,
		Blocks: results,
	})
	return &next
}

// Replay feeds a prompt's persisted event log back through a fresh stream
// handler with persistence and dispatch disabled, returning the turn blocks
// it reconstructs. The handler is deterministic, so replay yields the same
// content and ordering the live stream produced.
func (e *Engine) Replay(ctx context.Context, promptID string) ([]provider.TurnBlock, error) {
	log, err := e.prompts.Events(ctx, promptID)
	if err != nil {
		return nil, err
	}

	h := &streamHandler{
		eng:      e,
		promptID: promptID,
		open:     make(map[int]*blockState),
	}
	var blocks []provider.TurnBlock
	for _, entry := range log {
		ev, err := eventFromMap(entry.Payload)
		if err != nil {
			return nil, err
		}
		if ev.Type == provider.EventMessageStop {
			blocks = append(blocks, h.turnBlocks...)
			h.resetAttempt()
			h.open = make(map[int]*blockState)
			continue
		}
		if err := h.handleEvent(ctx, ev); err != nil {
			return nil, err
		}
	}
	blocks = append(blocks, h.turnBlocks...)
	return blocks, nil
}

func (e *Engine) cancelToolCalls(ctx context.Context, h *streamHandler) {
	for _, tc := range h.toolCalls {
		if err := e.toolCalls.Cancel(ctx, tc.ID); err != nil {
			slog.Error("Failed to cancel tool call", "tool_call_id", tc.ID, "error", err)
		}
	}
}

func (e *Engine) fail(ctx context.Context, p RunParams, message string) {
	ctx = context.WithoutCancel(ctx)
	if err := e.prompts.Fail(ctx, p.PromptID, message); err != nil {
		slog.Error("Failed to mark prompt errored", "prompt_id", p.PromptID, "error", err)
	}
	e.publishPrompt(ctx, p, events.EventTypePromptFailed, message)
}

func (e *Engine) failCanceled(ctx context.Context, p RunParams) {
	if err := e.prompts.Fail(ctx, p.PromptID, "canceled"); err != nil {
		slog.Error("Failed to mark prompt canceled", "prompt_id", p.PromptID, "error", err)
	}
	e.publishPrompt(ctx, p, events.EventTypePromptCanceled, "canceled")
}

func (e *Engine) publishPrompt(ctx context.Context, p RunParams, eventType, errorMessage string) {
	if e.publisher == nil {
		return
	}
	err := e.publisher.PublishPrompt(ctx, p.ConversationID, events.PromptPayload{
		Type:           eventType,
		ConversationID: p.ConversationID,
		PromptID:       p.PromptID,
		MessageID:      p.AssistantMessageID,
		Model:          p.Request.Model,
		ErrorMessage:   errorMessage,
		Timestamp:      events.Timestamp(),
	})
	if err != nil {
		slog.Error("Failed to publish prompt event", "prompt_id", p.PromptID, "type", eventType, "error", err)
	}
}
