package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Publisher publishes conversation events. Persistent events are stored in
// the events table then broadcast via NOTIFY in one transaction (pg_notify
// is transactional, held until COMMIT); transient events (deltas, tool
// output chunks) are broadcast via NOTIFY only.
//
// Local subscribers receive events through the NOTIFY loopback: the pod's
// own NotifyListener picks up the notification and delivers it to the Bus.
// When constructed without a database (tests), events go straight to the
// Bus instead.
type Publisher struct {
	db  *sql.DB
	bus *Bus
}

// NewPublisher creates a publisher backed by PostgreSQL.
// The db parameter should be the *sql.DB from database.Client.DB().
func NewPublisher(db *sql.DB) *Publisher {
	return &Publisher{db: db}
}

// NewInMemoryPublisher creates a publisher that bypasses PostgreSQL and
// delivers directly to the given bus. Used by tests.
func NewInMemoryPublisher(bus *Bus) *Publisher {
	return &Publisher{bus: bus}
}

// --- Typed public methods ---

// PublishMessage persists and broadcasts a message lifecycle event.
func (p *Publisher) PublishMessage(ctx context.Context, conversationID string, payload MessagePayload) error {
	return p.publishDurable(ctx, conversationID, payload)
}

// PublishPrompt persists and broadcasts a prompt lifecycle event.
func (p *Publisher) PublishPrompt(ctx context.Context, conversationID string, payload PromptPayload) error {
	return p.publishDurable(ctx, conversationID, payload)
}

// PublishBlockStart persists and broadcasts a block.start event.
func (p *Publisher) PublishBlockStart(ctx context.Context, conversationID string, payload BlockStartPayload) error {
	return p.publishDurable(ctx, conversationID, payload)
}

// PublishBlockEnd persists and broadcasts a block.end event.
func (p *Publisher) PublishBlockEnd(ctx context.Context, conversationID string, payload BlockEndPayload) error {
	return p.publishDurable(ctx, conversationID, payload)
}

// PublishBlockDelta broadcasts a block.delta transient event (no DB
// persistence). High-frequency streaming deltas — ephemeral, lost on
// disconnect; block.end carries the authoritative content.
func (p *Publisher) PublishBlockDelta(ctx context.Context, conversationID string, payload BlockDeltaPayload) error {
	return p.publishTransient(ctx, conversationID, payload)
}

// PublishToolCall persists and broadcasts a tool call lifecycle event.
func (p *Publisher) PublishToolCall(ctx context.Context, conversationID string, payload ToolCallPayload) error {
	return p.publishDurable(ctx, conversationID, payload)
}

// PublishToolCallProgress broadcasts a tool_call.progress transient event
// (no DB persistence).
func (p *Publisher) PublishToolCallProgress(ctx context.Context, conversationID string, payload ToolCallProgressPayload) error {
	return p.publishTransient(ctx, conversationID, payload)
}

// --- Internal core methods ---

func (p *Publisher) publishDurable(ctx context.Context, conversationID string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %T: %w", payload, err)
	}
	if p.db == nil {
		p.bus.Deliver(ConversationChannel(conversationID), payloadJSON)
		return nil
	}
	return p.persistAndNotify(ctx, conversationID, ConversationChannel(conversationID), payloadJSON)
}

func (p *Publisher) publishTransient(ctx context.Context, conversationID string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %T: %w", payload, err)
	}
	if p.db == nil {
		p.bus.Deliver(ConversationChannel(conversationID), payloadJSON)
		return nil
	}
	return p.notifyOnly(ctx, ConversationChannel(conversationID), payloadJSON)
}

// persistAndNotify persists a pre-marshaled event to the database and
// broadcasts via NOTIFY in a single transaction.
func (p *Publisher) persistAndNotify(ctx context.Context, conversationID, channel string, payloadJSON []byte) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var eventID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO events (conversation_id, channel, payload, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		conversationID, channel, payloadJSON, time.Now(),
	).Scan(&eventID)
	if err != nil {
		return fmt.Errorf("failed to persist event: %w", err)
	}

	notifyPayload, err := injectDBEventIDAndTruncate(payloadJSON, eventID)
	if err != nil {
		return err
	}

	// pg_notify within the same transaction — held until COMMIT, so the
	// INSERT and the broadcast land atomically.
	if _, err := tx.ExecContext(ctx, "SELECT pg_notify($1, $2)", channel, notifyPayload); err != nil {
		return fmt.Errorf("pg_notify failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit event transaction: %w", err)
	}
	return nil
}

// notifyOnly broadcasts a pre-marshaled event via NOTIFY without persisting.
func (p *Publisher) notifyOnly(ctx context.Context, channel string, payloadJSON []byte) error {
	notifyPayload, err := truncateIfNeeded(string(payloadJSON))
	if err != nil {
		return err
	}
	if _, err := p.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", channel, notifyPayload); err != nil {
		return fmt.Errorf("pg_notify failed: %w", err)
	}
	return nil
}

// --- Internal helpers ---

// injectDBEventIDAndTruncate adds db_event_id to the JSON payload for NOTIFY
// delivery and applies truncation if the result exceeds PostgreSQL's limit.
func injectDBEventIDAndTruncate(payloadJSON []byte, dbEventID int64) (string, error) {
	var m map[string]any
	if err := json.Unmarshal(payloadJSON, &m); err != nil {
		return "", fmt.Errorf("failed to unmarshal payload for db_event_id injection: %w", err)
	}
	m["db_event_id"] = dbEventID

	enriched, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal enriched NOTIFY payload: %w", err)
	}
	return truncateIfNeeded(string(enriched))
}

// truncateIfNeeded returns the payload string as-is if it fits within
// PostgreSQL's 8000-byte NOTIFY limit, otherwise a minimal truncation
// envelope with only routing fields. Clients receiving a truncated envelope
// fetch the full event from the database via catch-up.
func truncateIfNeeded(payloadStr string) (string, error) {
	if len(payloadStr) <= 7900 {
		return payloadStr, nil
	}
	return buildTruncatedPayload([]byte(payloadStr))
}

func buildTruncatedPayload(payloadBytes []byte) (string, error) {
	var routing struct {
		Type           string `json:"type"`
		ConversationID string `json:"conversation_id"`
		DBEventID      *int64 `json:"db_event_id,omitempty"`
	}
	if err := json.Unmarshal(payloadBytes, &routing); err != nil {
		return "", fmt.Errorf("failed to extract routing fields for truncation: %w", err)
	}

	truncated := map[string]any{
		"type":            routing.Type,
		"conversation_id": routing.ConversationID,
		"truncated":       true,
	}
	if routing.DBEventID != nil {
		truncated["db_event_id"] = *routing.DBEventID
	}

	truncBytes, err := json.Marshal(truncated)
	if err != nil {
		return "", fmt.Errorf("failed to marshal truncated payload: %w", err)
	}
	return string(truncBytes), nil
}

// Timestamp renders the canonical event timestamp format.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
