package services

import (
	"context"
	"fmt"
	"time"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/event"
)

// EventService reads the durable bus event log for subscriber catch-up and
// handles retention cleanup. Writes go through the event publisher, which
// inserts rows in the same transaction as the pg_notify.
type EventService struct {
	client *ent.Client
}

// NewEventService creates a new EventService
func NewEventService(client *ent.Client) *EventService {
	return &EventService{client: client}
}

// GetEventsSince retrieves up to limit events on a channel after sinceID.
func (s *EventService) GetEventsSince(ctx context.Context, channel string, sinceID, limit int) ([]*ent.Event, error) {
	events, err := s.client.Event.Query().
		Where(
			event.ChannelEQ(channel),
			event.IDGT(sinceID),
		).
		Order(ent.Asc(event.FieldID)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	return events, nil
}

// CleanupConversationEvents removes all events for a conversation.
func (s *EventService) CleanupConversationEvents(ctx context.Context, conversationID string) (int, error) {
	count, err := s.client.Event.Delete().
		Where(event.ConversationIDEQ(conversationID)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup conversation events: %w", err)
	}
	return count, nil
}

// CleanupExpiredEvents removes events older than the TTL.
func (s *EventService) CleanupExpiredEvents(ctx context.Context, ttl time.Duration) (int, error) {
	cutoff := time.Now().Add(-ttl)
	count, err := s.client.Event.Delete().
		Where(event.CreatedAtLT(cutoff)).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired events: %w", err)
	}
	return count, nil
}
