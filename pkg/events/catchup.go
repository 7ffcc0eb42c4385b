package events

import (
	"context"
	"encoding/json"

	"github.com/parleyhq/parley/pkg/services"
)

// catchupLimit caps how many missed events a reconnecting subscriber can
// replay in one request.
const catchupLimit = 200

// CatchupEvent is one persisted event returned by catch-up queries, with
// the database id injected so clients can advance their last_event_id.
type CatchupEvent struct {
	ID      int
	Payload map[string]any
}

// CatchupQuerier retrieves persisted events after a given id for
// reconnecting subscribers.
type CatchupQuerier interface {
	GetCatchupEvents(ctx context.Context, channel string, sinceID, limit int) ([]CatchupEvent, error)
}

// EventServiceAdapter wraps services.EventService to implement CatchupQuerier.
type EventServiceAdapter struct {
	eventService *services.EventService
}

// NewEventServiceAdapter creates a CatchupQuerier from an EventService.
func NewEventServiceAdapter(es *services.EventService) *EventServiceAdapter {
	return &EventServiceAdapter{eventService: es}
}

// GetCatchupEvents queries events since sinceID up to limit.
func (a *EventServiceAdapter) GetCatchupEvents(ctx context.Context, channel string, sinceID, limit int) ([]CatchupEvent, error) {
	if limit <= 0 || limit > catchupLimit {
		limit = catchupLimit
	}
	events, err := a.eventService.GetEventsSince(ctx, channel, sinceID, limit)
	if err != nil {
		return nil, err
	}

	result := make([]CatchupEvent, len(events))
	for i, evt := range events {
		result[i] = CatchupEvent{
			ID:      evt.ID,
			Payload: evt.Payload,
		}
	}
	return result, nil
}

// MarshalCatchupPayload renders a catch-up event as the same wire format a
// live NOTIFY would carry, with db_event_id set.
func MarshalCatchupPayload(evt CatchupEvent) ([]byte, error) {
	payload := make(map[string]any, len(evt.Payload)+1)
	for k, v := range evt.Payload {
		payload[k] = v
	}
	payload["db_event_id"] = evt.ID
	return json.Marshal(payload)
}
