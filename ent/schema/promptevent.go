package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PromptEvent holds the schema definition for the PromptEvent entity.
// The append-only per-prompt log of raw provider stream events. Replaying a
// prompt's events in index order reconstructs its blocks deterministically.
type PromptEvent struct {
	ent.Schema
}

// Fields of the PromptEvent.
func (PromptEvent) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			StorageKey("prompt_event_id").
			Unique().
			Immutable(),
		field.String("prompt_id").
			Immutable(),
		field.Int("index_num").
			Immutable().
			Comment("Contiguous per-prompt sequence starting at 0"),
		field.String("type").
			Immutable().
			Comment("Provider event type (message_start, content_block_delta, ...)"),
		field.JSON("payload", map[string]interface{}{}).
			Immutable().
			Comment("Raw provider event"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the PromptEvent.
func (PromptEvent) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("prompt", Prompt.Type).
			Ref("events").
			Field("prompt_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the PromptEvent.
func (PromptEvent) Indexes() []ent.Index {
	return []ent.Index{
		// Replay order; unique to reject gaps introduced by double writers
		index.Fields("prompt_id", "index_num").
			Unique(),
	}
}
