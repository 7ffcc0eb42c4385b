package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Prompt holds the schema definition for the Prompt entity.
// One full provider exchange: the initial streaming call plus any
// tool-driven continuation calls, driven to a terminal state.
type Prompt struct {
	ent.Schema
}

// Fields of the Prompt.
func (Prompt) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("prompt_id").
			Unique().
			Immutable(),
		field.String("conversation_id").
			Immutable(),
		field.String("message_id").
			Immutable().
			Comment("The assistant message this prompt is producing"),

		// Lifecycle:
		//   created → streaming → completed | error
		//   streaming → waiting_for_tools → ready_for_continuation → streaming
		field.Enum("status").
			Values(
				"created",
				"streaming",
				"waiting_for_tools",
				"ready_for_continuation",
				"completed",
				"error",
			).
			Default("created"),
		field.String("model"),
		field.Text("system_message").
			Optional().
			Nillable(),
		field.JSON("request", map[string]interface{}{}).
			Optional().
			Comment("Snapshot of the initial provider request"),
		field.Text("error_message").
			Default(""),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

// Edges of the Prompt.
func (Prompt) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("conversation", Conversation.Type).
			Ref("prompts").
			Field("conversation_id").
			Unique().
			Required().
			Immutable(),
		edge.From("message", Message.Type).
			Ref("prompts").
			Field("message_id").
			Unique().
			Required().
			Immutable(),
		edge.To("events", PromptEvent.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("tool_calls", ToolCall.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Prompt.
func (Prompt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("conversation_id", "created_at"),
		index.Fields("message_id"),
		// Non-terminal prompt scan at startup
		index.Fields("status"),
	}
}
