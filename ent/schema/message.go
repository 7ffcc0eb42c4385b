package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Message holds the schema definition for the Message entity.
// One user or assistant turn in a conversation.
type Message struct {
	ent.Schema
}

// Fields of the Message.
func (Message) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("message_id").
			Unique().
			Immutable(),
		field.String("conversation_id").
			Immutable(),
		field.Enum("role").
			Values("user", "assistant", "system"),

		// Lifecycle: queued → processing → completed | error.
		// Assistant messages are born processing.
		field.Enum("status").
			Values("queued", "processing", "completed", "error").
			Default("queued"),
		field.Int("queue_order").
			Optional().
			Nillable().
			Comment("FIFO position among queued user messages; nil once claimed"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Message.
func (Message) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("conversation", Conversation.Type).
			Ref("messages").
			Field("conversation_id").
			Unique().
			Required().
			Immutable(),
		edge.To("blocks", Block.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("prompts", Prompt.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Message.
func (Message) Indexes() []ent.Index {
	return []ent.Index{
		// Transcript ordering
		index.Fields("conversation_id", "created_at"),
		// Queue claim scan
		index.Fields("conversation_id", "status", "queue_order"),
	}
}
