package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Block holds the schema definition for the Block entity.
// One ordered content unit of a message: text, thinking, tool_use,
// tool_result, or attachment. Blocks grow during streaming and are frozen
// once finalized.
type Block struct {
	ent.Schema
}

// Fields of the Block.
func (Block) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("block_id").
			Unique().
			Immutable(),
		field.String("message_id").
			Immutable(),
		field.String("prompt_id").
			Optional().
			Nillable().
			Immutable().
			Comment("Producing prompt — nil for user-authored blocks"),
		field.Enum("type").
			Values("text", "thinking", "tool_use", "tool_result", "attachment").
			Immutable(),
		field.Int("order").
			Comment("Position within the message"),
		field.Text("content").
			Default("").
			Comment("Grows during streaming; frozen once finalized"),
		field.JSON("metadata", map[string]interface{}{}).
			Optional().
			Comment("Type-specific data (tool_use_id, tool_name, is_error, ...)"),
		field.Bool("is_finalized").
			Default(false),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the Block.
func (Block) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("message", Message.Type).
			Ref("blocks").
			Field("message_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Block.
func (Block) Indexes() []ent.Index {
	return []ent.Index{
		// Message rendering order; unique so concurrent writers cannot
		// produce colliding positions
		index.Fields("message_id", "order").
			Unique(),
		index.Fields("prompt_id"),
	}
}
