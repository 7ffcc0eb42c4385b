package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ToolCall holds the schema definition for the ToolCall entity.
// One tool invocation requested by the model during a prompt.
type ToolCall struct {
	ent.Schema
}

// Fields of the ToolCall.
func (ToolCall) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("tool_call_id").
			Unique().
			Immutable(),
		field.String("prompt_id").
			Immutable(),
		field.String("block_id").
			Immutable().
			Comment("The tool_use block that requested this call"),
		field.String("api_tool_call_id").
			Immutable().
			Comment("Provider-assigned tool_use id, echoed back in tool_result"),
		field.String("tool_name").
			Immutable(),

		// Lifecycle: pending → executing → complete | error | canceled
		field.Enum("state").
			Values("pending", "executing", "complete", "error", "canceled").
			Default("pending"),
		field.JSON("request", map[string]interface{}{}).
			Optional().
			Comment("Parsed tool input"),
		field.Text("output").
			Default("").
			Comment("Sanitized output, grows while executing"),
		field.Text("error_message").
			Default(""),
		field.Time("started_at").
			Optional().
			Nillable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the ToolCall.
func (ToolCall) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("prompt", Prompt.Type).
			Ref("tool_calls").
			Field("prompt_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ToolCall.
func (ToolCall) Indexes() []ent.Index {
	return []ent.Index{
		// Issue-order listing for continuation building
		index.Fields("prompt_id", "created_at"),
		index.Fields("block_id"),
	}
}
