// Code generated by ent, DO NOT EDIT.

package migrate

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// BlocksColumns holds the columns for the "blocks" table.
	BlocksColumns = []*schema.Column{
		{Name: "block_id", Type: field.TypeString, Unique: true},
		{Name: "prompt_id", Type: field.TypeString, Nullable: true},
		{Name: "type", Type: field.TypeEnum, Enums: []string{"text", "thinking", "tool_use", "tool_result", "attachment"}},
		{Name: "order", Type: field.TypeInt},
		{Name: "content", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "metadata", Type: field.TypeJSON, Nullable: true},
		{Name: "is_finalized", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "message_id", Type: field.TypeString},
	}
	// BlocksTable holds the schema information for the "blocks" table.
	BlocksTable = &schema.Table{
		Name:       "blocks",
		Columns:    BlocksColumns,
		PrimaryKey: []*schema.Column{BlocksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "blocks_messages_blocks",
				Columns:    []*schema.Column{BlocksColumns[9]},
				RefColumns: []*schema.Column{MessagesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "block_message_id_order",
				Unique:  true,
				Columns: []*schema.Column{BlocksColumns[9], BlocksColumns[3]},
			},
			{
				Name:    "block_prompt_id",
				Unique:  false,
				Columns: []*schema.Column{BlocksColumns[1]},
			},
		},
	}
	// ConversationsColumns holds the columns for the "conversations" table.
	ConversationsColumns = []*schema.Column{
		{Name: "conversation_id", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString, Nullable: true},
		{Name: "active_prompt_id", Type: field.TypeString, Nullable: true},
		{Name: "pod_id", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "user_id", Type: field.TypeString},
	}
	// ConversationsTable holds the schema information for the "conversations" table.
	ConversationsTable = &schema.Table{
		Name:       "conversations",
		Columns:    ConversationsColumns,
		PrimaryKey: []*schema.Column{ConversationsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "conversations_users_conversations",
				Columns:    []*schema.Column{ConversationsColumns[6]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "conversation_user_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{ConversationsColumns[6], ConversationsColumns[4]},
			},
			{
				Name:    "conversation_pod_id",
				Unique:  false,
				Columns: []*schema.Column{ConversationsColumns[3]},
			},
		},
	}
	// EventsColumns holds the columns for the "events" table.
	EventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "conversation_id", Type: field.TypeString},
		{Name: "channel", Type: field.TypeString},
		{Name: "payload", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// EventsTable holds the schema information for the "events" table.
	EventsTable = &schema.Table{
		Name:       "events",
		Columns:    EventsColumns,
		PrimaryKey: []*schema.Column{EventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "event_channel_created_at",
				Unique:  false,
				Columns: []*schema.Column{EventsColumns[2], EventsColumns[4]},
			},
			{
				Name:    "event_conversation_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{EventsColumns[1], EventsColumns[4]},
			},
		},
	}
	// MessagesColumns holds the columns for the "messages" table.
	MessagesColumns = []*schema.Column{
		{Name: "message_id", Type: field.TypeString, Unique: true},
		{Name: "role", Type: field.TypeEnum, Enums: []string{"user", "assistant", "system"}},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"queued", "processing", "completed", "error"}, Default: "queued"},
		{Name: "queue_order", Type: field.TypeInt, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "conversation_id", Type: field.TypeString},
	}
	// MessagesTable holds the schema information for the "messages" table.
	MessagesTable = &schema.Table{
		Name:       "messages",
		Columns:    MessagesColumns,
		PrimaryKey: []*schema.Column{MessagesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "messages_conversations_messages",
				Columns:    []*schema.Column{MessagesColumns[6]},
				RefColumns: []*schema.Column{ConversationsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "message_conversation_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{MessagesColumns[6], MessagesColumns[4]},
			},
			{
				Name:    "message_conversation_id_status_queue_order",
				Unique:  false,
				Columns: []*schema.Column{MessagesColumns[6], MessagesColumns[2], MessagesColumns[3]},
			},
		},
	}
	// PromptsColumns holds the columns for the "prompts" table.
	PromptsColumns = []*schema.Column{
		{Name: "prompt_id", Type: field.TypeString, Unique: true},
		{Name: "status", Type: field.TypeEnum, Enums: []string{"created", "streaming", "waiting_for_tools", "ready_for_continuation", "completed", "error"}, Default: "created"},
		{Name: "model", Type: field.TypeString},
		{Name: "system_message", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "request", Type: field.TypeJSON, Nullable: true},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "conversation_id", Type: field.TypeString},
		{Name: "message_id", Type: field.TypeString},
	}
	// PromptsTable holds the schema information for the "prompts" table.
	PromptsTable = &schema.Table{
		Name:       "prompts",
		Columns:    PromptsColumns,
		PrimaryKey: []*schema.Column{PromptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "prompts_conversations_prompts",
				Columns:    []*schema.Column{PromptsColumns[8]},
				RefColumns: []*schema.Column{ConversationsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "prompts_messages_prompts",
				Columns:    []*schema.Column{PromptsColumns[9]},
				RefColumns: []*schema.Column{MessagesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "prompt_conversation_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{PromptsColumns[8], PromptsColumns[6]},
			},
			{
				Name:    "prompt_message_id",
				Unique:  false,
				Columns: []*schema.Column{PromptsColumns[9]},
			},
			{
				Name:    "prompt_status",
				Unique:  false,
				Columns: []*schema.Column{PromptsColumns[1]},
			},
		},
	}
	// PromptEventsColumns holds the columns for the "prompt_events" table.
	PromptEventsColumns = []*schema.Column{
		{Name: "prompt_event_id", Type: field.TypeInt64, Increment: true},
		{Name: "index_num", Type: field.TypeInt},
		{Name: "type", Type: field.TypeString},
		{Name: "payload", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "prompt_id", Type: field.TypeString},
	}
	// PromptEventsTable holds the schema information for the "prompt_events" table.
	PromptEventsTable = &schema.Table{
		Name:       "prompt_events",
		Columns:    PromptEventsColumns,
		PrimaryKey: []*schema.Column{PromptEventsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "prompt_events_prompts_events",
				Columns:    []*schema.Column{PromptEventsColumns[5]},
				RefColumns: []*schema.Column{PromptsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "promptevent_prompt_id_index_num",
				Unique:  true,
				Columns: []*schema.Column{PromptEventsColumns[5], PromptEventsColumns[1]},
			},
		},
	}
	// ToolCallsColumns holds the columns for the "tool_calls" table.
	ToolCallsColumns = []*schema.Column{
		{Name: "tool_call_id", Type: field.TypeString, Unique: true},
		{Name: "block_id", Type: field.TypeString},
		{Name: "api_tool_call_id", Type: field.TypeString},
		{Name: "tool_name", Type: field.TypeString},
		{Name: "state", Type: field.TypeEnum, Enums: []string{"pending", "executing", "complete", "error", "canceled"}, Default: "pending"},
		{Name: "request", Type: field.TypeJSON, Nullable: true},
		{Name: "output", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "prompt_id", Type: field.TypeString},
	}
	// ToolCallsTable holds the schema information for the "tool_calls" table.
	ToolCallsTable = &schema.Table{
		Name:       "tool_calls",
		Columns:    ToolCallsColumns,
		PrimaryKey: []*schema.Column{ToolCallsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "tool_calls_prompts_tool_calls",
				Columns:    []*schema.Column{ToolCallsColumns[11]},
				RefColumns: []*schema.Column{PromptsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "toolcall_prompt_id_created_at",
				Unique:  false,
				Columns: []*schema.Column{ToolCallsColumns[11], ToolCallsColumns[10]},
			},
			{
				Name:    "toolcall_block_id",
				Unique:  false,
				Columns: []*schema.Column{ToolCallsColumns[1]},
			},
		},
	}
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString, Unique: true},
		{Name: "email", Type: field.TypeString, Unique: true},
		{Name: "display_name", Type: field.TypeString, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		BlocksTable,
		ConversationsTable,
		EventsTable,
		MessagesTable,
		PromptsTable,
		PromptEventsTable,
		ToolCallsTable,
		UsersTable,
	}
)

func init() {
	BlocksTable.ForeignKeys[0].RefTable = MessagesTable
	ConversationsTable.ForeignKeys[0].RefTable = UsersTable
	MessagesTable.ForeignKeys[0].RefTable = ConversationsTable
	PromptsTable.ForeignKeys[0].RefTable = ConversationsTable
	PromptsTable.ForeignKeys[1].RefTable = MessagesTable
	PromptEventsTable.ForeignKeys[0].RefTable = PromptsTable
	ToolCallsTable.ForeignKeys[0].RefTable = PromptsTable
}
