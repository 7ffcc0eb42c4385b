// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/conversation"
	"github.com/parleyhq/parley/ent/event"
	"github.com/parleyhq/parley/ent/message"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/ent/promptevent"
	"github.com/parleyhq/parley/ent/schema"
	"github.com/parleyhq/parley/ent/toolcall"
	"github.com/parleyhq/parley/ent/user"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	blockFields := schema.Block{}.Fields()
	_ = blockFields
	// blockDescContent is the schema descriptor for content field.
	blockDescContent := blockFields[5].Descriptor()
	// block.DefaultContent holds the default value on creation for the content field.
	block.DefaultContent = blockDescContent.Default.(string)
	// blockDescIsFinalized is the schema descriptor for is_finalized field.
	blockDescIsFinalized := blockFields[7].Descriptor()
	// block.DefaultIsFinalized holds the default value on creation for the is_finalized field.
	block.DefaultIsFinalized = blockDescIsFinalized.Default.(bool)
	// blockDescCreatedAt is the schema descriptor for created_at field.
	blockDescCreatedAt := blockFields[8].Descriptor()
	// block.DefaultCreatedAt holds the default value on creation for the created_at field.
	block.DefaultCreatedAt = blockDescCreatedAt.Default.(func() time.Time)
	// blockDescUpdatedAt is the schema descriptor for updated_at field.
	blockDescUpdatedAt := blockFields[9].Descriptor()
	// block.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	block.DefaultUpdatedAt = blockDescUpdatedAt.Default.(func() time.Time)
	// block.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	block.UpdateDefaultUpdatedAt = blockDescUpdatedAt.UpdateDefault.(func() time.Time)
	conversationFields := schema.Conversation{}.Fields()
	_ = conversationFields
	// conversationDescCreatedAt is the schema descriptor for created_at field.
	conversationDescCreatedAt := conversationFields[5].Descriptor()
	// conversation.DefaultCreatedAt holds the default value on creation for the created_at field.
	conversation.DefaultCreatedAt = conversationDescCreatedAt.Default.(func() time.Time)
	// conversationDescUpdatedAt is the schema descriptor for updated_at field.
	conversationDescUpdatedAt := conversationFields[6].Descriptor()
	// conversation.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	conversation.DefaultUpdatedAt = conversationDescUpdatedAt.Default.(func() time.Time)
	// conversation.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	conversation.UpdateDefaultUpdatedAt = conversationDescUpdatedAt.UpdateDefault.(func() time.Time)
	eventFields := schema.Event{}.Fields()
	_ = eventFields
	// eventDescCreatedAt is the schema descriptor for created_at field.
	eventDescCreatedAt := eventFields[3].Descriptor()
	// event.DefaultCreatedAt holds the default value on creation for the created_at field.
	event.DefaultCreatedAt = eventDescCreatedAt.Default.(func() time.Time)
	messageFields := schema.Message{}.Fields()
	_ = messageFields
	// messageDescCreatedAt is the schema descriptor for created_at field.
	messageDescCreatedAt := messageFields[5].Descriptor()
	// message.DefaultCreatedAt holds the default value on creation for the created_at field.
	message.DefaultCreatedAt = messageDescCreatedAt.Default.(func() time.Time)
	// messageDescUpdatedAt is the schema descriptor for updated_at field.
	messageDescUpdatedAt := messageFields[6].Descriptor()
	// message.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	message.DefaultUpdatedAt = messageDescUpdatedAt.Default.(func() time.Time)
	// message.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	message.UpdateDefaultUpdatedAt = messageDescUpdatedAt.UpdateDefault.(func() time.Time)
	promptFields := schema.Prompt{}.Fields()
	_ = promptFields
	// promptDescErrorMessage is the schema descriptor for error_message field.
	promptDescErrorMessage := promptFields[7].Descriptor()
	// prompt.DefaultErrorMessage holds the default value on creation for the error_message field.
	prompt.DefaultErrorMessage = promptDescErrorMessage.Default.(string)
	// promptDescCreatedAt is the schema descriptor for created_at field.
	promptDescCreatedAt := promptFields[8].Descriptor()
	// prompt.DefaultCreatedAt holds the default value on creation for the created_at field.
	prompt.DefaultCreatedAt = promptDescCreatedAt.Default.(func() time.Time)
	prompteventFields := schema.PromptEvent{}.Fields()
	_ = prompteventFields
	// prompteventDescCreatedAt is the schema descriptor for created_at field.
	prompteventDescCreatedAt := prompteventFields[5].Descriptor()
	// promptevent.DefaultCreatedAt holds the default value on creation for the created_at field.
	promptevent.DefaultCreatedAt = prompteventDescCreatedAt.Default.(func() time.Time)
	toolcallFields := schema.ToolCall{}.Fields()
	_ = toolcallFields
	// toolcallDescOutput is the schema descriptor for output field.
	toolcallDescOutput := toolcallFields[7].Descriptor()
	// toolcall.DefaultOutput holds the default value on creation for the output field.
	toolcall.DefaultOutput = toolcallDescOutput.Default.(string)
	// toolcallDescErrorMessage is the schema descriptor for error_message field.
	toolcallDescErrorMessage := toolcallFields[8].Descriptor()
	// toolcall.DefaultErrorMessage holds the default value on creation for the error_message field.
	toolcall.DefaultErrorMessage = toolcallDescErrorMessage.Default.(string)
	// toolcallDescCreatedAt is the schema descriptor for created_at field.
	toolcallDescCreatedAt := toolcallFields[11].Descriptor()
	// toolcall.DefaultCreatedAt holds the default value on creation for the created_at field.
	toolcall.DefaultCreatedAt = toolcallDescCreatedAt.Default.(func() time.Time)
	userFields := schema.User{}.Fields()
	_ = userFields
	// userDescCreatedAt is the schema descriptor for created_at field.
	userDescCreatedAt := userFields[3].Descriptor()
	// user.DefaultCreatedAt holds the default value on creation for the created_at field.
	user.DefaultCreatedAt = userDescCreatedAt.Default.(func() time.Time)
}
