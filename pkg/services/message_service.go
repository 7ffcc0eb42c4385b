package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/message"
)

// MessageService manages conversation messages and the per-conversation
// user message queue.
type MessageService struct {
	client *ent.Client
}

// NewMessageService creates a new MessageService
func NewMessageService(client *ent.Client) *MessageService {
	return &MessageService{client: client}
}

// QueueUserMessage appends a queued user message at the tail of the
// conversation's queue.
func (s *MessageService) QueueUserMessage(ctx context.Context, conversationID, content string) (*ent.Message, *ent.Block, error) {
	if conversationID == "" {
		return nil, nil, NewValidationError("conversation_id", "required")
	}
	if content == "" {
		return nil, nil, NewValidationError("content", "required")
	}

	var msg *ent.Message
	var blk *ent.Block
	err := withTx(ctx, s.client, func(tx *ent.Tx) error {
		next, err := nextQueueOrder(ctx, tx, conversationID)
		if err != nil {
			return err
		}
		msg, err = tx.Message.Create().
			SetID(uuid.New().String()).
			SetConversationID(conversationID).
			SetRole(message.RoleUser).
			SetStatus(message.StatusQueued).
			SetQueueOrder(next).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("failed to create queued message: %w", err)
		}
		blk, err = tx.Block.Create().
			SetID(uuid.New().String()).
			SetMessageID(msg.ID).
			SetType(block.TypeText).
			SetOrder(0).
			SetContent(content).
			SetIsFinalized(true).
			Save(ctx)
		if err != nil {
			return fmt.Errorf("failed to create message block: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return msg, blk, nil
}

func nextQueueOrder(ctx context.Context, tx *ent.Tx, conversationID string) (int, error) {
	last, err := tx.Message.Query().
		Where(
			message.ConversationIDEQ(conversationID),
			message.QueueOrderNotNil(),
		).
		Order(ent.Desc(message.FieldQueueOrder)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query queue tail: %w", err)
	}
	return *last.QueueOrder + 1, nil
}

// CreateAssistantMessage creates an assistant message born in processing.
func (s *MessageService) CreateAssistantMessage(ctx context.Context, conversationID string) (*ent.Message, error) {
	msg, err := s.client.Message.Create().
		SetID(uuid.New().String()).
		SetConversationID(conversationID).
		SetRole(message.RoleAssistant).
		SetStatus(message.StatusProcessing).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant message: %w", err)
	}
	return msg, nil
}

// GetMessage retrieves a message by id
func (s *MessageService) GetMessage(ctx context.Context, id string) (*ent.Message, error) {
	msg, err := s.client.Message.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// ListMessages returns a conversation's messages in transcript order with
// their blocks.
func (s *MessageService) ListMessages(ctx context.Context, conversationID string) ([]*ent.Message, error) {
	msgs, err := s.client.Message.Query().
		Where(message.ConversationIDEQ(conversationID)).
		Order(ent.Asc(message.FieldCreatedAt)).
		WithBlocks(func(q *ent.BlockQuery) {
			q.Order(ent.Asc(block.FieldOrder))
		}).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

// EditQueuedMessage replaces the content of a message that is still queued.
// Returns ErrConflict once the message has been claimed for processing.
func (s *MessageService) EditQueuedMessage(ctx context.Context, messageID, content string) error {
	if content == "" {
		return NewValidationError("content", "required")
	}
	return withTx(ctx, s.client, func(tx *ent.Tx) error {
		msg, err := tx.Message.Query().
			Where(message.IDEQ(messageID)).
			ForUpdate().
			Only(ctx)
		if err != nil {
			if ent.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load message: %w", err)
		}
		if msg.Status != message.StatusQueued {
			return ErrConflict
		}
		blocks, err := msg.QueryBlocks().All(ctx)
		if err != nil {
			return fmt.Errorf("failed to load message blocks: %w", err)
		}
		for _, b := range blocks {
			if _, err := tx.Block.UpdateOne(b).SetContent(content).Save(ctx); err != nil {
				return fmt.Errorf("failed to update block: %w", err)
			}
		}
		if _, err := tx.Message.UpdateOne(msg).Save(ctx); err != nil {
			return fmt.Errorf("failed to touch message: %w", err)
		}
		return nil
	})
}

// DeleteQueuedMessage removes a message that is still queued.
// Returns ErrConflict once the message has been claimed for processing.
func (s *MessageService) DeleteQueuedMessage(ctx context.Context, messageID string) error {
	return withTx(ctx, s.client, func(tx *ent.Tx) error {
		msg, err := tx.Message.Query().
			Where(message.IDEQ(messageID)).
			ForUpdate().
			Only(ctx)
		if err != nil {
			if ent.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load message: %w", err)
		}
		if msg.Status != message.StatusQueued {
			return ErrConflict
		}
		if err := tx.Message.DeleteOne(msg).Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete message: %w", err)
		}
		return nil
	})
}

// NextQueued returns the oldest queued user message, or ErrNotFound when
// the queue is empty.
func (s *MessageService) NextQueued(ctx context.Context, conversationID string) (*ent.Message, error) {
	msg, err := s.client.Message.Query().
		Where(
			message.ConversationIDEQ(conversationID),
			message.StatusEQ(message.StatusQueued),
		).
		Order(ent.Asc(message.FieldQueueOrder)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query queue head: %w", err)
	}
	return msg, nil
}

// SetStatus transitions a message's lifecycle status.
func (s *MessageService) SetStatus(ctx context.Context, messageID string, status message.Status) error {
	err := s.client.Message.UpdateOneID(messageID).
		SetStatus(status).
		Exec(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to set message status: %w", err)
	}
	return nil
}

// Requeue returns a claimed user message to the head of the queue after a
// prompt failure, so the next drain retries it.
func (s *MessageService) Requeue(ctx context.Context, messageID string) error {
	return withTx(ctx, s.client, func(tx *ent.Tx) error {
		msg, err := tx.Message.Get(ctx, messageID)
		if err != nil {
			if ent.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load message: %w", err)
		}
		head, err := tx.Message.Query().
			Where(
				message.ConversationIDEQ(msg.ConversationID),
				message.QueueOrderNotNil(),
			).
			Order(ent.Asc(message.FieldQueueOrder)).
			First(ctx)
		order := 0
		if err == nil && head.QueueOrder != nil {
			order = *head.QueueOrder - 1
		} else if err != nil && !ent.IsNotFound(err) {
			return fmt.Errorf("failed to query queue head: %w", err)
		}
		err = tx.Message.UpdateOne(msg).
			SetStatus(message.StatusQueued).
			SetQueueOrder(order).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to requeue message: %w", err)
		}
		return nil
	})
}

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, client *ent.Client, fn func(tx *ent.Tx) error) error {
	tx, err := client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
