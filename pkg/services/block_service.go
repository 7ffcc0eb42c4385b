package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/block"
)

// BlockService manages message content blocks
type BlockService struct {
	client *ent.Client
}

// NewBlockService creates a new BlockService
func NewBlockService(client *ent.Client) *BlockService {
	return &BlockService{client: client}
}

// CreateBlock creates an open (non-finalized) block at the next order slot
// of the message.
func (s *BlockService) CreateBlock(ctx context.Context, messageID, promptID string, blockType block.Type, metadata map[string]interface{}) (*ent.Block, error) {
	if messageID == "" {
		return nil, NewValidationError("message_id", "required")
	}

	var created *ent.Block
	err := withTx(ctx, s.client, func(tx *ent.Tx) error {
		order, err := nextBlockOrder(ctx, tx, messageID)
		if err != nil {
			return err
		}
		create := tx.Block.Create().
			SetID(uuid.New().String()).
			SetMessageID(messageID).
			SetType(blockType).
			SetOrder(order)
		if promptID != "" {
			create.SetPromptID(promptID)
		}
		if metadata != nil {
			create.SetMetadata(metadata)
		}
		created, err = create.Save(ctx)
		if err != nil {
			return fmt.Errorf("failed to create block: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func nextBlockOrder(ctx context.Context, tx *ent.Tx, messageID string) (int, error) {
	last, err := tx.Block.Query().
		Where(block.MessageIDEQ(messageID)).
		Order(ent.Desc(block.FieldOrder)).
		First(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query block order: %w", err)
	}
	return last.Order + 1, nil
}

// AppendContent appends streamed content to an open block.
func (s *BlockService) AppendContent(ctx context.Context, blockID, chunk string) error {
	if chunk == "" {
		return nil
	}
	blk, err := s.client.Block.Get(ctx, blockID)
	if err != nil {
		if ent.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get block: %w", err)
	}
	if blk.IsFinalized {
		return ErrConflict
	}
	err = s.client.Block.UpdateOne(blk).
		SetContent(blk.Content + chunk).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to append block content: %w", err)
	}
	return nil
}

// Finalize freezes a block, optionally replacing its content and metadata.
func (s *BlockService) Finalize(ctx context.Context, blockID string, content *string, metadata map[string]interface{}) (*ent.Block, error) {
	update := s.client.Block.UpdateOneID(blockID).
		SetIsFinalized(true)
	if content != nil {
		update.SetContent(*content)
	}
	if metadata != nil {
		update.SetMetadata(metadata)
	}
	blk, err := update.Save(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to finalize block: %w", err)
	}
	return blk, nil
}

// GetBlock retrieves a block by id
func (s *BlockService) GetBlock(ctx context.Context, id string) (*ent.Block, error) {
	blk, err := s.client.Block.Get(ctx, id)
	if err != nil {
		if ent.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get block: %w", err)
	}
	return blk, nil
}

// MessageBlocks returns a message's blocks in order.
func (s *BlockService) MessageBlocks(ctx context.Context, messageID string) ([]*ent.Block, error) {
	blocks, err := s.client.Block.Query().
		Where(block.MessageIDEQ(messageID)).
		Order(ent.Asc(block.FieldOrder)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	return blocks, nil
}

// OpenPromptBlocks returns the non-finalized blocks produced by a prompt in
// order. Used for synthetic replay when a subscriber attaches mid-stream.
func (s *BlockService) OpenPromptBlocks(ctx context.Context, promptID string) ([]*ent.Block, error) {
	blocks, err := s.client.Block.Query().
		Where(
			block.PromptIDEQ(promptID),
			block.IsFinalized(false),
		).
		Order(ent.Asc(block.FieldOrder)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open prompt blocks: %w", err)
	}
	return blocks, nil
}
