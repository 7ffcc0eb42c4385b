package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/ent"
	"github.com/parleyhq/parley/ent/block"
	testdb "github.com/parleyhq/parley/test/database"
)

// newServiceFixture creates a user and a conversation over a real database.
func newServiceFixture(t *testing.T) (*ent.Client, string) {
	t.Helper()
	ctx := context.Background()
	client := testdb.NewTestClient(t)

	users := NewUserService(client.Client)
	convs := NewConversationService(client.Client)
	user, err := users.GetOrCreateUser(ctx, "services@test.local", "Services Test")
	require.NoError(t, err)
	conv, err := convs.CreateConversation(ctx, user.ID, "service test")
	require.NoError(t, err)
	return client.Client, conv.ID
}

func TestListMessagesLoadsBlocksInOrder(t *testing.T) {
	ctx := context.Background()
	client, convID := newServiceFixture(t)
	messages := NewMessageService(client)

	msg, err := messages.CreateAssistantMessage(ctx, convID)
	require.NoError(t, err)

	// Insert rows out of sequence; physical row order must not leak into
	// the loaded edge. Streaming appends rewrite block rows constantly, so
	// the table order diverges from the logical order in practice.
	for _, ord := range []int{2, 0, 1} {
		_, err := client.Block.Create().
			SetID(uuid.New().String()).
			SetMessageID(msg.ID).
			SetType(block.TypeText).
			SetOrder(ord).
			SetContent(fmt.Sprintf("block-%d", ord)).
			SetIsFinalized(true).
			Save(ctx)
		require.NoError(t, err)
	}

	msgs, err := messages.ListMessages(ctx, convID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	blks := msgs[0].Edges.Blocks
	require.Len(t, blks, 3)
	for i, b := range blks {
		assert.Equal(t, i, b.Order)
		assert.Equal(t, fmt.Sprintf("block-%d", i), b.Content)
	}
}
