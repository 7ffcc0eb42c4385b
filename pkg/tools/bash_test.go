package tools

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parleyhq/parley/pkg/shell"
)

func newBashTool(t *testing.T) *Definition {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
	pool := shell.NewPool(shell.PoolConfig{})
	t.Cleanup(pool.DestroyAll)
	return NewBashDefinition(pool)
}

func TestBashRunSuccess(t *testing.T) {
	def := newBashTool(t)
	var chunks []string

	out, err := def.Run(context.Background(), Request{
		ConversationID: "conv-1",
		Input:          map[string]any{"command": "echo hello"},
		Emit:           func(c string) { chunks = append(chunks, c) },
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Contains(t, strings.Join(chunks, ""), "hello")
}

func TestBashRunNonZeroExitIsResult(t *testing.T) {
	def := newBashTool(t)

	out, err := def.Run(context.Background(), Request{
		ConversationID: "conv-1",
		Input:          map[string]any{"command": "ls /definitely/not/here"},
		Emit:           func(string) {},
	})
	// The command failed but the tool succeeded; the error text is the result.
	require.NoError(t, err)
	assert.Contains(t, out, "[exit status")
	assert.Contains(t, strings.ToLower(out), "no such file")
}

func TestBashRunStatePersists(t *testing.T) {
	def := newBashTool(t)
	ctx := context.Background()

	_, err := def.Run(ctx, Request{
		ConversationID: "conv-1",
		Input:          map[string]any{"command": "export BASH_TOOL_TEST=persisted"},
		Emit:           func(string) {},
	})
	require.NoError(t, err)

	out, err := def.Run(ctx, Request{
		ConversationID: "conv-1",
		Input:          map[string]any{"command": "echo $BASH_TOOL_TEST"},
		Emit:           func(string) {},
	})
	require.NoError(t, err)
	assert.Equal(t, "persisted", out)
}

func TestBashRunEmptyCommand(t *testing.T) {
	def := newBashTool(t)

	_, err := def.Run(context.Background(), Request{
		ConversationID: "conv-1",
		Input:          map[string]any{"command": "   "},
		Emit:           func(string) {},
	})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}
