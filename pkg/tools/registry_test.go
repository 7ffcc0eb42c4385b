package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopRunner(_ context.Context, _ Request) (string, error) {
	return "", nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&Definition{
		Name:        "echo",
		Description: "echoes input",
		InputSchema: json.RawMessage(`{"type":"object","properties":{"text":{"type":"string"}},"required":["text"]}`),
		Run:         noopRunner,
	})
	require.NoError(t, err)

	def, ok := r.Get("echo")
	require.True(t, ok)
	assert.Equal(t, "echo", def.Name)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Definition{Name: "echo", Run: noopRunner}))
	err := r.Register(&Definition{Name: "echo", Run: noopRunner})
	assert.ErrorContains(t, err, "already registered")
}

func TestRegistryRejectsInvalidSchema(t *testing.T) {
	r := NewRegistry()
	err := r.Register(&Definition{
		Name:        "broken",
		InputSchema: json.RawMessage(`{"type": 42}`),
		Run:         noopRunner,
	})
	assert.Error(t, err)
}

func TestValidateInput(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Definition{
		Name:        "bash",
		InputSchema: bashInputSchema,
		Run:         noopRunner,
	}))
	def, _ := r.Get("bash")

	assert.NoError(t, def.ValidateInput(map[string]any{"command": "ls"}))

	err := def.ValidateInput(map[string]any{})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))

	err = def.ValidateInput(map[string]any{"command": 7.0})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))

	err = def.ValidateInput(map[string]any{"command": "ls", "extra": true})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}

func TestValidateInputNilSchema(t *testing.T) {
	def := &Definition{Name: "free", Run: noopRunner}
	assert.NoError(t, def.ValidateInput(map[string]any{"anything": "goes"}))
}

func TestProviderTools(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Definition{
		Name:        "bash",
		Description: "run commands",
		InputSchema: bashInputSchema,
		Run:         noopRunner,
	}))
	require.NoError(t, r.Register(&Definition{
		Name: "second",
		Run:  noopRunner,
	}))

	advertised := r.ProviderTools()
	require.Len(t, advertised, 2)
	assert.Equal(t, "bash", advertised[0].Name)
	assert.Equal(t, "run commands", advertised[0].Description)
	assert.JSONEq(t, string(bashInputSchema), string(advertised[0].InputSchema))
	assert.Equal(t, "second", advertised[1].Name)
}
