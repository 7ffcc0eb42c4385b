package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("POD_ID", "")
	t.Setenv("HOSTNAME", "")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
	assert.Equal(t, DefaultModel, cfg.DefaultModel)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
	assert.Equal(t, DefaultShellPath, cfg.ShellPath)
	assert.Equal(t, DefaultCommandTimeout, cfg.ShellCommandTimeout)
	assert.Equal(t, DefaultHTTPPort, cfg.HTTPPort)
	assert.Equal(t, "local", cfg.PodID)
}

func TestLoadFromEnvRequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("DEFAULT_MODEL", "claude-opus-4-1")
	t.Setenv("MAX_TOKENS", "2048")
	t.Setenv("SHELL_COMMAND_TIMEOUT", "30s")
	t.Setenv("SHELL_IDLE_EXPIRY", "1h")
	t.Setenv("POD_ID", "pod-7")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "claude-opus-4-1", cfg.DefaultModel)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.ShellCommandTimeout)
	assert.Equal(t, time.Hour, cfg.SessionIdleExpiry)
	assert.Equal(t, "pod-7", cfg.PodID)
}

func TestLoadFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MAX_TOKENS", "lots")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_TOKENS")
}

func TestResolvePodID(t *testing.T) {
	t.Setenv("POD_ID", "pod-1")
	t.Setenv("HOSTNAME", "host-1")
	assert.Equal(t, "pod-1", ResolvePodID())

	t.Setenv("POD_ID", "")
	assert.Equal(t, "host-1", ResolvePodID())

	t.Setenv("HOSTNAME", "")
	assert.Equal(t, "local", ResolvePodID())
}
