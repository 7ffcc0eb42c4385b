// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the environment leaves a setting unset.
const (
	DefaultModel           = "claude-sonnet-4-5"
	DefaultMaxTokens       = 8192
	DefaultProviderRetries = 3
	DefaultHTTPPort        = "8080"
	DefaultShellPath       = "/bin/bash"
	DefaultCommandTimeout  = 2 * time.Minute
	DefaultIdleExpiry      = 30 * time.Minute
)

// DefaultSystemPrompt is sent with every provider request unless overridden
// via SYSTEM_PROMPT.
const DefaultSystemPrompt = "You are a helpful assistant with access to a " +
	"persistent shell on the server. Use the bash tool to inspect the system " +
	"when a question calls for it."

// Config holds all application settings.
type Config struct {
	// Provider
	AnthropicAPIKey    string
	DefaultModel       string
	SystemPrompt       string
	MaxTokens          int
	MaxProviderRetries int

	// Shell sessions
	ShellPath           string
	ShellCommandTimeout time.Duration
	SessionIdleExpiry   time.Duration

	// Server
	HTTPPort string
	PodID    string
}

// LoadFromEnv reads the configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}

	maxTokens, err := intEnv("MAX_TOKENS", DefaultMaxTokens)
	if err != nil {
		return nil, err
	}
	maxRetries, err := intEnv("MAX_PROVIDER_RETRIES", DefaultProviderRetries)
	if err != nil {
		return nil, err
	}
	commandTimeout, err := durationEnv("SHELL_COMMAND_TIMEOUT", DefaultCommandTimeout)
	if err != nil {
		return nil, err
	}
	idleExpiry, err := durationEnv("SHELL_IDLE_EXPIRY", DefaultIdleExpiry)
	if err != nil {
		return nil, err
	}

	return &Config{
		AnthropicAPIKey:     apiKey,
		DefaultModel:        getEnv("DEFAULT_MODEL", DefaultModel),
		SystemPrompt:        getEnv("SYSTEM_PROMPT", DefaultSystemPrompt),
		MaxTokens:           maxTokens,
		MaxProviderRetries:  maxRetries,
		ShellPath:           getEnv("SHELL_PATH", DefaultShellPath),
		ShellCommandTimeout: commandTimeout,
		SessionIdleExpiry:   idleExpiry,
		HTTPPort:            getEnv("HTTP_PORT", DefaultHTTPPort),
		PodID:               ResolvePodID(),
	}, nil
}

// ResolvePodID determines the pod identifier for multi-replica coordination.
// Priority: POD_ID env > HOSTNAME env > "local"
func ResolvePodID() string {
	if id := os.Getenv("POD_ID"); id != "" {
		return id
	}
	if hostname := os.Getenv("HOSTNAME"); hostname != "" {
		return hostname
	}
	return "local"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
