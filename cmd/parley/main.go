// Parley orchestrator server — exposes the conversation HTTP/WebSocket API,
// streams model output, and runs tool calls in per-conversation shells.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/parleyhq/parley/pkg/api"
	"github.com/parleyhq/parley/pkg/config"
	"github.com/parleyhq/parley/pkg/coordinator"
	"github.com/parleyhq/parley/pkg/database"
	"github.com/parleyhq/parley/pkg/engine"
	"github.com/parleyhq/parley/pkg/events"
	"github.com/parleyhq/parley/pkg/provider"
	"github.com/parleyhq/parley/pkg/services"
	"github.com/parleyhq/parley/pkg/shell"
	"github.com/parleyhq/parley/pkg/tools"
	"github.com/parleyhq/parley/pkg/version"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment", "error", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Parley",
		"version", version.Full(),
		"http_port", cfg.HTTPPort,
		"pod_id", cfg.PodID,
		"model", cfg.DefaultModel)

	ctx := context.Background()

	// 1. Database (runs pending migrations)
	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		slog.Error("Failed to load database config", "error", err)
		os.Exit(1)
	}
	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			slog.Error("Error closing database client", "error", err)
		}
	}()
	slog.Info("Connected to PostgreSQL database")

	// 2. Domain services
	users := services.NewUserService(dbClient.Client)
	conversations := services.NewConversationService(dbClient.Client)
	messages := services.NewMessageService(dbClient.Client)
	prompts := services.NewPromptService(dbClient.Client)
	blocks := services.NewBlockService(dbClient.Client)
	toolCalls := services.NewToolCallService(dbClient.Client)
	eventService := services.NewEventService(dbClient.Client)

	// 3. Streaming infrastructure: durable publisher, NOTIFY listener, bus
	bus := events.NewBus()
	publisher := events.NewPublisher(dbClient.DB())

	notifyListener := events.NewNotifyListener(dbConfig.DSN(), bus)
	if err := notifyListener.Start(ctx); err != nil {
		slog.Error("Failed to start NotifyListener", "error", err)
		os.Exit(1)
	}
	defer notifyListener.Stop(ctx)
	bus.SetListener(notifyListener)
	slog.Info("Streaming infrastructure initialized")

	// 4. Shell pool and tool registry
	pool := shell.NewPool(shell.PoolConfig{
		Session: shell.Config{
			ShellPath:      cfg.ShellPath,
			CommandTimeout: cfg.ShellCommandTimeout,
		},
		IdleExpiry: cfg.SessionIdleExpiry,
	})
	pool.Start()
	defer pool.DestroyAll()

	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewBashDefinition(pool)); err != nil {
		slog.Error("Failed to register bash tool", "error", err)
		os.Exit(1)
	}
	executor := tools.NewExecutor(registry, toolCalls, blocks, publisher)

	// 5. Provider and prompt engine
	llm, err := provider.NewAnthropicProvider(cfg.AnthropicAPIKey)
	if err != nil {
		slog.Error("Failed to initialize Anthropic provider", "error", err)
		os.Exit(1)
	}
	eng := engine.New(llm, executor, prompts, blocks, toolCalls, publisher, engine.Config{
		MaxRetries: cfg.MaxProviderRetries,
	})

	// 6. Coordinator; recover prompts orphaned by the previous run first
	coord := coordinator.New(coordinator.Config{
		PodID:        cfg.PodID,
		DefaultModel: cfg.DefaultModel,
		SystemPrompt: cfg.SystemPrompt,
		MaxTokens:    cfg.MaxTokens,
	}, eng, conversations, messages, prompts, blocks, toolCalls, publisher, bus, registry.ProviderTools())

	if err := coord.RecoverOrphans(ctx); err != nil {
		slog.Error("Failed to recover orphaned prompts", "error", err)
		// Non-fatal — continue
	}

	// 7. HTTP server
	connManager := api.NewConnectionManager(bus, events.NewEventServiceAdapter(eventService), 10*time.Second)
	srv := api.NewServer(dbClient, coord, users, conversations, pool, connManager)

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: srv.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("Parley started successfully", "pod_id", cfg.PodID)

	// 8. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 9. Graceful shutdown: stop accepting requests, settle active prompts,
	// then tear down streaming. Deferred cleanups close the pool, listener,
	// and database afterwards.
	httpShutdownCtx, httpCancel := context.WithTimeout(ctx, 5*time.Second)
	defer httpCancel()
	if err := httpServer.Shutdown(httpShutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	done := make(chan struct{})
	go func() {
		coord.Stop()
		close(done)
	}()
	select {
	case <-done:
		slog.Info("Coordinator stopped gracefully")
	case <-time.After(30 * time.Second):
		slog.Warn("Coordinator shutdown timeout exceeded — incomplete prompts will be orphan-recovered")
	}

	bus.Shutdown()
	slog.Info("Shutdown complete")
}
