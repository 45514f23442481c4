// Package main provides a reference A2A server that exposes an agent over
// the A2A protocol: JSON-RPC for message/send, Server-Sent Events (SSE) for
// message/stream.
//
// Configuration is via environment variables:
//
//	A2A_PORT          - Server port (default: 8000)
//	A2A_LOG_LEVEL     - Log level: debug, info, warn, error (default: info)
//	A2A_PROVIDER      - Provider: anthropic or openai (required)
//	A2A_MODEL         - Model override (optional, uses provider default)
//	A2A_AGENT_NAME    - Agent name (default: assistant)
//	A2A_INSTRUCTIONS  - Agent system prompt
//	A2A_MAX_TURNS     - Max model calls per run (default: 10)
//	A2A_DEMO_TOOLS    - Enable demo tools (default: true)
//	A2A_DATA_DIR      - Enable SQLite session persistence in this directory
//	ANTHROPIC_API_KEY - Anthropic API key
//	OPENAI_API_KEY    - OpenAI API key
//
// Usage:
//
//	A2A_PROVIDER=anthropic go run ./cmd/a2aserver
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	a2anet "github.com/a2anet/a2anet-go"
	"github.com/a2anet/a2anet-go/a2a"
	"github.com/a2anet/a2anet-go/internal/provider/anthropic"
	"github.com/a2anet/a2anet-go/internal/provider/openai"
	"github.com/a2anet/a2anet-go/runner"
	"github.com/a2anet/a2anet-go/session"
)

const judgeInstructions = `You review the transcript of a completed agent run and classify how it resolved the task.
Assign completed only when the task is fully done, and extract each concrete output as an artifact.
Assign input-required when the agent needs more information from the user, auth-required when it is blocked on credentials,
rejected when it declined the task, and failed when it could not finish.`

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	setupLogging(cfg.LogLevel)

	provider, err := createProvider(cfg)
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}
	r := runner.New(provider, runner.WithMaxTurns(cfg.MaxTurns))

	agent := &a2anet.Agent{
		Name:         cfg.AgentName,
		Instructions: cfg.Instructions,
		Model:        cfg.Model,
	}
	if cfg.EnableDemoTools {
		agent.Tools = DemoTools()
		slog.Info("registered demo tools", "count", len(agent.Tools))
	}

	judge := &a2anet.Agent{
		Name:         cfg.AgentName + "-judge",
		Instructions: judgeInstructions,
		Model:        cfg.Model,
		OutputSchema: a2a.StructuredResponseSchema(),
	}

	opts := []a2a.Option{a2a.WithLogger(slog.Default())}
	if cfg.DataDir != "" {
		store, err := session.NewStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to open session store: %v", err)
		}
		defer store.Close()
		opts = append(opts, a2a.WithSessionProvider(store.Provider()))
		slog.Info("session persistence enabled", "dir", cfg.DataDir)
	} else {
		opts = append(opts, a2a.WithSessionProvider(session.InMemory()))
	}

	executor := a2a.NewExecutor(r, agent, judge, opts...)
	handler := NewTaskHandler(executor)

	mux := http.NewServeMux()
	mux.Handle("/", corsMiddleware(handler))
	mux.HandleFunc("/health", healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE needs no write timeout
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("A2A server starting", "port", cfg.Port, "provider", cfg.Provider)
	slog.Info("endpoints",
		"rpc", fmt.Sprintf("POST http://localhost:%s/", cfg.Port),
		"health", fmt.Sprintf("GET http://localhost:%s/health", cfg.Port),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	slog.Info("server stopped")
}

func createProvider(cfg *Config) (runner.Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.New(cfg.AnthropicKey), nil
	case "openai":
		return openai.New(cfg.OpenAIKey), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
