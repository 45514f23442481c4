package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Port     string
	LogLevel string // debug, info, warn, error

	// Provider selection
	Provider string
	Model    string

	// API Keys
	AnthropicKey string
	OpenAIKey    string

	// Agent config
	AgentName       string
	Instructions    string
	MaxTurns        int
	EnableDemoTools bool

	// DataDir, when set, enables SQLite-backed session persistence.
	// Empty means in-memory history only.
	DataDir string
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Port:            getEnvOrDefault("A2A_PORT", "8000"),
		LogLevel:        getEnvOrDefault("A2A_LOG_LEVEL", "info"),
		Provider:        os.Getenv("A2A_PROVIDER"),
		Model:           os.Getenv("A2A_MODEL"),
		AnthropicKey:    os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		AgentName:       getEnvOrDefault("A2A_AGENT_NAME", "assistant"),
		Instructions:    getEnvOrDefault("A2A_INSTRUCTIONS", "You are a helpful assistant."),
		MaxTurns:        getEnvIntOrDefault("A2A_MAX_TURNS", 10),
		EnableDemoTools: getEnvBoolOrDefault("A2A_DEMO_TOOLS", true),
		DataDir:         os.Getenv("A2A_DATA_DIR"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("A2A_PROVIDER is required (anthropic or openai)")
	}

	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic or openai)", c.Provider)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
