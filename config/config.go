package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Port          int
	GeminiAPIKey  string
	GeminiModel   string
	LLMTimeout    time.Duration // per-request budget for completion calls
	DBPath        string
	AgentPhone    string // human operator number; empty disables transfers
	RedisURL      string
	RedisPassword string
	CallTTL       time.Duration // how long an idle call stays in the registry
	LogLevel      string
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	config := &Config{
		Port:        3000,
		GeminiModel: "gemini-2.0-flash",
		LLMTimeout:  30 * time.Second,
		DBPath:      "data/voice_agent.db",
		RedisURL:    "localhost:6379",
		CallTTL:     30 * time.Minute,
		LogLevel:    "info",
	}

	// Required: GEMINI_API_KEY
	config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	// Optional: PORT
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Port = p
	}

	// Optional: GEMINI_MODEL
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		config.GeminiModel = model
	}

	// Optional: LLM_TIMEOUT (in seconds)
	if timeout := os.Getenv("LLM_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
		}
		config.LLMTimeout = time.Duration(t) * time.Second
	}

	// Optional: DB_PATH
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		config.DBPath = dbPath
	}

	// Optional: AGENT_PHONE
	if phone := os.Getenv("AGENT_PHONE"); phone != "" {
		config.AgentPhone = phone
	}

	// Optional: REDIS_URL
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		config.RedisURL = redisURL
	}

	// Optional: REDIS_PASSWORD
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.RedisPassword = redisPassword
	}

	// Optional: CALL_TTL (in minutes)
	if ttl := os.Getenv("CALL_TTL"); ttl != "" {
		t, err := strconv.Atoi(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid CALL_TTL: %w", err)
		}
		config.CallTTL = time.Duration(t) * time.Minute
	}

	// Optional: LOG_LEVEL
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}

	return config, nil
}
