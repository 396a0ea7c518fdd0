// ABOUTME: Centralized configuration for the GalaxyGPT pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the question-answering pipeline.
type Config struct {
	// OpenAI settings
	OpenAIKey       string
	ChatModel       string
	EmbeddingModel  string
	ModerationModel string
	Timeout         time.Duration
	MaxRetries      int
	RetryDelay      time.Duration

	// Corpus settings
	DBPath          string
	MaxChunkTokens  int
	VectorDimension int

	// Retrieval settings
	ContextMaxSegments int
	ContextMaxTokens   int

	// Chat settings
	MaxInputTokens   int
	AllowUnmoderated bool

	// Embedding run settings
	EmbedConcurrency  int
	BatchInitialDelay time.Duration
	BatchPollInterval time.Duration
	BatchDeadline     time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		ChatModel:       getEnv("GALAXYGPT_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel:  getEnv("GALAXYGPT_EMBEDDING_MODEL", "text-embedding-3-small"),
		ModerationModel: getEnv("GALAXYGPT_MODERATION_MODEL", "omni-moderation-latest"),
		Timeout:         getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:      getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),

		DBPath:          os.Getenv("GALAXYGPT_DB_PATH"),
		MaxChunkTokens:  getEnvInt("GALAXYGPT_MAX_CHUNK_TOKENS", 8191),
		VectorDimension: getEnvInt("GALAXYGPT_VECTOR_DIMENSION", 1536),

		ContextMaxSegments: getEnvInt("GALAXYGPT_CONTEXT_MAX_SEGMENTS", 5),
		ContextMaxTokens:   getEnvInt("GALAXYGPT_CONTEXT_MAX_TOKENS", 0),

		MaxInputTokens:   getEnvInt("GALAXYGPT_MAX_INPUT_TOKENS", 0),
		AllowUnmoderated: getEnvBool("GALAXYGPT_ALLOW_UNMODERATED", false),

		EmbedConcurrency:  getEnvInt("GALAXYGPT_EMBED_CONCURRENCY", 8),
		BatchInitialDelay: getEnvDuration("GALAXYGPT_BATCH_INITIAL_DELAY", 3*time.Second),
		BatchPollInterval: getEnvDuration("GALAXYGPT_BATCH_POLL_INTERVAL", 10*time.Second),
		BatchDeadline:     getEnvDuration("GALAXYGPT_BATCH_DEADLINE", 2*time.Hour),
	}

	return cfg, cfg.Validate()
}

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.MaxChunkTokens <= 0 {
		return fmt.Errorf("GALAXYGPT_MAX_CHUNK_TOKENS must be positive, got %d", c.MaxChunkTokens)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("GALAXYGPT_VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	if c.EmbedConcurrency <= 0 {
		return fmt.Errorf("GALAXYGPT_EMBED_CONCURRENCY must be positive, got %d", c.EmbedConcurrency)
	}
	if c.BatchPollInterval <= 0 {
		return fmt.Errorf("GALAXYGPT_BATCH_POLL_INTERVAL must be positive, got %v", c.BatchPollInterval)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
