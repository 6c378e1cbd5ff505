// Package config loads gateway configuration once at process start.
// Priority: env vars → config.toml → defaults. Nothing is hot-reloaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Endpoint names used for policy lookup and request logging.
const (
	EndpointChat       = "chat"
	EndpointMCQ        = "mcq"
	EndpointSummarize  = "summarize"
	EndpointVideo      = "video-explainer"
	EndpointConceptMap = "concept-map"
	EndpointVoice      = "voice"
)

// Default model identifiers. The chat default is deliberately explicit
// and overridable; deployments that want a larger model set DEFAULT_MODEL.
const (
	DefaultModel        = "llama-3.1-8b-instant"
	DefaultWhisperModel = "whisper-large-v3"
)

// Config holds the immutable application configuration.
type Config struct {
	// ServerPort is the address to bind the server to (e.g., ":8080")
	ServerPort string

	// Upstream Groq / OpenAI-compatible API
	GroqAPIKey  string
	GroqBaseURL string

	// Optional shared secret authorizing callers. AuthTokenHash is the
	// argon2id-encoded alternative for deployments that refuse plaintext
	// secrets in the environment. At most one should be set.
	AuthToken     string
	AuthTokenHash string

	DefaultModel string
	WhisperModel string

	// RateLimit is requests per minute per client IP. 0 = unlimited.
	RateLimit int

	// Endpoints maps endpoint name to its generation policy.
	Endpoints map[string]EndpointPolicy
}

// EndpointPolicy holds the generation parameters for one endpoint.
type EndpointPolicy struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Load reads configuration from file and environment variables.
// Environment variables override file config values. A malformed
// config file is a startup error, not something to silently skip.
func Load() (*Config, error) {
	fileConfig, err := LoadFile()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigPath(), err)
	}

	cfg := &Config{
		ServerPort:    getEnvOrFile("SERVER_PORT", fileConfig.ServerPort, ":8080"),
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:   getEnvOrFile("GROQ_BASE_URL", fileConfig.GroqBaseURL, ""),
		AuthToken:     os.Getenv("AUTH_TOKEN"),
		AuthTokenHash: os.Getenv("AUTH_TOKEN_HASH"),
		DefaultModel:  getEnvOrFile("DEFAULT_MODEL", fileConfig.DefaultModel, DefaultModel),
		WhisperModel:  getEnvOrFile("WHISPER_MODEL", fileConfig.WhisperModel, DefaultWhisperModel),
		RateLimit:     getEnvIntOrFile("RATE_LIMIT", fileConfig.RateLimit, 0),
	}

	if cfg.GroqAPIKey == "" {
		return nil, errors.New("GROQ_API_KEY is required")
	}

	cfg.Endpoints = mergePolicies(cfg.DefaultModel, fileConfig.Endpoints)
	return cfg, nil
}

// defaultPolicies returns the built-in per-endpoint generation
// parameters: looser limits for free chat, tighter temperature for
// summarization, mid-range for structured extraction.
func defaultPolicies(model string) map[string]EndpointPolicy {
	return map[string]EndpointPolicy{
		EndpointChat:       {Model: model, MaxTokens: 800, Temperature: 0.7},
		EndpointMCQ:        {Model: model, MaxTokens: 1000, Temperature: 0.7},
		EndpointSummarize:  {Model: model, MaxTokens: 600, Temperature: 0.3},
		EndpointVideo:      {Model: model, MaxTokens: 800, Temperature: 0.7},
		EndpointConceptMap: {Model: model, MaxTokens: 900, Temperature: 0.5},
	}
}

// mergePolicies overlays file config endpoint overrides onto the
// built-in defaults. Unknown endpoint names in the file are ignored.
func mergePolicies(model string, overrides map[string]FilePolicy) map[string]EndpointPolicy {
	policies := defaultPolicies(model)
	for name, o := range overrides {
		pol, ok := policies[name]
		if !ok {
			continue
		}
		if o.Model != "" {
			pol.Model = o.Model
		}
		if o.MaxTokens != nil && *o.MaxTokens > 0 {
			pol.MaxTokens = *o.MaxTokens
		}
		if o.Temperature != nil && *o.Temperature >= 0 && *o.Temperature <= 2 {
			pol.Temperature = *o.Temperature
		}
		policies[name] = pol
	}
	return policies
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvIntOrFile returns env int, file int, or default (in priority order)
func getEnvIntOrFile(key string, fileValue *int, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	if fileValue != nil {
		return *fileValue
	}
	return defaultValue
}
