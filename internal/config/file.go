package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file structure.
type FileConfig struct {
	ServerPort   string                `toml:"server_port"`
	GroqBaseURL  string                `toml:"groq_base_url"`
	DefaultModel string                `toml:"default_model"`
	WhisperModel string                `toml:"whisper_model"`
	RateLimit    *int                  `toml:"rate_limit"`
	Endpoints    map[string]FilePolicy `toml:"endpoints"`
}

// FilePolicy is a per-endpoint override. Pointer fields distinguish
// unset from zero.
type FilePolicy struct {
	Model       string   `toml:"model"`
	MaxTokens   *int     `toml:"max_tokens"`
	Temperature *float64 `toml:"temperature"`
}

// ConfigPath returns the path to the config file (~/.tutorgate/config.toml).
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.toml")
}

// LoadFile loads configuration from the TOML file.
// Returns an empty FileConfig if the file doesn't exist. On a decode
// error the zero config is returned alongside the error, never nil.
func LoadFile() (*FileConfig, error) {
	cfg := &FileConfig{}

	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// EnsureConfigFile creates a default config file with commented examples if none exists.
func EnsureConfigFile() error {
	path := ConfigPath()

	// If config already exists, do nothing
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := EnsureDataDir(); err != nil {
		return err
	}

	defaultConfig := `# Tutorgate Configuration
# server_port = ":8080"
# default_model = "llama-3.1-8b-instant"
# whisper_model = "whisper-large-v3"
# rate_limit = 0  # requests/minute per client IP, 0 = unlimited

# Per-endpoint generation overrides
# [endpoints.summarize]
# model = "llama-3.1-70b-versatile"
# max_tokens = 600
# temperature = 0.3

# [endpoints.mcq]
# max_tokens = 1000
# temperature = 0.7
`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
