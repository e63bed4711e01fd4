// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultModel is the generation model used when the config omits one.
	defaultModel = "phi4-mini"
	// defaultBaseURL points at a local Ollama-compatible generation service.
	defaultBaseURL = "http://127.0.0.1:11434"
	// defaultRequestTimeout bounds a single generation request. Medical-document
	// generation on local models is slow, so the read deadline is generous.
	defaultRequestTimeout = 60 * time.Second
	// defaultConnectTimeout bounds TCP connection establishment.
	defaultConnectTimeout = 5 * time.Second
	// defaultMaxRetries bounds LLM calls per structured prompt.
	defaultMaxRetries = 3
	// defaultStyle is the summary style used when none is requested.
	defaultStyle = "patient-friendly"
)

// Config represents the top-level application configuration.
type Config struct {
	Model          string     `json:"model"`
	BaseURL        string     `json:"baseUrl"`
	TimeoutSeconds int        `json:"timeout,omitempty"`
	ConnectSeconds int        `json:"connectTimeout,omitempty"`
	ChunkMaxChars  int        `json:"chunkMaxChars,omitempty"`
	ChunkOverlap   int        `json:"chunkOverlap,omitempty"`
	MaxRetries     int        `json:"maxRetries,omitempty"`
	MaxSnippets    int        `json:"maxSnippets,omitempty"`
	Style          string     `json:"style,omitempty"`
	LogFile        string     `json:"logFile,omitempty"`
	Debug          bool       `json:"debug"`
	Metrics        bool       `json:"metrics"`
	Parameters     Parameters `json:"parameters"`
	ConfigPath     string     `json:"-"`
}

// Parameters defines the decoding options sent with every generation request.
// Nil fields fall back to the fixed defaults tuned for medical output.
type Parameters struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	TopP          *float64 `json:"top_p,omitempty"`
	TopK          *int     `json:"top_k,omitempty"`
	RepeatPenalty *float64 `json:"repeat_penalty,omitempty"`
	NumCtx        *int     `json:"num_ctx,omitempty"`
}

// ModelName returns the configured model, preferring the LLM_MODEL
// environment variable so deployments can switch models without a config edit.
func (c Config) ModelName() string {
	if env := strings.TrimSpace(os.Getenv("LLM_MODEL")); env != "" {
		return env
	}
	if strings.TrimSpace(c.Model) != "" {
		return c.Model
	}
	return defaultModel
}

// ServiceURL returns the generation service base URL, preferring the
// LLM_BASE_URL environment variable.
func (c Config) ServiceURL() string {
	if env := strings.TrimSpace(os.Getenv("LLM_BASE_URL")); env != "" {
		return strings.TrimRight(env, "/")
	}
	if strings.TrimSpace(c.BaseURL) != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return defaultBaseURL
}

// RequestTimeout returns the per-request read deadline, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConnectTimeout returns the connection-establishment deadline.
func (c Config) ConnectTimeout() time.Duration {
	if c.ConnectSeconds <= 0 {
		return defaultConnectTimeout
	}
	return time.Duration(c.ConnectSeconds) * time.Second
}

// Chunking returns the segmentation window and overlap widths.
func (c Config) Chunking() (maxChars, overlap int) {
	maxChars = c.ChunkMaxChars
	if maxChars <= 0 {
		maxChars = 3000
	}
	overlap = c.ChunkOverlap
	if overlap < 0 || overlap >= maxChars {
		overlap = 300
	}
	return maxChars, overlap
}

// RetryAttempts returns the structured-prompt retry budget.
func (c Config) RetryAttempts() int {
	if c.MaxRetries <= 0 {
		return defaultMaxRetries
	}
	return c.MaxRetries
}

// SnippetBudget returns the per-document snippet retrieval budget.
func (c Config) SnippetBudget() int {
	if c.MaxSnippets <= 0 {
		return 3
	}
	return c.MaxSnippets
}

// SummaryStyle returns the default summary style.
func (c Config) SummaryStyle() string {
	if strings.TrimSpace(c.Style) == "" {
		return defaultStyle
	}
	return c.Style
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "medivise.log"
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
