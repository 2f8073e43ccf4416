package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Claude      ClaudeConfig  `toml:"claude"`
	Gemini      GeminiConfig  `toml:"gemini"`
	RAG         RAGConfig     `toml:"rag"`
	Ingest      IngestConfig  `toml:"ingest"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Resolved from ANTHROPIC_API_KEY when empty
	Model       string  `toml:"model"`       // Model for answer generation
	MaxTokens   int     `toml:"max_tokens"`  // Max tokens per completion
	Timeout     string  `toml:"timeout"`     // e.g. "2m" - per-call timeout
	Temperature float32 `toml:"temperature"` // Sampling temperature
}

// GeminiConfig contains Google Gemini API configuration (embeddings)
type GeminiConfig struct {
	APIKey         string `toml:"api_key"`         // Resolved from GEMINI_API_KEY when empty
	EmbedModelName string `toml:"embed_model"`     // Embedding model name
	EmbedDimension int    `toml:"embed_dimension"` // Embedding output dimensionality
	Timeout        string `toml:"timeout"`         // e.g. "30s" - per-call timeout
}

// RAGConfig controls retrieval and conversation behavior
type RAGConfig struct {
	MaxResults   int `toml:"max_results"`   // Max chunks returned per search
	MaxHistory   int `toml:"max_history"`   // Question/answer pairs kept per session
	MaxRounds    int `toml:"max_rounds"`    // Tool-calling rounds per question
	ChunkSize    int `toml:"chunk_size"`    // Target chunk size in characters
	ChunkOverlap int `toml:"chunk_overlap"` // Overlap between consecutive chunks
}

// IngestConfig controls course document ingestion
type IngestConfig struct {
	DocsDir    string   `toml:"docs_dir"`   // Directory containing course transcript files
	Extensions []string `toml:"extensions"` // File extensions to scan
	Schedule   string   `toml:"schedule"`   // Cron schedule for rescans; empty disables
}

// NewDefaultConfig returns a Config populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8780,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/lectio",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   800,
			Timeout:     "2m",
			Temperature: 0, // Deterministic answers for course material
		},
		Gemini: GeminiConfig{
			APIKey:         "", // User must provide API key (GEMINI_API_KEY or config)
			EmbedModelName: "gemini-embedding-001",
			EmbedDimension: 768,
			Timeout:        "30s",
		},
		RAG: RAGConfig{
			MaxResults:   5,
			MaxHistory:   2,
			MaxRounds:    2,
			ChunkSize:    800,
			ChunkOverlap: 100,
		},
		Ingest: IngestConfig{
			DocsDir:    "./docs",
			Extensions: []string{".txt"},
			Schedule:   "", // Rescan disabled unless configured
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LECTIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("LECTIO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LECTIO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("LECTIO_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("LECTIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("LECTIO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// API keys: environment takes precedence over config file values
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("LECTIO_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("LECTIO_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}

	// Ingestion configuration
	if dir := os.Getenv("LECTIO_DOCS_DIR"); dir != "" {
		config.Ingest.DocsDir = dir
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ParseTimeout parses a duration string with a fallback default
func ParseTimeout(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
