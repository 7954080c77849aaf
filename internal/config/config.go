// Package config loads docmgr settings from a TOML or YAML file, a .env
// file and the environment, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDataDir           = "DOCMGR_DATA_DIR"
	EnvEmbeddingProvider = "DOCMGR_EMBEDDING_PROVIDER"
	EnvEmbeddingModel    = "DOCMGR_EMBEDDING_MODEL"
	EnvEmbeddingBaseURL  = "DOCMGR_EMBEDDING_BASE_URL"
	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvGroqKey           = "GROQ_API_KEY"
)

// Embedding providers.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGroq   = "groq"
)

// Duration is a time.Duration written as a string such as "30s".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DataConfig locates persistent state.
type DataConfig struct {
	// Dir holds the database. Empty means ~/.docmgr/data.
	Dir string `toml:"dir" yaml:"dir"`
}

// ChunkingConfig bounds chunk sizes, in tokens. Tokenizer is "word" or a
// tiktoken encoding name.
type ChunkingConfig struct {
	MaxTokens     int    `toml:"max_tokens" yaml:"max_tokens"`
	OverlapTokens int    `toml:"overlap_tokens" yaml:"overlap_tokens"`
	Tokenizer     string `toml:"tokenizer" yaml:"tokenizer"`
}

// EmbeddingConfig selects the embedding backend and the gateway policy.
type EmbeddingConfig struct {
	Provider          string   `toml:"provider" yaml:"provider"`
	Model             string   `toml:"model" yaml:"model"`
	BaseURL           string   `toml:"base_url" yaml:"base_url"`
	APIKey            string   `toml:"api_key,omitempty" yaml:"api_key,omitempty"`
	Dimensions        int      `toml:"dimensions" yaml:"dimensions"`
	BatchSize         int      `toml:"batch_size" yaml:"batch_size"`
	Timeout           Duration `toml:"timeout" yaml:"timeout"`
	MaxAttempts       int      `toml:"max_attempts" yaml:"max_attempts"`
	InitialBackoff    Duration `toml:"initial_backoff" yaml:"initial_backoff"`
	MaxBackoff        Duration `toml:"max_backoff" yaml:"max_backoff"`
	RequestsPerSecond float64  `toml:"requests_per_second" yaml:"requests_per_second"`

	// KeepAlive is passed to Ollama as keep_alive; other providers ignore it.
	KeepAlive string `toml:"keep_alive,omitempty" yaml:"keep_alive,omitempty"`
}

// SearchConfig holds search defaults and candidate limits.
type SearchConfig struct {
	DefaultResults   int     `toml:"default_results" yaml:"default_results"`
	DefaultThreshold float64 `toml:"default_threshold" yaml:"default_threshold"`
	OverfetchFactor  int     `toml:"overfetch_factor" yaml:"overfetch_factor"`
	CandidateCeiling int     `toml:"candidate_ceiling" yaml:"candidate_ceiling"`
}

// IngestConfig bounds batch ingestion.
type IngestConfig struct {
	Workers  int `toml:"workers" yaml:"workers"`
	MaxBatch int `toml:"max_batch" yaml:"max_batch"`
}

// VisionConfig configures image OCR and description.
type VisionConfig struct {
	OCRCommand  string `toml:"ocr_command" yaml:"ocr_command"`
	OCRLanguage string `toml:"ocr_language" yaml:"ocr_language"`

	// Describe adds a generated description to OCR text.
	Describe bool   `toml:"describe" yaml:"describe"`
	Provider string `toml:"provider" yaml:"provider"`
	Model    string `toml:"model" yaml:"model"`
	BaseURL  string `toml:"base_url" yaml:"base_url"`
	APIKey   string `toml:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Multimodal sends the image itself to the model.
	Multimodal bool `toml:"multimodal" yaml:"multimodal"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

// Config is the complete docmgr configuration.
type Config struct {
	Data      DataConfig      `toml:"data" yaml:"data"`
	Chunking  ChunkingConfig  `toml:"chunking" yaml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding" yaml:"embedding"`
	Search    SearchConfig    `toml:"search" yaml:"search"`
	Ingest    IngestConfig    `toml:"ingest" yaml:"ingest"`
	Vision    VisionConfig    `toml:"vision" yaml:"vision"`
	Server    ServerConfig    `toml:"server" yaml:"server"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			MaxTokens:     500,
			OverlapTokens: 50,
			Tokenizer:     "cl100k_base",
		},
		Embedding: EmbeddingConfig{
			Provider:       ProviderLocal,
			BatchSize:      32,
			Timeout:        Duration(30 * time.Second),
			MaxAttempts:    3,
			InitialBackoff: Duration(200 * time.Millisecond),
			MaxBackoff:     Duration(5 * time.Second),
		},
		Search: SearchConfig{
			DefaultResults:   5,
			DefaultThreshold: 0.5,
			OverfetchFactor:  3,
			CandidateCeiling: 60,
		},
		Ingest: IngestConfig{
			Workers:  4,
			MaxBatch: 10,
		},
		Vision: VisionConfig{
			OCRCommand: "tesseract",
			Provider:   ProviderGroq,
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
	}
}

// Dir returns the docmgr home directory, ~/.docmgr.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".docmgr"), nil
}

// DefaultPath returns ~/.docmgr/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration. An empty path reads DefaultPath, which
// may be absent. An explicit path must exist. Values from a .env file in
// the working directory and from the environment override the file.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	err := ReadFile(path, cfg)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ReadFile decodes path over cfg. The format follows the extension:
// .yaml and .yml are YAML, anything else is TOML.
func ReadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to path, creating its directory. API keys are not
// written.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := cfg.Marshal(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Marshal encodes cfg in the format of path's extension, without API keys.
func (c *Config) Marshal(path string) ([]byte, error) {
	out := *c
	out.Embedding.APIKey = ""
	out.Vision.APIKey = ""
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(&out)
	default:
		return toml.Marshal(&out)
	}
}

// loadDotEnv loads path into the environment if it exists. Variables
// already set are kept.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvDataDir, &c.Data.Dir)
	set(EnvEmbeddingProvider, &c.Embedding.Provider)
	set(EnvEmbeddingModel, &c.Embedding.Model)
	set(EnvEmbeddingBaseURL, &c.Embedding.BaseURL)

	if c.Embedding.Provider == ProviderOpenAI {
		set(EnvOpenAIKey, &c.Embedding.APIKey)
	}
	switch c.Vision.Provider {
	case ProviderGroq:
		set(EnvGroqKey, &c.Vision.APIKey)
	case ProviderOpenAI:
		set(EnvOpenAIKey, &c.Vision.APIKey)
	}
}

// DataDir returns the configured data directory or ~/.docmgr/data.
func (c *Config) DataDir() (string, error) {
	if c.Data.Dir != "" {
		return c.Data.Dir, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

// Validate checks value ranges and provider names.
func (c *Config) Validate() error {
	var errs []error
	if c.Chunking.MaxTokens < 1 {
		errs = append(errs, fmt.Errorf("chunking.max_tokens must be positive, got %d", c.Chunking.MaxTokens))
	}
	if c.Chunking.OverlapTokens < 0 || c.Chunking.OverlapTokens >= c.Chunking.MaxTokens {
		errs = append(errs, fmt.Errorf("chunking.overlap_tokens must be in [0, max_tokens), got %d",
			c.Chunking.OverlapTokens))
	}
	switch c.Chunking.Tokenizer {
	case "", "word", "cl100k_base", "o200k_base", "p50k_base", "r50k_base":
	default:
		errs = append(errs, fmt.Errorf("chunking.tokenizer %q is not word or a tiktoken encoding",
			c.Chunking.Tokenizer))
	}
	switch c.Embedding.Provider {
	case ProviderLocal, ProviderOpenAI, ProviderOllama:
	default:
		errs = append(errs, fmt.Errorf("embedding.provider %q is not one of local, openai, ollama",
			c.Embedding.Provider))
	}
	if c.Search.DefaultResults < 1 || c.Search.DefaultResults > 20 {
		errs = append(errs, fmt.Errorf("search.default_results must be in [1, 20], got %d", c.Search.DefaultResults))
	}
	if c.Search.DefaultThreshold < 0 || c.Search.DefaultThreshold > 1 {
		errs = append(errs, fmt.Errorf("search.default_threshold must be in [0, 1], got %v",
			c.Search.DefaultThreshold))
	}
	if c.Vision.Describe {
		switch c.Vision.Provider {
		case ProviderGroq, ProviderOpenAI, ProviderOllama:
		default:
			errs = append(errs, fmt.Errorf("vision.provider %q is not one of groq, openai, ollama",
				c.Vision.Provider))
		}
	}
	return errors.Join(errs...)
}
