package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/fashionsearch/internal/domain/search/request"
)

// Config holds the fashionsearch API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Ranking    RankingConfig    `yaml:"ranking"`
	Search     SearchConfig     `yaml:"search"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis/Valkey connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// EmbeddingConfig holds the embedding providers and the two model roles.
type EmbeddingConfig struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
	Joint     ModelConfig               `yaml:"joint"` // image-text model
	Text      ModelConfig               `yaml:"text"`  // text-only model
}

// ProviderConfig holds an OpenAI-compatible endpoint.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// ModelConfig selects a model on a provider.
type ModelConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"` // 0 = accept what the model returns
}

// ExtractionConfig holds the LLM filter-extraction settings.
type ExtractionConfig struct {
	Provider         string  `yaml:"provider"`
	Model            string  `yaml:"model"`
	TimeoutMs        int     `yaml:"timeout_ms"`
	MinConfidence    float64 `yaml:"min_confidence"`
	VocabularyTTLSec int     `yaml:"vocabulary_ttl_sec"`
}

// RankingConfig holds fusion weights and the candidate pool size.
type RankingConfig struct {
	ClipWeight    *float64 `yaml:"clip_weight"`
	TextWeight    *float64 `yaml:"text_weight"`
	QueryText     *float64 `yaml:"query_text_weight"`
	QueryImage    *float64 `yaml:"query_image_weight"`
	CandidatePool int      `yaml:"candidate_pool"`
}

// SearchConfig holds request limits.
type SearchConfig struct {
	MaxImageBytes int64 `yaml:"max_image_bytes"`
}

// CacheConfig holds the Redis-backed cache settings.
type CacheConfig struct {
	Embeddings       *bool `yaml:"embeddings"`         // default true
	ExtractionTTLSec *int  `yaml:"extraction_ttl_sec"` // default 3600, 0 disables
}

// Timeout returns the extraction deadline.
func (c ExtractionConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// VocabularyTTL returns how long the catalog vocabulary is cached.
func (c ExtractionConfig) VocabularyTTL() time.Duration {
	return time.Duration(c.VocabularyTTLSec) * time.Second
}

// ExtractionTTL returns the extraction cache TTL; 0 means disabled.
func (c CacheConfig) ExtractionTTL() time.Duration {
	if c.ExtractionTTLSec == nil {
		return 0
	}
	return time.Duration(*c.ExtractionTTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "fashion:"
	}
	if c.Extraction.Provider == "" {
		c.Extraction.Provider = c.Embedding.Text.Provider
	}
	if c.Extraction.TimeoutMs <= 0 {
		c.Extraction.TimeoutMs = 3000
	}
	if c.Extraction.MinConfidence <= 0 {
		c.Extraction.MinConfidence = 0.5
	}
	if c.Extraction.VocabularyTTLSec <= 0 {
		c.Extraction.VocabularyTTLSec = 600
	}
	if c.Ranking.ClipWeight == nil && c.Ranking.TextWeight == nil {
		c.Ranking.ClipWeight, c.Ranking.TextWeight = ptr(0.5), ptr(0.5)
	}
	if c.Ranking.QueryText == nil && c.Ranking.QueryImage == nil {
		c.Ranking.QueryText, c.Ranking.QueryImage = ptr(0.5), ptr(0.5)
	}
	// One weight given: the other completes the pair.
	c.Ranking.ClipWeight, c.Ranking.TextWeight = complete(c.Ranking.ClipWeight, c.Ranking.TextWeight)
	c.Ranking.QueryText, c.Ranking.QueryImage = complete(c.Ranking.QueryText, c.Ranking.QueryImage)
	if c.Ranking.CandidatePool <= 0 {
		c.Ranking.CandidatePool = 100
	}
	if c.Search.MaxImageBytes <= 0 {
		c.Search.MaxImageBytes = request.MaxImageBytes
	}
	if c.Cache.Embeddings == nil {
		v := true
		c.Cache.Embeddings = &v
	}
	if c.Cache.ExtractionTTLSec == nil {
		v := 3600
		c.Cache.ExtractionTTLSec = &v
	}
}

func ptr(f float64) *float64 { return &f }

func complete(a, b *float64) (*float64, *float64) {
	switch {
	case a == nil && b != nil:
		return ptr(1 - *b), b
	case b == nil && a != nil:
		return a, ptr(1 - *a)
	default:
		return a, b
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	for _, m := range []struct {
		name string
		cfg  ModelConfig
	}{{"joint", c.Embedding.Joint}, {"text", c.Embedding.Text}} {
		if m.cfg.Model == "" {
			return fmt.Errorf("embedding.%s.model is required", m.name)
		}
		if _, ok := c.Embedding.Providers[m.cfg.Provider]; !ok {
			return fmt.Errorf("embedding.%s.provider %q is not defined in embedding.providers", m.name, m.cfg.Provider)
		}
		if m.cfg.Dimensions < 0 {
			return fmt.Errorf("embedding.%s.dimensions must not be negative", m.name)
		}
	}
	if c.Extraction.Model == "" {
		return fmt.Errorf("extraction.model is required")
	}
	if _, ok := c.Embedding.Providers[c.Extraction.Provider]; !ok {
		return fmt.Errorf("extraction.provider %q is not defined in embedding.providers", c.Extraction.Provider)
	}
	if c.Extraction.MinConfidence > 1 {
		return fmt.Errorf("extraction.min_confidence must be in (0, 1], got %g", c.Extraction.MinConfidence)
	}
	if err := validateWeights("clip_weight", *c.Ranking.ClipWeight, "text_weight", *c.Ranking.TextWeight); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	if err := validateWeights(
		"query_text_weight", *c.Ranking.QueryText, "query_image_weight", *c.Ranking.QueryImage,
	); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}
	if c.Search.MaxImageBytes > request.MaxImageBytes {
		return fmt.Errorf("search.max_image_bytes must not exceed %d, got %d",
			request.MaxImageBytes, c.Search.MaxImageBytes)
	}
	if *c.Cache.ExtractionTTLSec < 0 {
		return fmt.Errorf("cache.extraction_ttl_sec must not be negative")
	}
	return nil
}

func validateWeights(an string, a float64, bn string, b float64) error {
	if a < 0 || a > 1 || b < 0 || b > 1 {
		return fmt.Errorf("%s and %s must be in [0, 1], got %g and %g", an, bn, a, b)
	}
	if math.Abs(a+b-1) > 1e-6 {
		return fmt.Errorf("%s + %s must equal 1, got %g", an, bn, a+b)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
