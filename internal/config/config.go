package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// Config holds the prodex service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Completion CompletionConfig `yaml:"completion"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Search     SearchConfig     `yaml:"search"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. An empty key list disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds the optional key-value store used to persist budget counters.
// No addresses means counters live in memory only.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a store is configured.
func (d DatabaseConfig) Enabled() bool { return len(d.Addrs) > 0 }

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// CompletionConfig holds the language-model provider settings.
// An empty API key disables the AI path; every search then uses the keyword scorer.
type CompletionConfig struct {
	Provider    string       `yaml:"provider"` // label for metrics and budget keys
	APIKey      string       `yaml:"api_key"`
	BaseURL     string       `yaml:"base_url"`
	Model       string       `yaml:"model"`
	TimeoutSec  int          `yaml:"timeout_sec"`
	Temperature *float32     `yaml:"temperature"`
	TopP        *float32     `yaml:"top_p"`
	MaxTokens   int          `yaml:"max_tokens"`
	Budget      BudgetConfig `yaml:"budget"`
}

// Enabled reports whether a credential is configured.
func (c CompletionConfig) Enabled() bool { return strings.TrimSpace(c.APIKey) != "" }

// Timeout returns the completion deadline.
func (c CompletionConfig) Timeout() time.Duration { return time.Duration(c.TimeoutSec) * time.Second }

// SearchConfig holds request limits for the search endpoint.
type SearchConfig struct {
	MaxCatalogSize int   `yaml:"max_catalog_size"`
	MaxQueryLength int   `yaml:"max_query_length"`
	MaxBodyBytes   int64 `yaml:"max_body_bytes"`
}

// DefaultBaseURL points at OpenRouter's OpenAI-compatible API.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} / ${VAR:-default} expansion, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
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
	def := domain.DefaultCompletionConfig()

	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 15
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}

	if c.Completion.Provider == "" {
		c.Completion.Provider = "openrouter"
	}
	if c.Completion.BaseURL == "" {
		c.Completion.BaseURL = DefaultBaseURL
	}
	if c.Completion.Model == "" {
		c.Completion.Model = def.Model
	}
	if c.Completion.TimeoutSec <= 0 {
		c.Completion.TimeoutSec = int(def.Timeout / time.Second)
	}
	if c.Completion.Temperature == nil {
		c.Completion.Temperature = &def.Temperature
	}
	if c.Completion.TopP == nil {
		c.Completion.TopP = &def.TopP
	}
	if c.Completion.MaxTokens <= 0 {
		c.Completion.MaxTokens = def.MaxTokens
	}
	if c.Completion.Budget.Action == "" {
		c.Completion.Budget.Action = "warn"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}

	if c.Search.MaxCatalogSize <= 0 {
		c.Search.MaxCatalogSize = 1000
	}
	if c.Search.MaxQueryLength <= 0 {
		c.Search.MaxQueryLength = 500
	}
	if c.Search.MaxBodyBytes <= 0 {
		c.Search.MaxBodyBytes = 4 << 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.WriteTimeoutSec <= c.Completion.TimeoutSec {
		return fmt.Errorf(
			"http.write_timeout_sec (%d) must exceed completion.timeout_sec (%d)",
			c.HTTP.WriteTimeoutSec, c.Completion.TimeoutSec,
		)
	}
	switch c.Completion.Budget.Action {
	case "warn", "reject":
	default:
		return fmt.Errorf(`completion.budget.action must be "warn" or "reject", got %q`, c.Completion.Budget.Action)
	}
	if t := *c.Completion.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("completion.temperature must be between 0 and 2, got %v", t)
	}
	if p := *c.Completion.TopP; p <= 0 || p > 1 {
		return fmt.Errorf("completion.top_p must be in (0, 1], got %v", p)
	}
	switch c.Database.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf(`database.driver must be "redis" or "valkey", got %q`, c.Database.Driver)
	}
	for _, k := range c.Auth.APIKeys {
		if strings.TrimSpace(k) == "" {
			return errors.New("auth.api_keys must not contain empty keys")
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := env + ".yaml"

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
